package theme

import (
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// parseHex parses #RRGGBB or #RGB
func parseHex(hexColor string) (colorful.Color, bool) {
	hexColor = strings.TrimPrefix(strings.TrimSpace(hexColor), "#")
	if len(hexColor) == 3 {
		hexColor = string(hexColor[0]) + string(hexColor[0]) +
			string(hexColor[1]) + string(hexColor[1]) +
			string(hexColor[2]) + string(hexColor[2])
	}
	if len(hexColor) != 6 {
		return colorful.Color{}, false
	}
	c, err := colorful.Hex("#" + hexColor)
	if err != nil {
		return colorful.Color{}, false
	}
	return c, true
}

// HexToColor converts a hex color string (#RRGGBB or #RGB) to tcell.Color
func HexToColor(hexColor string) tcell.Color {
	c, ok := parseHex(hexColor)
	if !ok {
		return tcell.ColorDefault
	}
	return toTcell(c)
}

func toTcell(c colorful.Color) tcell.Color {
	r, g, b := c.Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

func fromTcell(c tcell.Color) (colorful.Color, bool) {
	if c == tcell.ColorDefault || !c.Valid() {
		return colorful.Color{}, false
	}
	r, g, b := c.RGB()
	if r < 0 {
		return colorful.Color{}, false
	}
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}, true
}

// RGBToColor converts RGB values to tcell.Color
func RGBToColor(r, g, b int) tcell.Color {
	if r < 0 || r > 255 || g < 0 || g > 255 || b < 0 || b > 255 {
		return tcell.ColorDefault
	}
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

// ParseColorString handles #RRGGBB, #RGB, rgb(r,g,b) and tcell color names
func ParseColorString(colorStr string) tcell.Color {
	colorStr = strings.TrimSpace(colorStr)

	if strings.HasPrefix(colorStr, "#") {
		return HexToColor(colorStr)
	}

	if inner, ok := strings.CutPrefix(colorStr, "rgb("); ok && strings.HasSuffix(inner, ")") {
		parts := strings.Split(strings.TrimSuffix(inner, ")"), ",")
		if len(parts) != 3 {
			return tcell.ColorDefault
		}
		r, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
		g, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
		b, err3 := strconv.Atoi(strings.TrimSpace(parts[2]))
		if err1 == nil && err2 == nil && err3 == nil {
			return RGBToColor(r, g, b)
		}
		return tcell.ColorDefault
	}

	if c, ok := tcell.ColorNames[strings.ToLower(colorStr)]; ok {
		return c
	}
	return tcell.ColorDefault
}

// Blend mixes a towards b in Lab space, t in [0, 1]. Terminal default
// colors can't be blended; the other color is returned then.
func Blend(a, b tcell.Color, t float64) tcell.Color {
	ca, okA := fromTcell(a)
	cb, okB := fromTcell(b)
	switch {
	case okA && okB:
		return toTcell(ca.BlendLab(cb, t))
	case okA:
		return a
	default:
		return b
	}
}
