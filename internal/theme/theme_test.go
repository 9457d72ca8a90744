package theme

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColorString(t *testing.T) {
	assert.Equal(t, tcell.NewRGBColor(0xff, 0x88, 0x00), ParseColorString("#ff8800"))
	assert.Equal(t, tcell.NewRGBColor(0xff, 0x88, 0x00), ParseColorString("#f80"))
	assert.Equal(t, tcell.NewRGBColor(1, 2, 3), ParseColorString("rgb(1, 2, 3)"))
	assert.Equal(t, tcell.ColorRed, ParseColorString("Red"))
	assert.Equal(t, tcell.ColorDefault, ParseColorString("rgb(1,2)"))
	assert.Equal(t, tcell.ColorDefault, ParseColorString("#12345"))
	assert.Equal(t, tcell.ColorDefault, ParseColorString("nonsense"))
}

func TestBlend(t *testing.T) {
	black := HexToColor("#000000")
	white := HexToColor("#ffffff")
	assert.Equal(t, black, Blend(black, white, 0))
	assert.Equal(t, white, Blend(black, white, 1))

	mid := Blend(black, white, 0.5)
	r, g, b := mid.RGB()
	assert.Greater(t, r, int32(0))
	assert.Less(t, r, int32(255))
	assert.InDelta(t, r, g, 1)
	assert.InDelta(t, g, b, 1)

	assert.Equal(t, white, Blend(tcell.ColorDefault, white, 0.3))
	assert.Equal(t, black, Blend(black, tcell.ColorDefault, 0.3))
}

func TestLoadThemeFromFile(t *testing.T) {
	dir := t.TempDir()
	data := `name = "paper"

[colors]
background = "#ffffff"
text = "#000000"
group_text = "#0000ff"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "paper.toml"), []byte(data), 0644))

	theme, err := LoadTheme("paper", []string{filepath.Join(dir, "missing"), dir})
	require.NoError(t, err)
	assert.Equal(t, "paper", theme.Name)
	assert.Equal(t, HexToColor("#ffffff"), theme.Colors.Background)
	assert.Equal(t, HexToColor("#000000"), theme.Colors.Text)
	assert.Equal(t, TokyoNight().Colors.MarkerText, theme.Colors.MarkerText)
	assert.Equal(t, Blend(HexToColor("#ffffff"), HexToColor("#0000ff"), 0.25), theme.Colors.SelectionBackground)

	_, err = LoadTheme("absent", []string{dir})
	assert.Error(t, err)
}

func TestLoadThemeOrDefault(t *testing.T) {
	assert.Equal(t, "default", LoadThemeOrDefault("default").Name)
	assert.Equal(t, "tokyo-night", LoadThemeOrDefault("does-not-exist-anywhere").Name)
}
