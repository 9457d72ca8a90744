// Package theme provides the colors of the item panel
package theme

import (
	"github.com/gdamore/tcell/v2"
)

// Colors holds all the color definitions for the theme
type Colors struct {
	Background tcell.Color
	Text       tcell.Color
	// Per-kind row colors
	GroupText   tcell.Color
	DividerText tcell.Color
	MarkerText  tcell.Color
	StreamText  tcell.Color
	DimText     tcell.Color

	FoldMarker tcell.Color

	FocusBackground     tcell.Color
	SelectionBackground tcell.Color

	StatusMode     tcell.Color
	StatusMessage  tcell.Color
	StatusModified tcell.Color
	HeaderTitle    tcell.Color
}

// Theme represents a complete color theme
type Theme struct {
	Name   string
	Colors Colors
}

// Default returns a default theme using terminal defaults
func Default() *Theme {
	return &Theme{
		Name: "default",
		Colors: Colors{
			Background:          tcell.ColorDefault,
			Text:                tcell.ColorDefault,
			GroupText:           tcell.ColorDefault,
			DividerText:         tcell.ColorDefault,
			MarkerText:          tcell.ColorDefault,
			StreamText:          tcell.ColorDefault,
			DimText:             tcell.ColorDefault,
			FoldMarker:          tcell.ColorDefault,
			FocusBackground:     tcell.ColorDefault,
			SelectionBackground: tcell.ColorDefault,
			StatusMode:          tcell.ColorDefault,
			StatusMessage:       tcell.ColorDefault,
			StatusModified:      tcell.ColorDefault,
			HeaderTitle:         tcell.ColorDefault,
		},
	}
}

// TokyoNight returns the Tokyo Night theme
func TokyoNight() *Theme {
	bg := HexToColor("#1a1b26")
	return &Theme{
		Name: "tokyo-night",
		Colors: Colors{
			Background:          bg,
			Text:                HexToColor("#c0caf5"),
			GroupText:           HexToColor("#7aa2f7"),
			DividerText:         HexToColor("#565f89"),
			MarkerText:          HexToColor("#e0af68"),
			StreamText:          HexToColor("#7dcfff"),
			DimText:             HexToColor("#565f89"),
			FoldMarker:          HexToColor("#7dcfff"),
			FocusBackground:     HexToColor("#33467c"),
			SelectionBackground: Blend(bg, HexToColor("#bb9af7"), 0.25),
			StatusMode:          HexToColor("#bb9af7"),
			StatusMessage:       HexToColor("#9ece6a"),
			StatusModified:      HexToColor("#f7768e"),
			HeaderTitle:         HexToColor("#bb9af7"),
		},
	}
}
