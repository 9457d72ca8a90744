package theme

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gdamore/tcell/v2"
	"github.com/pelletier/go-toml/v2"
)

// ThemeConfig represents the raw TOML theme configuration
type ThemeConfig struct {
	Name   string `toml:"name"`
	Colors struct {
		Background          string `toml:"background"`
		Text                string `toml:"text"`
		GroupText           string `toml:"group_text"`
		DividerText         string `toml:"divider_text"`
		MarkerText          string `toml:"marker_text"`
		StreamText          string `toml:"stream_text"`
		DimText             string `toml:"dim_text"`
		FoldMarker          string `toml:"fold_marker"`
		FocusBackground     string `toml:"focus_background"`
		SelectionBackground string `toml:"selection_background"`
		StatusMode          string `toml:"status_mode"`
		StatusMessage       string `toml:"status_message"`
		StatusModified      string `toml:"status_modified"`
		HeaderTitle         string `toml:"header_title"`
	} `toml:"colors"`
}

// ThemePaths returns the search paths for theme files
func ThemePaths() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	return []string{
		filepath.Join(home, ".config", "surfer-panel", "themes"),
		filepath.Join(home, ".local", "share", "surfer-panel", "themes"),
	}
}

func findThemeFile(themeName string, dirs []string) (string, error) {
	filename := themeName + ".toml"
	for _, dir := range dirs {
		path := filepath.Join(dir, filename)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("theme file not found: %s", filename)
}

// LoadThemeFromFile loads a theme from a TOML file
func LoadThemeFromFile(filePath string) (*Theme, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read theme file: %w", err)
	}

	var config ThemeConfig
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse theme file: %w", err)
	}

	return configToTheme(config), nil
}

// LoadTheme loads a theme by name from the given directories
func LoadTheme(themeName string, dirs []string) (*Theme, error) {
	filePath, err := findThemeFile(themeName, dirs)
	if err != nil {
		return nil, err
	}
	return LoadThemeFromFile(filePath)
}

// configToTheme converts a ThemeConfig to a Theme. Missing colors fall back
// to Tokyo Night, except the selection background which is derived from the
// configured background and group color.
func configToTheme(config ThemeConfig) *Theme {
	theme := TokyoNight()
	c := &theme.Colors

	set := func(dst *tcell.Color, value string) {
		if value != "" {
			*dst = ParseColorString(value)
		}
	}
	set(&c.Background, config.Colors.Background)
	set(&c.Text, config.Colors.Text)
	set(&c.GroupText, config.Colors.GroupText)
	set(&c.DividerText, config.Colors.DividerText)
	set(&c.MarkerText, config.Colors.MarkerText)
	set(&c.StreamText, config.Colors.StreamText)
	set(&c.DimText, config.Colors.DimText)
	set(&c.FoldMarker, config.Colors.FoldMarker)
	set(&c.FocusBackground, config.Colors.FocusBackground)
	set(&c.StatusMode, config.Colors.StatusMode)
	set(&c.StatusMessage, config.Colors.StatusMessage)
	set(&c.StatusModified, config.Colors.StatusModified)
	set(&c.HeaderTitle, config.Colors.HeaderTitle)

	if config.Colors.SelectionBackground != "" {
		c.SelectionBackground = ParseColorString(config.Colors.SelectionBackground)
	} else {
		c.SelectionBackground = Blend(c.Background, c.GroupText, 0.25)
	}

	if config.Name != "" {
		theme.Name = config.Name
	}
	return theme
}

// LoadThemeOrDefault loads a theme by name, or returns Tokyo Night if not found
func LoadThemeOrDefault(themeName string) *Theme {
	switch themeName {
	case "default":
		return Default()
	case "", "tokyo-night":
		return TokyoNight()
	}

	theme, err := LoadTheme(themeName, ThemePaths())
	if err != nil {
		return TokyoNight()
	}
	return theme
}
