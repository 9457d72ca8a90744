package config

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

const appDirName = "surfer-panel"

// Panel holds the item panel settings from the [panel] section
type Panel struct {
	// IndentWidth is the number of columns per nesting level
	IndentWidth int `toml:"indent_width"`
	// UndoDepth bounds the undo history
	UndoDepth int  `toml:"undo_depth"`
	Autosave  bool `toml:"autosave"`
	// DefaultGroupName names groups created from a selection
	DefaultGroupName string `toml:"default_group_name"`
}

// Config holds application configuration
type Config struct {
	Theme    string            `toml:"theme"`
	Panel    Panel             `toml:"panel"`
	Settings map[string]string `toml:"settings"`

	// Session settings (not persisted to TOML, overrides persisted settings)
	sessionSettings map[string]string
	path            string
}

func defaultPanel() Panel {
	return Panel{
		IndentWidth:      2,
		UndoDepth:        100,
		DefaultGroupName: "Group",
	}
}

// Load loads the config file from the standard location
func Load() (*Config, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return defaultConfig(), nil
	}

	return LoadFromFile(configPath)
}

// LoadFromFile loads config from a specific file
func LoadFromFile(filePath string) (*Config, error) {
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		cfg := defaultConfig()
		cfg.path = filePath
		return cfg, nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Config{Panel: defaultPanel()}
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if config.Theme == "" {
		config.Theme = "tokyo-night"
	}
	config.Panel.normalize()

	if config.Settings == nil {
		config.Settings = make(map[string]string)
	}
	config.sessionSettings = make(map[string]string)
	config.path = filePath

	return &config, nil
}

// normalize replaces unusable values with their defaults
func (p *Panel) normalize() {
	def := defaultPanel()
	if p.IndentWidth <= 0 {
		p.IndentWidth = def.IndentWidth
	}
	if p.UndoDepth <= 0 {
		p.UndoDepth = def.UndoDepth
	}
	if p.DefaultGroupName == "" {
		p.DefaultGroupName = def.DefaultGroupName
	}
}

func getConfigPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

func defaultConfig() *Config {
	return &Config{
		Theme:           "tokyo-night",
		Panel:           defaultPanel(),
		Settings:        make(map[string]string),
		sessionSettings: make(map[string]string),
	}
}

// GetConfigDir returns the config directory
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appDirName), nil
}

// Set sets a session configuration value. Keys of the [panel] section
// (indent_width, undo_depth, autosave, default_group_name) also update Panel
// for the rest of the session.
func (c *Config) Set(key, value string) error {
	switch key {
	case "indent_width", "undo_depth":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("%s: expected a positive number, got %q", key, value)
		}
		if key == "indent_width" {
			c.Panel.IndentWidth = n
		} else {
			c.Panel.UndoDepth = n
		}
	case "autosave":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("autosave: %w", err)
		}
		c.Panel.Autosave = b
	case "default_group_name":
		if value == "" {
			return fmt.Errorf("default_group_name: must not be empty")
		}
		c.Panel.DefaultGroupName = value
	}

	if c.sessionSettings == nil {
		c.sessionSettings = make(map[string]string)
	}
	c.sessionSettings[key] = value
	return nil
}

// Get retrieves a configuration value, checking session settings first.
// Returns empty string if not found in either source.
func (c *Config) Get(key string) string {
	if val, ok := c.sessionSettings[key]; ok {
		return val
	}
	if val, ok := c.Settings[key]; ok {
		return val
	}
	return ""
}

// GetAll returns all configuration values (both persisted and session)
func (c *Config) GetAll() map[string]string {
	result := make(map[string]string, len(c.Settings)+len(c.sessionSettings))
	maps.Copy(result, c.Settings)
	maps.Copy(result, c.sessionSettings)
	return result
}

// Save persists the configuration to the file it was loaded from, or the
// standard location. Session settings are not written.
func (c *Config) Save() error {
	configPath := c.path
	if configPath == "" {
		var err error
		if configPath, err = getConfigPath(); err != nil {
			return fmt.Errorf("failed to get config path: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
