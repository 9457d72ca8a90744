package history

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// PromptStore loads and saves the lines entered in the prompt as TOML files
type PromptStore struct {
	dir string
}

// promptFile is the layout of a prompt history file
type promptFile struct {
	Entries []string `toml:"entries"`
}

// NewPromptStore creates a store in dir, "" uses
// ~/.local/share/surfer-panel/history
func NewPromptStore(dir string) (*PromptStore, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(home, ".local", "share", "surfer-panel", "history")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}
	return &PromptStore{dir: dir}, nil
}

// Load reads the entries saved under name. A missing or unreadable file
// yields no entries.
func (s *PromptStore) Load(name string) ([]string, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var f promptFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, nil
	}
	return f.Entries, nil
}

// Save replaces the entries saved under name
func (s *PromptStore) Save(name string, entries []string) error {
	data, err := toml.Marshal(promptFile{Entries: entries})
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.dir, name), data, 0o644)
}
