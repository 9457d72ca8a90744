package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// Store handles layout file persistence. The codec follows the file
// extension.
type Store struct {
	FilePath string
}

// NewStore creates a new store for the given file path
func NewStore(filePath string) *Store {
	return &Store{
		FilePath: filePath,
	}
}

// Load loads and validates a layout. A missing file yields an empty layout.
func (s *Store) Load() (*Layout, error) {
	format, err := FormatForPath(s.FilePath)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.FilePath)
	if err != nil {
		if os.IsNotExist(err) {
			return &Layout{Version: LayoutVersion}, nil
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	layout, err := Decode(data, format)
	if err != nil {
		return nil, err
	}
	if err := layout.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", s.FilePath, err)
	}
	return layout, nil
}

// Save writes the layout, replacing the file only once it is fully written
func (s *Store) Save(layout *Layout) error {
	format, err := FormatForPath(s.FilePath)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.FilePath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if layout.Version == 0 {
		layout.Version = LayoutVersion
	}
	data, err := Encode(layout, format)
	if err != nil {
		return fmt.Errorf("failed to encode %s layout: %w", format, err)
	}

	tmp := s.FilePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := os.Rename(tmp, s.FilePath); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace file: %w", err)
	}
	return nil
}

// FileExists checks if the layout file exists
func (s *Store) FileExists() bool {
	_, err := os.Stat(s.FilePath)
	return err == nil
}
