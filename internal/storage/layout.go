// Package storage persists item panel layouts
package storage

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/ripopov/surfer-sub000/internal/model"
	"github.com/ripopov/surfer-sub000/internal/tree"
)

// LayoutVersion is written into every saved layout
const LayoutVersion = 1

var (
	// ErrUnknownItem indicates a tree node that references no stored item
	ErrUnknownItem = errors.New("node references unknown item")

	// ErrUnsupportedFormat indicates a file extension without a codec
	ErrUnsupportedFormat = errors.New("unsupported layout format")

	// ErrUnsupportedVersion indicates a layout written by a newer version
	ErrUnsupportedVersion = errors.New("unsupported layout version")
)

// Layout is the persisted form of the item panel: the items and the
// pre-order node sequence of the tree, stored verbatim.
type Layout struct {
	Version          int                   `json:"version" toml:"version" yaml:"version"`
	OriginalFilename string                `json:"original_filename,omitempty" toml:"original_filename,omitempty" yaml:"original_filename,omitempty"`
	Items            []model.DisplayedItem `json:"items" toml:"items" yaml:"items"`
	Tree             []tree.Node           `json:"tree" toml:"tree" yaml:"tree"`
}

// NewLayout captures the current registry and tree
func NewLayout(reg *model.Registry, t *tree.Tree) *Layout {
	return &Layout{
		Version: LayoutVersion,
		Items:   reg.Items(),
		Tree:    t.Nodes(),
	}
}

// Validate checks the layout version, the level invariant of the node
// sequence and that every node refers to a stored item exactly once
func (l *Layout) Validate() error {
	if l.Version > LayoutVersion {
		return fmt.Errorf("%w: %d", ErrUnsupportedVersion, l.Version)
	}
	if err := tree.Validate(l.Tree); err != nil {
		return err
	}
	known := make(map[model.ItemRef]bool, len(l.Items))
	for _, item := range l.Items {
		known[item.Ref] = true
	}
	seen := make(map[model.ItemRef]bool, len(l.Tree))
	for i, n := range l.Tree {
		if !known[n.Item] {
			return fmt.Errorf("%w: node %d references item %d", ErrUnknownItem, i, n.Item)
		}
		if seen[n.Item] {
			return fmt.Errorf("node %d: item %d appears twice", i, n.Item)
		}
		seen[n.Item] = true
	}
	return nil
}

// Restore builds the registry and tree described by the layout
func (l *Layout) Restore() (*model.Registry, *tree.Tree, error) {
	if err := l.Validate(); err != nil {
		return nil, nil, err
	}
	t, err := tree.FromNodes(l.Tree)
	if err != nil {
		return nil, nil, err
	}
	reg := model.NewRegistry()
	reg.Restore(l.Items)
	return reg, t, nil
}

// Format is a layout file encoding
type Format string

const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FormatForPath picks the format from the file extension
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
}

// Encode serializes a layout
func Encode(l *Layout, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return json.MarshalIndent(l, "", "  ")
	case FormatTOML:
		return toml.Marshal(l)
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(l); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

// Decode parses a layout without validating it
func Decode(data []byte, format Format) (*Layout, error) {
	var l Layout
	var err error
	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, &l)
	case FormatTOML:
		err = toml.Unmarshal(data, &l)
	case FormatYAML:
		err = yaml.Unmarshal(data, &l)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s layout: %w", format, err)
	}
	return &l, nil
}
