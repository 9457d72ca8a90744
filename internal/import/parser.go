// Package import_parser builds item panel contents from text files
package import_parser

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ripopov/surfer-sub000/internal/model"
	"github.com/ripopov/surfer-sub000/internal/tree"
)

// ImportFormat represents different file formats that can be imported
type ImportFormat string

const (
	FormatMarkdown     ImportFormat = "markdown"
	FormatIndentedText ImportFormat = "indented"
)

// Entry is one parsed line: an item and its requested nesting level
type Entry struct {
	Level int
	Kind  model.ItemKind
	Name  string
}

// Parser interface for different import formats
type Parser interface {
	Parse(content string) ([]Entry, error)
	Name() string
}

// ParseFile parses content in the given format
func ParseFile(content string, format ImportFormat) ([]Entry, error) {
	var parser Parser
	switch format {
	case FormatMarkdown:
		parser = &MarkdownParser{}
	case FormatIndentedText:
		parser = &IndentedTextParser{}
	default:
		return nil, fmt.Errorf("unsupported import format: %s", format)
	}

	entries, err := parser.Parse(content)
	if err != nil {
		return nil, fmt.Errorf("parse error (%s): %w", parser.Name(), err)
	}
	return entries, nil
}

// DetectFormat picks the format from the file extension
func DetectFormat(filename string) ImportFormat {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".md", ".markdown":
		return FormatMarkdown
	}
	return FormatIndentedText
}

// ParseItemText splits "<kind> <name>" into its parts. Without a known kind
// word the whole text names a variable.
func ParseItemText(text string) (model.ItemKind, string) {
	text = strings.TrimSpace(text)
	word, rest, found := strings.Cut(text, " ")
	if kind, ok := model.ParseKind(word); ok {
		if !found && kind != model.KindDivider {
			// A lone kind word is most likely a signal name
			return model.KindVariable, text
		}
		return kind, strings.TrimSpace(rest)
	}
	return model.KindVariable, text
}

// Append adds the entries after the last node of t, registering the items in
// reg. Levels are clamped so that only groups get children. It returns the
// number of added items.
func Append(entries []Entry, reg *model.Registry, t *tree.Tree) int {
	prevLevel := -1
	prevGroup := false
	if n := t.Len(); n > 0 {
		last, _ := t.Get(tree.ItemIndex(n - 1))
		prevLevel = int(last.Level)
		prevGroup = reg.CanHaveChildren(last.Item)
	}

	for _, e := range entries {
		maxLevel := max(prevLevel, 0)
		if prevGroup {
			maxLevel = prevLevel + 1
		}
		level := min(max(e.Level, 0), maxLevel, 255)

		ref := reg.Add(e.Kind, e.Name)
		t.InsertItem(ref, tree.TargetPosition{Before: tree.ItemIndex(t.Len()), Level: uint8(level)})

		prevLevel = level
		prevGroup = e.Kind == model.KindGroup
	}
	return len(entries)
}
