// Package export writes the item panel to other formats
package export

import (
	"fmt"
	"os"
	"strings"

	"github.com/ripopov/surfer-sub000/internal/model"
	"github.com/ripopov/surfer-sub000/internal/tree"
)

// RenderMarkdown renders the tree as nested markdown bullets, two spaces per
// level. With visibleOnly, folded subtrees are left out. Non-variable items
// are prefixed with their kind so the import_parser package can read the
// result back.
func RenderMarkdown(t *tree.Tree, reg *model.Registry, visibleOnly bool) string {
	var sb strings.Builder
	write := func(n tree.Node) {
		item := reg.Get(n.Item)
		if item == nil {
			return
		}
		sb.WriteString(strings.Repeat("  ", int(n.Level)))
		sb.WriteString("- ")
		sb.WriteString(itemText(item))
		sb.WriteString("\n")
	}

	if visibleOnly {
		for n := range t.Visible() {
			write(n)
		}
	} else {
		for _, n := range t.All() {
			write(n)
		}
	}
	return sb.String()
}

func itemText(item *model.DisplayedItem) string {
	if item.Kind != model.KindVariable {
		return strings.TrimRight(item.Kind.String()+" "+item.Name, " ")
	}
	// Keep names that start with a kind word from being read back as that kind
	word, _, _ := strings.Cut(item.Name, " ")
	if _, ok := model.ParseKind(word); ok && word != item.Name {
		return "variable " + item.Name
	}
	return item.Name
}

// ExportToMarkdown writes RenderMarkdown output to filePath
func ExportToMarkdown(t *tree.Tree, reg *model.Registry, filePath string, visibleOnly bool) error {
	content := RenderMarkdown(t, reg, visibleOnly)
	if err := os.WriteFile(filePath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write markdown file: %w", err)
	}
	return nil
}
