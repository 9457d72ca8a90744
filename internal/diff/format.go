package diff

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/ripopov/surfer-sub000/internal/model"
)

// BuildDiffLines converts a DiffResult into display lines. Fold changes are
// only listed when verbose is set.
func BuildDiffLines(result *DiffResult, verbose bool) []DiffLine {
	var lines []DiffLine

	if len(result.NewItems) > 0 {
		lines = append(lines, DiffLine{Type: DiffTypeNewSection, Content: "New Items:"})
		for _, ref := range slices.Sorted(maps.Keys(result.NewItems)) {
			lines = append(lines, formatItem(DiffTypeNewItem, "+", result.NewItems[ref])...)
		}
		lines = append(lines, DiffLine{Type: DiffTypeBlank})
	}

	if len(result.DeletedItems) > 0 {
		lines = append(lines, DiffLine{Type: DiffTypeDeletedSection, Content: "Deleted Items:"})
		for _, ref := range slices.Sorted(maps.Keys(result.DeletedItems)) {
			lines = append(lines, formatItem(DiffTypeDeletedItem, "-", result.DeletedItems[ref])...)
		}
		lines = append(lines, DiffLine{Type: DiffTypeBlank})
	}

	var modified []DiffLine
	for _, ref := range slices.Sorted(maps.Keys(result.ModifiedItems)) {
		modified = append(modified, formatModifiedItem(result.ModifiedItems[ref], verbose)...)
	}
	if len(modified) > 0 {
		lines = append(lines, DiffLine{Type: DiffTypeModifiedSection, Content: "Modified Items:"})
		lines = append(lines, modified...)
		lines = append(lines, DiffLine{Type: DiffTypeBlank})
	}

	if !result.Empty() {
		lines = append(lines, DiffLine{Type: DiffTypeSummary, Content: Summary(result)})
	}
	return lines
}

// Summary is the one-line count of changes
func Summary(result *DiffResult) string {
	return fmt.Sprintf("%d modified, %d added, %d deleted",
		len(result.ModifiedItems), len(result.NewItems), len(result.DeletedItems))
}

func describe(d *ItemData) string {
	return fmt.Sprintf("%d: %s %q", d.Item.Ref, d.Item.Kind, d.Item.Name)
}

func place(d *ItemData) string {
	if !d.HasParent() {
		return fmt.Sprintf("top level at position %d", d.Position)
	}
	return fmt.Sprintf("in %d at position %d", d.Parent, d.Position)
}

func formatItem(t DiffLineType, sign string, d *ItemData) []DiffLine {
	return []DiffLine{
		{Type: t, Content: sign + " " + describe(d), Indent: 1},
		{Type: DiffTypeItemDetail, Content: place(d), Indent: 2},
	}
}

func formatModifiedItem(c *ItemChange, verbose bool) []DiffLine {
	var details []DiffLine
	detail := func(format string, args ...any) {
		details = append(details, DiffLine{Type: DiffTypeItemDetail, Content: fmt.Sprintf(format, args...), Indent: 2})
	}
	if c.NameChanged {
		detail("NAME: %q -> %q", c.OldItem.Item.Name, c.Item.Item.Name)
	}
	if c.KindChanged {
		detail("KIND: %s -> %s", c.OldItem.Item.Kind, c.Item.Item.Kind)
	}
	if c.ColorChanged {
		detail("COLOR: %s -> %s", colors(c.OldItem.Item), colors(c.Item.Item))
	}
	if c.StructureChanged {
		detail("MOVED: %s -> %s", place(c.OldItem), place(c.Item))
	}
	if c.FoldChanged && verbose {
		if c.Item.Unfolded {
			detail("UNFOLDED")
		} else {
			detail("FOLDED")
		}
	}
	if len(details) == 0 {
		return nil
	}
	return append([]DiffLine{{Type: DiffTypeModifiedItem, Content: "~ " + describe(c.Item), Indent: 1}}, details...)
}

func colors(item model.DisplayedItem) string {
	fg, bg := item.Color, item.BackgroundColor
	if fg == "" {
		fg = "default"
	}
	if bg == "" {
		return fg
	}
	return fg + "/" + bg
}

// FormatLines renders lines as indented plain text
func FormatLines(lines []DiffLine) string {
	var sb strings.Builder
	for _, line := range lines {
		sb.WriteString(strings.Repeat("  ", line.Indent))
		sb.WriteString(line.Content)
		sb.WriteByte('\n')
	}
	return sb.String()
}
