// Package diff compares two item panel layouts
package diff

import (
	"fmt"

	"github.com/ripopov/surfer-sub000/internal/model"
	"github.com/ripopov/surfer-sub000/internal/storage"
)

// ComputeDiff compares two layouts. Items are matched by ref.
func ComputeDiff(old, new *storage.Layout) (*DiffResult, error) {
	data1, err := collect(old)
	if err != nil {
		return nil, fmt.Errorf("failed to read first layout: %w", err)
	}
	data2, err := collect(new)
	if err != nil {
		return nil, fmt.Errorf("failed to read second layout: %w", err)
	}
	return analyzeChanges(data1, data2), nil
}

// collect resolves the parent and sibling position of every node
func collect(l *storage.Layout) (map[model.ItemRef]*ItemData, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}
	items := make(map[model.ItemRef]model.DisplayedItem, len(l.Items))
	for _, item := range l.Items {
		items[item.Ref] = item
	}

	data := make(map[model.ItemRef]*ItemData, len(l.Tree))
	// ancestors[d] is the ref of the last node seen at level d
	var ancestors []model.ItemRef
	children := make(map[model.ItemRef]int)
	for _, n := range l.Tree {
		ancestors = append(ancestors[:n.Level], n.Item)
		parent := noParent
		if n.Level > 0 {
			parent = ancestors[n.Level-1]
		}
		data[n.Item] = &ItemData{
			Item:     items[n.Item],
			Parent:   parent,
			Position: children[parent],
			Unfolded: n.Unfolded,
		}
		children[parent]++
	}
	return data, nil
}

// analyzeChanges compares two sets of item data
func analyzeChanges(data1, data2 map[model.ItemRef]*ItemData) *DiffResult {
	result := &DiffResult{
		NewItems:      make(map[model.ItemRef]*ItemData),
		DeletedItems:  make(map[model.ItemRef]*ItemData),
		ModifiedItems: make(map[model.ItemRef]*ItemChange),
	}

	for ref, item2 := range data2 {
		if item1, exists := data1[ref]; !exists {
			result.NewItems[ref] = item2
		} else if change := compareItems(item1, item2); change != nil {
			result.ModifiedItems[ref] = change
		}
	}
	for ref, item1 := range data1 {
		if _, exists := data2[ref]; !exists {
			result.DeletedItems[ref] = item1
		}
	}
	return result
}

// compareItems returns the changes of an item, nil when there are none
func compareItems(old, new *ItemData) *ItemChange {
	change := &ItemChange{
		Item:             new,
		OldItem:          old,
		NameChanged:      old.Item.Name != new.Item.Name,
		KindChanged:      old.Item.Kind != new.Item.Kind,
		ColorChanged:     old.Item.Color != new.Item.Color || old.Item.BackgroundColor != new.Item.BackgroundColor,
		StructureChanged: old.Parent != new.Parent || old.Position != new.Position,
		FoldChanged:      old.Unfolded != new.Unfolded,
	}
	if !change.NameChanged && !change.KindChanged && !change.ColorChanged && !change.StructureChanged && !change.FoldChanged {
		return nil
	}
	return change
}
