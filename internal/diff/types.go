package diff

import "github.com/ripopov/surfer-sub000/internal/model"

// noParent is the parent of top-level items
const noParent = model.ItemRef(^uint64(0))

// ItemData is the state of one item inside a layout
type ItemData struct {
	Item model.DisplayedItem
	// Parent is the ref of the enclosing group, noParent at the top level
	Parent   model.ItemRef
	Position int
	Unfolded bool
}

// HasParent reports whether the item sits inside a group
func (d *ItemData) HasParent() bool {
	return d.Parent != noParent
}

// DiffResult contains the changes between two layouts, keyed by item ref
type DiffResult struct {
	NewItems      map[model.ItemRef]*ItemData
	DeletedItems  map[model.ItemRef]*ItemData
	ModifiedItems map[model.ItemRef]*ItemChange
}

// Empty reports whether the layouts hold the same items in the same places
func (r *DiffResult) Empty() bool {
	return len(r.NewItems) == 0 && len(r.DeletedItems) == 0 && len(r.ModifiedItems) == 0
}

// ItemChange describes what changed for an item
type ItemChange struct {
	Item             *ItemData
	OldItem          *ItemData
	NameChanged      bool
	KindChanged      bool
	ColorChanged     bool
	StructureChanged bool
	FoldChanged      bool
}

// DiffLineType indicates the type of diff line for rendering
type DiffLineType int

const (
	DiffTypeNewSection DiffLineType = iota
	DiffTypeDeletedSection
	DiffTypeModifiedSection
	DiffTypeNewItem
	DiffTypeDeletedItem
	DiffTypeModifiedItem
	DiffTypeItemDetail
	DiffTypeSummary
	DiffTypeBlank
)

// DiffLine represents a rendered line in diff output
type DiffLine struct {
	Type    DiffLineType
	Content string
	Indent  int
}
