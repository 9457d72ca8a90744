// Package tree holds the ordered, nestable list of items shown in the item
// panel.
//
// The tree is stored as a flat slice of nodes in pre-order. Each node carries
// its nesting level; the subtree of a node is the run of following nodes with
// a strictly greater level. The encoding is valid as long as levels rise by at
// most one from one node to the next (they may drop by any amount).
//
// Two index types address nodes:
//   - ItemIndex is the raw position in the slice. It stays valid across
//     fold/select changes but not across insert/remove/move.
//   - VisibleItemIndex counts only nodes whose ancestors are all unfolded. Any
//     structural or fold change invalidates it.
//
// The tree knows nothing about item kinds. Operations that need to know
// whether a node may have children take that policy as a parameter.
package tree

import (
	"fmt"
	"iter"

	"github.com/ripopov/surfer-sub000/internal/model"
)

// Node is one entry of the tree
type Node struct {
	Item model.ItemRef `json:"item" toml:"item" yaml:"item"`
	// Level is the nesting level, 0 for top-level items
	Level uint8 `json:"level" toml:"level" yaml:"level"`
	// Unfolded reports whether the subtree of this node (if any) is shown
	Unfolded bool `json:"unfolded" toml:"unfolded" yaml:"unfolded"`
	Selected bool `json:"selected" toml:"selected" yaml:"selected"`
}

// ItemIndex is the raw position of a node, possibly invisible
type ItemIndex int

// VisibleItemIndex is the position of a node among visible nodes
type VisibleItemIndex int

// TargetPosition is an insertion point: the new node goes before the node
// currently at Before (or at the end when Before == Len()) with level Level.
type TargetPosition struct {
	Before ItemIndex
	Level  uint8
}

// Tree is the displayed item tree
type Tree struct {
	items []Node
}

// New creates an empty tree
func New() *Tree {
	return &Tree{}
}

// FromNodes builds a tree from a stored node sequence. The sequence is copied
// and must satisfy the level invariant.
func FromNodes(nodes []Node) (*Tree, error) {
	if err := Validate(nodes); err != nil {
		return nil, err
	}
	items := make([]Node, len(nodes))
	copy(items, nodes)
	return &Tree{items: items}, nil
}

// Validate checks that nodes form a valid tree encoding
func Validate(nodes []Node) error {
	if len(nodes) > 0 && nodes[0].Level != 0 {
		return fmt.Errorf("%w: first node has level %d", ErrInvalidLevel, nodes[0].Level)
	}
	for i := 1; i < len(nodes); i++ {
		if int(nodes[i].Level) > int(nodes[i-1].Level)+1 {
			return fmt.Errorf("%w: node %d has level %d after level %d",
				ErrInvalidLevel, i, nodes[i].Level, nodes[i-1].Level)
		}
	}
	return nil
}

// Clone returns an independent copy of the tree
func (t *Tree) Clone() *Tree {
	items := make([]Node, len(t.items))
	copy(items, t.items)
	return &Tree{items: items}
}

// Nodes returns a copy of the node sequence in tree order
func (t *Tree) Nodes() []Node {
	nodes := make([]Node, len(t.items))
	copy(nodes, t.items)
	return nodes
}

// Len returns the number of nodes, visible or not
func (t *Tree) Len() int {
	return len(t.items)
}

// IsEmpty reports whether the tree has no nodes
func (t *Tree) IsEmpty() bool {
	return len(t.items) == 0
}

// PushItem appends a top-level node
func (t *Tree) PushItem(item model.ItemRef) {
	t.items = append(t.items, Node{
		Item:     item,
		Level:    0,
		Unfolded: true,
	})
}

// All iterates over every node with its raw index
func (t *Tree) All() iter.Seq2[ItemIndex, Node] {
	return func(yield func(ItemIndex, Node) bool) {
		for i, n := range t.items {
			if !yield(ItemIndex(i), n) {
				return
			}
		}
	}
}

// Selected iterates over all selected nodes, visible or not
func (t *Tree) Selected() iter.Seq[Node] {
	return func(yield func(Node) bool) {
		for _, n := range t.items {
			if n.Selected && !yield(n) {
				return
			}
		}
	}
}

// VisibleSelected iterates over the selected visible nodes
func (t *Tree) VisibleSelected() iter.Seq[Node] {
	return func(yield func(Node) bool) {
		for n := range t.Visible() {
			if n.Selected && !yield(n) {
				return
			}
		}
	}
}

// Get returns the node at idx
func (t *Tree) Get(idx ItemIndex) (Node, bool) {
	if idx < 0 || int(idx) >= len(t.items) {
		return Node{}, false
	}
	return t.items[idx], true
}

// GetMut returns a pointer to the node at idx. The pointer is invalidated by
// any structural change.
func (t *Tree) GetMut(idx ItemIndex) (*Node, bool) {
	if idx < 0 || int(idx) >= len(t.items) {
		return nil, false
	}
	return &t.items[idx], true
}

// IndexOf returns the raw index of the first node referencing item
func (t *Tree) IndexOf(item model.ItemRef) (ItemIndex, bool) {
	for i, n := range t.items {
		if n.Item == item {
			return ItemIndex(i), true
		}
	}
	return 0, false
}

// InsertItem inserts a new unfolded, unselected node at target.Before with
// level target.Level. The position is not checked against the neighbouring
// levels; callers must pass a position that keeps the tree valid.
func (t *Tree) InsertItem(item model.ItemRef, target TargetPosition) ItemIndex {
	before := int(target.Before)
	if before < 0 || before > len(t.items) {
		panic(fmt.Sprintf("tree: insert position %d out of range [0, %d]", before, len(t.items)))
	}
	t.items = append(t.items, Node{})
	copy(t.items[before+1:], t.items[before:])
	t.items[before] = Node{
		Item:     item,
		Level:    target.Level,
		Unfolded: true,
	}
	return ItemIndex(before)
}

// SubtreeEnd returns the index one past the last descendant of idx
func (t *Tree) SubtreeEnd(idx ItemIndex) ItemIndex {
	return ItemIndex(t.subtreeEnd(t.mustIndex(idx)))
}

func (t *Tree) subtreeEnd(start int) int {
	level := t.items[start].Level
	for i := start + 1; i < len(t.items); i++ {
		if t.items[i].Level <= level {
			return i
		}
	}
	return len(t.items)
}

// RemoveRecursive removes the node at idx with its whole subtree and returns
// the removed items in tree order
func (t *Tree) RemoveRecursive(idx ItemIndex) []model.ItemRef {
	start := t.mustIndex(idx)
	end := t.subtreeEnd(start)
	return t.drain(start, end)
}

// RemoveDissolve removes only the node at idx. Its descendants move up one
// level and take its place.
func (t *Tree) RemoveDissolve(idx ItemIndex) model.ItemRef {
	start := t.mustIndex(idx)
	end := t.subtreeEnd(start)
	for i := start + 1; i < end; i++ {
		t.items[i].Level--
	}
	item := t.items[start].Item
	t.items = append(t.items[:start], t.items[start+1:]...)
	return item
}

// ExtractRecursiveIf removes every subtree whose root matches pred. The
// predicate is only evaluated on nodes that are not already inside a removed
// subtree. Removed items are returned in tree order.
func (t *Tree) ExtractRecursiveIf(pred func(Node) bool) []model.ItemRef {
	var removed []model.ItemRef
	idx := 0
	for idx < len(t.items) {
		if pred(t.items[idx]) {
			end := t.subtreeEnd(idx)
			removed = append(removed, t.drain(idx, end)...)
		} else {
			idx++
		}
	}
	return removed
}

// RetainRecursive keeps only the nodes for which keep returns true. It has no
// subtree semantics: descendants of a removed node stay at their level. Use
// ExtractRecursiveIf to drop whole subtrees.
func (t *Tree) RetainRecursive(keep func(Node) bool) {
	kept := t.items[:0]
	for _, n := range t.items {
		if keep(n) {
			kept = append(kept, n)
		}
	}
	clear(t.items[len(kept):])
	t.items = kept
}

// IsVisible reports whether every ancestor of idx is unfolded
func (t *Tree) IsVisible(idx ItemIndex) bool {
	for _, p := range t.PathToRoot(idx) {
		if !t.items[p].Unfolded {
			return false
		}
	}
	return true
}

// SubtreeContains reports whether candidate lies in the subtree of root,
// root itself included
func (t *Tree) SubtreeContains(root, candidate ItemIndex) bool {
	start := t.mustIndex(root)
	return candidate >= root && int(candidate) < t.subtreeEnd(start)
}

// PathToRoot returns the ancestors of idx, nearest first
func (t *Tree) PathToRoot(idx ItemIndex) []ItemIndex {
	i := t.mustIndex(idx)
	var path []ItemIndex
	for _, p := range t.pathToRoot(i, t.items[i].Level) {
		path = append(path, ItemIndex(p))
	}
	return path
}

// pathToRoot returns the ancestors, nearest first, that a node with the given
// level would have if it sat at index.
func (t *Tree) pathToRoot(index int, level uint8) []int {
	var result []int
	for i := index - 1; i >= 0 && level > 0; i-- {
		if t.items[i].Level < level {
			result = append(result, i)
			level = t.items[i].Level
		}
	}
	return result
}

// ForEachMut calls f for every node
func (t *Tree) ForEachMut(f func(*Node)) {
	for i := range t.items {
		f(&t.items[i])
	}
}

// ForEachSubtreeMut calls f for idx and each of its descendants
func (t *Tree) ForEachSubtreeMut(idx ItemIndex, f func(*Node)) {
	start := t.mustIndex(idx)
	end := t.subtreeEnd(start)
	for i := start; i < end; i++ {
		f(&t.items[i])
	}
}

func (t *Tree) drain(start, end int) []model.ItemRef {
	removed := make([]model.ItemRef, 0, end-start)
	for _, n := range t.items[start:end] {
		removed = append(removed, n.Item)
	}
	t.items = append(t.items[:start], t.items[end:]...)
	return removed
}

// mustIndex panics on out-of-range indices: callers are required to pass
// indices they obtained from this tree since the last structural change.
func (t *Tree) mustIndex(idx ItemIndex) int {
	if idx < 0 || int(idx) >= len(t.items) {
		panic(fmt.Sprintf("tree: index %d out of range [0, %d)", idx, len(t.items)))
	}
	return int(idx)
}
