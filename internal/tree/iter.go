package tree

import "iter"

// VisibleInfo describes a visible node for renderers
type VisibleInfo struct {
	Node  Node
	Index ItemIndex
	// HasChild reports whether the node has descendants, shown or not
	HasChild bool
	// Last reports whether no visible node follows
	Last bool
}

// nextVisible returns the index of the first visible node after the visible
// node at idx, or len if there is none
func (t *Tree) nextVisible(idx int) int {
	if t.items[idx].Unfolded {
		return idx + 1
	}
	return t.subtreeEnd(idx)
}

// Visible iterates over the visible nodes in tree order. The iterator must
// not be used across structural changes of the tree.
func (t *Tree) Visible() iter.Seq[Node] {
	return func(yield func(Node) bool) {
		for i := 0; i < len(t.items); i = t.nextVisible(i) {
			if !yield(t.items[i]) {
				return
			}
		}
	}
}

// VisibleMut iterates over pointers to the visible nodes. Only one pointer is
// handed out per step; fold state changes made through it apply to the rest
// of the walk.
func (t *Tree) VisibleMut() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for i := 0; i < len(t.items); i = t.nextVisible(i) {
			if !yield(&t.items[i]) {
				return
			}
		}
	}
}

// VisibleExtra iterates over the visible nodes with their raw index and
// layout hints
func (t *Tree) VisibleExtra() iter.Seq[VisibleInfo] {
	return func(yield func(VisibleInfo) bool) {
		for i := 0; i < len(t.items); {
			next := t.nextVisible(i)
			info := VisibleInfo{
				Node:     t.items[i],
				Index:    ItemIndex(i),
				HasChild: i+1 < len(t.items) && t.items[i+1].Level > t.items[i].Level,
				Last:     next >= len(t.items),
			}
			if !yield(info) {
				return
			}
			i = next
		}
	}
}

// VisibleLen returns the number of visible nodes
func (t *Tree) VisibleLen() int {
	n := 0
	for i := 0; i < len(t.items); i = t.nextVisible(i) {
		n++
	}
	return n
}

// GetVisible returns the vidx-th visible node
func (t *Tree) GetVisible(vidx VisibleItemIndex) (Node, bool) {
	info, ok := t.GetVisibleExtra(vidx)
	return info.Node, ok
}

// GetVisibleExtra returns the vidx-th visible node with its layout hints
func (t *Tree) GetVisibleExtra(vidx VisibleItemIndex) (VisibleInfo, bool) {
	if vidx < 0 {
		return VisibleInfo{}, false
	}
	n := VisibleItemIndex(0)
	for info := range t.VisibleExtra() {
		if n == vidx {
			return info, true
		}
		n++
	}
	return VisibleInfo{}, false
}

// ToDisplayed converts a visible index into a raw index
func (t *Tree) ToDisplayed(vidx VisibleItemIndex) (ItemIndex, bool) {
	info, ok := t.GetVisibleExtra(vidx)
	return info.Index, ok
}

// ToVisible converts a raw index into a visible index. It fails for hidden
// nodes.
func (t *Tree) ToVisible(idx ItemIndex) (VisibleItemIndex, bool) {
	n := VisibleItemIndex(0)
	for i := 0; i < len(t.items); i = t.nextVisible(i) {
		if ItemIndex(i) == idx {
			return n, true
		}
		if ItemIndex(i) > idx {
			break
		}
		n++
	}
	return 0, false
}
