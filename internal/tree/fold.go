package tree

// SetUnfolded folds or unfolds a single node. Folding deselects the
// descendants, which become hidden; the node itself keeps its selection.
func (t *Tree) SetUnfolded(idx ItemIndex, unfolded bool) {
	i := t.mustIndex(idx)
	t.items[i].Unfolded = unfolded
	if !unfolded {
		end := t.subtreeEnd(i)
		for j := i + 1; j < end; j++ {
			t.items[j].Selected = false
		}
	}
}

// SetUnfoldedAll folds or unfolds every node. Folding deselects all nodes
// below the top level.
func (t *Tree) SetUnfoldedAll(unfolded bool) {
	for i := range t.items {
		t.foldNode(i, unfolded)
	}
}

// SetUnfoldedSubtree folds or unfolds idx and all of its descendants
func (t *Tree) SetUnfoldedSubtree(idx ItemIndex, unfolded bool) {
	start := t.mustIndex(idx)
	end := t.subtreeEnd(start)
	for i := start; i < end; i++ {
		t.foldNode(i, unfolded)
	}
}

func (t *Tree) foldNode(i int, unfolded bool) {
	t.items[i].Unfolded = unfolded
	if !unfolded && t.items[i].Level > 0 {
		t.items[i].Selected = false
	}
}

// SetSelected changes the selection of a single node
func (t *Tree) SetSelected(idx ItemIndex, selected bool) {
	t.items[t.mustIndex(idx)].Selected = selected
}

// SetSelectedAll changes the selection of every node, hidden ones included
func (t *Tree) SetSelectedAll(selected bool) {
	for i := range t.items {
		t.items[i].Selected = selected
	}
}

// SetSelectedAllVisible changes the selection of every visible node
func (t *Tree) SetSelectedAllVisible(selected bool) {
	for n := range t.VisibleMut() {
		n.Selected = selected
	}
}

// SetSelectedSubtree changes the selection of idx and its descendants
func (t *Tree) SetSelectedSubtree(idx ItemIndex, selected bool) {
	start := t.mustIndex(idx)
	end := t.subtreeEnd(start)
	for i := start; i < end; i++ {
		t.items[i].Selected = selected
	}
}

// SetSelectedVisibleRange changes the selection of the visible nodes between
// from and to, both inclusive, in either order
func (t *Tree) SetSelectedVisibleRange(from, to VisibleItemIndex, selected bool) {
	if from > to {
		from, to = to, from
	}
	n := VisibleItemIndex(0)
	for node := range t.VisibleMut() {
		if n > to {
			return
		}
		if n >= from {
			node.Selected = selected
		}
		n++
	}
}
