package tree

// LevelRange is a half-open range of nesting levels [Start, End)
type LevelRange struct {
	Start uint8
	End   int
}

// Contains reports whether level lies in the range
func (r LevelRange) Contains(level uint8) bool {
	return level >= r.Start && int(level) < r.End
}

// Clamp returns level if it is in the range, otherwise the closest level
// that is
func (r LevelRange) Clamp(level uint8) uint8 {
	if level < r.Start || r.End <= int(r.Start) {
		return r.Start
	}
	if int(level) >= r.End {
		return uint8(r.End - 1)
	}
	return level
}

// ValidLevelsVisible returns the levels a node inserted right before the
// vidx-th visible node may take. vidx may equal the number of visible nodes
// to insert at the end.
//
// The deepest level nests the new node under the preceding visible node if
// canHaveChildren allows it and that node is unfolded; the shallowest keeps
// the following visible node in place.
func (t *Tree) ValidLevelsVisible(vidx VisibleItemIndex, canHaveChildren func(Node) bool) LevelRange {
	if vidx <= 0 || t.IsEmpty() {
		return LevelRange{Start: 0, End: 1}
	}

	var prev, next *Node
	n := VisibleItemIndex(0)
	for node := range t.Visible() {
		if n == vidx-1 {
			prev = &node
		} else if n == vidx {
			next = &node
			break
		}
		n++
	}
	if prev == nil {
		// Past the end: the last visible node precedes the insertion point.
		last, _ := t.GetVisible(VisibleItemIndex(t.VisibleLen() - 1))
		prev = &last
	}

	end := int(prev.Level) + 1
	if prev.Unfolded && canHaveChildren(*prev) {
		end++
	}
	if next == nil {
		return LevelRange{Start: 0, End: end}
	}
	return LevelRange{Start: next.Level, End: end}
}
