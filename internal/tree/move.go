package tree

import (
	"fmt"
	"slices"
)

// MoveDir is the direction of a single-step move
type MoveDir int

const (
	MoveUp MoveDir = iota
	MoveDown
)

func (d MoveDir) String() string {
	if d == MoveUp {
		return "up"
	}
	return "down"
}

// MoveItem moves the visible node at vidx, with its subtree, one visible step
// up or down and returns its new visible index. canHaveChildren decides
// whether a neighbouring node may take the moved node as a child.
//
// Moving down out of the last position of a group shifts the node out of the
// group; moving down onto an unfolded node that may have children makes it
// that node's first child; otherwise the node jumps over its next sibling.
// Moving up mirrors this using the nearest visible predecessor.
func (t *Tree) MoveItem(vidx VisibleItemIndex, dir MoveDir, canHaveChildren func(Node) bool) (VisibleItemIndex, error) {
	idx, ok := t.ToDisplayed(vidx)
	if !ok {
		return vidx, fmt.Errorf("%w: visible index %d", ErrInvalidIndex, vidx)
	}
	item := int(idx)
	thisLevel := t.items[item].Level
	end := t.subtreeEnd(item)

	switch dir {
	case MoveDown:
		if end == len(t.items) || t.items[end].Level < thisLevel {
			if thisLevel > 0 {
				shiftLevels(t.items[item:end], -1)
			}
			return vidx, nil
		}
		next := t.items[end]
		var target TargetPosition
		if next.Unfolded && canHaveChildren(next) {
			target = TargetPosition{Before: ItemIndex(end + 1), Level: addLevel(next.Level, 1)}
		} else {
			target = TargetPosition{Before: ItemIndex(t.subtreeEnd(end)), Level: thisLevel}
		}
		if err := t.MoveItems([]ItemIndex{idx}, target); err != nil {
			return vidx, err
		}
		return vidx + 1, nil

	case MoveUp:
		pred, ok := t.visiblePredecessor(item)
		if !ok {
			return vidx, nil
		}
		p := t.items[pred]
		if p.Level > thisLevel || (p.Level == thisLevel && p.Unfolded && canHaveChildren(p)) {
			shiftLevels(t.items[item:end], 1)
			return vidx, nil
		}
		if err := t.MoveItems([]ItemIndex{idx}, TargetPosition{Before: ItemIndex(pred), Level: p.Level}); err != nil {
			return vidx, err
		}
		return vidx - 1, nil
	}
	return vidx, fmt.Errorf("unknown move direction %d", int(dir))
}

// visiblePredecessor finds the visible node right before the visible node at
// idx. Walking backwards, the shallowest folded ancestor of the directly
// preceding node hides everything below it and wins.
func (t *Tree) visiblePredecessor(idx int) (int, bool) {
	if idx == 0 {
		return 0, false
	}
	level := t.items[idx].Level
	candidate := idx - 1
	limit := t.items[candidate].Level
	for i := idx - 1; i >= 0; i-- {
		n := t.items[i]
		if n.Level < limit {
			limit = n.Level
			if !n.Unfolded {
				candidate = i
			}
		}
		if n.Level <= level {
			break
		}
	}
	return candidate, true
}

// MoveItems moves the nodes at indices, each with its subtree, to target.
// Indices may be unsorted and contain duplicates.
//
// The relative order of the moved nodes is kept and every moved root takes
// target.Level. If both a node and one of its descendants are moved, the
// descendant leaves the subtree and ends up right after it. Levels that would
// exceed 255 are clipped.
//
// Nothing is changed when an error is returned: ErrInvalidIndex for indices
// outside the tree, ErrCircularMove when a node would end up inside its own
// subtree and ErrInvalidLevel when target.Level does not fit between the
// nodes that end up around the moved ones.
func (t *Tree) MoveItems(indices []ItemIndex, target TargetPosition) error {
	indices = slices.Clone(indices)
	slices.Sort(indices)
	indices = slices.Compact(indices)

	before := int(target.Before)
	if before < 0 || before > len(t.items) {
		return fmt.Errorf("%w: insertion point %d", ErrInvalidIndex, before)
	}
	if len(indices) > 0 {
		if first := indices[0]; first < 0 {
			return fmt.Errorf("%w: moved index %d", ErrInvalidIndex, first)
		}
		if last := indices[len(indices)-1]; int(last) >= len(t.items) {
			return fmt.Errorf("%w: moved index %d", ErrInvalidIndex, last)
		}
	}

	pre, stable, post, err := partitionIndices(indices, target.Before)
	if err != nil {
		return err
	}

	if t.pathWouldIntersect(pre, before, target.Level) {
		return ErrCircularMove
	}
	if len(indices) > 0 {
		if err := t.checkTargetLevel(pre, stable, post, before, target.Level); err != nil {
			return err
		}
	}

	preInsert := before
	postInsert := before
	if stable >= 0 {
		postInsert = stable + 1
	}

	// Going backwards means a nested node is moved out before its ancestor,
	// so the ancestor's subtree no longer contains it.
	for i := len(pre) - 1; i >= 0; i-- {
		from := int(pre[i])
		fromEnd := t.subtreeEnd(from)
		shiftSubtreeToLevel(t.items[from:fromEnd], target.Level)

		cnt := fromEnd - from
		rotateLeft(t.items[from:preInsert], cnt)
		preInsert -= cnt
	}

	if stable >= 0 {
		shiftSubtreeToLevel(t.items[stable:t.subtreeEnd(stable)], target.Level)
	}

	// Every node moved in front of the remaining post indices shifts them
	// right by its subtree size.
	offset := 0
	for i := len(post) - 1; i >= 0; i-- {
		from := int(post[i]) + offset
		fromEnd := t.subtreeEnd(from)
		shiftSubtreeToLevel(t.items[from:fromEnd], target.Level)

		cnt := fromEnd - from
		rotateRight(t.items[postInsert:fromEnd], cnt)
		offset += cnt
	}

	return nil
}

// partitionIndices splits sorted, deduplicated indices into those before the
// insertion point, the one at it (-1 if none) and those after it.
func partitionIndices(indices []ItemIndex, before ItemIndex) (pre []ItemIndex, stable int, post []ItemIndex, err error) {
	stable = -1
	for i, idx := range indices {
		switch {
		case idx < before:
			pre = indices[:i+1]
		case idx == before:
			if stable >= 0 {
				return nil, -1, nil, fmt.Errorf("%w: index %d", ErrMultipleStable, idx)
			}
			stable = int(idx)
		default:
			return pre, stable, indices[i:], nil
		}
	}
	return pre, stable, nil, nil
}

// pathWouldIntersect reports whether one of the sorted indices would be an
// ancestor of an imaginary node with the given level at position idx.
func (t *Tree) pathWouldIntersect(indices []ItemIndex, idx int, level uint8) bool {
	parents := t.pathToRoot(idx, level)
	slices.Reverse(parents)

	i, j := 0, 0
	for i < len(indices) && j < len(parents) {
		switch {
		case int(indices[i]) == parents[j]:
			return true
		case int(indices[i]) < parents[j]:
			i++
		default:
			j++
		}
	}
	return false
}

// checkTargetLevel rejects target levels that would break the level
// invariant around the moved nodes once they are in place.
func (t *Tree) checkTargetLevel(pre []ItemIndex, stable int, post []ItemIndex, before int, level uint8) error {
	moved := make([]bool, len(t.items))
	mark := func(from, end int) {
		for i := from; i < end; i++ {
			moved[i] = true
		}
	}
	// The part of a pre subtree past the insertion point stays where it is.
	for _, idx := range pre {
		mark(int(idx), min(t.subtreeEnd(int(idx)), before))
	}
	if stable >= 0 {
		mark(stable, t.subtreeEnd(stable))
	}
	for _, idx := range post {
		mark(int(idx), t.subtreeEnd(int(idx)))
	}

	for i, idx := range pre {
		from := int(idx)
		end := t.subtreeEnd(from)
		if end <= before || level > t.items[from].Level {
			continue
		}
		// A moved descendant lands right before the insertion point at a
		// level that closes this subtree there.
		if i+1 < len(pre) && int(pre[i+1]) < end {
			continue
		}
		return fmt.Errorf("%w: level %d at %d splits the subtree of %d", ErrInvalidLevel, level, before, from)
	}

	prev := -1
	for i := before - 1; i >= 0; i-- {
		if !moved[i] {
			prev = i
			break
		}
	}
	if (prev < 0 && level > 0) || (prev >= 0 && int(level) > int(t.items[prev].Level)+1) {
		return fmt.Errorf("%w: level %d too deep at %d", ErrInvalidLevel, level, before)
	}

	// The last sorted index contains no other moved node, so its subtree
	// is the block that ends up right before the next node staying in place.
	last := stable
	switch {
	case len(post) > 0:
		last = int(post[len(post)-1])
	case stable < 0:
		last = int(pre[len(pre)-1])
	}
	lastEnd := t.subtreeEnd(last)
	if last < before {
		lastEnd = min(lastEnd, before)
	}
	tail := addLevel(level, int(t.items[lastEnd-1].Level)-int(t.items[last].Level))

	for i := before; i < len(t.items); i++ {
		if moved[i] {
			continue
		}
		if int(t.items[i].Level) > int(tail)+1 {
			return fmt.Errorf("%w: level %d too shallow at %d", ErrInvalidLevel, level, before)
		}
		break
	}
	return nil
}

// shiftSubtreeToLevel re-levels nodes so that the first one ends up at level
func shiftSubtreeToLevel(nodes []Node, level uint8) {
	if len(nodes) == 0 {
		return
	}
	shiftLevels(nodes, int(level)-int(nodes[0].Level))
}

// shiftLevels adds delta to every level, clipping to the uint8 range
func shiftLevels(nodes []Node, delta int) {
	for i := range nodes {
		nodes[i].Level = addLevel(nodes[i].Level, delta)
	}
}

func addLevel(level uint8, delta int) uint8 {
	return uint8(min(max(int(level)+delta, 0), 255))
}

// rotateLeft rotates s so that s[k] becomes the first element
func rotateLeft(s []Node, k int) {
	if len(s) == 0 {
		return
	}
	k %= len(s)
	slices.Reverse(s[:k])
	slices.Reverse(s[k:])
	slices.Reverse(s)
}

// rotateRight rotates s so that the last k elements move to the front
func rotateRight(s []Node, k int) {
	if len(s) == 0 {
		return
	}
	rotateLeft(s, len(s)-k%len(s))
}
