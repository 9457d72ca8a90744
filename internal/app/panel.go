package app

import (
	"errors"
	"fmt"

	"github.com/ripopov/surfer-sub000/internal/history"
	"github.com/ripopov/surfer-sub000/internal/model"
	"github.com/ripopov/surfer-sub000/internal/search"
	"github.com/ripopov/surfer-sub000/internal/tree"
)

var (
	// ErrNoFocus is returned by commands that act on the focused item
	ErrNoFocus = errors.New("no item focused")

	// ErrNotGroup is returned when dissolving an item that is not a group
	ErrNotGroup = errors.New("focused item is not a group")

	// ErrNothingSelected is returned by commands that need a selection
	ErrNothingSelected = errors.New("nothing selected")
)

// noFocus marks the absence of a focused row
const noFocus tree.VisibleItemIndex = -1

// Panel is the item management layer on top of the tree: it owns the
// focused row, the range selection anchor and the undo history. It does not
// draw anything.
type Panel struct {
	Tree  *tree.Tree
	Items *model.Registry

	focus    tree.VisibleItemIndex
	anchor   tree.VisibleItemIndex
	history  *history.Manager
	modified bool

	// GroupName names groups created without an explicit name
	GroupName string
}

// NewPanel creates a panel over t and reg, focusing the first row
func NewPanel(t *tree.Tree, reg *model.Registry, undoDepth int) *Panel {
	p := &Panel{
		Tree:      t,
		Items:     reg,
		focus:     0,
		anchor:    noFocus,
		history:   history.NewManager(undoDepth),
		GroupName: "Group",
	}
	p.clampFocus()
	return p
}

func (p *Panel) canHaveChildren(n tree.Node) bool {
	return p.Items.CanHaveChildren(n.Item)
}

// Focus returns the focused visible row, -1 when nothing is focused
func (p *Panel) Focus() tree.VisibleItemIndex {
	return p.focus
}

// Modified reports whether the panel changed since the last MarkSaved
func (p *Panel) Modified() bool {
	return p.modified
}

// MarkSaved clears the modified flag
func (p *Panel) MarkSaved() {
	p.modified = false
}

// FocusedIndex returns the raw index of the focused node
func (p *Panel) FocusedIndex() (tree.ItemIndex, bool) {
	if p.focus < 0 {
		return 0, false
	}
	return p.Tree.ToDisplayed(p.focus)
}

// FocusedItem returns the focused item
func (p *Panel) FocusedItem() *model.DisplayedItem {
	idx, ok := p.FocusedIndex()
	if !ok {
		return nil
	}
	n, _ := p.Tree.Get(idx)
	return p.Items.Get(n.Item)
}

// SetFocus focuses a visible row, clamped to the visible rows
func (p *Panel) SetFocus(vidx tree.VisibleItemIndex) {
	p.focus = vidx
	p.clampFocus()
}

// MoveFocus moves the focus by delta rows
func (p *Panel) MoveFocus(delta int) {
	if p.focus < 0 {
		p.SetFocus(0)
		return
	}
	p.SetFocus(max(p.focus+tree.VisibleItemIndex(delta), 0))
}

// FocusLast focuses the last visible row
func (p *Panel) FocusLast() {
	p.SetFocus(tree.VisibleItemIndex(p.Tree.VisibleLen() - 1))
}

func (p *Panel) clampFocus() {
	n := tree.VisibleItemIndex(p.Tree.VisibleLen())
	switch {
	case n == 0:
		p.focus = noFocus
	case p.focus < 0:
		p.focus = 0
	case p.focus >= n:
		p.focus = n - 1
	}
}

// focusIndex focuses the node at idx, or its nearest visible ancestor when
// it is hidden
func (p *Panel) focusIndex(idx tree.ItemIndex) {
	if v, ok := p.Tree.ToVisible(idx); ok {
		p.focus = v
		return
	}
	vidx := tree.VisibleItemIndex(0)
	for info := range p.Tree.VisibleExtra() {
		if info.Index > idx {
			break
		}
		if p.Tree.SubtreeContains(info.Index, idx) {
			p.focus = vidx
		}
		vidx++
	}
	p.clampFocus()
}

// record saves the current state as an undo step
func (p *Panel) record(description string) {
	p.history.Push(description, history.Take(p.Tree, p.Items))
	p.modified = true
}

// restore replaces the panel state by a snapshot
func (p *Panel) restore(s history.Snapshot) {
	p.Tree = s.Tree
	p.Items = s.Registry
	p.anchor = noFocus
	p.clampFocus()
}

// AddItem inserts a new item below the focused one: as first child of an
// unfolded group, otherwise after the focused subtree. Without focus the
// item is appended at the top level.
func (p *Panel) AddItem(kind model.ItemKind, name string) model.ItemRef {
	target := tree.TargetPosition{Before: tree.ItemIndex(p.Tree.Len())}
	if idx, ok := p.FocusedIndex(); ok {
		n, _ := p.Tree.Get(idx)
		if n.Unfolded && p.canHaveChildren(n) {
			target = tree.TargetPosition{Before: idx + 1, Level: n.Level + 1}
		} else {
			target = tree.TargetPosition{Before: p.Tree.SubtreeEnd(idx), Level: n.Level}
		}
	}

	p.record("add " + kind.String())
	ref := p.Items.Add(kind, name)
	p.focusIndex(p.Tree.InsertItem(ref, target))
	return ref
}

// GroupSelected creates a group in place of the first selected item and
// moves every selected item into it. Without a selection the focused item
// is grouped.
func (p *Panel) GroupSelected(name string) (model.ItemRef, error) {
	var indices []tree.ItemIndex
	for idx, n := range p.Tree.All() {
		if n.Selected {
			indices = append(indices, idx)
		}
	}
	if len(indices) == 0 {
		idx, ok := p.FocusedIndex()
		if !ok {
			return 0, ErrNothingSelected
		}
		indices = []tree.ItemIndex{idx}
	}
	if name == "" {
		name = p.GroupName
	}

	before := history.Take(p.Tree, p.Items)
	first, _ := p.Tree.Get(indices[0])
	ref := p.Items.Add(model.KindGroup, name)
	groupIdx := p.Tree.InsertItem(ref, tree.TargetPosition{Before: indices[0], Level: first.Level})
	for i := range indices {
		indices[i]++
	}
	err := p.Tree.MoveItems(indices, tree.TargetPosition{Before: groupIdx + 1, Level: first.Level + 1})
	if err != nil {
		p.restore(before)
		return 0, fmt.Errorf("cannot group selection: %w", err)
	}

	p.history.Push("group", before)
	p.modified = true
	p.Tree.SetSelectedAll(false)
	p.focusIndex(groupIdx)
	return ref, nil
}

// Dissolve removes the focused group, keeping its children one level up
func (p *Panel) Dissolve() error {
	idx, ok := p.FocusedIndex()
	if !ok {
		return ErrNoFocus
	}
	n, _ := p.Tree.Get(idx)
	if !p.canHaveChildren(n) {
		return ErrNotGroup
	}
	p.record("dissolve")
	p.Items.Remove(p.Tree.RemoveDissolve(idx))
	p.clampFocus()
	return nil
}

// Remove deletes the selected items with their subtrees, or the focused item
// when nothing is selected. It returns the number of removed items.
func (p *Panel) Remove() int {
	var removed []model.ItemRef
	if p.hasSelection() {
		p.record("remove selection")
		removed = p.Tree.ExtractRecursiveIf(func(n tree.Node) bool { return n.Selected })
	} else if idx, ok := p.FocusedIndex(); ok {
		p.record("remove")
		removed = p.Tree.RemoveRecursive(idx)
	}
	p.Items.Remove(removed...)
	p.anchor = noFocus
	p.clampFocus()
	return len(removed)
}

// RemoveItems deletes the listed items with their subtrees as one undoable
// step. Unknown refs are ignored.
func (p *Panel) RemoveItems(refs []model.ItemRef) int {
	doomed := make(map[model.ItemRef]bool, len(refs))
	for _, ref := range refs {
		if _, ok := p.Tree.IndexOf(ref); ok {
			doomed[ref] = true
		}
	}
	if len(doomed) == 0 {
		return 0
	}
	p.record("remove items")
	removed := p.Tree.ExtractRecursiveIf(func(n tree.Node) bool { return doomed[n.Item] })
	p.Items.Remove(removed...)
	p.anchor = noFocus
	p.clampFocus()
	return len(removed)
}

// FocusItem focuses ref, or the folded row hiding it
func (p *Panel) FocusItem(ref model.ItemRef) bool {
	idx, ok := p.Tree.IndexOf(ref)
	if !ok {
		return false
	}
	p.focusIndex(idx)
	return true
}

func (p *Panel) hasSelection() bool {
	for range p.Tree.Selected() {
		return true
	}
	return false
}

// Rename renames the focused item
func (p *Panel) Rename(name string) error {
	item := p.FocusedItem()
	if item == nil {
		return ErrNoFocus
	}
	p.record("rename")
	p.Items.Rename(item.Ref, name)
	return nil
}

// MoveFocused moves the focused item count steps in dir, keeping the focus
// on it
func (p *Panel) MoveFocused(dir tree.MoveDir, count int) error {
	if p.focus < 0 {
		return ErrNoFocus
	}
	return p.repeatStep("move "+dir.String(), count, func() error {
		vidx, err := p.Tree.MoveItem(p.focus, dir, p.canHaveChildren)
		if err != nil {
			return err
		}
		p.focus = vidx
		return nil
	})
}

// repeatStep runs step count times as a single undo step. Steps that
// succeeded before a failing one stay applied and undoable.
func (p *Panel) repeatStep(description string, count int, step func() error) error {
	before := history.Take(p.Tree, p.Items)
	done := false
	defer func() {
		if done {
			p.history.Push(description, before)
			p.modified = true
		}
	}()
	for range max(count, 1) {
		if err := step(); err != nil {
			return err
		}
		done = true
	}
	return nil
}

// DropSelection moves the selected items, or the focused one when nothing
// is selected, right before the visible row vidx as one undo step. vidx may
// equal the number of visible rows to drop at the end. The level is clamped
// to the levels valid at the drop point.
func (p *Panel) DropSelection(vidx tree.VisibleItemIndex, level uint8) error {
	var indices []tree.ItemIndex
	for idx, n := range p.Tree.All() {
		if n.Selected {
			indices = append(indices, idx)
		}
	}
	if len(indices) == 0 {
		idx, ok := p.FocusedIndex()
		if !ok {
			return ErrNothingSelected
		}
		indices = []tree.ItemIndex{idx}
	}
	first, _ := p.Tree.Get(indices[0])

	vidx = min(max(vidx, 0), tree.VisibleItemIndex(p.Tree.VisibleLen()))
	target := tree.TargetPosition{
		Before: tree.ItemIndex(p.Tree.Len()),
		Level:  p.Tree.ValidLevelsVisible(vidx, p.canHaveChildren).Clamp(level),
	}
	if idx, ok := p.Tree.ToDisplayed(vidx); ok {
		target.Before = idx
	}

	before := history.Take(p.Tree, p.Items)
	if err := p.Tree.MoveItems(indices, target); err != nil {
		return fmt.Errorf("cannot drop here: %w", err)
	}
	p.history.Push("drop", before)
	p.modified = true
	p.anchor = noFocus
	if idx, ok := p.Tree.IndexOf(first.Item); ok {
		p.focusIndex(idx)
	}
	return nil
}

// ToggleFold folds or unfolds the focused node. The recursive variant
// applies the new state to the whole subtree.
func (p *Panel) ToggleFold(recursive bool) error {
	idx, ok := p.FocusedIndex()
	if !ok {
		return ErrNoFocus
	}
	n, _ := p.Tree.Get(idx)
	if recursive {
		p.Tree.SetUnfoldedSubtree(idx, !n.Unfolded)
	} else {
		p.Tree.SetUnfolded(idx, !n.Unfolded)
	}
	p.modified = true
	p.focusIndex(idx)
	return nil
}

// FoldParent folds the parent of the focused node and focuses it
func (p *Panel) FoldParent() error {
	idx, ok := p.FocusedIndex()
	if !ok {
		return ErrNoFocus
	}
	path := p.Tree.PathToRoot(idx)
	if len(path) == 0 {
		return nil
	}
	p.Tree.SetUnfolded(path[0], false)
	p.modified = true
	p.focusIndex(idx)
	return nil
}

// SetUnfoldedAll folds or unfolds every node. Folding moves the focus to the
// top-level node that now hides it.
func (p *Panel) SetUnfoldedAll(unfolded bool) {
	idx, ok := p.FocusedIndex()
	p.Tree.SetUnfoldedAll(unfolded)
	p.modified = true
	if ok {
		p.focusIndex(idx)
	}
	p.clampFocus()
}

// ToggleSelected flips the selection of the focused row and makes it the
// range anchor
func (p *Panel) ToggleSelected() error {
	idx, ok := p.FocusedIndex()
	if !ok {
		return ErrNoFocus
	}
	n, _ := p.Tree.Get(idx)
	p.Tree.SetSelected(idx, !n.Selected)
	p.anchor = p.focus
	return nil
}

// ExtendSelection moves the focus by delta rows and selects the visible
// rows between the anchor and the new focus
func (p *Panel) ExtendSelection(delta int) {
	if p.focus < 0 {
		return
	}
	if p.anchor < 0 {
		p.anchor = p.focus
	}
	p.MoveFocus(delta)
	p.Tree.SetSelectedVisibleRange(p.anchor, p.focus, true)
}

// SelectAllVisible selects every visible row
func (p *Panel) SelectAllVisible() {
	p.Tree.SetSelectedAllVisible(true)
}

// GrabRow focuses a visible row. A row outside the selection replaces it.
func (p *Panel) GrabRow(vidx tree.VisibleItemIndex) {
	p.SetFocus(vidx)
	idx, ok := p.FocusedIndex()
	if !ok {
		return
	}
	if n, _ := p.Tree.Get(idx); !n.Selected {
		p.Tree.SetSelectedAll(false)
		p.Tree.SetSelected(idx, true)
		p.anchor = p.focus
	}
}

// ClearSelection unselects everything
func (p *Panel) ClearSelection() {
	p.Tree.SetSelectedAll(false)
	p.anchor = noFocus
}

// SelectMatching selects the visible rows matching a search query and
// returns how many matched
func (p *Panel) SelectMatching(query string) (int, error) {
	expr, err := search.ParseQuery(query)
	if err != nil {
		return 0, err
	}
	var matches []tree.ItemIndex
	for info := range p.Tree.VisibleExtra() {
		item := p.Items.Get(info.Node.Item)
		if item == nil {
			continue
		}
		if expr.Matches(search.Subject{Item: item, Level: info.Node.Level, Selected: info.Node.Selected}) {
			matches = append(matches, info.Index)
		}
	}
	for _, idx := range matches {
		p.Tree.SetSelected(idx, true)
	}
	return len(matches), nil
}

// FocusBestMatch focuses the visible item whose name matches term best
func (p *Panel) FocusBestMatch(term string) bool {
	var items []model.DisplayedItem
	for n := range p.Tree.Visible() {
		if item := p.Items.Get(n.Item); item != nil {
			items = append(items, *item)
		}
	}
	ranked := search.Rank(term, items)
	if len(ranked) == 0 {
		return false
	}
	idx, ok := p.Tree.IndexOf(ranked[0].Ref)
	if !ok {
		return false
	}
	p.focusIndex(idx)
	return true
}

// Undo reverts the last edit and returns its description
func (p *Panel) Undo() (string, bool) {
	s, desc, ok := p.history.Undo(history.Take(p.Tree, p.Items))
	if !ok {
		return "", false
	}
	p.restore(s)
	p.modified = true
	return desc, true
}

// Redo reapplies the last undone edit
func (p *Panel) Redo() (string, bool) {
	s, desc, ok := p.history.Redo(history.Take(p.Tree, p.Items))
	if !ok {
		return "", false
	}
	p.restore(s)
	p.modified = true
	return desc, true
}

// Replace swaps in a new tree and registry as an undoable step
func (p *Panel) Replace(description string, t *tree.Tree, reg *model.Registry) {
	p.record(description)
	p.restore(history.Snapshot{Tree: t, Registry: reg})
}

// Edit runs f on the tree and registry as one undoable step
func (p *Panel) Edit(description string, f func(*tree.Tree, *model.Registry)) {
	p.record(description)
	f(p.Tree, p.Items)
	p.clampFocus()
}
