// Package history keeps undo and redo stacks of item panel states and the
// saved prompt history
package history

import (
	"github.com/ripopov/surfer-sub000/internal/model"
	"github.com/ripopov/surfer-sub000/internal/tree"
)

// Snapshot is a full copy of the panel state
type Snapshot struct {
	Tree     *tree.Tree
	Registry *model.Registry
}

// Take copies the current state
func Take(t *tree.Tree, reg *model.Registry) Snapshot {
	return Snapshot{Tree: t.Clone(), Registry: reg.Clone()}
}

type entry struct {
	description string
	state       Snapshot
}

// Manager holds the undo and redo stacks. The undo stack is bounded; the
// oldest entries are dropped first.
type Manager struct {
	undo     []entry
	redo     []entry
	maxDepth int
}

// NewManager creates a manager keeping at most maxDepth undo steps
func NewManager(maxDepth int) *Manager {
	if maxDepth <= 0 {
		maxDepth = 1
	}
	return &Manager{maxDepth: maxDepth}
}

// Push records the state before an edit. It clears the redo stack.
func (m *Manager) Push(description string, before Snapshot) {
	m.undo = append(m.undo, entry{description: description, state: before})
	if over := len(m.undo) - m.maxDepth; over > 0 {
		clear(m.undo[:over])
		m.undo = m.undo[over:]
	}
	m.redo = nil
}

// Undo returns the state to restore and the description of the undone edit.
// current is kept for Redo.
func (m *Manager) Undo(current Snapshot) (Snapshot, string, bool) {
	if len(m.undo) == 0 {
		return Snapshot{}, "", false
	}
	e := m.undo[len(m.undo)-1]
	m.undo = m.undo[:len(m.undo)-1]
	m.redo = append(m.redo, entry{description: e.description, state: current})
	return e.state, e.description, true
}

// Redo reverts the last Undo
func (m *Manager) Redo(current Snapshot) (Snapshot, string, bool) {
	if len(m.redo) == 0 {
		return Snapshot{}, "", false
	}
	e := m.redo[len(m.redo)-1]
	m.redo = m.redo[:len(m.redo)-1]
	m.undo = append(m.undo, entry{description: e.description, state: current})
	return e.state, e.description, true
}

func (m *Manager) CanUndo() bool { return len(m.undo) > 0 }
func (m *Manager) CanRedo() bool { return len(m.redo) > 0 }

// Clear drops all history, e.g. after loading another layout
func (m *Manager) Clear() {
	m.undo = nil
	m.redo = nil
}
