package app

import (
	"fmt"
	"slices"

	"github.com/gdamore/tcell/v2"

	"github.com/ripopov/surfer-sub000/internal/tree"
	"github.com/ripopov/surfer-sub000/internal/ui"
)

// KeyBinding represents a key binding with its description and handler
type KeyBinding struct {
	Key         rune
	Description string
	Handler     func(*App)
}

// PendingKeyBinding represents a pending key (like 'g' or 'z') that waits for a second key
type PendingKeyBinding struct {
	Prefix      rune
	Description string
	Sequences   map[rune]KeyBinding
}

// takeCount returns the numeric prefix, 1 when none was typed, and resets it
func (a *App) takeCount() int {
	n := max(a.count, 1)
	a.count = 0
	return n
}

func (a *App) moveFocused(dir tree.MoveDir) {
	if err := a.panel.MoveFocused(dir, a.takeCount()); err != nil {
		a.SetError(err.Error())
	}
}

func (a *App) reportErr(err error) {
	if err != nil {
		a.SetError(err.Error())
	}
}

// InitializeKeybindings sets up all the key bindings
func (a *App) InitializeKeybindings() []KeyBinding {
	return []KeyBinding{
		{
			Key:         'j',
			Description: "Focus next row",
			Handler: func(app *App) {
				app.panel.MoveFocus(app.takeCount())
			},
		},
		{
			Key:         'k',
			Description: "Focus previous row",
			Handler: func(app *App) {
				app.panel.MoveFocus(-app.takeCount())
			},
		},
		{
			Key:         'G',
			Description: "Focus last row (or row N with a count)",
			Handler: func(app *App) {
				if app.count > 0 {
					app.panel.SetFocus(tree.VisibleItemIndex(app.takeCount() - 1))
					return
				}
				app.panel.FocusLast()
			},
		},
		{
			Key:         'h',
			Description: "Fold item, or its parent",
			Handler: func(app *App) {
				info, ok := app.panel.Tree.GetVisibleExtra(app.panel.Focus())
				if ok && info.HasChild && info.Node.Unfolded {
					app.reportErr(app.panel.ToggleFold(false))
					return
				}
				app.reportErr(app.panel.FoldParent())
			},
		},
		{
			Key:         'l',
			Description: "Unfold item",
			Handler: func(app *App) {
				info, ok := app.panel.Tree.GetVisibleExtra(app.panel.Focus())
				if ok && !info.Node.Unfolded {
					app.reportErr(app.panel.ToggleFold(false))
				}
			},
		},
		{
			Key:         'J',
			Description: "Move item down",
			Handler: func(app *App) {
				app.moveFocused(tree.MoveDown)
			},
		},
		{
			Key:         'K',
			Description: "Move item up",
			Handler: func(app *App) {
				app.moveFocused(tree.MoveUp)
			},
		},
		{
			Key:         'a',
			Description: "Add item ([kind] name)",
			Handler: func(app *App) {
				app.startPrompt(promptAdd, "add: ")
			},
		},
		{
			Key:         'r',
			Description: "Rename item",
			Handler: func(app *App) {
				if app.panel.FocusedItem() != nil {
					app.startPrompt(promptRename, "rename: ")
				}
			},
		},
		{
			Key:         'N',
			Description: "Group selected items",
			Handler: func(app *App) {
				app.startPrompt(promptGroup, "group: ")
			},
		},
		{
			Key:         'D',
			Description: "Dissolve group",
			Handler: func(app *App) {
				if err := app.panel.Dissolve(); err != nil {
					app.SetError(err.Error())
				} else {
					app.SetStatus("Dissolved group")
				}
			},
		},
		{
			Key:         'd',
			Description: "Remove selected items (or the focused one)",
			Handler: func(app *App) {
				if n := app.panel.Remove(); n > 0 {
					app.SetStatus(fmt.Sprintf("Removed %d items", n))
				}
			},
		},
		{
			Key:         ' ',
			Description: "Toggle selection",
			Handler: func(app *App) {
				app.reportErr(app.panel.ToggleSelected())
			},
		},
		{
			Key:         'u',
			Description: "Undo",
			Handler: func(app *App) {
				if desc, ok := app.panel.Undo(); ok {
					app.SetStatus("Undo " + desc)
				} else {
					app.SetStatus("Nothing to undo")
				}
			},
		},
		{
			Key:         '/',
			Description: "Find item by name",
			Handler: func(app *App) {
				app.startPrompt(promptFind, "/")
			},
		},
		{
			Key:         ':',
			Description: "Command line",
			Handler: func(app *App) {
				app.startPrompt(promptCommand, ":")
			},
		},
		{
			Key:         '?',
			Description: "Toggle help",
			Handler: func(app *App) {
				app.help.Toggle()
			},
		},
	}
}

// InitializePendingKeybindings sets up pending key bindings (keys that wait for a second key)
func (a *App) InitializePendingKeybindings() []PendingKeyBinding {
	return []PendingKeyBinding{
		{
			Prefix:      'g',
			Description: "Go to... (g + key)",
			Sequences: map[rune]KeyBinding{
				'g': {
					Key:         'g',
					Description: "Focus first row",
					Handler: func(app *App) {
						app.panel.SetFocus(0)
					},
				},
			},
		},
		{
			Prefix:      'z',
			Description: "Fold... (z + key)",
			Sequences: map[rune]KeyBinding{
				'a': {
					Key:         'a',
					Description: "Toggle fold",
					Handler: func(app *App) {
						app.reportErr(app.panel.ToggleFold(false))
					},
				},
				'A': {
					Key:         'A',
					Description: "Toggle fold recursively",
					Handler: func(app *App) {
						app.reportErr(app.panel.ToggleFold(true))
					},
				},
				'M': {
					Key:         'M',
					Description: "Fold all",
					Handler: func(app *App) {
						app.panel.SetUnfoldedAll(false)
						app.SetStatus("Folded all")
					},
				},
				'R': {
					Key:         'R',
					Description: "Unfold all",
					Handler: func(app *App) {
						app.panel.SetUnfoldedAll(true)
						app.SetStatus("Unfolded all")
					},
				},
			},
		},
	}
}

// GetKeybindingByKey returns the keybinding for a key
func (a *App) GetKeybindingByKey(key rune) *KeyBinding {
	for i := range a.keybindings {
		if a.keybindings[i].Key == key {
			return &a.keybindings[i]
		}
	}
	return nil
}

// GetPendingKeyBindingByPrefix returns a pending keybinding for a prefix key
func (a *App) GetPendingKeyBindingByPrefix(prefix rune) *PendingKeyBinding {
	for i := range a.pendingKeybindings {
		if a.pendingKeybindings[i].Prefix == prefix {
			return &a.pendingKeybindings[i]
		}
	}
	return nil
}

func keyLabel(r rune) string {
	if r == ' ' {
		return "Space"
	}
	return string(r)
}

// helpBindings lists every binding for the help screen
func (a *App) helpBindings() []ui.Binding {
	var result []ui.Binding
	for _, kb := range a.keybindings {
		result = append(result, ui.Binding{Keys: keyLabel(kb.Key), Description: kb.Description})
	}
	for _, pkb := range a.pendingKeybindings {
		keys := make([]rune, 0, len(pkb.Sequences))
		for k := range pkb.Sequences {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			result = append(result, ui.Binding{
				Keys:        string(pkb.Prefix) + string(k),
				Description: pkb.Sequences[k].Description,
			})
		}
	}
	return append(result,
		ui.Binding{Keys: "Shift+Up/Down", Description: "Extend selection"},
		ui.Binding{Keys: "Enter", Description: "Toggle fold"},
		ui.Binding{Keys: "Esc", Description: "Clear selection"},
		ui.Binding{Keys: "Ctrl+A", Description: "Select all visible"},
		ui.Binding{Keys: "Ctrl+R", Description: "Redo"},
		ui.Binding{Keys: "Ctrl+S", Description: "Save"},
	)
}

// handleKeypress handles a single keypress in normal mode
func (a *App) handleKeypress(ev *tcell.EventKey) {
	if a.debugMode {
		a.SetStatus(fmt.Sprintf("Key: %v | Rune: %q | Modifiers: %v", ev.Key(), ev.Rune(), ev.Modifiers()))
	}

	if a.pendingKey != 0 {
		prefix := a.pendingKey
		a.pendingKey = 0
		if pkb := a.GetPendingKeyBindingByPrefix(prefix); pkb != nil && ev.Key() == tcell.KeyRune {
			if kb, ok := pkb.Sequences[ev.Rune()]; ok {
				kb.Handler(a)
				a.count = 0
				return
			}
		}
		a.count = 0
		a.SetStatus(fmt.Sprintf("Unknown sequence %c%c", prefix, ev.Rune()))
		return
	}

	shift := ev.Modifiers()&tcell.ModShift != 0
	switch ev.Key() {
	case tcell.KeyDown:
		if shift {
			a.panel.ExtendSelection(a.takeCount())
		} else {
			a.panel.MoveFocus(a.takeCount())
		}
		return
	case tcell.KeyUp:
		if shift {
			a.panel.ExtendSelection(-a.takeCount())
		} else {
			a.panel.MoveFocus(-a.takeCount())
		}
		return
	case tcell.KeyEnter:
		a.reportErr(a.panel.ToggleFold(false))
		return
	case tcell.KeyEscape:
		a.count = 0
		a.panel.ClearSelection()
		return
	case tcell.KeyCtrlA:
		a.panel.SelectAllVisible()
		return
	case tcell.KeyCtrlR:
		if desc, ok := a.panel.Redo(); ok {
			a.SetStatus("Redo " + desc)
		} else {
			a.SetStatus("Nothing to redo")
		}
		return
	case tcell.KeyCtrlS:
		a.saveWithStatus()
		return
	case tcell.KeyRune:
	default:
		return
	}

	r := ev.Rune()
	if (r >= '1' && r <= '9') || (r == '0' && a.count > 0) {
		a.count = a.count*10 + int(r-'0')
		return
	}
	if a.GetPendingKeyBindingByPrefix(r) != nil {
		a.pendingKey = r
		return
	}
	if kb := a.GetKeybindingByKey(r); kb != nil {
		kb.Handler(a)
	}
	a.count = 0
}
