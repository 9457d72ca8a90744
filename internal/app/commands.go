package app

import (
	"fmt"
	"log"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/ripopov/surfer-sub000/internal/diff"
	"github.com/ripopov/surfer-sub000/internal/export"
	import_parser "github.com/ripopov/surfer-sub000/internal/import"
	"github.com/ripopov/surfer-sub000/internal/model"
	"github.com/ripopov/surfer-sub000/internal/storage"
	"github.com/ripopov/surfer-sub000/internal/theme"
	"github.com/ripopov/surfer-sub000/internal/tree"
)

// parseCommand splits a command line into words. Single or double quotes
// group words; a backslash escapes the next character.
func parseCommand(input string) []string {
	var parts []string
	var current strings.Builder
	inWord := false
	var quote rune
	escaped := false

	for _, r := range input {
		switch {
		case escaped:
			current.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
			inWord = true
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				current.WriteRune(r)
			}
		case r == '"' || r == '\'':
			quote = r
			inWord = true
		case r == ' ' || r == '\t':
			if inWord {
				parts = append(parts, current.String())
				current.Reset()
				inWord = false
			}
		default:
			current.WriteRune(r)
			inWord = true
		}
	}
	if inWord {
		parts = append(parts, current.String())
	}
	return parts
}

// handleCommand processes a command from command mode
func (a *App) handleCommand(cmd string) {
	parts := parseCommand(cmd)
	if len(parts) == 0 {
		return
	}
	args := parts[1:]

	switch parts[0] {
	case "q", "quit":
		if a.panel.Modified() {
			a.SetError("Unsaved changes! Use :q! to force quit or :w to save")
		} else {
			a.quit = true
		}
	case "q!", "quit!":
		a.quit = true
	case "w", "write":
		if len(args) > 0 {
			a.store = storage.NewStore(args[0])
		}
		a.saveWithStatus()
	case "wq", "x":
		if err := a.Save(); err != nil {
			a.SetError("Failed to save: " + err.Error())
		} else {
			a.quit = true
		}
	case "add":
		if len(args) == 0 {
			a.SetError("Usage: add [kind] <name>")
			return
		}
		a.addItemFromText(strings.Join(args, " "))
	case "group":
		a.groupSelection(strings.Join(args, " "))
	case "dissolve":
		if err := a.panel.Dissolve(); err != nil {
			a.SetError(err.Error())
		}
	case "rename":
		if len(args) == 0 {
			a.SetError("Usage: rename <name>")
			return
		}
		a.reportErr(a.panel.Rename(strings.Join(args, " ")))
	case "color", "bg":
		a.setItemColor(parts[0] == "bg", args)
	case "select":
		n, err := a.panel.SelectMatching(strings.Join(args, " "))
		if err != nil {
			a.SetError("Invalid query: " + err.Error())
			return
		}
		a.SetStatus(fmt.Sprintf("Selected %d items", n))
	case "unselect":
		a.panel.ClearSelection()
	case "find":
		a.find(strings.Join(args, " "))
	case "fold", "unfold":
		unfolded := parts[0] == "unfold"
		if len(args) > 0 && args[0] == "all" {
			a.panel.SetUnfoldedAll(unfolded)
			return
		}
		info, ok := a.panel.Tree.GetVisibleExtra(a.panel.Focus())
		if ok && info.Node.Unfolded != unfolded {
			a.reportErr(a.panel.ToggleFold(false))
		}
	case "move":
		a.handleMoveCommand(args)
	case "import":
		if len(args) == 0 {
			a.SetError("Usage: import <file>")
			return
		}
		a.ImportFile(args[0])
	case "export":
		if len(args) == 0 {
			a.SetError("Usage: export <file.md> [visible]")
			return
		}
		visibleOnly := len(args) > 1 && args[1] == "visible"
		if err := export.ExportToMarkdown(a.panel.Tree, a.panel.Items, args[0], visibleOnly); err != nil {
			a.SetError("Export failed: " + err.Error())
			return
		}
		a.SetStatus("Exported to " + args[0])
	case "diff":
		a.showDiff(args)
	case "backup", "backups":
		a.handleBackupCommand(args)
	case "theme":
		if len(args) == 0 {
			a.SetStatus("Theme: " + a.screen.Theme.Name)
			return
		}
		a.screen.Theme = theme.LoadThemeOrDefault(args[0])
		a.SetStatus("Theme: " + a.screen.Theme.Name)
	case "set":
		a.handleSetCommand(args)
	case "help":
		a.help.Toggle()
	case "debug":
		a.debugMode = !a.debugMode
		if a.debugMode {
			a.SetStatus("Debug mode ON")
		} else {
			a.SetStatus("Debug mode OFF")
		}
	default:
		a.SetError("Unknown command: " + parts[0])
	}
}

func (a *App) saveWithStatus() {
	if err := a.Save(); err != nil {
		a.SetError("Failed to save: " + err.Error())
		return
	}
	a.SetStatus("Saved " + filepath.Base(a.store.FilePath))
}

// handleMoveCommand runs "move up|down [count]"
func (a *App) handleMoveCommand(args []string) {
	if len(args) == 0 {
		a.SetError("Usage: move up|down [count]")
		return
	}
	count := 1
	if len(args) > 1 {
		if _, err := fmt.Sscanf(args[1], "%d", &count); err != nil || count < 1 {
			a.SetError("Invalid count: " + args[1])
			return
		}
	}
	var dir tree.MoveDir
	switch args[0] {
	case "up":
		dir = tree.MoveUp
	case "down":
		dir = tree.MoveDown
	default:
		a.SetError("Unknown direction: " + args[0])
		return
	}
	a.reportErr(a.panel.MoveFocused(dir, count))
}

// setItemColor sets or clears (no argument) the color of the focused item
func (a *App) setItemColor(background bool, args []string) {
	item := a.panel.FocusedItem()
	if item == nil {
		a.SetError(ErrNoFocus.Error())
		return
	}
	value := ""
	if len(args) > 0 {
		value = args[0]
		if theme.ParseColorString(value) == tcell.ColorDefault {
			a.SetError("Unknown color: " + value)
			return
		}
	}
	ref := item.Ref
	a.panel.Edit("color", func(_ *tree.Tree, reg *model.Registry) {
		if background {
			reg.Get(ref).BackgroundColor = value
		} else {
			reg.Get(ref).Color = value
		}
	})
}

// ImportFile appends the items of a Markdown or indented text file
func (a *App) ImportFile(path string) {
	content, err := os.ReadFile(path)
	if err != nil {
		a.SetError("Import failed: " + err.Error())
		return
	}
	entries, err := import_parser.ParseFile(string(content), import_parser.DetectFormat(path))
	if err != nil {
		a.SetError("Import failed: " + err.Error())
		return
	}
	var n int
	a.panel.Edit("import", func(t *tree.Tree, reg *model.Registry) {
		n = import_parser.Append(entries, reg, t)
	})
	a.SetStatus(fmt.Sprintf("Imported %d items from %s", n, filepath.Base(path)))
}

// showDiff summarizes the changes since the last save, or against the
// layout file given as argument
func (a *App) showDiff(args []string) {
	store := a.store
	if len(args) > 0 {
		store = storage.NewStore(args[0])
	}
	saved, err := store.Load()
	if err != nil {
		a.SetError("Diff failed: " + err.Error())
		return
	}
	result, err := diff.ComputeDiff(saved, storage.NewLayout(a.panel.Items, a.panel.Tree))
	if err != nil {
		a.SetError("Diff failed: " + err.Error())
		return
	}
	if result.Empty() {
		a.SetStatus("No changes against " + filepath.Base(store.FilePath))
		return
	}
	log.Printf("diff against %s:\n%s", store.FilePath, diff.FormatLines(diff.BuildDiffLines(result, true)))
	a.SetStatus(diff.Summary(result))
}

// handleSetCommand runs "set" (list), "set key" (show) and "set key value"
func (a *App) handleSetCommand(args []string) {
	switch len(args) {
	case 0:
		all := a.cfg.GetAll()
		var pairs []string
		for _, k := range slices.Sorted(maps.Keys(all)) {
			pairs = append(pairs, k+"="+all[k])
		}
		if len(pairs) == 0 {
			a.SetStatus("No settings")
			return
		}
		a.SetStatus(strings.Join(pairs, " "))
	case 1:
		a.SetStatus(args[0] + "=" + a.cfg.Get(args[0]))
	default:
		if err := a.cfg.Set(args[0], strings.Join(args[1:], " ")); err != nil {
			a.SetError(err.Error())
			return
		}
		a.applyConfig()
		a.SetStatus(args[0] + "=" + a.cfg.Get(args[0]))
	}
}

// applyConfig pushes panel settings into the running app
func (a *App) applyConfig() {
	a.view.IndentWidth = max(a.cfg.Panel.IndentWidth, 1)
	a.panel.GroupName = a.cfg.Panel.DefaultGroupName
}
