package app

import (
	"fmt"
	"log"
	"math"
	"path/filepath"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/ripopov/surfer-sub000/internal/config"
	"github.com/ripopov/surfer-sub000/internal/history"
	import_parser "github.com/ripopov/surfer-sub000/internal/import"
	"github.com/ripopov/surfer-sub000/internal/socket"
	"github.com/ripopov/surfer-sub000/internal/storage"
	"github.com/ripopov/surfer-sub000/internal/tree"
	"github.com/ripopov/surfer-sub000/internal/ui"
)

// promptHistoryFile holds the lines entered in the prompt across sessions
const promptHistoryFile = "prompt.toml"

// NormalMode is shown in the status line when no key sequence is pending
const NormalMode = "normal"

const autosaveInterval = 5 * time.Second

// promptKind says what the text entered in the prompt is for
type promptKind int

const (
	promptCommand promptKind = iota
	promptFind
	promptAdd
	promptRename
	promptGroup
)

// Options configure a new App
type Options struct {
	FilePath string
	Config   *config.Config
	Screen   *ui.Screen
	// BackupDir overrides the backup directory, "" uses the default
	BackupDir string
	// HistoryDir overrides the prompt history directory, "" uses the default
	HistoryDir string
	// Control, when set, feeds commands from the control socket into the
	// event loop. The app stops it on Close.
	Control *socket.Server
	Debug   bool
}

// App is the main application controller
type App struct {
	screen   *ui.Screen
	panel    *Panel
	view     *ui.ItemPanel
	store    *storage.Store
	lines    *history.PromptStore
	backups  *storage.BackupManager
	control  *socket.Server
	cfg      *config.Config
	help     *ui.HelpScreen
	prompt   *ui.Prompt
	messages *ui.MessageLogger

	promptFor    promptKind
	statusMsg    string
	statusTime   time.Time
	autoSaveTime time.Time
	quit         bool
	debugMode    bool

	// dragging is set between a Button1 press on a row and its release
	dragging bool
	dragFrom tree.VisibleItemIndex

	// count is the numeric prefix typed before a command, 0 when none
	count      int
	pendingKey rune

	keybindings        []KeyBinding
	pendingKeybindings []PendingKeyBinding

	sessionID         string
	currentBackupPath string
}

// NewApp loads the layout at opts.FilePath and prepares the application
func NewApp(opts Options) (*App, error) {
	cfg := opts.Config
	if cfg == nil {
		var err error
		if cfg, err = config.Load(); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	store := storage.NewStore(opts.FilePath)
	layout, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load layout: %w", err)
	}
	reg, t, err := layout.Restore()
	if err != nil {
		return nil, fmt.Errorf("failed to restore layout: %w", err)
	}

	backups, err := storage.NewBackupManager(opts.BackupDir)
	if err != nil {
		log.Printf("warning: backups disabled: %v", err)
		backups = nil
	} else {
		backups.Keep = 50
	}

	lines, err := history.NewPromptStore(opts.HistoryDir)
	if err != nil {
		log.Printf("warning: prompt history disabled: %v", err)
		lines = nil
	}

	panel := NewPanel(t, reg, cfg.Panel.UndoDepth)
	panel.GroupName = cfg.Panel.DefaultGroupName

	messages := ui.NewMessageLogger(50)
	a := &App{
		screen:       opts.Screen,
		panel:        panel,
		view:         ui.NewItemPanel(cfg.Panel.IndentWidth),
		store:        store,
		lines:        lines,
		backups:      backups,
		control:      opts.Control,
		cfg:          cfg,
		prompt:       ui.NewPrompt(50),
		messages:     messages,
		autoSaveTime: time.Now(),
		debugMode:    opts.Debug,
		sessionID:    generateSessionID(),
	}
	a.keybindings = a.InitializeKeybindings()
	a.pendingKeybindings = a.InitializePendingKeybindings()
	a.help = ui.NewHelpScreen(a.helpBindings(), messages)
	if lines != nil {
		if saved, err := lines.Load(promptHistoryFile); err != nil {
			log.Printf("warning: failed to load prompt history: %v", err)
		} else {
			a.prompt.SetHistory(saved)
		}
	}

	if store.FileExists() {
		a.SetStatus(fmt.Sprintf("Loaded %s (%d items)", filepath.Base(opts.FilePath), reg.Len()))
	} else {
		a.SetStatus("New layout " + filepath.Base(opts.FilePath))
	}
	return a, nil
}

// Panel returns the item management layer
func (a *App) Panel() *Panel {
	return a.panel
}

// Run starts the main event loop
func (a *App) Run() error {
	defer a.Close()

	eventChan := make(chan tcell.Event)
	done := make(chan struct{})
	defer close(done)

	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case eventChan <- ev:
			case <-done:
				return
			}
		}
	}()

	// ~20 FPS
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	// nil blocks forever when there is no control socket
	var controlChan <-chan socket.Message
	if a.control != nil {
		controlChan = a.control.Messages()
	}

	a.render()
	for !a.quit {
		select {
		case ev := <-eventChan:
			a.handleRawEvent(ev)
			a.render()
		case msg := <-controlChan:
			msg.Reply(a.handleControl(msg))
			a.render()
		case <-ticker.C:
			a.autosave()
			a.render()
		}
	}
	return nil
}

// autosave writes a modified layout once it has been idle long enough
func (a *App) autosave() {
	if !a.cfg.Panel.Autosave || !a.panel.Modified() || time.Since(a.autoSaveTime) < autosaveInterval {
		return
	}
	if err := a.Save(); err != nil {
		a.SetError("Autosave failed: " + err.Error())
	} else {
		a.SetStatus("Autosaved")
	}
}

// Close closes the application
func (a *App) Close() error {
	if a.lines != nil {
		if err := a.lines.Save(promptHistoryFile, a.prompt.History()); err != nil {
			log.Printf("warning: failed to save prompt history: %v", err)
		}
	}
	if a.control != nil {
		a.control.Stop()
	}
	if a.screen != nil {
		return a.screen.Close()
	}
	return nil
}

// panelArea is the screen area of the item rows, between header and
// status line
func (a *App) panelArea() ui.Rect {
	width, height := a.screen.Size()
	return ui.Rect{X: 0, Y: 1, W: width, H: max(height-2, 0)}
}

// render renders the current state to the screen
func (a *App) render() {
	a.screen.Clear()
	width, height := a.screen.Size()

	header := " " + filepath.Base(a.store.FilePath) + " "
	a.screen.FillRow(0, 0, width, a.screen.BackgroundStyle())
	a.screen.DrawStringLimited(0, 0, header, width, a.screen.HeaderStyle())

	a.view.Render(a.screen, a.panelArea(), a.panel.Tree, a.panel.Items, ui.PanelState{Focus: a.panel.Focus()})

	if a.prompt.IsActive() {
		a.prompt.Render(a.screen, height-1)
	} else {
		a.statusLine().Render(a.screen, height-1)
	}

	a.help.Render(a.screen)
	a.screen.Show()
}

func (a *App) statusLine() ui.StatusLine {
	mode := NormalMode
	if a.pendingKey != 0 || a.count > 0 {
		mode = a.pendingPrefix()
	}
	msg := ""
	if time.Since(a.statusTime) <= 5*time.Second {
		msg = a.statusMsg
	}
	position := fmt.Sprintf("%d/%d", a.panel.Focus()+1, a.panel.Tree.VisibleLen())
	return ui.StatusLine{
		Mode:     mode,
		Message:  msg,
		Modified: a.panel.Modified(),
		Position: position,
	}
}

func (a *App) pendingPrefix() string {
	s := ""
	if a.count > 0 {
		s = fmt.Sprint(a.count)
	}
	if a.pendingKey != 0 {
		s += string(a.pendingKey)
	}
	return s
}

// handleRawEvent processes raw input events
func (a *App) handleRawEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		a.screen.Sync()
		return
	case *tcell.EventMouse:
		a.handleMouse(ev)
		return
	case *tcell.EventKey:
		switch {
		case a.prompt.IsActive():
			if line, done := a.prompt.HandleKey(ev); done {
				a.handlePromptLine(line)
			}
		case a.help.IsVisible():
			if ev.Key() == tcell.KeyEscape || ev.Rune() == '?' || ev.Rune() == 'q' {
				a.help.Hide()
			}
		default:
			a.handleKeypress(ev)
		}
	}
}

func (a *App) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	switch {
	case ev.Buttons()&tcell.Button1 != 0:
		// Held button motion reports Button1 again
		if a.dragging {
			return
		}
		vidx, ok := a.view.RowAt(a.panelArea(), y, a.panel.Tree)
		if !ok {
			return
		}
		a.panel.GrabRow(vidx)
		a.dragging = true
		a.dragFrom = vidx
	case ev.Buttons() == tcell.ButtonNone && a.dragging:
		a.dragging = false
		a.dropAt(x, y)
	}
}

// dropAt drops the grabbed rows at a screen position. Below the grabbed row
// the rows land after the hovered one, above it before. The column picks the
// nesting level.
func (a *App) dropAt(x, y int) {
	area := a.panelArea()
	if y < area.Y || y >= area.Y+area.H {
		return
	}
	vidx := tree.VisibleItemIndex(a.view.Offset() + y - area.Y)
	if vidx == a.dragFrom {
		return
	}
	if vidx > a.dragFrom {
		vidx++
	}
	level := uint8(min(max(x-area.X, 0)/a.view.IndentWidth, math.MaxUint8))
	if err := a.panel.DropSelection(vidx, level); err != nil {
		a.SetError(err.Error())
		return
	}
	a.SetStatus("Moved")
}

// startPrompt opens the prompt for kind
func (a *App) startPrompt(kind promptKind, prefix string) {
	a.promptFor = kind
	a.prompt.Start(prefix)
}

func (a *App) handlePromptLine(line string) {
	if line == "" {
		return
	}
	switch a.promptFor {
	case promptCommand:
		a.handleCommand(line)
	case promptFind:
		a.find(line)
	case promptAdd:
		a.addItemFromText(line)
	case promptRename:
		if err := a.panel.Rename(line); err != nil {
			a.SetError(err.Error())
		}
	case promptGroup:
		a.groupSelection(line)
	}
}

func (a *App) find(term string) {
	if a.panel.FocusBestMatch(term) {
		a.SetStatus("Found " + a.panel.FocusedItem().Name)
	} else {
		a.SetStatus("No match for " + term)
	}
}

func (a *App) addItemFromText(text string) {
	kind, name := import_parser.ParseItemText(text)
	a.panel.AddItem(kind, name)
	a.SetStatus(fmt.Sprintf("Added %s %s", kind, name))
}

func (a *App) groupSelection(name string) {
	ref, err := a.panel.GroupSelected(name)
	if err != nil {
		a.SetError(err.Error())
		return
	}
	a.SetStatus("Created group " + a.panel.Items.Get(ref).Name)
}

// Save writes the layout, keeping a backup of the saved state
func (a *App) Save() error {
	layout := storage.NewLayout(a.panel.Items, a.panel.Tree)
	if a.backups != nil {
		if path, err := a.backups.CreateBackup(layout, a.store.FilePath, a.sessionID); err != nil {
			log.Printf("warning: backup failed: %v", err)
		} else {
			a.currentBackupPath = path
		}
	}
	if err := a.store.Save(layout); err != nil {
		return err
	}
	a.panel.MarkSaved()
	a.autoSaveTime = time.Now()
	log.Printf("saved %s", a.store.FilePath)
	return nil
}

// SetStatus sets the status message
func (a *App) SetStatus(msg string) {
	a.statusMsg = msg
	a.statusTime = time.Now()
	a.messages.Info(msg)
}

// SetError sets an error status message
func (a *App) SetError(msg string) {
	a.statusMsg = msg
	a.statusTime = time.Now()
	a.messages.Error(msg)
	log.Printf("error: %s", msg)
}

// Quit signals the app to quit
func (a *App) Quit() {
	a.quit = true
}

// SetDebugMode enables or disables debug mode
func (a *App) SetDebugMode(debug bool) {
	a.debugMode = debug
}
