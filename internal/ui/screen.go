package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/ripopov/surfer-sub000/internal/model"
	"github.com/ripopov/surfer-sub000/internal/theme"
)

// Screen manages the tcell screen and rendering
type Screen struct {
	tcellScreen tcell.Screen
	width       int
	height      int
	closed      bool
	Theme       *theme.Theme
}

// NewScreenWithTheme creates and initializes a terminal screen
func NewScreenWithTheme(t *theme.Theme) (*Screen, error) {
	tcellScreen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("failed to create screen: %w", err)
	}
	return NewScreenFromTcell(tcellScreen, t)
}

// NewScreenFromTcell wraps an existing tcell screen, initializing it. Tests
// pass a simulation screen here.
func NewScreenFromTcell(tcellScreen tcell.Screen, t *theme.Theme) (*Screen, error) {
	if err := tcellScreen.Init(); err != nil {
		return nil, fmt.Errorf("failed to init screen: %w", err)
	}
	tcellScreen.EnableMouse(tcell.MouseButtonEvents | tcell.MouseDragEvents)
	if t == nil {
		t = theme.Default()
	}
	width, height := tcellScreen.Size()
	return &Screen{
		tcellScreen: tcellScreen,
		width:       width,
		height:      height,
		Theme:       t,
	}, nil
}

// Close restores the terminal. Closing twice is a no-op.
func (s *Screen) Close() error {
	if !s.closed {
		s.closed = true
		s.tcellScreen.Fini()
	}
	return nil
}

// Clear clears the entire screen
func (s *Screen) Clear() {
	s.tcellScreen.Clear()
}

// SetCell sets a cell at the given position
func (s *Screen) SetCell(x, y int, r rune, style tcell.Style) {
	if x >= 0 && x < s.width && y >= 0 && y < s.height {
		s.tcellScreen.SetContent(x, y, r, nil, style)
	}
}

// DrawString draws a string at the given position and returns the column
// after the last drawn rune. Wide runes advance by their display width.
func (s *Screen) DrawString(x, y int, text string, style tcell.Style) int {
	for _, r := range text {
		s.SetCell(x, y, r, style)
		x += RuneWidth(r)
	}
	return x
}

// DrawStringLimited draws a string, truncating it to maxWidth columns
func (s *Screen) DrawStringLimited(x, y int, text string, maxWidth int, style tcell.Style) int {
	if maxWidth <= 0 {
		return x
	}
	return s.DrawString(x, y, TruncateToWidthWithEllipsis(text, maxWidth), style)
}

// FillRow paints columns [from, to) of row y with spaces
func (s *Screen) FillRow(y, from, to int, style tcell.Style) {
	for x := from; x < to; x++ {
		s.SetCell(x, y, ' ', style)
	}
}

// PollEvent blocks until the next event
func (s *Screen) PollEvent() tcell.Event {
	return s.tcellScreen.PollEvent()
}

// PostEvent injects an event into the event queue
func (s *Screen) PostEvent(ev tcell.Event) error {
	return s.tcellScreen.PostEvent(ev)
}

// Show shows the screen
func (s *Screen) Show() {
	s.tcellScreen.Show()
}

// Sync refreshes the size after a resize event
func (s *Screen) Sync() {
	s.tcellScreen.Sync()
	s.Size()
}

// Size returns the width and height of the screen
func (s *Screen) Size() (int, int) {
	w, h := s.tcellScreen.Size()
	s.width = w
	s.height = h
	return w, h
}

// GetWidth returns the width of the screen
func (s *Screen) GetWidth() int {
	s.width, _ = s.tcellScreen.Size()
	return s.width
}

// GetHeight returns the height of the screen
func (s *Screen) GetHeight() int {
	_, s.height = s.tcellScreen.Size()
	return s.height
}

// Theme-aware style methods

// BackgroundStyle returns the default background style for the application
func (s *Screen) BackgroundStyle() tcell.Style {
	return tcell.StyleDefault.Foreground(s.Theme.Colors.Text).Background(s.Theme.Colors.Background)
}

// ItemStyle returns the row style of an item, honouring its own colors
func (s *Screen) ItemStyle(item *model.DisplayedItem) tcell.Style {
	c := s.Theme.Colors
	style := s.BackgroundStyle()
	switch item.Kind {
	case model.KindGroup:
		style = style.Foreground(c.GroupText).Bold(true)
	case model.KindDivider:
		style = style.Foreground(c.DividerText)
	case model.KindMarker, model.KindTimeLine:
		style = style.Foreground(c.MarkerText)
	case model.KindStream:
		style = style.Foreground(c.StreamText)
	case model.KindPlaceholder:
		style = style.Foreground(c.DimText).Dim(true)
	}
	if fg := theme.ParseColorString(item.Color); fg != tcell.ColorDefault {
		style = style.Foreground(fg)
	}
	if bg := theme.ParseColorString(item.BackgroundColor); bg != tcell.ColorDefault {
		style = style.Background(bg)
	}
	return style
}

// FoldMarkerStyle returns the style of the fold marker column
func (s *Screen) FoldMarkerStyle() tcell.Style {
	return s.BackgroundStyle().Foreground(s.Theme.Colors.FoldMarker)
}

// FocusStyle applies the focused row highlight to style. Themes without a
// focus background fall back to reverse video.
func (s *Screen) FocusStyle(style tcell.Style) tcell.Style {
	if s.Theme.Colors.FocusBackground == tcell.ColorDefault {
		return style.Reverse(true)
	}
	return style.Background(s.Theme.Colors.FocusBackground)
}

// SelectionStyle applies the selected row highlight to style
func (s *Screen) SelectionStyle(style tcell.Style) tcell.Style {
	if s.Theme.Colors.SelectionBackground == tcell.ColorDefault {
		return style.Underline(true)
	}
	return style.Background(s.Theme.Colors.SelectionBackground)
}

// StatusModeStyle returns the style for mode indicator
func (s *Screen) StatusModeStyle() tcell.Style {
	return s.BackgroundStyle().Foreground(s.Theme.Colors.StatusMode).Bold(true)
}

// StatusMessageStyle returns the style for status messages
func (s *Screen) StatusMessageStyle() tcell.Style {
	return s.BackgroundStyle().Foreground(s.Theme.Colors.StatusMessage)
}

// StatusModifiedStyle returns the style for modified indicator
func (s *Screen) StatusModifiedStyle() tcell.Style {
	return s.BackgroundStyle().Foreground(s.Theme.Colors.StatusModified)
}

// HeaderStyle returns the style for header title
func (s *Screen) HeaderStyle() tcell.Style {
	return s.BackgroundStyle().Foreground(s.Theme.Colors.HeaderTitle).Bold(true)
}
