package ui

import "fmt"

// Binding is one line of the help screen
type Binding struct {
	Keys        string
	Description string
}

// HelpScreen shows the keybindings over the item panel
type HelpScreen struct {
	visible  bool
	bindings []Binding
	messages *MessageLogger
}

// NewHelpScreen creates a hidden help screen. Recent messages of the
// logger are listed below the bindings when it is not nil.
func NewHelpScreen(bindings []Binding, messages *MessageLogger) *HelpScreen {
	return &HelpScreen{bindings: bindings, messages: messages}
}

// Toggle toggles the help screen visibility
func (h *HelpScreen) Toggle() {
	h.visible = !h.visible
}

// Hide hides the help screen
func (h *HelpScreen) Hide() {
	h.visible = false
}

// IsVisible returns whether the help screen is visible
func (h *HelpScreen) IsVisible() bool {
	return h.visible
}

// Lines returns the text of the help screen
func (h *HelpScreen) Lines() []string {
	keyWidth := 0
	for _, b := range h.bindings {
		keyWidth = max(keyWidth, StringWidth(b.Keys))
	}
	lines := make([]string, 0, len(h.bindings)+8)
	for _, b := range h.bindings {
		lines = append(lines, fmt.Sprintf("  %s  %s", PadStringToWidth(b.Keys, keyWidth), b.Description))
	}
	if h.messages != nil {
		if msgs := h.messages.Messages(); len(msgs) > 0 {
			lines = append(lines, "", "Recent messages:")
			for _, m := range msgs[:min(len(msgs), 5)] {
				lines = append(lines, fmt.Sprintf("  %s  %s", m.Timestamp.Format("15:04:05"), m.Text))
			}
		}
	}
	return lines
}

// Render draws the help box
func (h *HelpScreen) Render(screen *Screen) {
	if !h.visible {
		return
	}
	width, height := screen.Size()
	style := screen.BackgroundStyle()
	titleStyle := screen.HeaderStyle()

	startX, startY := 2, 1
	boxWidth := width - 4
	boxHeight := height - 2
	if boxWidth < 10 || boxHeight < 4 {
		return
	}
	right := startX + boxWidth - 1
	bottom := startY + boxHeight - 1

	for y := startY; y <= bottom; y++ {
		screen.FillRow(y, startX, right+1, style)
		screen.SetCell(startX, y, '│', style)
		screen.SetCell(right, y, '│', style)
	}
	for x := startX + 1; x < right; x++ {
		screen.SetCell(x, startY, '─', style)
		screen.SetCell(x, bottom, '─', style)
	}
	screen.SetCell(startX, startY, '┌', style)
	screen.SetCell(right, startY, '┐', style)
	screen.SetCell(startX, bottom, '└', style)
	screen.SetCell(right, bottom, '┘', style)
	screen.DrawString(startX+2, startY, " Keybindings (? to close) ", titleStyle)

	y := startY + 1
	for _, line := range h.Lines() {
		if y >= bottom {
			break
		}
		screen.DrawStringLimited(startX+2, y, line, boxWidth-4, style)
		y++
	}
}
