package ui

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
)

// Prompt is the single line input used for `:` commands and `/` queries
type Prompt struct {
	prefix    string
	active    bool
	input     string
	cursorPos int // byte offset into input

	history []string
	maxHist int
	histPos int // len(history) when not navigating
	pending string
}

// NewPrompt creates an inactive prompt that remembers up to maxHistory
// entered lines
func NewPrompt(maxHistory int) *Prompt {
	return &Prompt{maxHist: maxHistory}
}

// Start activates the prompt with the given prefix, e.g. ":" or "/"
func (p *Prompt) Start(prefix string) {
	p.prefix = prefix
	p.active = true
	p.input = ""
	p.cursorPos = 0
	p.histPos = len(p.history)
}

// Stop deactivates the prompt
func (p *Prompt) Stop() {
	p.active = false
}

// IsActive returns whether the prompt takes keyboard input
func (p *Prompt) IsActive() bool {
	return p.active
}

// Prefix returns the prefix the prompt was started with
func (p *Prompt) Prefix() string {
	return p.prefix
}

// Input returns the trimmed current input
func (p *Prompt) Input() string {
	return strings.TrimSpace(p.input)
}

// History returns the remembered lines, oldest first
func (p *Prompt) History() []string {
	return slices.Clone(p.history)
}

// SetHistory replaces the remembered lines, keeping the newest ones that fit
func (p *Prompt) SetHistory(lines []string) {
	p.history = nil
	for _, line := range lines {
		p.remember(line)
	}
	p.histPos = len(p.history)
}

func (p *Prompt) remember(line string) {
	if line == "" || p.maxHist <= 0 {
		return
	}
	if n := len(p.history); n > 0 && p.history[n-1] == line {
		return
	}
	p.history = append(p.history, line)
	if len(p.history) > p.maxHist {
		p.history = p.history[len(p.history)-p.maxHist:]
	}
}

func (p *Prompt) setInput(s string) {
	p.input = s
	p.cursorPos = len(s)
}

// deleteWordBackwards deletes the word before the cursor
func (p *Prompt) deleteWordBackwards() {
	pos := p.cursorPos
	for pos > 0 && (p.input[pos-1] == ' ' || p.input[pos-1] == '\t') {
		pos--
	}
	for pos > 0 && p.input[pos-1] != ' ' && p.input[pos-1] != '\t' {
		pos--
	}
	p.input = p.input[:pos] + p.input[p.cursorPos:]
	p.cursorPos = pos
}

// HandleKey processes a key press. done reports that the prompt closed;
// line is the entered text, empty when the prompt was cancelled.
func (p *Prompt) HandleKey(ev *tcell.EventKey) (line string, done bool) {
	switch ev.Key() {
	case tcell.KeyEscape:
		p.Stop()
		return "", true
	case tcell.KeyEnter:
		line = p.Input()
		p.remember(line)
		p.Stop()
		return line, true
	case tcell.KeyCtrlW:
		p.deleteWordBackwards()
	case tcell.KeyUp:
		if p.histPos == len(p.history) {
			p.pending = p.input
		}
		if p.histPos > 0 {
			p.histPos--
			p.setInput(p.history[p.histPos])
		}
	case tcell.KeyDown:
		if p.histPos < len(p.history) {
			p.histPos++
			if p.histPos == len(p.history) {
				p.setInput(p.pending)
			} else {
				p.setInput(p.history[p.histPos])
			}
		}
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if p.input == "" {
			p.Stop()
			return "", true
		}
		if p.cursorPos > 0 {
			_, size := utf8.DecodeLastRuneInString(p.input[:p.cursorPos])
			p.input = p.input[:p.cursorPos-size] + p.input[p.cursorPos:]
			p.cursorPos -= size
		}
	case tcell.KeyDelete:
		if p.cursorPos < len(p.input) {
			_, size := utf8.DecodeRuneInString(p.input[p.cursorPos:])
			p.input = p.input[:p.cursorPos] + p.input[p.cursorPos+size:]
		}
	case tcell.KeyLeft:
		if p.cursorPos > 0 {
			_, size := utf8.DecodeLastRuneInString(p.input[:p.cursorPos])
			p.cursorPos -= size
		}
	case tcell.KeyRight:
		if p.cursorPos < len(p.input) {
			_, size := utf8.DecodeRuneInString(p.input[p.cursorPos:])
			p.cursorPos += size
		}
	case tcell.KeyHome, tcell.KeyCtrlA:
		p.cursorPos = 0
	case tcell.KeyEnd, tcell.KeyCtrlE:
		p.cursorPos = len(p.input)
	case tcell.KeyCtrlU:
		p.input = p.input[p.cursorPos:]
		p.cursorPos = 0
	case tcell.KeyCtrlK:
		p.input = p.input[:p.cursorPos]
	case tcell.KeyRune:
		s := string(ev.Rune())
		p.input = p.input[:p.cursorPos] + s + p.input[p.cursorPos:]
		p.cursorPos += len(s)
	}
	return "", false
}

// Render draws the prompt on row y
func (p *Prompt) Render(screen *Screen, y int) {
	if !p.active {
		return
	}
	width := screen.GetWidth()
	textStyle := screen.StatusMessageStyle()
	cursorStyle := textStyle.Reverse(true)
	screen.FillRow(y, 0, width, textStyle)

	x := screen.DrawString(0, y, p.prefix, screen.StatusModeStyle())
	for i, r := range p.input {
		style := textStyle
		if i == p.cursorPos {
			style = cursorStyle
		}
		screen.SetCell(x, y, r, style)
		x += RuneWidth(r)
	}
	if p.cursorPos >= len(p.input) {
		screen.SetCell(x, y, ' ', cursorStyle)
	}
}
