package ui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/ripopov/surfer-sub000/internal/model"
	"github.com/ripopov/surfer-sub000/internal/tree"
)

const (
	foldedMarker   = '▶'
	unfoldedMarker = '▼'
)

// Rect is a screen area
type Rect struct {
	X, Y, W, H int
}

// PanelState is the part of the app state the item panel draws
type PanelState struct {
	// Focus is the focused visible row, -1 when nothing is focused
	Focus tree.VisibleItemIndex
}

// ItemPanel renders the visible rows of an item tree
type ItemPanel struct {
	IndentWidth int
	offset      int
}

// NewItemPanel creates a panel indenting each level by indentWidth columns
func NewItemPanel(indentWidth int) *ItemPanel {
	if indentWidth < 1 {
		indentWidth = 1
	}
	return &ItemPanel{IndentWidth: indentWidth}
}

// Offset returns the visible index drawn on the first row
func (p *ItemPanel) Offset() int {
	return p.offset
}

// RowAt maps a screen row inside area to the visible index drawn there
func (p *ItemPanel) RowAt(area Rect, y int, t *tree.Tree) (tree.VisibleItemIndex, bool) {
	if y < area.Y || y >= area.Y+area.H {
		return -1, false
	}
	vidx := p.offset + y - area.Y
	if vidx >= t.VisibleLen() {
		return -1, false
	}
	return tree.VisibleItemIndex(vidx), true
}

// scrollTo moves the viewport so the focused row is inside it
func (p *ItemPanel) scrollTo(focus, visible, height int) {
	if focus >= 0 {
		if focus < p.offset {
			p.offset = focus
		}
		if focus >= p.offset+height {
			p.offset = focus - height + 1
		}
	}
	p.offset = max(min(p.offset, visible-height), 0)
}

// Render draws the visible rows of t into area
func (p *ItemPanel) Render(screen *Screen, area Rect, t *tree.Tree, reg *model.Registry, state PanelState) {
	if area.W <= 0 || area.H <= 0 {
		return
	}
	bg := screen.BackgroundStyle()
	for y := area.Y; y < area.Y+area.H; y++ {
		screen.FillRow(y, area.X, area.X+area.W, bg)
	}
	if t.IsEmpty() {
		dim := bg.Foreground(screen.Theme.Colors.DimText).Dim(true)
		screen.DrawStringLimited(area.X+1, area.Y, "(no items, press a to add one)", area.W-1, dim)
		return
	}

	p.scrollTo(int(state.Focus), t.VisibleLen(), area.H)

	vidx := 0
	for info := range t.VisibleExtra() {
		row := vidx - p.offset
		if row >= area.H {
			break
		}
		if row >= 0 {
			p.renderRow(screen, area, area.Y+row, info, reg, tree.VisibleItemIndex(vidx) == state.Focus)
		}
		vidx++
	}
}

func (p *ItemPanel) renderRow(screen *Screen, area Rect, y int, info tree.VisibleInfo, reg *model.Registry, focused bool) {
	item := reg.Get(info.Node.Item)
	var style tcell.Style
	var label string
	if item == nil {
		style = screen.BackgroundStyle().Foreground(screen.Theme.Colors.DimText).Dim(true)
		label = fmt.Sprintf("<missing item %d>", info.Node.Item)
	} else {
		style = screen.ItemStyle(item)
		label = itemLabel(item)
	}
	markerStyle := screen.FoldMarkerStyle()
	if info.Node.Selected {
		style = screen.SelectionStyle(style)
		markerStyle = screen.SelectionStyle(markerStyle)
	}
	if focused {
		style = screen.FocusStyle(style)
		markerStyle = screen.FocusStyle(markerStyle)
	}

	right := area.X + area.W
	screen.FillRow(y, area.X, right, style)

	x := area.X + int(info.Node.Level)*p.IndentWidth
	if info.HasChild {
		marker := foldedMarker
		if info.Node.Unfolded {
			marker = unfoldedMarker
		}
		screen.SetCell(x, y, marker, markerStyle)
	}
	x += 2
	if x >= right {
		return
	}
	x = screen.DrawStringLimited(x, y, label, right-x, style)
	if item != nil && item.Kind == model.KindDivider {
		for ; x < right; x++ {
			screen.SetCell(x, y, '─', style)
		}
	}
}

// itemLabel is the text drawn for an item after the fold marker column
func itemLabel(item *model.DisplayedItem) string {
	switch item.Kind {
	case model.KindDivider:
		if item.Name == "" {
			return "──"
		}
		return "── " + item.Name + " "
	case model.KindMarker:
		return "◆ " + item.Name
	case model.KindTimeLine:
		if item.Name == "" {
			return "⊢ time"
		}
		return "⊢ " + item.Name
	case model.KindStream:
		return "≋ " + item.Name
	case model.KindPlaceholder:
		return "(" + item.Name + ")"
	}
	return item.Name
}

// StatusLine is the bottom line of the panel
type StatusLine struct {
	Mode     string
	Message  string
	Modified bool
	// Position is shown right aligned, e.g. "3/12"
	Position string
}

// Render draws the status line on row y
func (s StatusLine) Render(screen *Screen, y int) {
	width := screen.GetWidth()
	screen.FillRow(y, 0, width, screen.BackgroundStyle())

	x := 0
	if s.Mode != "" {
		x = screen.DrawString(x, y, " "+strings.ToUpper(s.Mode)+" ", screen.StatusModeStyle())
	}

	rightText := s.Position
	if s.Modified {
		rightText = "[+] " + rightText
	}
	rightX := width - StringWidth(rightText) - 1
	if s.Message != "" {
		screen.DrawStringLimited(x+1, y, s.Message, rightX-x-2, screen.StatusMessageStyle())
	}
	if rightText != "" && rightX > x {
		if s.Modified {
			screen.DrawString(rightX, y, "[+]", screen.StatusModifiedStyle())
			screen.DrawString(rightX+4, y, s.Position, screen.StatusMessageStyle())
		} else {
			screen.DrawString(rightX, y, s.Position, screen.StatusMessageStyle())
		}
	}
}
