package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHelpScreenLines(t *testing.T) {
	msgs := NewMessageLogger(3)
	msgs.Info("saved layout.json")
	h := NewHelpScreen([]Binding{
		{Keys: "j/k", Description: "Move focus"},
		{Keys: "J/K", Description: "Move item"},
		{Keys: "za", Description: "Toggle fold"},
	}, msgs)

	lines := h.Lines()
	require.Len(t, lines, 6)
	assert.Equal(t, "  j/k  Move focus", lines[0])
	assert.Equal(t, "  za   Toggle fold", lines[2])
	assert.Equal(t, "Recent messages:", lines[4])
	assert.True(t, strings.HasSuffix(lines[5], "saved layout.json"))

	assert.False(t, h.IsVisible())
	h.Toggle()
	assert.True(t, h.IsVisible())
	h.Hide()
	assert.False(t, h.IsVisible())
}

func TestHelpScreenRender(t *testing.T) {
	s := newTestScreen(t, 40, 10)
	h := NewHelpScreen([]Binding{{Keys: "?", Description: "Help"}}, nil)
	h.Render(s)
	assert.Equal(t, "", rowText(s, 1))

	h.Toggle()
	h.Render(s)
	assert.True(t, strings.HasPrefix(rowText(s, 1), "  ┌─ Keybindings"), rowText(s, 1))
	assert.True(t, strings.HasPrefix(rowText(s, 2), "  │   ?  Help"), rowText(s, 2))
}

func TestMessageLogger(t *testing.T) {
	ml := NewMessageLogger(2)
	_, ok := ml.Latest()
	assert.False(t, ok)

	ml.Info("one")
	ml.Info("")
	ml.Error("two")
	ml.Info("three")

	latest, ok := ml.Latest()
	require.True(t, ok)
	assert.Equal(t, "three", latest.Text)

	msgs := ml.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "three", msgs[0].Text)
	assert.True(t, msgs[1].Error)

	ml.Clear()
	assert.Empty(t, ml.Messages())
}
