package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRuneWidth(t *testing.T) {
	assert.Equal(t, 1, RuneWidth('A'))
	assert.Equal(t, 2, RuneWidth('中'))
	assert.Equal(t, 2, RuneWidth('😀'))
	assert.Equal(t, 0, RuneWidth('\u0301'))
	assert.Equal(t, 0, RuneWidth('\t'))
}

func TestStringWidth(t *testing.T) {
	assert.Equal(t, 0, StringWidth(""))
	assert.Equal(t, 8, StringWidth("tb.clock"))
	assert.Equal(t, 9, StringWidth("Hello中国"))
	assert.Equal(t, 4, StringWidth("😀😀"))
}

func TestTruncateToWidth(t *testing.T) {
	tests := []struct {
		input    string
		maxWidth int
		want     string
	}{
		{"Hello", 10, "Hello"},
		{"Hello", 3, "Hel"},
		{"😀Hello", 2, "😀"},
		{"Hi😀", 3, "Hi"},
		{"中国", 3, "中"},
		{"Hello中国", 6, "Hello"},
		{"Hello", 0, ""},
		{"Hello", -1, ""},
	}
	for _, tt := range tests {
		got := TruncateToWidth(tt.input, tt.maxWidth)
		assert.Equal(t, tt.want, got, "TruncateToWidth(%q, %d)", tt.input, tt.maxWidth)
		assert.LessOrEqual(t, StringWidth(got), max(tt.maxWidth, 0))
	}
}

func TestTruncateToWidthWithEllipsis(t *testing.T) {
	assert.Equal(t, "Hello", TruncateToWidthWithEllipsis("Hello", 10))
	assert.Equal(t, "He...", TruncateToWidthWithEllipsis("HelloWorld", 5))
	assert.Equal(t, "😀H...", TruncateToWidthWithEllipsis("😀HelloWorld", 6))
	assert.Equal(t, "He", TruncateToWidthWithEllipsis("HelloWorld", 2))
	assert.Equal(t, "", TruncateToWidthWithEllipsis("", 5))
}

func TestPadStringToWidth(t *testing.T) {
	assert.Equal(t, "Hi   ", PadStringToWidth("Hi", 5))
	assert.Equal(t, "Hello", PadStringToWidth("Hello", 3))
	assert.Equal(t, "中   ", PadStringToWidth("中", 5))
	assert.Equal(t, "     ", PadStringToWidth("", 5))
}
