package history

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromptStoreRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "history")
	s, err := NewPromptStore(dir)
	require.NoError(t, err)

	entries, err := s.Load("prompt.toml")
	require.NoError(t, err)
	assert.Empty(t, entries)

	require.NoError(t, s.Save("prompt.toml", []string{"w", `rename "clock domain"`, "move down 3"}))
	data, err := os.ReadFile(filepath.Join(dir, "prompt.toml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "entries")

	entries, err = s.Load("prompt.toml")
	require.NoError(t, err)
	assert.Equal(t, []string{"w", `rename "clock domain"`, "move down 3"}, entries)
}

func TestPromptStoreCorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "prompt.toml"), []byte("entries = [unclosed"), 0o644))
	s, err := NewPromptStore(dir)
	require.NoError(t, err)

	entries, err := s.Load("prompt.toml")
	require.NoError(t, err)
	assert.Empty(t, entries)
}
