package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackupManagerCreateBackup(t *testing.T) {
	bm, err := NewBackupManager(t.TempDir())
	require.NoError(t, err)

	original := filepath.Join(t.TempDir(), "layout.toml")
	path, err := bm.CreateBackup(sampleLayout(t), original, "test1234")
	require.NoError(t, err)

	backups, err := bm.FindBackupsForFile(original)
	require.NoError(t, err)
	require.Len(t, backups, 1)
	assert.Equal(t, path, backups[0].FilePath)
	assert.Equal(t, "test1234", backups[0].SessionID)
	assert.Equal(t, original, backups[0].OriginalFile)

	layout, err := bm.LoadBackup(path)
	require.NoError(t, err)
	assert.Equal(t, sampleLayout(t).Tree, layout.Tree)
	assert.Equal(t, original, layout.OriginalFilename)
}

func TestBackupManagerFiltersByFile(t *testing.T) {
	bm, err := NewBackupManager(t.TempDir())
	require.NoError(t, err)

	_, err = bm.CreateBackup(sampleLayout(t), "/tmp/a.json", "aaaaaaaa")
	require.NoError(t, err)
	_, err = bm.CreateBackup(sampleLayout(t), "/tmp/b.json", "bbbbbbbb")
	require.NoError(t, err)

	backups, err := bm.FindBackupsForFile("/tmp/a.json")
	require.NoError(t, err)
	require.Len(t, backups, 1)
	assert.Equal(t, "aaaaaaaa", backups[0].SessionID)

	all, err := bm.FindBackupsForFile("")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestBackupManagerPrune(t *testing.T) {
	dir := t.TempDir()
	bm, err := NewBackupManager(dir)
	require.NoError(t, err)
	bm.Keep = 2

	// Pre-existing backups with older timestamps
	for i, stamp := range []string{"20240101_100000", "20240101_110000"} {
		layout := *sampleLayout(t)
		layout.OriginalFilename = "/tmp/pruned.json"
		data, err := Encode(&layout, FormatJSON)
		require.NoError(t, err)
		name := stamp + "_old" + string(rune('a'+i)) + ".json"
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o644))
	}

	_, err = bm.CreateBackup(sampleLayout(t), "/tmp/pruned.json", "newest")
	require.NoError(t, err)

	backups, err := bm.FindBackupsForFile("/tmp/pruned.json")
	require.NoError(t, err)
	require.Len(t, backups, 2)
	assert.Equal(t, "oldb", backups[0].SessionID)
	assert.Equal(t, "newest", backups[1].SessionID)
}

func TestParseBackupFilename(t *testing.T) {
	meta, err := parseBackupFilename("20250102_030405_abcd1234.json", "/nonexistent")
	require.NoError(t, err)
	assert.Equal(t, "abcd1234", meta.SessionID)
	assert.Equal(t, time.Date(2025, 1, 2, 3, 4, 5, 0, time.Local), meta.Timestamp)
	assert.Empty(t, meta.OriginalFile)

	_, err = parseBackupFilename("notes.json", "/nonexistent")
	assert.Error(t, err)
}
