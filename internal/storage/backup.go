package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

const backupTimeFormat = "20060102_150405"

// BackupManager keeps timestamped copies of layouts before they are saved
type BackupManager struct {
	backupDir string
	// Keep bounds the number of backups per layout file, 0 keeps all
	Keep int
}

// NewBackupManager creates a backup manager writing to dir, or to the
// default backup directory when dir is empty
func NewBackupManager(dir string) (*BackupManager, error) {
	if dir == "" {
		dir = getBackupDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create backup directory: %w", err)
	}
	return &BackupManager{backupDir: dir}, nil
}

// CreateBackup writes a JSON copy of the layout, recording the absolute path
// of the file it belongs to
func (bm *BackupManager) CreateBackup(layout *Layout, originalPath string, sessionID string) (string, error) {
	absPath, err := filepath.Abs(originalPath)
	if err != nil {
		absPath = originalPath
	}

	backup := *layout
	backup.OriginalFilename = absPath
	data, err := json.MarshalIndent(&backup, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal backup JSON: %w", err)
	}

	backupPath := filepath.Join(bm.backupDir, bm.generateBackupFilename(sessionID))
	if err := os.WriteFile(backupPath, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write backup file: %w", err)
	}

	if bm.Keep > 0 {
		if err := bm.prune(absPath); err != nil {
			return backupPath, err
		}
	}
	return backupPath, nil
}

// generateBackupFilename creates a filename in the format
// YYYYMMDD_HHMMSS_<sessionID>.json
func (bm *BackupManager) generateBackupFilename(sessionID string) string {
	return fmt.Sprintf("%s_%s.json", time.Now().Format(backupTimeFormat), sessionID)
}

func getBackupDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "surfer-panel", "backups")
	}
	return filepath.Join(homeDir, ".local", "share", "surfer-panel", "backups")
}

// BackupMetadata holds parsed information about a backup file
type BackupMetadata struct {
	FilePath     string
	Timestamp    time.Time
	SessionID    string
	OriginalFile string
}

// FindBackupsForFile returns the backups of a layout file, oldest first. An
// empty path returns all backups.
func (bm *BackupManager) FindBackupsForFile(originalFilePath string) ([]BackupMetadata, error) {
	entries, err := os.ReadDir(bm.backupDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	var searchPath string
	if originalFilePath != "" {
		if absPath, err := filepath.Abs(originalFilePath); err == nil {
			searchPath = filepath.Clean(absPath)
		} else {
			searchPath = originalFilePath
		}
	}

	var backups []BackupMetadata
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		metadata, err := parseBackupFilename(entry.Name(), filepath.Join(bm.backupDir, entry.Name()))
		if err != nil {
			continue
		}
		if searchPath != "" && filepath.Clean(metadata.OriginalFile) != searchPath {
			continue
		}
		backups = append(backups, metadata)
	}

	slices.SortFunc(backups, func(a, b BackupMetadata) int {
		if c := a.Timestamp.Compare(b.Timestamp); c != 0 {
			return c
		}
		return strings.Compare(a.FilePath, b.FilePath)
	})
	return backups, nil
}

// LoadBackup reads and validates a backup
func (bm *BackupManager) LoadBackup(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read backup: %w", err)
	}
	layout, err := Decode(data, FormatJSON)
	if err != nil {
		return nil, err
	}
	if err := layout.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return layout, nil
}

// prune removes the oldest backups of a file beyond Keep
func (bm *BackupManager) prune(originalPath string) error {
	backups, err := bm.FindBackupsForFile(originalPath)
	if err != nil {
		return err
	}
	for len(backups) > bm.Keep {
		if err := os.Remove(backups[0].FilePath); err != nil {
			return fmt.Errorf("failed to remove old backup: %w", err)
		}
		backups = backups[1:]
	}
	return nil
}

// parseBackupFilename extracts metadata from a backup filename of the form
// YYYYMMDD_HHMMSS_<sessionID>.json
func parseBackupFilename(filename string, fullPath string) (BackupMetadata, error) {
	name := strings.TrimSuffix(filename, ".json")
	if len(name) < len(backupTimeFormat)+2 || name[len(backupTimeFormat)] != '_' {
		return BackupMetadata{}, fmt.Errorf("malformed backup name %q", filename)
	}

	timestamp, err := time.ParseInLocation(backupTimeFormat, name[:len(backupTimeFormat)], time.Local)
	if err != nil {
		return BackupMetadata{}, fmt.Errorf("invalid timestamp format: %w", err)
	}

	var originalFile string
	if data, err := os.ReadFile(fullPath); err == nil {
		var header struct {
			OriginalFilename string `json:"original_filename"`
		}
		if err := json.Unmarshal(data, &header); err == nil {
			originalFile = header.OriginalFilename
		}
	}

	return BackupMetadata{
		FilePath:     fullPath,
		Timestamp:    timestamp,
		SessionID:    name[len(backupTimeFormat)+1:],
		OriginalFile: originalFile,
	}, nil
}
