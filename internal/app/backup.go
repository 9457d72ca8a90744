package app

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/ripopov/surfer-sub000/internal/storage"
)

// handleBackupCommand runs "backup" (count), "backup prev" and "backup next".
// prev and next step through the saved backups of the layout file, oldest
// first; "backup prev session" only visits backups of this session.
func (a *App) handleBackupCommand(args []string) {
	if a.backups == nil {
		a.SetError("Backups are disabled")
		return
	}
	backups, err := a.backups.FindBackupsForFile(a.store.FilePath)
	if err != nil {
		a.SetError(err.Error())
		return
	}
	if len(args) == 0 {
		a.SetStatus(fmt.Sprintf("%d backups of %s", len(backups), a.store.FilePath))
		return
	}
	if len(backups) == 0 {
		a.SetStatus("No backups found")
		return
	}
	sameSession := len(args) > 1 && args[1] == "session"

	switch args[0] {
	case "prev", "previous":
		a.stepBackup(backups, -1, sameSession)
	case "next":
		a.stepBackup(backups, 1, sameSession)
	default:
		a.SetError("Usage: backup [prev|next [session]]")
	}
}

// stepBackup loads the backup dir steps away from the current one. Without
// a current backup, stepping back starts at the newest.
func (a *App) stepBackup(backups []storage.BackupMetadata, dir int, sameSession bool) {
	currentIdx := -1
	for i, b := range backups {
		if b.FilePath == a.currentBackupPath {
			currentIdx = i
			break
		}
	}
	if currentIdx == -1 {
		if dir > 0 {
			a.SetStatus("Not viewing a backup")
			return
		}
		currentIdx = len(backups)
	}

	for i := currentIdx + dir; i >= 0 && i < len(backups); i += dir {
		if sameSession && backups[i].SessionID != a.sessionID {
			continue
		}
		if a.loadBackup(backups[i]) {
			a.SetStatus(fmt.Sprintf("Backup: %s (%s)", backups[i].Timestamp.Format("2006-01-02 15:04:05"), backups[i].SessionID))
		}
		return
	}
	if dir < 0 {
		a.SetStatus("No older backups")
	} else {
		a.SetStatus("No newer backups")
	}
}

// loadBackup replaces the panel content by a backup as an undoable step
func (a *App) loadBackup(backup storage.BackupMetadata) bool {
	layout, err := a.backups.LoadBackup(backup.FilePath)
	if err != nil {
		a.SetError("Failed to load backup: " + err.Error())
		return false
	}
	reg, t, err := layout.Restore()
	if err != nil {
		a.SetError("Failed to load backup: " + err.Error())
		return false
	}
	a.panel.Replace("restore backup", t, reg)
	a.currentBackupPath = backup.FilePath
	return true
}

// generateSessionID creates a random 8-character session ID for backup naming
func generateSessionID() string {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	var b strings.Builder
	for range 8 {
		b.WriteByte(charset[rand.IntN(len(charset))])
	}
	return b.String()
}
