package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"seasonwatch/internal/fileutil"
	"seasonwatch/internal/services"
)

const (
	// BackupTimestampLayout sorts lexicographically in chronological order.
	BackupTimestampLayout = "2006-01-02_15-04-05"
	// DefaultBackupKeep is how many timestamped backups survive rotation.
	DefaultBackupKeep = 10

	backupMarker = "_database"
)

// Backup copies the live database at dbPath to a sibling
// "<timestamp>_database.sqlite" and then keeps only the newest keep backups.
// It is a no-op returning "" when the live file does not exist yet. Call it
// while no connection to dbPath is open.
func Backup(dbPath string, now time.Time, keep int) (string, error) {
	if keep <= 0 {
		keep = DefaultBackupKeep
	}
	exists, err := statExists(dbPath)
	if err != nil {
		return "", services.Wrap(services.ErrStorage, "store", "backup", "stat live database", err)
	}
	if !exists {
		return "", nil
	}

	dir := filepath.Dir(dbPath)
	target := filepath.Join(dir, fmt.Sprintf("%s_%s", now.Format(BackupTimestampLayout), filepath.Base(dbPath)))
	if err := fileutil.CopyVerified(dbPath, target); err != nil {
		return "", services.Wrap(services.ErrStorage, "store", "backup", "copy database", err)
	}
	if err := rotateBackups(dir, keep); err != nil {
		return target, err
	}
	return target, nil
}

// ListBackups returns backup file names in dir, newest first.
func ListBackups(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, services.Wrap(services.ErrStorage, "store", "list backups", "read directory", err)
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !isBackupName(entry.Name()) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	return names, nil
}

func rotateBackups(dir string, keep int) error {
	names, err := ListBackups(dir)
	if err != nil {
		return err
	}
	if len(names) <= keep {
		return nil
	}
	for _, name := range names[keep:] {
		if err := os.Remove(filepath.Join(dir, name)); err != nil && !os.IsNotExist(err) {
			return services.Wrap(services.ErrStorage, "store", "rotate backups", "remove "+name, err)
		}
	}
	return nil
}

func isBackupName(name string) bool {
	if !strings.Contains(name, backupMarker) || strings.HasSuffix(name, ".partial") {
		return false
	}
	if len(name) <= len(BackupTimestampLayout) {
		return false
	}
	_, err := time.Parse(BackupTimestampLayout, name[:len(BackupTimestampLayout)])
	return err == nil
}
