package store_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"seasonwatch/internal/store"
)

func TestBackupNoopWithoutLiveDatabase(t *testing.T) {
	dir := t.TempDir()
	path, err := store.Backup(filepath.Join(dir, "database.sqlite"), time.Now(), 10)
	if err != nil {
		t.Fatalf("Backup: %v", err)
	}
	if path != "" {
		t.Fatalf("expected no backup, got %q", path)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Fatalf("expected empty directory, got %d entries", len(entries))
	}
}

func TestBackupRotationKeepsNewest(t *testing.T) {
	dir := t.TempDir()
	live := filepath.Join(dir, "database.sqlite")
	if err := os.WriteFile(live, []byte("db"), 0o644); err != nil {
		t.Fatalf("write live db: %v", err)
	}
	unrelated := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(unrelated, []byte("keep"), 0o644); err != nil {
		t.Fatalf("write unrelated: %v", err)
	}

	const keep = 10
	start := time.Date(2024, time.March, 1, 8, 0, 0, 0, time.Local)
	var created []string
	for i := 0; i < keep+3; i++ {
		path, err := store.Backup(live, start.Add(time.Duration(i)*time.Hour), keep)
		if err != nil {
			t.Fatalf("Backup %d: %v", i, err)
		}
		created = append(created, filepath.Base(path))
	}
	if created[0] != "2024-03-01_08-00-00_database.sqlite" {
		t.Fatalf("unexpected backup name %q", created[0])
	}

	names, err := store.ListBackups(dir)
	if err != nil {
		t.Fatalf("ListBackups: %v", err)
	}
	if len(names) != keep {
		t.Fatalf("expected %d backups, got %d: %v", keep, len(names), names)
	}
	for i, name := range names {
		want := created[len(created)-1-i]
		if name != want {
			t.Fatalf("backup %d = %q, want %q", i, name, want)
		}
	}
	for _, path := range []string{live, unrelated} {
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("expected %s untouched: %v", path, err)
		}
	}
}
