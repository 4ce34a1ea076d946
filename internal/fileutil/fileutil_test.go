package fileutil

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestCopyVerifiedBacksUpDatabase(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "database.sqlite")
	dst := filepath.Join(dir, "2024-01-02_03-04-05_database.sqlite")

	payload := bytes.Repeat([]byte("SQLite format 3\x00"), 4096)
	if err := os.WriteFile(src, payload, 0o640); err != nil {
		t.Fatal(err)
	}

	if err := CopyVerified(src, dst); err != nil {
		t.Fatalf("CopyVerified: %v", err)
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("backup differs from source (%d vs %d bytes)", len(got), len(payload))
	}
	info, err := os.Stat(dst)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o640 {
		t.Fatalf("backup mode = %v, want 0640", info.Mode().Perm())
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected only source and backup in %s, got %d entries", dir, len(entries))
	}
}

func TestCopyVerifiedReplacesExistingBackup(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "database.sqlite")
	dst := filepath.Join(dir, "backup.sqlite")
	if err := os.WriteFile(src, []byte("new"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(dst, []byte("older snapshot"), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := CopyVerified(src, dst); err != nil {
		t.Fatalf("CopyVerified: %v", err)
	}
	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "new" {
		t.Fatalf("backup = %q, want %q", got, "new")
	}
}

func TestCopyVerifiedMissingSource(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "out")
	if err := CopyVerified(filepath.Join(dir, "missing"), dst); err == nil {
		t.Fatal("expected error for missing source")
	}
	for _, path := range []string{dst, dst + ".partial"} {
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Fatalf("expected %s absent, stat err=%v", path, err)
		}
	}
}
