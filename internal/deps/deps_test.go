package deps

import (
	"os"
	"path/filepath"
	"testing"

	"seasonwatch/internal/config"
)

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	if err := os.WriteFile(present, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
		{Name: "Blank", Command: "  "},
	}

	results := CheckBinaries(reqs, nil)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}
	if !results[0].Available || results[0].Detail != "" {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}
	if results[1].Available || results[1].Detail == "" {
		t.Fatalf("expected missing binary to be unavailable with detail, got %#v", results[1])
	}
	if results[2].Detail != "command not configured" {
		t.Fatalf("unexpected detail for blank command: %q", results[2].Detail)
	}
}

func TestRequirementsFollowBackend(t *testing.T) {
	cfg := config.Default()
	cfg.Notifications.Backend = config.BackendDesktop
	reqs := Requirements(&cfg)
	if len(reqs) != 1 || reqs[0].Command != "notify-send" || !reqs[0].Optional {
		t.Fatalf("unexpected desktop requirements: %+v", reqs)
	}

	cfg.Notifications.Backend = config.BackendNone
	if reqs := Requirements(&cfg); len(reqs) != 0 {
		t.Fatalf("expected no requirements for the none backend, got %+v", reqs)
	}
}
