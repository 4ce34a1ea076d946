package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLogsCommandFiltersAndLimits(t *testing.T) {
	env := setupCLIEnv(t, nil, "")
	if err := os.MkdirAll(env.dataDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	content := strings.Join([]string{
		"INFO season pass started run_id=aaa",
		"INFO season pass finished run_id=aaa",
		"INFO season pass started run_id=bbb",
		"WARN notification failed run_id=bbb",
	}, "\n") + "\n"
	if err := os.WriteFile(filepath.Join(env.dataDir, "seasonwatch.log"), []byte(content), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}

	out, err := runCLI(t, env, nil, "logs", "--run", "bbb", "-n", "1")
	if err != nil {
		t.Fatalf("logs: %v", err)
	}
	if strings.TrimSpace(out) != "WARN notification failed run_id=bbb" {
		t.Fatalf("unexpected output:\n%s", out)
	}

	out, err = runCLI(t, env, nil, "logs", "-n", "2")
	if err != nil {
		t.Fatalf("logs: %v", err)
	}
	requireContains(t, out, "season pass started run_id=bbb")
	if strings.Contains(out, "run_id=aaa") {
		t.Fatalf("expected only the last two lines:\n%s", out)
	}
}
