package main

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"seasonwatch/internal/store"
)

type cliEnv struct {
	dir        string
	dataDir    string
	configPath string
}

// setupCLIEnv writes a config whose providers all point at handler.
func setupCLIEnv(t *testing.T, handler http.Handler, extra string) cliEnv {
	t.Helper()
	for _, key := range []string{"TMDB_API_KEY", "OMDB_API_KEY", "DISCOGS_TOKEN", "NO_COLOR"} {
		t.Setenv(key, "")
	}
	if handler == nil {
		handler = http.NotFoundHandler()
	}
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	dir := t.TempDir()
	env := cliEnv{
		dir:        dir,
		dataDir:    filepath.Join(dir, "data"),
		configPath: filepath.Join(dir, "config.toml"),
	}
	content := fmt.Sprintf(`[paths]
data_dir = %q

[tokens]
tmdb = "test"
discogs = "test"

[providers]
tv = "tmdb"
tmdb_base_url = %q
omdb_base_url = %q
discogs_base_url = %q
max_retries = 0
request_timeout = 5

[reconcile]
music_enabled = true

[notifications]
backend = "none"

[logging]
level = "error"
retention_days = 0
%s`, env.dataDir, server.URL, server.URL, server.URL, extra)
	if err := os.WriteFile(env.configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return env
}

func runCLI(t *testing.T, env cliEnv, stdin io.Reader, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	if stdin != nil {
		cmd.SetIn(stdin)
	} else {
		cmd.SetIn(noTerminal(t))
	}
	cmd.SetArgs(append([]string{"--config", env.configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), err
}

// noTerminal returns a regular file so prompts are treated as unavailable.
func noTerminal(t *testing.T) *os.File {
	t.Helper()
	f, err := os.Open(os.DevNull)
	if err != nil {
		t.Fatalf("open %s: %v", os.DevNull, err)
	}
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func openEnvStore(t *testing.T, env cliEnv) *store.Store {
	t.Helper()
	st, err := store.OpenPath(filepath.Join(env.dataDir, "database.sqlite"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func requireContains(t *testing.T, output, substring string) {
	t.Helper()
	if !strings.Contains(output, substring) {
		t.Fatalf("expected output to contain %q\noutput:\n%s", substring, output)
	}
}

func setTVProvider(env cliEnv, name string) error {
	data, err := os.ReadFile(env.configPath)
	if err != nil {
		return err
	}
	updated := strings.Replace(string(data), `tv = "tmdb"`, fmt.Sprintf("tv = %q", name), 1)
	return os.WriteFile(env.configPath, []byte(updated), 0o644)
}
