package testsupport

import (
	"path/filepath"
	"testing"

	"seasonwatch/internal/config"
)

// ConfigOption adjusts the config built by NewConfig.
type ConfigOption func(*config.Config)

// NewConfig returns defaults with the data directory inside t.TempDir(),
// placeholder tokens for every provider and notifications switched off.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(t.TempDir(), "data")
	cfg.Tokens = config.Tokens{TMDB: "test", OMDb: "test", Discogs: "test"}
	cfg.Notifications.Backend = config.BackendNone
	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithTVProvider selects the active TV backend ("tmdb" or "imdb").
func WithTVProvider(name string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Providers.TV = name
	}
}
