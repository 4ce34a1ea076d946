package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"seasonwatch/internal/services"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains on-disk locations.
type Paths struct {
	DataDir string `toml:"data_dir"`
}

// Tokens holds provider credentials.
type Tokens struct {
	TMDB    string `toml:"tmdb"`
	OMDb    string `toml:"omdb"`
	Discogs string `toml:"discogs"`
}

// Providers selects and tunes the metadata backends.
type Providers struct {
	TV             string `toml:"tv"`
	TMDBBaseURL    string `toml:"tmdb_base_url"`
	OMDbBaseURL    string `toml:"omdb_base_url"`
	DiscogsBaseURL string `toml:"discogs_base_url"`
	Language       string `toml:"language"`
	RequestTimeout int    `toml:"request_timeout"`
	MaxRetries     int    `toml:"max_retries"`
}

// Reconcile contains the knobs of a reconciliation pass.
type Reconcile struct {
	SoonWindowDays int    `toml:"soon_window_days"`
	BackupKeep     int    `toml:"backup_keep"`
	NotifiedStamp  string `toml:"notified_stamp"`
	MusicEnabled   bool   `toml:"music_enabled"`
}

// Notifications configures where results are announced.
type Notifications struct {
	Backend        string `toml:"backend"`
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
	Urgency        string `toml:"urgency"`
	TimeoutMS      int    `toml:"timeout_ms"`
	NotifySoon     bool   `toml:"notify_soon"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	RetentionDays int    `toml:"retention_days"`
}

// Config encapsulates all configuration values for Seasonwatch.
//
// Configuration sections by subsystem:
//   - Paths: data directory holding the database, backups, lock and logs
//   - Tokens: TMDB, OMDb and Discogs credentials
//   - Providers: which TV backend is active plus endpoints and HTTP tuning
//   - Reconcile: release window, backup retention and stamp policy
//   - Notifications: desktop / ntfy delivery
//   - Logging: log format, level, and retention
type Config struct {
	Paths         Paths         `toml:"paths"`
	Tokens        Tokens        `toml:"tokens"`
	Providers     Providers     `toml:"providers"`
	Reconcile     Reconcile     `toml:"reconcile"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized. Every failure carries services.ErrConfiguration.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, configError("resolve config path", err)
	}

	if exists {
		data, err := os.ReadFile(resolvedPath)
		if err != nil {
			return nil, "", false, configError("open config", err)
		}
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, "", false, configError("parse config", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, configError("normalize config", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, configError("validate config", err)
	}

	return &cfg, resolvedPath, exists, nil
}

func configError(operation string, err error) error {
	return services.Wrap(services.ErrConfiguration, "config", operation, err.Error(), nil)
}

func resolveConfigPath(path string) (string, bool, error) {
	if path == "" {
		path = defaultConfigPath
	}
	expanded, err := expandPath(path)
	if err != nil {
		return "", false, err
	}
	info, err := os.Stat(expanded)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return expanded, false, nil
		}
		return "", false, fmt.Errorf("stat config: %w", err)
	}
	if info.IsDir() {
		return "", false, fmt.Errorf("config path %q is a directory", expanded)
	}
	return expanded, true, nil
}

// EnsureDirectories creates the data directory.
func (c *Config) EnsureDirectories() error {
	if err := os.MkdirAll(c.Paths.DataDir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", c.Paths.DataDir, err)
	}
	return nil
}

// DatabasePath is the live SQLite file inside the data directory.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Paths.DataDir, DatabaseFile)
}

// LockPath is the advisory lock guarding a single run.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.DataDir, "seasonwatch.lock")
}

// LogPath is the log file written next to the database.
func (c *Config) LogPath() string {
	return filepath.Join(c.Paths.DataDir, "seasonwatch.log")
}

// SoonWindow is the span after now that still counts as "coming soon".
func (c *Config) SoonWindow() time.Duration {
	return time.Duration(c.Reconcile.SoonWindowDays) * 24 * time.Hour
}

// ProviderTimeout is the per-request HTTP timeout for metadata providers.
func (c *Config) ProviderTimeout() time.Duration {
	return time.Duration(c.Providers.RequestTimeout) * time.Second
}

// TVToken returns the credential required by the active TV backend.
func (c *Config) TVToken() (string, error) {
	switch c.Providers.TV {
	case TVProviderIMDb:
		if c.Tokens.OMDb == "" {
			return "", services.Wrap(services.ErrConfiguration, "config", "tv token",
				"tokens.omdb is required for the imdb backend (run 'seasonwatch configure --omdb')", nil)
		}
		return c.Tokens.OMDb, nil
	default:
		if c.Tokens.TMDB == "" {
			return "", services.Wrap(services.ErrConfiguration, "config", "tv token",
				"tokens.tmdb is required (set TMDB_API_KEY or run 'seasonwatch configure --tmdb')", nil)
		}
		return c.Tokens.TMDB, nil
	}
}

// MusicActive reports whether the music pass should run.
func (c *Config) MusicActive() bool {
	return c.Reconcile.MusicEnabled && strings.TrimSpace(c.Tokens.Discogs) != ""
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o600); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
