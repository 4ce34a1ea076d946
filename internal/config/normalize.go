package config

import (
	"fmt"
	"os"
	"strings"

	"seasonwatch/internal/language"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTokens()
	if err := c.normalizeProviders(); err != nil {
		return err
	}
	c.normalizeReconcile()
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	var err error
	if c.Paths.DataDir, err = expandPath(strings.TrimSpace(c.Paths.DataDir)); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeTokens() {
	c.Tokens.TMDB = tokenOrEnv(c.Tokens.TMDB, "TMDB_API_KEY")
	c.Tokens.OMDb = tokenOrEnv(c.Tokens.OMDb, "OMDB_API_KEY")
	c.Tokens.Discogs = tokenOrEnv(c.Tokens.Discogs, "DISCOGS_TOKEN")
}

func tokenOrEnv(value, env string) string {
	value = strings.TrimSpace(value)
	if value != "" {
		return value
	}
	if fromEnv, ok := os.LookupEnv(env); ok {
		return strings.TrimSpace(fromEnv)
	}
	return ""
}

func (c *Config) normalizeProviders() error {
	c.Providers.TV = strings.ToLower(strings.TrimSpace(c.Providers.TV))
	if c.Providers.TV == "" {
		c.Providers.TV = TVProviderTMDB
	}
	c.Providers.TMDBBaseURL = defaultIfBlank(c.Providers.TMDBBaseURL, defaultTMDBBaseURL)
	c.Providers.OMDbBaseURL = defaultIfBlank(c.Providers.OMDbBaseURL, defaultOMDbBaseURL)
	c.Providers.DiscogsBaseURL = defaultIfBlank(c.Providers.DiscogsBaseURL, defaultDiscogsBaseURL)
	lang, err := language.Normalize(c.Providers.Language)
	if err != nil {
		return fmt.Errorf("providers.language: %w", err)
	}
	c.Providers.Language = lang
	if c.Providers.RequestTimeout == 0 {
		c.Providers.RequestTimeout = defaultProviderTimeout
	}
	return nil
}

func (c *Config) normalizeReconcile() {
	c.Reconcile.NotifiedStamp = strings.ToLower(strings.TrimSpace(c.Reconcile.NotifiedStamp))
	if c.Reconcile.NotifiedStamp == "" {
		c.Reconcile.NotifiedStamp = StampAlways
	}
	if c.Reconcile.SoonWindowDays == 0 {
		c.Reconcile.SoonWindowDays = defaultSoonWindowDays
	}
	if c.Reconcile.BackupKeep == 0 {
		c.Reconcile.BackupKeep = defaultBackupKeep
	}
}

func (c *Config) normalizeNotifications() {
	c.Notifications.Backend = strings.ToLower(strings.TrimSpace(c.Notifications.Backend))
	if c.Notifications.Backend == "" {
		c.Notifications.Backend = BackendDesktop
	}
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	c.Notifications.Urgency = strings.ToLower(strings.TrimSpace(c.Notifications.Urgency))
	if c.Notifications.Urgency == "" {
		c.Notifications.Urgency = defaultNotifyUrgency
	}
	if c.Notifications.RequestTimeout == 0 {
		c.Notifications.RequestTimeout = defaultNotifyRequestTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}

func defaultIfBlank(value, fallback string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}
	return strings.TrimRight(value, "/")
}
