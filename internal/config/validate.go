package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Validate ensures the configuration is usable. Tokens are not required here
// so that `configure` can run against a fresh install; TVToken enforces them
// when a pass actually needs one.
func (c *Config) Validate() error {
	if err := c.validateProviders(); err != nil {
		return err
	}
	if err := c.validateReconcile(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateProviders() error {
	switch c.Providers.TV {
	case TVProviderTMDB, TVProviderIMDb:
	default:
		return fmt.Errorf("providers.tv must be %q or %q, got %q", TVProviderTMDB, TVProviderIMDb, c.Providers.TV)
	}
	for key, value := range map[string]string{
		"providers.tmdb_base_url":    c.Providers.TMDBBaseURL,
		"providers.omdb_base_url":    c.Providers.OMDbBaseURL,
		"providers.discogs_base_url": c.Providers.DiscogsBaseURL,
	} {
		parsed, err := url.Parse(value)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("%s must be an absolute URL, got %q", key, value)
		}
	}
	if c.Providers.RequestTimeout <= 0 {
		return errors.New("providers.request_timeout must be positive")
	}
	if c.Providers.MaxRetries < 0 {
		return errors.New("providers.max_retries must be >= 0")
	}
	return nil
}

func (c *Config) validateReconcile() error {
	if c.Reconcile.SoonWindowDays <= 0 {
		return errors.New("reconcile.soon_window_days must be positive")
	}
	if c.Reconcile.BackupKeep <= 0 {
		return errors.New("reconcile.backup_keep must be positive")
	}
	switch c.Reconcile.NotifiedStamp {
	case StampAlways, StampOnNotify:
	default:
		return fmt.Errorf("reconcile.notified_stamp must be %q or %q, got %q", StampAlways, StampOnNotify, c.Reconcile.NotifiedStamp)
	}
	return nil
}

func (c *Config) validateNotifications() error {
	switch c.Notifications.Backend {
	case BackendDesktop, BackendNone:
	case BackendNtfy:
		if c.Notifications.NtfyTopic == "" {
			return errors.New("notifications.ntfy_topic must be set when notifications.backend is \"ntfy\"")
		}
	default:
		return fmt.Errorf("notifications.backend must be one of desktop, ntfy, none; got %q", c.Notifications.Backend)
	}
	switch c.Notifications.Urgency {
	case "low", "normal", "critical":
	default:
		return fmt.Errorf("notifications.urgency must be low, normal or critical; got %q", c.Notifications.Urgency)
	}
	if c.Notifications.RequestTimeout <= 0 {
		return errors.New("notifications.request_timeout must be positive")
	}
	if c.Notifications.TimeoutMS < 0 {
		return errors.New("notifications.timeout_ms must be >= 0")
	}
	return nil
}
