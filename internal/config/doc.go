// Package config loads, normalizes, and validates Seasonwatch configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// TMDB_API_KEY, OMDB_API_KEY and DISCOGS_TOKEN. Provider tokens can be written
// back with SetToken, which edits the single key in place and leaves every
// other byte of the file alone.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical enum values, and clear validation errors.
package config
