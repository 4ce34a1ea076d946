// Package services defines shared utilities consumed by the reconcilers and
// the external provider integrations.
//
// Key responsibilities:
//   - Context helpers that stamp series/artist identifiers and run correlation
//     IDs for logging.
//   - Structured error markers plus the Wrap helper so callers can tell a
//     failure scoped to one tracked item from one that must abort the run.
//
// Provider clients live in sub-packages (tmdb, omdb, discogs) and share the
// retrying HTTP transport from httpx.
package services
