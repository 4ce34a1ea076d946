// Package preflight provides offline readiness checks for the data directory,
// provider credentials and helper binaries seasonwatch depends on.
//
// `seasonwatch config validate` prints every result. Checks for disabled
// features are skipped.
package preflight
