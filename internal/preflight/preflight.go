package preflight

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"seasonwatch/internal/config"
	"seasonwatch/internal/deps"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	// Optional results never make a configuration unusable.
	Optional bool
	Detail   string
}

// RunAll executes every check that applies to cfg.
func RunAll(cfg *config.Config, lookPath func(string) (string, error)) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Data directory", cfg.Paths.DataDir),
		CheckTVToken(cfg),
	}
	if cfg.Reconcile.MusicEnabled {
		results = append(results, CheckMusicToken(cfg))
	}
	for _, status := range deps.CheckBinaries(deps.Requirements(cfg), lookPath) {
		result := Result{Name: status.Name, Passed: status.Available, Optional: status.Optional, Detail: status.Command}
		if !status.Available {
			result.Detail = fmt.Sprintf("%s (%s disabled)", status.Detail, status.Description)
		}
		results = append(results, result)
	}
	return results
}

// Failed reports whether any required check did not pass.
func Failed(results []Result) bool {
	for _, r := range results {
		if !r.Passed && !r.Optional {
			return true
		}
	}
	return false
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckTVToken verifies the active TV backend has a credential.
func CheckTVToken(cfg *config.Config) Result {
	name := fmt.Sprintf("TV provider (%s)", cfg.Providers.TV)
	if _, err := cfg.TVToken(); err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	return Result{Name: name, Passed: true, Detail: "token configured"}
}

// CheckMusicToken reports whether the music pass can run. A missing Discogs
// token only disables that pass.
func CheckMusicToken(cfg *config.Config) Result {
	if cfg.MusicActive() {
		return Result{Name: "Music provider (discogs)", Passed: true, Optional: true, Detail: "token configured"}
	}
	return Result{
		Name:     "Music provider (discogs)",
		Optional: true,
		Detail:   "tokens.discogs is empty; run 'seasonwatch configure --discogs' to enable the music pass",
	}
}
