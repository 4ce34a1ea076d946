// Package deps reports on the external programs seasonwatch shells out to.
package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"seasonwatch/internal/config"
)

// Requirement is an external binary a configured feature needs.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a requirement.
type Status struct {
	Requirement
	Available bool
	Detail    string
}

// Requirements lists the binaries the configuration relies on. Every entry is
// optional; a missing one degrades a feature instead of failing a run.
func Requirements(cfg *config.Config) []Requirement {
	var reqs []Requirement
	if cfg != nil && cfg.Notifications.Backend == config.BackendDesktop {
		reqs = append(reqs, Requirement{
			Name:        "notify-send",
			Command:     "notify-send",
			Description: "desktop notifications",
			Optional:    true,
		})
	}
	return reqs
}

// CheckBinaries evaluates reqs with lookPath (exec.LookPath when nil).
func CheckBinaries(reqs []Requirement, lookPath func(string) (string, error)) []Status {
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	results := make([]Status, 0, len(reqs))
	for _, req := range reqs {
		req.Command = strings.TrimSpace(req.Command)
		req.Description = strings.TrimSpace(req.Description)
		status := Status{Requirement: req}
		switch {
		case req.Command == "":
			status.Detail = "command not configured"
		default:
			if _, err := lookPath(req.Command); err != nil {
				status.Detail = fmt.Sprintf("binary %q not found", req.Command)
			} else {
				status.Available = true
			}
		}
		results = append(results, status)
	}
	return results
}
