package notifications

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
)

const notifySendBinary = "notify-send"

// Desktop shows notifications through notify-send.
type Desktop struct {
	AppName  string
	LookPath func(file string) (string, error)
	Run      func(ctx context.Context, name string, args ...string) error
	Logger   *slog.Logger

	warned bool
}

// NewDesktop returns a desktop sink using the system notify-send.
func NewDesktop(logger *slog.Logger) *Desktop {
	return &Desktop{
		AppName:  "Seasonwatch",
		LookPath: exec.LookPath,
		Run:      runCommand,
		Logger:   logger,
	}
}

// Notify implements Sink. A missing notify-send binary is logged once and
// otherwise ignored.
func (d *Desktop) Notify(ctx context.Context, title, message string, opts Options) error {
	binary, err := d.LookPath(notifySendBinary)
	if err != nil {
		warnOnce(d.Logger, &d.warned, "notify-send not found; desktop notifications disabled",
			"install libnotify (notify-send) or set notifications.backend")
		return nil
	}
	return d.Run(ctx, binary, desktopArgs(d.AppName, title, message, opts)...)
}

func desktopArgs(appName, title, message string, opts Options) []string {
	urgency := strings.ToLower(strings.TrimSpace(opts.Urgency))
	switch urgency {
	case UrgencyLow, UrgencyNormal, UrgencyCritical:
	default:
		urgency = UrgencyNormal
	}
	args := []string{"-u", urgency}
	if ms := opts.Timeout.Milliseconds(); ms > 0 {
		args = append(args, "-t", strconv.FormatInt(ms, 10))
	}
	if appName != "" {
		args = append(args, "-a", appName)
	}
	return append(args, "--", title, message)
}

func runCommand(ctx context.Context, name string, args ...string) error {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("%s exited with %d: %s", name, exitErr.ExitCode(), strings.TrimSpace(string(out)))
		}
		return fmt.Errorf("run %s: %w", name, err)
	}
	return nil
}
