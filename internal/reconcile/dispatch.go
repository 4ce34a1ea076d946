package reconcile

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/fatih/color"

	"seasonwatch/internal/logging"
	"seasonwatch/internal/notifications"
)

// Dispatcher prints results to the console and forwards notifiable ones to
// the sink. Sink failures are logged and never fail the run.
type Dispatcher struct {
	Sink       notifications.Sink
	Out        io.Writer
	Color      bool
	NotifySoon bool
	Options    notifications.Options
	Logger     *slog.Logger
}

// Summary counts what Dispatch printed and sent.
type Summary struct {
	Printed  int
	Notified int
	Failed   int
}

// DispatchSeries prints every series result and notifies AlreadyOut and,
// when enabled, ComingSoon.
func (d *Dispatcher) DispatchSeries(ctx context.Context, results []SeriesResult) Summary {
	var summary Summary
	for _, result := range results {
		d.println(seriesColor(result), result.Message)
		summary.Printed++
		if result.Failed() {
			summary.Failed++
			continue
		}
		if !Notifies(result.Classification, d.NotifySoon) {
			continue
		}
		opts := d.Options
		opts.Tags = []string{"tv", result.Classification.String()}
		if d.notify(ctx, result.Title, result.Message, opts) {
			summary.Notified++
		}
	}
	return summary
}

// DispatchMusic prints and notifies every album result, then prints the
// artists that could not be checked.
func (d *Dispatcher) DispatchMusic(ctx context.Context, report MusicReport) Summary {
	var summary Summary
	for _, album := range report.Albums {
		d.println(color.New(color.FgMagenta), album.Message)
		summary.Printed++
		opts := d.Options
		opts.Tags = []string{"music", album.Kind.String()}
		if d.notify(ctx, album.ArtistName, album.Message, opts) {
			summary.Notified++
		}
	}
	for _, failure := range report.Failures {
		d.println(color.New(color.FgRed), fmt.Sprintf("Could not check %s: %v", failure.ArtistName, failure.Err))
		summary.Printed++
		summary.Failed++
	}
	return summary
}

func (d *Dispatcher) notify(ctx context.Context, title, message string, opts notifications.Options) bool {
	if d.Sink == nil {
		return false
	}
	if err := d.Sink.Notify(ctx, title, message, opts); err != nil {
		logging.WarnWithContext(logging.NewComponentLogger(d.Logger, "dispatch"), "notification failed", "notification_failed",
			logging.String("title", title),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check the notification backend settings"),
			logging.String(logging.FieldImpact, "result shown on the console only"),
		)
		return false
	}
	return true
}

func (d *Dispatcher) println(c *color.Color, message string) {
	if d.Out == nil {
		return
	}
	if d.Color {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	_, _ = c.Fprintln(d.Out, message)
}

func seriesColor(result SeriesResult) *color.Color {
	switch {
	case result.Failed():
		return color.New(color.FgRed)
	case result.Migrated:
		return color.New(color.FgCyan)
	}
	switch result.Classification {
	case AlreadyOut:
		return color.New(color.FgBlue, color.Bold)
	case ComingSoon:
		return color.New(color.FgGreen)
	case ComingLater:
		return color.New(color.FgYellow)
	default:
		return color.New(color.Reset)
	}
}
