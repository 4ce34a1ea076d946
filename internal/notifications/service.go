package notifications

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"seasonwatch/internal/config"
	"seasonwatch/internal/logging"
)

const userAgent = "Seasonwatch/1.0"

// Urgency levels understood by every backend.
const (
	UrgencyLow      = "low"
	UrgencyNormal   = "normal"
	UrgencyCritical = "critical"
)

// Options carries per-notification display hints.
type Options struct {
	Urgency string
	Timeout time.Duration
	Tags    []string
}

// Sink receives (title, message) pairs for display.
type Sink interface {
	Notify(ctx context.Context, title, message string, opts Options) error
}

// NewSink builds the backend selected in cfg.
func NewSink(cfg *config.Config, logger *slog.Logger) Sink {
	if cfg == nil {
		return Noop{}
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Notifications.Backend)) {
	case config.BackendDesktop:
		return NewDesktop(logger)
	case config.BackendNtfy:
		topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
		if topic == "" {
			return Noop{}
		}
		timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		return NewNtfy(topic, &http.Client{Timeout: timeout})
	default:
		return Noop{}
	}
}

// DefaultOptions returns the display hints configured in cfg.
func DefaultOptions(cfg *config.Config) Options {
	if cfg == nil {
		return Options{Urgency: UrgencyNormal}
	}
	urgency := strings.ToLower(strings.TrimSpace(cfg.Notifications.Urgency))
	if urgency == "" {
		urgency = UrgencyNormal
	}
	return Options{
		Urgency: urgency,
		Timeout: time.Duration(cfg.Notifications.TimeoutMS) * time.Millisecond,
	}
}

// Ntfy publishes notifications to an ntfy topic URL.
type Ntfy struct {
	endpoint string
	client   *http.Client
}

// NewNtfy returns an ntfy sink posting to endpoint.
func NewNtfy(endpoint string, client *http.Client) *Ntfy {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Ntfy{endpoint: endpoint, client: client}
}

// Notify implements Sink.
func (n *Ntfy) Notify(ctx context.Context, title, message string, opts Options) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if title = strings.TrimSpace(title); title != "" {
		req.Header.Set("Title", title)
	}
	tags := append([]string{"seasonwatch"}, opts.Tags...)
	req.Header.Set("Tags", strings.Join(tags, ","))
	if priority := ntfyPriority(opts.Urgency); priority != "default" {
		req.Header.Set("Priority", priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func ntfyPriority(urgency string) string {
	switch strings.ToLower(strings.TrimSpace(urgency)) {
	case UrgencyLow:
		return "low"
	case UrgencyCritical:
		return "urgent"
	default:
		return "default"
	}
}

// Noop discards every notification.
type Noop struct{}

// Notify implements Sink.
func (Noop) Notify(context.Context, string, string, Options) error { return nil }

var _ Sink = (*Ntfy)(nil)
var _ Sink = (*Desktop)(nil)
var _ Sink = Noop{}

func warnOnce(logger *slog.Logger, warned *bool, msg, hint string) {
	if *warned || logger == nil {
		return
	}
	*warned = true
	logging.WarnWithContext(logger, msg, "notification_unavailable",
		logging.String(logging.FieldErrorHint, hint),
		logging.String(logging.FieldImpact, "notifications are printed to the console only"),
	)
}
