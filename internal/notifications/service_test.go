package notifications_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"seasonwatch/internal/config"
	"seasonwatch/internal/logging"
	"seasonwatch/internal/notifications"
)

func TestNewSinkSelectsBackend(t *testing.T) {
	tests := []struct {
		name    string
		backend string
		topic   string
		check   func(notifications.Sink) bool
	}{
		{name: "none", backend: config.BackendNone, check: func(s notifications.Sink) bool { _, ok := s.(notifications.Noop); return ok }},
		{name: "ntfy without topic", backend: config.BackendNtfy, check: func(s notifications.Sink) bool { _, ok := s.(notifications.Noop); return ok }},
		{name: "ntfy", backend: config.BackendNtfy, topic: "https://ntfy.sh/shows", check: func(s notifications.Sink) bool { _, ok := s.(*notifications.Ntfy); return ok }},
		{name: "desktop", backend: config.BackendDesktop, check: func(s notifications.Sink) bool { _, ok := s.(*notifications.Desktop); return ok }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Notifications.Backend = tt.backend
			cfg.Notifications.NtfyTopic = tt.topic
			if sink := notifications.NewSink(&cfg, logging.NewNop()); !tt.check(sink) {
				t.Fatalf("unexpected sink %T", sink)
			}
		})
	}
}

func TestDefaultOptions(t *testing.T) {
	cfg := config.Default()
	cfg.Notifications.Urgency = "Critical"
	cfg.Notifications.TimeoutMS = 2500
	opts := notifications.DefaultOptions(&cfg)
	if opts.Urgency != notifications.UrgencyCritical || opts.Timeout != 2500*time.Millisecond {
		t.Fatalf("unexpected options %+v", opts)
	}
}

func TestNtfyNotifyFormatsRequest(t *testing.T) {
	type captured struct {
		title, tags, priority, body string
	}
	got := make(chan captured, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		got <- captured{
			title:    r.Header.Get("Title"),
			tags:     r.Header.Get("Tags"),
			priority: r.Header.Get("Priority"),
			body:     string(body),
		}
	}))
	defer server.Close()

	sink := notifications.NewNtfy(server.URL, server.Client())
	err := sink.Notify(context.Background(), "Severance", "Season 2 of Severance is out already!", notifications.Options{
		Urgency: notifications.UrgencyCritical,
		Tags:    []string{"tv"},
	})
	if err != nil {
		t.Fatalf("Notify: %v", err)
	}
	req := <-got
	if req.title != "Severance" || req.body != "Season 2 of Severance is out already!" {
		t.Fatalf("unexpected request %+v", req)
	}
	if req.tags != "seasonwatch,tv" || req.priority != "urgent" {
		t.Fatalf("unexpected headers %+v", req)
	}
}

func TestNtfyNotifyReportsHTTPFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "topic disabled", http.StatusForbidden)
	}))
	defer server.Close()

	err := notifications.NewNtfy(server.URL, server.Client()).Notify(context.Background(), "t", "m", notifications.Options{})
	if err == nil || !strings.Contains(err.Error(), "403") {
		t.Fatalf("expected 403 error, got %v", err)
	}
}

func TestDesktopNotifyInvokesNotifySend(t *testing.T) {
	var gotName string
	var gotArgs []string
	sink := notifications.NewDesktop(logging.NewNop())
	sink.LookPath = func(string) (string, error) { return "/usr/bin/notify-send", nil }
	sink.Run = func(_ context.Context, name string, args ...string) error {
		gotName, gotArgs = name, args
		return nil
	}

	err := sink.Notify(context.Background(), "Andor", "Season 2 of Andor is out already!", notifications.Options{
		Urgency: "bogus",
		Timeout: 10 * time.Second,
	})
	if err != nil {
		t.Fatalf("Notify: %v", err)
	}
	want := []string{"-u", "normal", "-t", "10000", "-a", "Seasonwatch", "--", "Andor", "Season 2 of Andor is out already!"}
	if gotName != "/usr/bin/notify-send" || strings.Join(gotArgs, "|") != strings.Join(want, "|") {
		t.Fatalf("unexpected invocation %q %q", gotName, gotArgs)
	}
}

func TestDesktopNotifyWithoutBinaryIsNotAnError(t *testing.T) {
	sink := notifications.NewDesktop(logging.NewNop())
	sink.LookPath = func(string) (string, error) { return "", errors.New("not found") }
	sink.Run = func(context.Context, string, ...string) error {
		t.Fatal("run must not be called without notify-send")
		return nil
	}
	for i := 0; i < 2; i++ {
		if err := sink.Notify(context.Background(), "t", "m", notifications.Options{}); err != nil {
			t.Fatalf("expected graceful degradation, got %v", err)
		}
	}
}

func TestDesktopNotifyPropagatesCommandFailure(t *testing.T) {
	sink := notifications.NewDesktop(logging.NewNop())
	sink.LookPath = func(string) (string, error) { return "notify-send", nil }
	sink.Run = func(context.Context, string, ...string) error { return errors.New("dbus unavailable") }
	if err := sink.Notify(context.Background(), "t", "m", notifications.Options{}); err == nil {
		t.Fatal("expected command failure to be returned")
	}
}
