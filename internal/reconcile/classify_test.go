package reconcile_test

import (
	"testing"
	"time"

	"seasonwatch/internal/reconcile"
)

func TestClassifyBoundaries(t *testing.T) {
	window := reconcile.DefaultSoonWindow
	tests := []struct {
		name    string
		release time.Time
		want    reconcile.Classification
	}{
		{name: "yesterday", release: fixedNow.AddDate(0, 0, -1), want: reconcile.AlreadyOut},
		{name: "exactly now", release: fixedNow, want: reconcile.AlreadyOut},
		{name: "just after now", release: fixedNow.Add(time.Second), want: reconcile.ComingSoon},
		{name: "just inside window", release: fixedNow.Add(window - time.Second), want: reconcile.ComingSoon},
		{name: "exactly at window", release: fixedNow.Add(window), want: reconcile.ComingLater},
		{name: "far future", release: fixedNow.AddDate(1, 0, 0), want: reconcile.ComingLater},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := reconcile.Classify(tt.release, fixedNow, window); got != tt.want {
				t.Fatalf("Classify = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestClassifyDefaultsWindow(t *testing.T) {
	if got := reconcile.Classify(fixedNow.AddDate(0, 0, 30), fixedNow, 0); got != reconcile.ComingSoon {
		t.Fatalf("expected default window to apply, got %s", got)
	}
}

func TestNotifies(t *testing.T) {
	if !reconcile.Notifies(reconcile.AlreadyOut, false) {
		t.Fatal("already out always notifies")
	}
	if reconcile.Notifies(reconcile.ComingSoon, false) || !reconcile.Notifies(reconcile.ComingSoon, true) {
		t.Fatal("coming soon follows notify_soon")
	}
	if reconcile.Notifies(reconcile.ComingLater, true) || reconcile.Notifies(reconcile.Unknown, true) {
		t.Fatal("later and unknown never notify")
	}
}
