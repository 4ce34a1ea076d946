package reconcile_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"seasonwatch/internal/config"
	"seasonwatch/internal/logging"
	"seasonwatch/internal/reconcile"
	"seasonwatch/internal/services"
	"seasonwatch/internal/store"
	"seasonwatch/internal/testsupport"
)

func newSeasonReconciler(t *testing.T, gw *fakeGateway, prompt reconcile.ConfirmationPrompt) (*reconcile.SeasonReconciler, *store.Store) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	return &reconcile.SeasonReconciler{
		Store:       st,
		Gateway:     gw,
		Prompt:      prompt,
		Logger:      logging.NewNop(),
		Now:         clock,
		SoonWindow:  cfg.SoonWindow(),
		StampPolicy: config.StampAlways,
		NotifySoon:  true,
	}, st
}

func runOne(t *testing.T, r *reconcile.SeasonReconciler) reconcile.SeriesResult {
	t.Helper()
	results, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected one result, got %+v", results)
	}
	return results[0]
}

func TestSeasonReconcilerClassifiesNextSeason(t *testing.T) {
	tests := []struct {
		name        string
		seasons     map[int]string
		want        reconcile.Classification
		wantReason  reconcile.Reason
		wantMessage string
	}{
		{
			name:        "already out",
			seasons:     map[int]string{1: "2020-01-01", 2: "2021-01-01", 3: isoDay(fixedNow.AddDate(0, 0, -1))},
			want:        reconcile.AlreadyOut,
			wantMessage: "Season 3 of The Expanse is out already!",
		},
		{
			name:        "coming soon",
			seasons:     map[int]string{1: "2020-01-01", 2: "2021-01-01", 3: isoDay(fixedNow.AddDate(0, 0, 30))},
			want:        reconcile.ComingSoon,
			wantMessage: "Season 3 of The Expanse is not yet out but will be released on July 15, 2024.",
		},
		{
			name:        "coming later",
			seasons:     map[int]string{1: "2020-01-01", 2: "2021-01-01", 3: isoDay(fixedNow.AddDate(0, 0, 200))},
			want:        reconcile.ComingLater,
			wantMessage: "Season 3 of The Expanse coming up, in more than three months",
		},
		{
			name:        "no new season",
			seasons:     map[int]string{1: "2020-01-01", 2: "2021-01-01"},
			want:        reconcile.Unknown,
			wantReason:  reconcile.ReasonNoNewSeason,
			wantMessage: "No season 3 found for The Expanse",
		},
		{
			name:        "announced without date",
			seasons:     map[int]string{1: "2020-01-01", 2: "2021-01-01", 3: ""},
			want:        reconcile.Unknown,
			wantReason:  reconcile.ReasonDateUndetermined,
			wantMessage: "Season 3 of The Expanse is announced but there is no release date yet",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := newFakeGateway(store.SourceTMDB)
			gw.seasons[63639] = tt.seasons
			r, st := newSeasonReconciler(t, gw, nil)
			testsupport.MustUpsertSeries(t, st, store.Series{ID: 63639, Title: "The Expanse", LastWatchedSeason: 2, IDSource: store.SourceTMDB})

			result := runOne(t, r)
			if result.Err != nil {
				t.Fatalf("unexpected error: %v", result.Err)
			}
			if result.Classification != tt.want || result.Reason != tt.wantReason {
				t.Fatalf("got %s/%q, want %s/%q", result.Classification, result.Reason, tt.want, tt.wantReason)
			}
			if result.Message != tt.wantMessage {
				t.Fatalf("message = %q, want %q", result.Message, tt.wantMessage)
			}
			if result.Season != 3 {
				t.Fatalf("expected season 3, got %d", result.Season)
			}

			stored := testsupport.MustSeries(t, st, 63639)
			if stored.CheckCount != 2 {
				t.Fatalf("expected check count to advance to 2, got %d", stored.CheckCount)
			}
			if stored.LastWatchedSeason != 2 {
				t.Fatalf("reconciliation must not advance progress, got %d", stored.LastWatchedSeason)
			}
			if !stored.LastChangedAt.Equal(dayOf(fixedNow)) || !stored.LastNotifiedAt.Equal(dayOf(fixedNow)) {
				t.Fatalf("expected stamps refreshed to today, got %+v", stored)
			}
		})
	}
}

func TestSeasonReconcilerNeverSkipsAhead(t *testing.T) {
	gw := newFakeGateway(store.SourceTMDB)
	gw.seasons[1] = map[int]string{1: "2019-01-01", 2: "", 3: "2020-01-01", 4: "2021-01-01"}
	r, st := newSeasonReconciler(t, gw, nil)
	testsupport.MustUpsertSeries(t, st, store.Series{ID: 1, Title: "Show", LastWatchedSeason: 1, IDSource: store.SourceTMDB})

	result := runOne(t, r)
	if result.Reason != reconcile.ReasonDateUndetermined {
		t.Fatalf("expected season 2 to be checked and undetermined, got %+v", result)
	}
	if len(gw.requested) != 1 || gw.requested[0] != 2 {
		t.Fatalf("expected only season 2 to be requested, got %v", gw.requested)
	}
}

func TestSeasonReconcilerTakesEarliestRegionalDate(t *testing.T) {
	gw := &multiDateGateway{fakeGateway: newFakeGateway(store.SourceIMDB)}
	gw.seasons[944947] = map[int]string{1: "x"}
	gw.dates = []string{"1 December 2024 (UK)", "5 July 2024 (USA)", "September 2024"}
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	testsupport.MustUpsertSeries(t, st, store.Series{ID: 944947, Title: "Game of Thrones", IDSource: store.SourceIMDB})
	r := &reconcile.SeasonReconciler{Store: st, Gateway: gw, Now: clock, Logger: logging.NewNop()}

	result := runOne(t, r)
	if result.Classification != reconcile.ComingSoon {
		t.Fatalf("expected coming soon, got %+v", result)
	}
	if !strings.Contains(result.Message, "July 5, 2024") {
		t.Fatalf("expected earliest date in message, got %q", result.Message)
	}
}

func TestSeasonReconcilerScopesProviderErrors(t *testing.T) {
	gw := newFakeGateway(store.SourceTMDB)
	gw.listErr[1] = services.Wrap(services.ErrMalformed, "fake", "episode list", "truncated json", nil)
	gw.seasons[2] = map[int]string{1: "2020-01-01", 2: "not a date"}
	gw.seasons[3] = map[int]string{1: "2020-01-01", 2: isoDay(fixedNow.AddDate(0, 0, -3))}
	r, st := newSeasonReconciler(t, gw, nil)
	testsupport.MustUpsertSeries(t, st, store.Series{ID: 1, Title: "A Broken", LastWatchedSeason: 1, IDSource: store.SourceTMDB})
	testsupport.MustUpsertSeries(t, st, store.Series{ID: 2, Title: "B Bad Date", LastWatchedSeason: 1, IDSource: store.SourceTMDB})
	testsupport.MustUpsertSeries(t, st, store.Series{ID: 3, Title: "C Fine", LastWatchedSeason: 1, IDSource: store.SourceTMDB})
	testsupport.MustUpsertSeries(t, st, store.Series{ID: 4, Title: "D Unknown Id", LastWatchedSeason: 1, IDSource: store.SourceTMDB})

	results, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run must not fail on scoped errors: %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	if !errors.Is(results[0].Err, services.ErrMalformed) {
		t.Fatalf("expected malformed error on first series, got %v", results[0].Err)
	}
	if !errors.Is(results[1].Err, services.ErrDateParse) {
		t.Fatalf("expected date parse error on second series, got %v", results[1].Err)
	}
	if results[2].Err != nil || results[2].Classification != reconcile.AlreadyOut {
		t.Fatalf("expected third series to succeed, got %+v", results[2])
	}
	if !errors.Is(results[3].Err, services.ErrNotFound) {
		t.Fatalf("expected not found on fourth series, got %v", results[3].Err)
	}
	for _, result := range results {
		if result.Err != nil && result.Reason != reconcile.ReasonError {
			t.Fatalf("failed result must carry the error reason: %+v", result)
		}
	}

	broken := testsupport.MustSeries(t, st, 1)
	if broken.CheckCount != 2 {
		t.Fatalf("failed series must still count as checked, got check count %d", broken.CheckCount)
	}
	if !broken.LastChangedAt.Equal(dayOf(fixedNow)) {
		t.Fatalf("failed series must refresh last changed, got %v", broken.LastChangedAt)
	}
	if broken.LastWatchedSeason != 1 {
		t.Fatalf("failed check must not move progress, got %d", broken.LastWatchedSeason)
	}
	if fine := testsupport.MustSeries(t, st, 3); fine.CheckCount != 2 {
		t.Fatalf("successful series must be rewritten, got check count %d", fine.CheckCount)
	}
}

func TestSeasonReconcilerOnNotifyStampPolicy(t *testing.T) {
	gw := newFakeGateway(store.SourceTMDB)
	gw.seasons[1] = map[int]string{1: "2020-01-01", 2: isoDay(fixedNow.AddDate(0, 0, 200))}
	gw.seasons[2] = map[int]string{1: "2020-01-01", 2: isoDay(fixedNow.AddDate(0, 0, -1))}
	r, st := newSeasonReconciler(t, gw, nil)
	r.StampPolicy = config.StampOnNotify
	testsupport.MustUpsertSeries(t, st, store.Series{ID: 1, Title: "Later", LastWatchedSeason: 1, IDSource: store.SourceTMDB})
	testsupport.MustUpsertSeries(t, st, store.Series{ID: 2, Title: "Out", LastWatchedSeason: 1, IDSource: store.SourceTMDB})
	gw.listErr[3] = services.Wrap(services.ErrProvider, "fake", "episode list", "status 503", nil)
	testsupport.MustUpsertSeries(t, st, store.Series{ID: 3, Title: "Unreachable", LastWatchedSeason: 1, IDSource: store.SourceTMDB})

	if _, err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	later := testsupport.MustSeries(t, st, 1)
	if !later.LastNotifiedAt.IsZero() {
		t.Fatalf("coming later must not stamp last notified, got %v", later.LastNotifiedAt)
	}
	if !later.LastChangedAt.Equal(dayOf(fixedNow)) {
		t.Fatalf("last changed must still refresh, got %v", later.LastChangedAt)
	}
	out := testsupport.MustSeries(t, st, 2)
	if !out.LastNotifiedAt.Equal(dayOf(fixedNow)) {
		t.Fatalf("already out must stamp last notified, got %v", out.LastNotifiedAt)
	}
	unreachable := testsupport.MustSeries(t, st, 3)
	if !unreachable.LastNotifiedAt.IsZero() || unreachable.CheckCount != 2 {
		t.Fatalf("failed check must count but not stamp last notified, got %+v", unreachable)
	}
}

func TestSeasonReconcilerRejectsForeignNamespace(t *testing.T) {
	gw := newFakeGateway(store.SourceIMDB)
	r, st := newSeasonReconciler(t, gw, nil)
	testsupport.MustUpsertSeries(t, st, store.Series{ID: 1399, Title: "Game of Thrones", IDSource: store.SourceTMDB})

	result := runOne(t, r)
	if !errors.Is(result.Err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %+v", result)
	}
	if gw.listCalls != 0 {
		t.Fatal("gateway must not be queried with a foreign id")
	}
}

func TestSeasonReconcilerEmptyStore(t *testing.T) {
	r, _ := newSeasonReconciler(t, newFakeGateway(store.SourceTMDB), nil)
	results, err := r.Run(context.Background())
	if err != nil || len(results) != 0 {
		t.Fatalf("expected no results, got %+v %v", results, err)
	}
}

func TestSeasonReconcilerStorageFailureIsFatal(t *testing.T) {
	gw := newFakeGateway(store.SourceTMDB)
	r, st := newSeasonReconciler(t, gw, nil)
	if err := st.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	_, err := r.Run(context.Background())
	if !services.IsFatal(err) {
		t.Fatalf("expected fatal storage error, got %v", err)
	}
}
