package reconcile_test

import (
	"context"
	"testing"

	"seasonwatch/internal/provider"
	"seasonwatch/internal/reconcile"
	"seasonwatch/internal/store"
	"seasonwatch/internal/testsupport"
)

func TestConfident(t *testing.T) {
	tests := []struct {
		title     string
		candidate provider.Candidate
		want      bool
	}{
		{"Game of Thrones", provider.Candidate{ID: 1399, Name: "Game of Thrones"}, true},
		{"game of  thrones", provider.Candidate{ID: 1399, Name: "Game of Thrones"}, true},
		{"Brooklyn Nine Nine", provider.Candidate{ID: 48891, Name: "Brooklyn Nine-Nine"}, true},
		{"The Office", provider.Candidate{ID: 2316, Name: "Parks and Recreation"}, false},
		{"Dark", provider.Candidate{ID: 0, Name: "Dark"}, false},
	}
	for _, tt := range tests {
		if got := reconcile.Confident(tt.title, tt.candidate); got != tt.want {
			t.Errorf("Confident(%q, %q) = %v, want %v", tt.title, tt.candidate.Name, got, tt.want)
		}
	}
}

func TestMigrationConfirmedReplacesRecord(t *testing.T) {
	gw := newFakeGateway(store.SourceTMDB)
	gw.candidates[944947] = &provider.Candidate{ID: 1399, Name: "Game of Thrones"}
	prompt := &fakePrompt{confirm: true}
	r, st := newSeasonReconciler(t, gw, prompt)
	testsupport.MustUpsertSeries(t, st, store.Series{ID: 944947, Title: "Game of Thrones", LastWatchedSeason: 6, IDSource: store.SourceIMDB})

	result := runOne(t, r)
	if !result.Migrated || result.SeriesID != 1399 || result.Reason != reconcile.ReasonMigrated {
		t.Fatalf("unexpected result %+v", result)
	}
	if prompt.confirms != 1 || prompt.manuals != 0 {
		t.Fatalf("expected a single confirmation, got %d confirms %d manuals", prompt.confirms, prompt.manuals)
	}
	if gw.listCalls != 0 {
		t.Fatal("no availability check may run in a migration pass")
	}

	all, err := st.AllSeries(context.Background())
	if err != nil {
		t.Fatalf("AllSeries: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected exactly one record, got %+v", all)
	}
	got := all[0]
	if got.ID != 1399 || got.IDSource != store.SourceTMDB || got.LastWatchedSeason != 6 {
		t.Fatalf("unexpected migrated record %+v", got)
	}

	gw.seasons[1399] = map[int]string{7: isoDay(fixedNow.AddDate(0, 0, -10))}
	next := runOne(t, r)
	if next.Classification != reconcile.AlreadyOut || next.Migrated {
		t.Fatalf("expected a regular check on the following pass, got %+v", next)
	}
}

func TestMigrationDeclinedFallsBackToManualID(t *testing.T) {
	gw := newFakeGateway(store.SourceTMDB)
	gw.candidates[1] = &provider.Candidate{ID: 500, Name: "Sherlock"}
	prompt := &fakePrompt{confirm: false, manualID: 19885}
	r, st := newSeasonReconciler(t, gw, prompt)
	testsupport.MustUpsertSeries(t, st, store.Series{ID: 1, Title: "Sherlock", LastWatchedSeason: 2, IDSource: store.SourceIMDB})

	result := runOne(t, r)
	if !result.Migrated || result.SeriesID != 19885 {
		t.Fatalf("expected manual id to be used, got %+v", result)
	}
	if prompt.confirms != 1 || prompt.manuals != 1 {
		t.Fatalf("expected confirm then manual prompt, got %d/%d", prompt.confirms, prompt.manuals)
	}
	testsupport.MustSeries(t, st, 19885)
}

func TestMigrationUnconfidentCandidateSkipsConfirmation(t *testing.T) {
	gw := newFakeGateway(store.SourceTMDB)
	gw.candidates[1] = &provider.Candidate{ID: 500, Name: "Something Else Entirely"}
	prompt := &fakePrompt{manualID: 0}
	r, st := newSeasonReconciler(t, gw, prompt)
	testsupport.MustUpsertSeries(t, st, store.Series{ID: 1, Title: "Sherlock", LastWatchedSeason: 2, IDSource: store.SourceIMDB})

	result := runOne(t, r)
	if result.Migrated || result.Reason != reconcile.ReasonMigrationSkipped {
		t.Fatalf("expected skipped migration, got %+v", result)
	}
	if prompt.confirms != 0 || prompt.manuals != 1 {
		t.Fatalf("expected only the manual prompt, got %d/%d", prompt.confirms, prompt.manuals)
	}
	rec := testsupport.MustSeries(t, st, 1)
	if rec.IDSource != store.SourceIMDB || rec.CheckCount != 1 {
		t.Fatalf("skipped migration must leave the record untouched, got %+v", rec)
	}
}

func TestMigrationNonInteractiveSkips(t *testing.T) {
	gw := newFakeGateway(store.SourceTMDB)
	gw.candidates[1] = &provider.Candidate{ID: 1399, Name: "Game of Thrones"}
	r, st := newSeasonReconciler(t, gw, reconcile.NonInteractivePrompt{})
	testsupport.MustUpsertSeries(t, st, store.Series{ID: 1, Title: "Game of Thrones", IDSource: store.SourceIMDB})

	result := runOne(t, r)
	if result.Reason != reconcile.ReasonMigrationSkipped {
		t.Fatalf("expected skip, got %+v", result)
	}
	if rec, err := st.Series(context.Background(), 1399); err != nil || rec != nil {
		t.Fatalf("no record may be written under the new id: %+v %v", rec, err)
	}
}
