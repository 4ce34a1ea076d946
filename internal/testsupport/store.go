package testsupport

import (
	"context"
	"testing"

	"seasonwatch/internal/config"
	"seasonwatch/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// MustUpsertSeries writes rec and fails the test on error.
func MustUpsertSeries(t testing.TB, st *store.Store, rec store.Series) store.Series {
	t.Helper()

	stored, err := st.UpsertSeries(context.Background(), rec, store.UpsertOptions{})
	if err != nil {
		t.Fatalf("store.UpsertSeries: %v", err)
	}
	return stored
}

// MustSeries reads id and fails the test when it is missing.
func MustSeries(t testing.TB, st *store.Store, id int64) store.Series {
	t.Helper()

	rec, err := st.Series(context.Background(), id)
	if err != nil {
		t.Fatalf("store.Series: %v", err)
	}
	if rec == nil {
		t.Fatalf("series %d not found", id)
	}
	return *rec
}
