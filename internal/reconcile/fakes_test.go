package reconcile_test

import (
	"context"
	"fmt"
	"time"

	"seasonwatch/internal/notifications"
	"seasonwatch/internal/provider"
	"seasonwatch/internal/services"
	"seasonwatch/internal/store"
)

var fixedNow = time.Date(2024, time.June, 15, 12, 0, 0, 0, time.Local)

func clock() time.Time { return fixedNow }

func isoDay(t time.Time) string { return t.Format("2006-01-02") }

type fakeGateway struct {
	source     store.IDSource
	seasons    map[int64]map[int]string
	listErr    map[int64]error
	dateErr    map[int64]error
	candidates map[int64]*provider.Candidate

	listCalls int
	requested []int
}

func newFakeGateway(source store.IDSource) *fakeGateway {
	return &fakeGateway{
		source:     source,
		seasons:    map[int64]map[int]string{},
		listErr:    map[int64]error{},
		dateErr:    map[int64]error{},
		candidates: map[int64]*provider.Candidate{},
	}
}

func (g *fakeGateway) Source() store.IDSource { return g.source }

func (g *fakeGateway) FetchEpisodeList(_ context.Context, id int64) (map[int]provider.EpisodeRef, error) {
	g.listCalls++
	if err := g.listErr[id]; err != nil {
		return nil, err
	}
	seasons, ok := g.seasons[id]
	if !ok {
		return nil, services.Wrap(services.ErrNotFound, "fake", "episode list", fmt.Sprintf("%d", id), nil)
	}
	out := make(map[int]provider.EpisodeRef, len(seasons))
	for n := range seasons {
		out[n] = provider.EpisodeRef{SeriesID: id, Season: n, Episode: 1}
	}
	return out, nil
}

func (g *fakeGateway) FetchReleaseDates(_ context.Context, ref provider.EpisodeRef) ([]provider.ReleaseDate, error) {
	g.requested = append(g.requested, ref.Season)
	if err := g.dateErr[ref.SeriesID]; err != nil {
		return nil, err
	}
	date := g.seasons[ref.SeriesID][ref.Season]
	if date == "" {
		return nil, nil
	}
	return []provider.ReleaseDate{{Region: "USA", Date: date}}, nil
}

func (g *fakeGateway) TranslateLegacyID(_ context.Context, id int64) (*provider.Candidate, error) {
	return g.candidates[id], nil
}

type fakePrompt struct {
	confirm   bool
	manualID  int64
	confirms  int
	manuals   int
	lastTitle string
}

func (p *fakePrompt) Confirm(_ context.Context, rec store.Series, _ provider.Candidate) (bool, error) {
	p.confirms++
	p.lastTitle = rec.Title
	return p.confirm, nil
}

func (p *fakePrompt) ManualID(_ context.Context, rec store.Series) (int64, bool, error) {
	p.manuals++
	p.lastTitle = rec.Title
	return p.manualID, p.manualID > 0, nil
}

type sentNotification struct {
	title, message string
	opts           notifications.Options
}

type fakeSink struct {
	sent []sentNotification
	err  error
}

func (s *fakeSink) Notify(_ context.Context, title, message string, opts notifications.Options) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, sentNotification{title: title, message: message, opts: opts})
	return nil
}

type fakeDiscography struct {
	releases map[int64][]provider.Release
	err      map[int64]error
}

func (d *fakeDiscography) ListReleases(_ context.Context, artistID int64) ([]provider.Release, error) {
	if err := d.err[artistID]; err != nil {
		return nil, err
	}
	return d.releases[artistID], nil
}

func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// multiDateGateway reports several regional dates for every season.
type multiDateGateway struct {
	*fakeGateway
	dates []string
}

func (g *multiDateGateway) FetchReleaseDates(context.Context, provider.EpisodeRef) ([]provider.ReleaseDate, error) {
	out := make([]provider.ReleaseDate, 0, len(g.dates))
	for _, d := range g.dates {
		out = append(out, provider.ReleaseDate{Date: d})
	}
	return out, nil
}
