package provider

import (
	"context"
	"fmt"
	"strings"

	"seasonwatch/internal/services"
	"seasonwatch/internal/services/omdb"
	"seasonwatch/internal/store"
)

// OMDbAPI is the subset of omdb.Client used by the gateway.
type OMDbAPI interface {
	GetSeries(ctx context.Context, imdbID string) (*omdb.Series, error)
	GetSeason(ctx context.Context, imdbID string, season int) (*omdb.Season, error)
	GetEpisode(ctx context.Context, imdbID string) (*omdb.Episode, error)
}

// IMDb serves TVGateway in the IMDb id namespace through OMDb.
type IMDb struct {
	api OMDbAPI
}

// NewIMDb wraps an OMDb client.
func NewIMDb(api OMDbAPI) *IMDb {
	return &IMDb{api: api}
}

// Source implements TVGateway.
func (g *IMDb) Source() store.IDSource {
	return store.SourceIMDB
}

// FetchEpisodeList implements TVGateway. OMDb only reports a season count, so
// the returned refs are resolved lazily by FetchReleaseDates.
func (g *IMDb) FetchEpisodeList(ctx context.Context, seriesID int64) (map[int]EpisodeRef, error) {
	series, err := g.api.GetSeries(ctx, omdb.FormatID(seriesID))
	if err != nil {
		return nil, err
	}
	if series == nil {
		return nil, services.Wrap(services.ErrMalformed, "omdb", "episode list", fmt.Sprintf("empty series for %d", seriesID), nil)
	}
	total := series.Seasons()
	seasons := make(map[int]EpisodeRef, total)
	for n := 1; n <= total; n++ {
		seasons[n] = EpisodeRef{SeriesID: seriesID, Season: n, Episode: 1}
	}
	return seasons, nil
}

// FetchReleaseDates implements TVGateway. The season listing names the first
// episode; its own title record is read when the listing omits the date.
func (g *IMDb) FetchReleaseDates(ctx context.Context, ref EpisodeRef) ([]ReleaseDate, error) {
	season, err := g.api.GetSeason(ctx, omdb.FormatID(ref.SeriesID), ref.Season)
	if err != nil {
		return nil, err
	}
	if season == nil {
		return nil, services.Wrap(services.ErrMalformed, "omdb", "release dates", fmt.Sprintf("empty season %d", ref.Season), nil)
	}
	first, ok := firstEpisode(season.Episodes)
	if !ok {
		return nil, nil
	}
	released := strings.TrimSpace(first.Released)
	if released == "" && first.IMDbID != "" {
		episode, err := g.api.GetEpisode(ctx, first.IMDbID)
		if err != nil {
			return nil, err
		}
		if episode != nil {
			released = strings.TrimSpace(episode.Released)
		}
	}
	if released == "" || strings.EqualFold(released, omdb.NotAvailable) {
		return nil, nil
	}
	return []ReleaseDate{{Date: released}}, nil
}

// TranslateLegacyID implements TVGateway. Ids are already IMDb ids.
func (g *IMDb) TranslateLegacyID(context.Context, int64) (*Candidate, error) {
	return nil, nil
}

func firstEpisode(episodes []omdb.SeasonEpisode) (omdb.SeasonEpisode, bool) {
	var (
		best  omdb.SeasonEpisode
		found bool
	)
	for _, ep := range episodes {
		n := ep.Number()
		if n <= 0 {
			continue
		}
		if !found || n < best.Number() {
			best, found = ep, true
		}
	}
	return best, found
}
