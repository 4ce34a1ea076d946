package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"seasonwatch/internal/services"
	"seasonwatch/internal/services/omdb"
	"seasonwatch/internal/services/tmdb"
	"seasonwatch/internal/store"
)

// TMDBAPI is the subset of tmdb.Client used by the gateway.
type TMDBAPI interface {
	GetTVDetails(ctx context.Context, showID int64) (*tmdb.TVDetails, error)
	GetSeasonDetails(ctx context.Context, showID int64, seasonNumber int) (*tmdb.SeasonDetails, error)
	FindByIMDbID(ctx context.Context, imdbID string) (*tmdb.FindResponse, error)
}

// TMDB serves TVGateway from The Movie Database.
type TMDB struct {
	api TMDBAPI
}

// NewTMDB wraps a TMDB client.
func NewTMDB(api TMDBAPI) *TMDB {
	return &TMDB{api: api}
}

// Source implements TVGateway.
func (g *TMDB) Source() store.IDSource {
	return store.SourceTMDB
}

// FetchEpisodeList implements TVGateway. Season 0 holds specials and is
// never offered as a next season.
func (g *TMDB) FetchEpisodeList(ctx context.Context, seriesID int64) (map[int]EpisodeRef, error) {
	details, err := g.api.GetTVDetails(ctx, seriesID)
	if err != nil {
		return nil, err
	}
	if details == nil {
		return nil, services.Wrap(services.ErrMalformed, "tmdb", "episode list", fmt.Sprintf("empty details for %d", seriesID), nil)
	}
	seasons := make(map[int]EpisodeRef, len(details.Seasons))
	for _, season := range details.Seasons {
		if season.SeasonNumber <= 0 {
			continue
		}
		seasons[season.SeasonNumber] = EpisodeRef{
			SeriesID: seriesID,
			ID:       fmt.Sprintf("%d/%d/1", seriesID, season.SeasonNumber),
			Season:   season.SeasonNumber,
			Episode:  1,
			AirDate:  strings.TrimSpace(season.AirDate),
		}
	}
	if next := details.NextEpisodeToAir; next != nil && next.SeasonNumber > 0 {
		if _, ok := seasons[next.SeasonNumber]; !ok {
			seasons[next.SeasonNumber] = EpisodeRef{
				SeriesID: seriesID,
				ID:       fmt.Sprintf("%d/%d/%d", seriesID, next.SeasonNumber, next.EpisodeNumber),
				Season:   next.SeasonNumber,
				Episode:  next.EpisodeNumber,
				AirDate:  strings.TrimSpace(next.AirDate),
			}
		}
	}
	return seasons, nil
}

// FetchReleaseDates implements TVGateway. A season is released when its
// first episode airs, so only episode 1's air date counts; the season summary
// date is the fallback when episode 1 has none.
func (g *TMDB) FetchReleaseDates(ctx context.Context, ref EpisodeRef) ([]ReleaseDate, error) {
	season, err := g.api.GetSeasonDetails(ctx, ref.SeriesID, ref.Season)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) && ref.AirDate != "" {
			return []ReleaseDate{{Date: ref.AirDate}}, nil
		}
		if errors.Is(err, services.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if season == nil {
		return nil, services.Wrap(services.ErrMalformed, "tmdb", "release dates", ref.ID, nil)
	}
	for _, ep := range season.Episodes {
		if ep.EpisodeNumber != 1 {
			continue
		}
		if date := strings.TrimSpace(ep.AirDate); date != "" {
			return []ReleaseDate{{Date: date}}, nil
		}
		break
	}
	for _, date := range []string{season.AirDate, ref.AirDate} {
		if date = strings.TrimSpace(date); date != "" {
			return []ReleaseDate{{Date: date}}, nil
		}
	}
	return nil, nil
}

// TranslateLegacyID implements TVGateway via TMDB's /find endpoint.
func (g *TMDB) TranslateLegacyID(ctx context.Context, legacyID int64) (*Candidate, error) {
	found, err := g.api.FindByIMDbID(ctx, omdb.FormatID(legacyID))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if found == nil || len(found.TVResults) == 0 {
		return nil, nil
	}
	match := found.TVResults[0]
	name := match.Name
	if name == "" {
		name = match.OriginalName
	}
	return &Candidate{ID: match.ID, Name: name}, nil
}
