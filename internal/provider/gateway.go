// Package provider adapts the metadata clients to the narrow capabilities the
// reconcilers consume: season listings and release dates for TV series, and
// discographies for music artists.
package provider

import (
	"context"

	"seasonwatch/internal/store"
)

// EpisodeRef points at the first episode of a season as reported by a
// provider. ID is provider-specific and may be empty when the provider needs
// a second lookup to resolve the episode.
type EpisodeRef struct {
	SeriesID int64
	ID       string
	Season   int
	Episode  int
	AirDate  string
}

// ReleaseDate is one regional release date in raw provider form.
type ReleaseDate struct {
	Region string
	Date   string
}

// Candidate is a proposed identity in the alternate provider's namespace.
type Candidate struct {
	ID   int64
	Name string
}

// Release is one entry of an artist's discography.
type Release struct {
	ID             int64
	Title          string
	CreditedArtist string
	Year           int
}

// TVGateway answers season availability questions for tracked series.
type TVGateway interface {
	// Source reports which id namespace the gateway speaks.
	Source() store.IDSource
	// FetchEpisodeList returns the first episode of every known season keyed
	// by season number. An unknown series id yields services.ErrNotFound.
	FetchEpisodeList(ctx context.Context, seriesID int64) (map[int]EpisodeRef, error)
	// FetchReleaseDates returns the raw release dates for ref; none is valid.
	FetchReleaseDates(ctx context.Context, ref EpisodeRef) ([]ReleaseDate, error)
	// TranslateLegacyID resolves an IMDb id into this gateway's namespace.
	// A nil candidate means no match was found.
	TranslateLegacyID(ctx context.Context, legacyID int64) (*Candidate, error)
}

// MusicGateway lists an artist's complete discography.
type MusicGateway interface {
	ListReleases(ctx context.Context, artistID int64) ([]Release, error)
}
