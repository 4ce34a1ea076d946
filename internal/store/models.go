package store

import (
	"fmt"
	"strings"
	"time"
)

// IDSource names the provider namespace a series id belongs to.
type IDSource string

const (
	SourceIMDB IDSource = "IMDB"
	SourceTMDB IDSource = "TMDB"
)

// ParseIDSource accepts either spelling case-insensitively.
func ParseIDSource(value string) (IDSource, bool) {
	switch IDSource(strings.ToUpper(strings.TrimSpace(value))) {
	case SourceIMDB:
		return SourceIMDB, true
	case SourceTMDB:
		return SourceTMDB, true
	default:
		return "", false
	}
}

// Series is one tracked show.
type Series struct {
	ID                int64
	Title             string
	LastWatchedSeason int
	CheckCount        int
	LastNotifiedAt    time.Time
	LastChangedAt     time.Time
	IDSource          IDSource
}

// NextSeason is the season the next pass looks for.
func (s Series) NextSeason() int {
	return s.LastWatchedSeason + 1
}

// Link builds the provider page for the series.
func (s Series) Link() string {
	if s.IDSource == SourceTMDB {
		return fmt.Sprintf("https://www.themoviedb.org/tv/%d", s.ID)
	}
	return fmt.Sprintf("https://www.imdb.com/title/tt%07d/", s.ID)
}

// UpsertOptions tweaks UpsertSeries.
type UpsertOptions struct {
	// FullReplace deletes any row with the same title before inserting, in the
	// same transaction. Used when a series moves to a new id namespace.
	FullReplace bool
}

// SeriesRow is the read-only listing projection.
type SeriesRow struct {
	ID                int64
	Title             string
	LastWatchedSeason int
	CheckCount        int
	LastChangedAt     time.Time
	Link              string
}

// Artist is a followed music artist.
type Artist struct {
	ID      int64
	Name    string
	IsNew   bool
	AddedAt time.Time
}

// Album is a release observed for a followed artist.
type Album struct {
	ID                int64
	Name              string
	ArtistID          int64
	ReleaseYear       int // 0 when unknown
	NotificationCount int
	AddedAt           time.Time
	LastNotifiedAt    time.Time
}

// DatabaseHealth reports database diagnostics for `config validate`.
type DatabaseHealth struct {
	DBPath           string
	DatabaseExists   bool
	DatabaseReadable bool
	Migrations       []string
	MissingColumns   []string
	SeriesCount      int
	ArtistCount      int
	IntegrityCheck   bool
	Error            string
}
