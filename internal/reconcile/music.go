package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"seasonwatch/internal/dates"
	"seasonwatch/internal/logging"
	"seasonwatch/internal/provider"
	"seasonwatch/internal/services"
	"seasonwatch/internal/store"
)

const (
	// SilencedCount is the notification count stored for albums indexed while
	// their artist was new; it equals MaxReminders so they never remind.
	SilencedCount = 5
	// MaxReminders caps cumulative notifications per album.
	MaxReminders = 5
	// DefaultReminderWindow bounds how long after the last notification an
	// album keeps reminding.
	DefaultReminderWindow = 90 * 24 * time.Hour
)

// AlbumKind classifies a music result.
type AlbumKind int

const (
	NewAlbum AlbumKind = iota + 1
	Reminder
)

func (k AlbumKind) String() string {
	switch k {
	case NewAlbum:
		return "new_album"
	case Reminder:
		return "reminder"
	default:
		return "none"
	}
}

// MusicStore is the persistence surface used by MusicReconciler.
type MusicStore interface {
	AllArtists(ctx context.Context) ([]store.Artist, error)
	AlbumsByArtist(ctx context.Context, artistID int64) (map[int64]store.Album, error)
	UpsertAlbum(ctx context.Context, a store.Album) error
	MarkArtistSeen(ctx context.Context, id int64) error
}

// AlbumResult is one notifiable album.
type AlbumResult struct {
	ArtistID   int64
	ArtistName string
	AlbumID    int64
	Album      string
	Year       int
	Kind       AlbumKind
	Message    string
}

// ArtistFailure records an artist whose discography could not be processed.
type ArtistFailure struct {
	ArtistID   int64
	ArtistName string
	Err        error
}

// MusicReport is the outcome of one music pass.
type MusicReport struct {
	Albums   []AlbumResult
	Failures []ArtistFailure
}

// MusicReconciler indexes followed artists' discographies.
type MusicReconciler struct {
	Store   MusicStore
	Gateway provider.MusicGateway
	Logger  *slog.Logger
	// Now defaults to time.Now.
	Now            func() time.Time
	ReminderWindow time.Duration
}

// Run processes every followed artist. Provider failures skip the artist and
// leave its new flag armed; storage failures abort the pass.
func (r *MusicReconciler) Run(ctx context.Context) (MusicReport, error) {
	var report MusicReport
	if r.Store == nil || r.Gateway == nil {
		return report, services.Wrap(services.ErrConfiguration, "reconcile", "music run", "store and gateway are required", nil)
	}
	if _, ok := services.RunIDFromContext(ctx); !ok {
		ctx = services.WithRunID(ctx, uuid.NewString())
	}
	base := logging.NewComponentLogger(r.Logger, "music")

	artists, err := r.Store.AllArtists(ctx)
	if err != nil {
		return report, err
	}
	for _, artist := range artists {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		artistCtx := services.WithArtistID(ctx, artist.ID)
		logger := logging.WithContext(artistCtx, base)

		albums, err := r.reconcileArtist(artistCtx, artist)
		if err != nil {
			if services.IsFatal(err) {
				return report, err
			}
			logging.WarnWithContext(logger, "artist check failed", "artist_check_failed",
				logging.String("artist", artist.Name),
				logging.Error(err),
				logging.ErrorKind(err),
				logging.String(logging.FieldErrorHint, "verify the Discogs artist id and token"),
				logging.String(logging.FieldImpact, "artist skipped for this run"),
			)
			report.Failures = append(report.Failures, ArtistFailure{ArtistID: artist.ID, ArtistName: artist.Name, Err: err})
			continue
		}
		logger.Info("artist checked",
			logging.String(logging.FieldEventType, "artist_checked"),
			logging.String("artist", artist.Name),
			logging.Bool("new_artist", artist.IsNew),
			logging.Int("notifications", len(albums)),
		)
		report.Albums = append(report.Albums, albums...)
	}
	return report, nil
}

func (r *MusicReconciler) reconcileArtist(ctx context.Context, artist store.Artist) ([]AlbumResult, error) {
	now := r.now()
	today := dates.Today(now)
	window := r.ReminderWindow
	if window <= 0 {
		window = DefaultReminderWindow
	}

	releases, err := r.Gateway.ListReleases(ctx, artist.ID)
	if err != nil {
		return nil, err
	}
	known, err := r.Store.AlbumsByArtist(ctx, artist.ID)
	if err != nil {
		return nil, err
	}

	var results []AlbumResult
	seen := make(map[int64]struct{}, len(releases))
	for _, release := range releases {
		if release.Title == "" || !CreditMatches(artist.Name, release.CreditedArtist) {
			continue
		}
		if _, dup := seen[release.ID]; dup {
			continue
		}
		seen[release.ID] = struct{}{}

		existing, ok := known[release.ID]
		switch {
		case !ok && artist.IsNew:
			err = r.Store.UpsertAlbum(ctx, store.Album{
				ID:                release.ID,
				Name:              release.Title,
				ArtistID:          artist.ID,
				ReleaseYear:       release.Year,
				NotificationCount: SilencedCount,
				AddedAt:           today,
				LastNotifiedAt:    time.Unix(0, 0),
			})
		case !ok:
			err = r.Store.UpsertAlbum(ctx, store.Album{
				ID:                release.ID,
				Name:              release.Title,
				ArtistID:          artist.ID,
				ReleaseYear:       release.Year,
				NotificationCount: 1,
				AddedAt:           today,
				LastNotifiedAt:    today,
			})
			if err == nil {
				results = append(results, albumResult(artist, release, NewAlbum))
			}
		case existing.NotificationCount < MaxReminders && now.Sub(existing.LastNotifiedAt) < window:
			existing.Name = release.Title
			existing.ReleaseYear = release.Year
			existing.NotificationCount++
			existing.LastNotifiedAt = today
			err = r.Store.UpsertAlbum(ctx, existing)
			if err == nil {
				results = append(results, albumResult(artist, release, Reminder))
			}
		}
		if err != nil {
			return nil, err
		}
	}

	if artist.IsNew {
		if err := r.Store.MarkArtistSeen(ctx, artist.ID); err != nil {
			return nil, err
		}
	}
	return results, nil
}

func (r *MusicReconciler) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

// CreditMatches reports whether a release credit names the artist exactly.
// Discogs search over-returns, so appearances and compilations are dropped.
func CreditMatches(artistName, credited string) bool {
	name := strings.TrimSpace(artistName)
	return name != "" && name == strings.TrimSpace(credited)
}

func albumResult(artist store.Artist, release provider.Release, kind AlbumKind) AlbumResult {
	var message string
	year := ""
	if release.Year > 0 {
		year = fmt.Sprintf(" (%d)", release.Year)
	}
	switch kind {
	case NewAlbum:
		message = fmt.Sprintf("New album by %s: %s%s", artist.Name, release.Title, year)
	default:
		message = fmt.Sprintf("Reminder: %s by %s%s is out", release.Title, artist.Name, year)
	}
	return AlbumResult{
		ArtistID:   artist.ID,
		ArtistName: artist.Name,
		AlbumID:    release.ID,
		Album:      release.Title,
		Year:       release.Year,
		Kind:       kind,
		Message:    message,
	}
}
