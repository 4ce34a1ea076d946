package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"seasonwatch/internal/dates"
	"seasonwatch/internal/services"
)

const (
	artistColumns = "id, name, is_new, added_date"
	albumColumns  = "id, name, artist_id, release_year, number_of_notifications, added_date, last_notified_date"
)

func scanArtist(scanner interface{ Scan(dest ...any) error }) (Artist, error) {
	var (
		a        Artist
		isNew    int
		addedRaw sql.NullString
	)
	if err := scanner.Scan(&a.ID, &a.Name, &isNew, &addedRaw); err != nil {
		return Artist{}, err
	}
	a.IsNew = isNew != 0
	a.AddedAt, _ = dates.ParseSQLDate(addedRaw.String)
	return a, nil
}

func scanAlbum(scanner interface{ Scan(dest ...any) error }) (Album, error) {
	var (
		a           Album
		year        sql.NullInt64
		addedRaw    sql.NullString
		notifiedRaw sql.NullString
	)
	if err := scanner.Scan(&a.ID, &a.Name, &a.ArtistID, &year, &a.NotificationCount, &addedRaw, &notifiedRaw); err != nil {
		return Album{}, err
	}
	if year.Valid {
		a.ReleaseYear = int(year.Int64)
	}
	a.AddedAt, _ = dates.ParseSQLDate(addedRaw.String)
	a.LastNotifiedAt, _ = dates.ParseSQLDate(notifiedRaw.String)
	return a, nil
}

// UpsertArtist inserts a followed artist. Re-adding a known id only refreshes
// its name so the new-artist flag is never re-armed.
func (s *Store) UpsertArtist(ctx context.Context, a Artist) (Artist, error) {
	a.Name = strings.TrimSpace(a.Name)
	if a.ID <= 0 || a.Name == "" {
		return Artist{}, services.Wrap(services.ErrValidation, "store", "upsert artist", "artist id and name are required", nil)
	}
	err := s.withTx(ctx, "upsert artist", func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO artists (`+artistColumns+`)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET name = excluded.name`,
			a.ID, a.Name, boolToInt(a.IsNew), nullableDate(a.AddedAt))
		return err
	})
	if err != nil {
		return Artist{}, err
	}
	stored, err := s.Artist(ctx, a.ID)
	if err != nil {
		return Artist{}, err
	}
	if stored == nil {
		return Artist{}, services.Wrap(services.ErrStorage, "store", "upsert artist", "artist vanished after write", nil)
	}
	return *stored, nil
}

// MarkArtistSeen clears the new-artist flag permanently.
func (s *Store) MarkArtistSeen(ctx context.Context, id int64) error {
	return s.withTx(ctx, "mark artist seen", func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `UPDATE artists SET is_new = 0 WHERE id = ?`, id)
		return err
	})
}

// Artist returns one artist, or nil when unknown.
func (s *Store) Artist(ctx context.Context, id int64) (*Artist, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, `SELECT `+artistColumns+` FROM artists WHERE id = ?`, id)
	a, err := scanArtist(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, services.Wrap(services.ErrStorage, "store", "read artist", fmt.Sprintf("id %d", id), err)
	}
	return &a, nil
}

// AllArtists returns every followed artist ordered by name.
func (s *Store) AllArtists(ctx context.Context) ([]Artist, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, `SELECT `+artistColumns+` FROM artists ORDER BY name COLLATE NOCASE, id`)
	if err != nil {
		return nil, services.Wrap(services.ErrStorage, "store", "read all artists", "query", err)
	}
	defer rows.Close()
	var out []Artist
	for rows.Next() {
		a, err := scanArtist(rows)
		if err != nil {
			return nil, services.Wrap(services.ErrStorage, "store", "read all artists", "scan", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, services.Wrap(services.ErrStorage, "store", "read all artists", "iterate", err)
	}
	return out, nil
}

// RemoveArtist deletes an artist together with its albums.
func (s *Store) RemoveArtist(ctx context.Context, id int64) (bool, error) {
	var removed bool
	err := s.withTx(ctx, "remove artist", func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM music WHERE artist_id = ?`, id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM artists WHERE id = ?`, id)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		removed = n > 0
		return err
	})
	return removed, err
}

// UpsertAlbum inserts an album or updates it in place. added_date is kept from
// the first observation.
func (s *Store) UpsertAlbum(ctx context.Context, a Album) error {
	a.Name = strings.TrimSpace(a.Name)
	if a.ID <= 0 || a.ArtistID <= 0 || a.Name == "" {
		return services.Wrap(services.ErrValidation, "store", "upsert album", "album id, artist id and name are required", nil)
	}
	if a.NotificationCount < 0 {
		return services.Wrap(services.ErrValidation, "store", "upsert album", "notification count must be >= 0", nil)
	}
	var year any
	if a.ReleaseYear > 0 {
		year = a.ReleaseYear
	}
	return s.withTx(ctx, "upsert album", func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO music (`+albumColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				name = excluded.name,
				artist_id = excluded.artist_id,
				release_year = excluded.release_year,
				number_of_notifications = excluded.number_of_notifications,
				last_notified_date = excluded.last_notified_date`,
			a.ID, a.Name, a.ArtistID, year, a.NotificationCount,
			nullableDate(a.AddedAt), nullableDate(a.LastNotifiedAt))
		return err
	})
}

// AllAlbums returns every observed album.
func (s *Store) AllAlbums(ctx context.Context) ([]Album, error) {
	return s.queryAlbums(ctx, "read all albums", `SELECT `+albumColumns+` FROM music ORDER BY artist_id, release_year, name`)
}

// AlbumsByArtist returns albums observed for one artist keyed by album id.
func (s *Store) AlbumsByArtist(ctx context.Context, artistID int64) (map[int64]Album, error) {
	list, err := s.queryAlbums(ctx, "read artist albums", `SELECT `+albumColumns+` FROM music WHERE artist_id = ?`, artistID)
	if err != nil {
		return nil, err
	}
	out := make(map[int64]Album, len(list))
	for _, a := range list {
		out[a.ID] = a
	}
	return out, nil
}

func (s *Store) queryAlbums(ctx context.Context, operation, query string, args ...any) ([]Album, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, services.Wrap(services.ErrStorage, "store", operation, "query", err)
	}
	defer rows.Close()
	var out []Album
	for rows.Next() {
		a, err := scanAlbum(rows)
		if err != nil {
			return nil, services.Wrap(services.ErrStorage, "store", operation, "scan", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, services.Wrap(services.ErrStorage, "store", operation, "iterate", err)
	}
	return out, nil
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
