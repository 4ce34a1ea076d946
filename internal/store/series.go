package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"seasonwatch/internal/dates"
	"seasonwatch/internal/services"
)

const seriesColumns = "id, title, last_watched_season, number_of_checks, last_notified_date, last_change_date, id_source"

func scanSeries(scanner interface{ Scan(dest ...any) error }) (Series, error) {
	var (
		rec         Series
		watchedRaw  sql.NullInt64
		checksRaw   sql.NullInt64
		notifiedRaw sql.NullString
		changedRaw  sql.NullString
		sourceRaw   string
	)
	if err := scanner.Scan(&rec.ID, &rec.Title, &watchedRaw, &checksRaw, &notifiedRaw, &changedRaw, &sourceRaw); err != nil {
		return Series{}, err
	}
	// Legacy tables declare both counters without NOT NULL; NULL reads as 0.
	rec.LastWatchedSeason = int(watchedRaw.Int64)
	rec.CheckCount = int(checksRaw.Int64)
	if source, ok := ParseIDSource(sourceRaw); ok {
		rec.IDSource = source
	} else {
		rec.IDSource = SourceIMDB
	}
	// Unparseable legacy dates read as zero rather than failing the whole listing.
	rec.LastNotifiedAt, _ = dates.ParseSQLDate(notifiedRaw.String)
	rec.LastChangedAt, _ = dates.ParseSQLDate(changedRaw.String)
	return rec, nil
}

func validateSeries(rec Series) error {
	switch {
	case rec.ID <= 0:
		return fmt.Errorf("series id must be positive, got %d", rec.ID)
	case strings.TrimSpace(rec.Title) == "":
		return errors.New("series title must not be empty")
	case rec.LastWatchedSeason < 0:
		return fmt.Errorf("last watched season must be >= 0, got %d", rec.LastWatchedSeason)
	case rec.CheckCount < 0:
		return fmt.Errorf("check count must be >= 0, got %d", rec.CheckCount)
	}
	if _, ok := ParseIDSource(string(rec.IDSource)); !ok {
		return fmt.Errorf("unknown id source %q", rec.IDSource)
	}
	return nil
}

// UpsertSeries inserts or fully replaces the row keyed by rec.ID. The stored
// check count is rec.CheckCount+1; callers pass the value they read. With
// FullReplace any row sharing rec.Title is deleted first, inside the same
// transaction, and a different series already holding rec.ID is a validation
// error. The stored record is returned.
func (s *Store) UpsertSeries(ctx context.Context, rec Series, opts UpsertOptions) (Series, error) {
	if err := validateSeries(rec); err != nil {
		return Series{}, services.Wrap(services.ErrValidation, "store", "upsert series", err.Error(), nil)
	}
	rec.Title = strings.TrimSpace(rec.Title)
	rec.IDSource, _ = ParseIDSource(string(rec.IDSource))
	rec.CheckCount++

	err := s.withTx(ctx, "upsert series", func(tx *sql.Tx) error {
		if opts.FullReplace {
			var holder string
			err := tx.QueryRowContext(ctx, `SELECT title FROM series WHERE id = ?`, rec.ID).Scan(&holder)
			switch {
			case err == nil && holder != rec.Title:
				return services.Wrap(services.ErrValidation, "store", "upsert series",
					fmt.Sprintf("id %d is already tracked as %q", rec.ID, holder), nil)
			case err != nil && !errors.Is(err, sql.ErrNoRows):
				return err
			}
			if _, err := tx.ExecContext(ctx, `DELETE FROM series WHERE title = ?`, rec.Title); err != nil {
				return err
			}
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO series (`+seriesColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				title = excluded.title,
				last_watched_season = excluded.last_watched_season,
				number_of_checks = excluded.number_of_checks,
				last_notified_date = excluded.last_notified_date,
				last_change_date = excluded.last_change_date,
				id_source = excluded.id_source`,
			rec.ID,
			rec.Title,
			rec.LastWatchedSeason,
			rec.CheckCount,
			nullableDate(rec.LastNotifiedAt),
			nullableDate(rec.LastChangedAt),
			string(rec.IDSource),
		)
		return err
	})
	if err != nil {
		return Series{}, err
	}
	rec.LastNotifiedAt = truncateDate(rec.LastNotifiedAt)
	rec.LastChangedAt = truncateDate(rec.LastChangedAt)
	return rec, nil
}

// Series returns the record for id, or nil when it is not tracked.
func (s *Store) Series(ctx context.Context, id int64) (*Series, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, `SELECT `+seriesColumns+` FROM series WHERE id = ?`, id)
	rec, err := scanSeries(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, services.Wrap(services.ErrStorage, "store", "read series", fmt.Sprintf("id %d", id), err)
	}
	return &rec, nil
}

// AllSeries returns every tracked series ordered by title.
func (s *Store) AllSeries(ctx context.Context) ([]Series, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, `SELECT `+seriesColumns+` FROM series ORDER BY title COLLATE NOCASE, id`)
	if err != nil {
		return nil, services.Wrap(services.ErrStorage, "store", "read all series", "query", err)
	}
	defer rows.Close()

	var out []Series
	for rows.Next() {
		rec, err := scanSeries(rows)
		if err != nil {
			return nil, services.Wrap(services.ErrStorage, "store", "read all series", "scan", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, services.Wrap(services.ErrStorage, "store", "read all series", "iterate", err)
	}
	return out, nil
}

// RemoveSeries deletes the record for id. Removing an unknown id is not an
// error; the boolean reports whether a row existed.
func (s *Store) RemoveSeries(ctx context.Context, id int64) (bool, error) {
	var removed bool
	err := s.withTx(ctx, "remove series", func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM series WHERE id = ?`, id)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		removed = n > 0
		return err
	})
	return removed, err
}

// StepUpSeason atomically advances last_watched_season by one and stamps
// last_change_date with today. The boolean is false when id is not tracked.
func (s *Store) StepUpSeason(ctx context.Context, id int64, today time.Time) (bool, error) {
	var updated bool
	err := s.withTx(ctx, "step up season", func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE series
			SET last_watched_season = COALESCE(last_watched_season, 0) + 1,
				last_change_date = ?
			WHERE id = ?`, dates.SQLDate(today), id)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		updated = n > 0
		return err
	})
	return updated, err
}

// SeriesTable is the read-only listing projection used by `tv --list`.
func (s *Store) SeriesTable(ctx context.Context) ([]SeriesRow, error) {
	all, err := s.AllSeries(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]SeriesRow, 0, len(all))
	for _, rec := range all {
		rows = append(rows, SeriesRow{
			ID:                rec.ID,
			Title:             rec.Title,
			LastWatchedSeason: rec.LastWatchedSeason,
			CheckCount:        rec.CheckCount,
			LastChangedAt:     rec.LastChangedAt,
			Link:              rec.Link(),
		})
	}
	return rows, nil
}

func nullableDate(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return dates.SQLDate(t)
}

func truncateDate(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return dates.Today(t)
}
