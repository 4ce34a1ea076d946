package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

var expectedSeriesColumns = []string{
	"id",
	"title",
	"last_watched_season",
	"number_of_checks",
	"last_notified_date",
	"last_change_date",
	"id_source",
}

// CheckHealth returns diagnostic information about the database.
func (s *Store) CheckHealth(ctx context.Context) (DatabaseHealth, error) {
	health := DatabaseHealth{DBPath: s.path}
	if s.path == "" {
		return health, errors.New("database path is unknown")
	}

	info, err := os.Stat(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return health, nil
		}
		return health, fmt.Errorf("stat database: %w", err)
	}
	if info.IsDir() {
		return health, fmt.Errorf("database path %q is a directory", s.path)
	}
	health.DatabaseExists = true

	if s.db == nil {
		return health, errors.New("database connection unavailable")
	}

	connCtx, cancel := context.WithTimeout(ensureContext(ctx), 2*time.Second)
	defer cancel()

	if err := s.db.PingContext(connCtx); err != nil {
		health.Error = err.Error()
		return health, fmt.Errorf("ping database: %w", err)
	}
	health.DatabaseReadable = true

	columns, err := tableColumns(connCtx, s.db, "series")
	if err != nil {
		health.Error = err.Error()
		return health, fmt.Errorf("series table info: %w", err)
	}
	present := make(map[string]struct{}, len(columns))
	for _, col := range columns {
		present[col] = struct{}{}
	}
	for _, col := range expectedSeriesColumns {
		if _, ok := present[col]; !ok {
			health.MissingColumns = append(health.MissingColumns, col)
		}
	}

	rows, err := s.db.QueryContext(connCtx, "SELECT version FROM schema_migrations ORDER BY version")
	if err != nil {
		health.Error = err.Error()
		return health, fmt.Errorf("read migrations: %w", err)
	}
	for rows.Next() {
		var version string
		if err := rows.Scan(&version); err != nil {
			rows.Close()
			health.Error = err.Error()
			return health, fmt.Errorf("scan migration: %w", err)
		}
		health.Migrations = append(health.Migrations, version)
	}
	rows.Close()

	if err := s.db.QueryRowContext(connCtx, "SELECT COUNT(*) FROM series").Scan(&health.SeriesCount); err != nil {
		health.Error = err.Error()
		return health, fmt.Errorf("count series: %w", err)
	}
	if err := s.db.QueryRowContext(connCtx, "SELECT COUNT(*) FROM artists").Scan(&health.ArtistCount); err != nil {
		health.Error = err.Error()
		return health, fmt.Errorf("count artists: %w", err)
	}

	var integrityResult string
	if err := s.db.QueryRowContext(connCtx, "PRAGMA integrity_check").Scan(&integrityResult); err != nil {
		health.Error = err.Error()
		return health, fmt.Errorf("integrity check: %w", err)
	}
	health.IntegrityCheck = strings.EqualFold(integrityResult, "ok")
	return health, nil
}
