package services

import "context"

type contextKey string

const (
	seriesIDKey contextKey = "series_id"
	artistIDKey contextKey = "artist_id"
	runIDKey    contextKey = "run_id"
)

// WithSeriesID annotates context with the tracked series identifier.
func WithSeriesID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, seriesIDKey, id)
}

// SeriesIDFromContext extracts the series identifier if present.
func SeriesIDFromContext(ctx context.Context) (int64, bool) {
	return int64Value(ctx, seriesIDKey)
}

// WithArtistID annotates context with the tracked artist identifier.
func WithArtistID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, artistIDKey, id)
}

// ArtistIDFromContext extracts the artist identifier if present.
func ArtistIDFromContext(ctx context.Context) (int64, bool) {
	return int64Value(ctx, artistIDKey)
}

// WithRunID annotates context with the correlation identifier of one
// reconciliation pass.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the run identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(runIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

func int64Value(ctx context.Context, key contextKey) (int64, bool) {
	v := ctx.Value(key)
	if v == nil {
		return 0, false
	}
	switch val := v.(type) {
	case int64:
		return val, true
	case int:
		return int64(val), true
	default:
		return 0, false
	}
}
