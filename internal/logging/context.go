package logging

import (
	"context"
	"log/slog"

	"seasonwatch/internal/services"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldSeriesID identifies the tracked series a line refers to.
	FieldSeriesID = "series_id"
	// FieldArtistID identifies the tracked artist a line refers to.
	FieldArtistID = "artist_id"
	// FieldRunID correlates every line of one reconciliation pass.
	FieldRunID = "run_id"
	// FieldEventType is a stable machine-readable name for the event.
	FieldEventType = "event_type"
	// FieldErrorHint tells the reader what to do next.
	FieldErrorHint = "error_hint"
	// FieldErrorKind carries services.Kind of a logged error.
	FieldErrorKind = "error_kind"
	// FieldImpact states what the user loses because of a warning.
	FieldImpact = "impact"
)

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 3)
	if rid, ok := services.RunIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldRunID, rid))
	}
	if id, ok := services.SeriesIDFromContext(ctx); ok {
		fields = append(fields, slog.Int64(FieldSeriesID, id))
	}
	if id, ok := services.ArtistIDFromContext(ctx); ok {
		fields = append(fields, slog.Int64(FieldArtistID, id))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(Args(fields...)...)
}
