package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"seasonwatch/internal/config"
	"seasonwatch/internal/dates"
	"seasonwatch/internal/logging"
	"seasonwatch/internal/provider"
	"seasonwatch/internal/services"
	"seasonwatch/internal/store"
)

// SeriesStore is the persistence surface used by SeasonReconciler.
type SeriesStore interface {
	AllSeries(ctx context.Context) ([]store.Series, error)
	UpsertSeries(ctx context.Context, rec store.Series, opts store.UpsertOptions) (store.Series, error)
}

// SeriesResult is the outcome for one tracked series.
type SeriesResult struct {
	SeriesID       int64
	Title          string
	Season         int
	Classification Classification
	Reason         Reason
	ReleaseDate    time.Time
	Message        string
	Migrated       bool
	Err            error
}

// Failed reports whether the series could not be checked.
func (r SeriesResult) Failed() bool {
	return r.Err != nil
}

// SeasonReconciler runs one availability pass over every tracked series.
type SeasonReconciler struct {
	Store   SeriesStore
	Gateway provider.TVGateway
	Prompt  ConfirmationPrompt
	Logger  *slog.Logger
	// Now defaults to time.Now.
	Now        func() time.Time
	SoonWindow time.Duration
	// StampPolicy is config.StampAlways or config.StampOnNotify.
	StampPolicy string
	NotifySoon  bool
}

// Run reconciles every tracked series. Only fatal errors (see
// services.IsFatal) are returned; everything else is reported per result.
// Results gathered before a fatal error are returned alongside it.
func (r *SeasonReconciler) Run(ctx context.Context) ([]SeriesResult, error) {
	if r.Store == nil || r.Gateway == nil {
		return nil, services.Wrap(services.ErrConfiguration, "reconcile", "run", "store and gateway are required", nil)
	}
	if _, ok := services.RunIDFromContext(ctx); !ok {
		ctx = services.WithRunID(ctx, uuid.NewString())
	}
	base := logging.NewComponentLogger(r.Logger, "seasons")
	logger := logging.WithContext(ctx, base)

	all, err := r.Store.AllSeries(ctx)
	if err != nil {
		return nil, err
	}
	logger.Info("season pass started",
		logging.String(logging.FieldEventType, "season_pass_started"),
		logging.Int("series", len(all)),
		logging.String("gateway", string(r.Gateway.Source())),
	)

	results := make([]SeriesResult, 0, len(all))
	for _, rec := range all {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		seriesCtx := services.WithSeriesID(ctx, rec.ID)
		result, err := r.reconcile(seriesCtx, rec)
		if err != nil {
			return results, err
		}
		r.logResult(logging.WithContext(seriesCtx, base), result)
		results = append(results, result)
	}
	logger.Info("season pass finished",
		logging.String(logging.FieldEventType, "season_pass_finished"),
		logging.Int("series", len(results)),
	)
	return results, nil
}

func (r *SeasonReconciler) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

func (r *SeasonReconciler) reconcile(ctx context.Context, rec store.Series) (SeriesResult, error) {
	source := r.Gateway.Source()
	switch {
	case rec.IDSource == store.SourceIMDB && source == store.SourceTMDB:
		return r.migrate(ctx, rec)
	case rec.IDSource != source:
		err := services.Wrap(services.ErrValidation, "reconcile", "check series",
			fmt.Sprintf("series %d uses %s ids but the active provider speaks %s", rec.ID, rec.IDSource, source), nil)
		return r.persist(ctx, rec, failed(rec, rec.NextSeason(), err), r.now())
	}
	return r.check(ctx, rec)
}

// check classifies the season after the last watched one and persists the
// refreshed record. A series whose lookup failed is still counted as checked.
func (r *SeasonReconciler) check(ctx context.Context, rec store.Series) (SeriesResult, error) {
	now := r.now()
	next := rec.NextSeason()
	result := SeriesResult{SeriesID: rec.ID, Title: rec.Title, Season: next}

	seasons, err := r.Gateway.FetchEpisodeList(ctx, rec.ID)
	if err != nil {
		return r.persist(ctx, rec, failed(rec, next, err), now)
	}
	ref, ok := seasons[next]
	if !ok {
		result.Reason = ReasonNoNewSeason
		result.Message = noSeasonMessage(next, rec.Title)
		return r.persist(ctx, rec, result, now)
	}

	releases, err := r.Gateway.FetchReleaseDates(ctx, ref)
	if err != nil {
		return r.persist(ctx, rec, failed(rec, next, err), now)
	}
	raws := make([]string, 0, len(releases))
	for _, rd := range releases {
		if strings.TrimSpace(rd.Date) != "" {
			raws = append(raws, rd.Date)
		}
	}
	if len(raws) == 0 {
		result.Reason = ReasonDateUndetermined
		result.Message = undeterminedMessage(next, rec.Title)
		return r.persist(ctx, rec, result, now)
	}

	release, err := dates.Earliest(raws, now)
	if err != nil {
		return r.persist(ctx, rec, failed(rec, next, err), now)
	}
	result.ReleaseDate = release
	result.Classification = Classify(release, now, r.SoonWindow)
	result.Message = availabilityMessage(result.Classification, next, rec.Title, release)
	return r.persist(ctx, rec, result, now)
}

func (r *SeasonReconciler) persist(ctx context.Context, rec store.Series, result SeriesResult, now time.Time) (SeriesResult, error) {
	today := dates.Today(now)
	updated := rec
	updated.LastChangedAt = today
	if r.StampPolicy != config.StampOnNotify || Notifies(result.Classification, r.NotifySoon) {
		updated.LastNotifiedAt = today
	}
	if _, err := r.Store.UpsertSeries(ctx, updated, store.UpsertOptions{}); err != nil {
		if services.IsFatal(err) {
			return result, err
		}
		result.Err = err
		result.Reason = ReasonError
		result.Classification = Unknown
		result.Message = errorMessage(rec.Title, err)
	}
	return result, nil
}

func failed(rec store.Series, season int, err error) SeriesResult {
	return SeriesResult{
		SeriesID:       rec.ID,
		Title:          rec.Title,
		Season:         season,
		Classification: Unknown,
		Reason:         ReasonError,
		Message:        errorMessage(rec.Title, err),
		Err:            err,
	}
}

func errorMessage(title string, err error) string {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return fmt.Sprintf("Could not check %s: the provider does not know this id", title)
	case errors.Is(err, services.ErrDateParse):
		return fmt.Sprintf("Could not check %s: unreadable release date (%v)", title, err)
	default:
		return fmt.Sprintf("Could not check %s: %v", title, err)
	}
}

func (r *SeasonReconciler) logResult(logger *slog.Logger, result SeriesResult) {
	attrs := []logging.Attr{
		logging.String("title", result.Title),
		logging.Int("season", result.Season),
		logging.String("classification", result.Classification.String()),
	}
	if result.Reason != ReasonNone {
		attrs = append(attrs, logging.String("reason", string(result.Reason)))
	}
	if !result.ReleaseDate.IsZero() {
		attrs = append(attrs, logging.String("release_date", result.ReleaseDate.Format("2006-01-02")))
	}
	if result.Err != nil {
		attrs = append(attrs, logging.Error(result.Err), logging.ErrorKind(result.Err))
		logging.WarnWithContext(logger, "series check failed", "series_check_failed",
			append(attrs,
				logging.String(logging.FieldErrorHint, "verify the series id and provider token"),
				logging.String(logging.FieldImpact, "no availability news for this series this run"),
			)...)
		return
	}
	logger.Info("series checked", logging.Args(append(attrs, logging.String(logging.FieldEventType, "series_checked"))...)...)
}
