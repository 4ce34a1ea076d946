package reconcile

import (
	"context"
	"fmt"

	"seasonwatch/internal/dates"
	"seasonwatch/internal/logging"
	"seasonwatch/internal/provider"
	"seasonwatch/internal/services"
	"seasonwatch/internal/store"
	"seasonwatch/internal/textutil"
)

// ConfidentMatchScore is the minimum title similarity at which a translated
// candidate is offered for confirmation instead of asking for an id.
const ConfidentMatchScore = 0.8

// Confident reports whether candidate plausibly names the same show as title.
func Confident(title string, candidate provider.Candidate) bool {
	if candidate.ID <= 0 {
		return false
	}
	if textutil.SameTitle(title, candidate.Name) {
		return true
	}
	return textutil.TitleSimilarity(title, candidate.Name) >= ConfidentMatchScore
}

// migrate moves an IMDb-keyed record to its TMDB id. The pass ends here for
// this series whether or not the migration happens.
func (r *SeasonReconciler) migrate(ctx context.Context, rec store.Series) (SeriesResult, error) {
	logger := logging.WithContext(ctx, logging.NewComponentLogger(r.Logger, "migration"))
	prompt := r.Prompt
	if prompt == nil {
		prompt = NonInteractivePrompt{}
	}

	candidate, err := r.Gateway.TranslateLegacyID(ctx, rec.ID)
	if err != nil {
		return failed(rec, rec.NextSeason(), err), nil
	}

	var newID int64
	if candidate != nil && Confident(rec.Title, *candidate) {
		ok, err := prompt.Confirm(ctx, rec, *candidate)
		if err != nil {
			return failed(rec, rec.NextSeason(), err), nil
		}
		if ok {
			newID = candidate.ID
		}
	} else if candidate != nil {
		logger.Info("migration candidate rejected",
			logging.String(logging.FieldEventType, "migration_candidate_rejected"),
			logging.String("title", rec.Title),
			logging.String("candidate", candidate.Name),
			logging.Float64("score", textutil.TitleSimilarity(rec.Title, candidate.Name)),
		)
	}
	if newID == 0 {
		id, ok, err := prompt.ManualID(ctx, rec)
		if err != nil {
			return failed(rec, rec.NextSeason(), err), nil
		}
		if !ok || id <= 0 {
			return SeriesResult{
				SeriesID: rec.ID,
				Title:    rec.Title,
				Season:   rec.NextSeason(),
				Reason:   ReasonMigrationSkipped,
				Message:  fmt.Sprintf("Migration of %s to TMDB skipped; it will be offered again next run", rec.Title),
			}, nil
		}
		newID = id
	}

	migrated := rec
	migrated.ID = newID
	migrated.IDSource = store.SourceTMDB
	migrated.LastChangedAt = dates.Today(r.now())
	if _, err := r.Store.UpsertSeries(ctx, migrated, store.UpsertOptions{FullReplace: true}); err != nil {
		if services.IsFatal(err) {
			return SeriesResult{}, err
		}
		return failed(rec, rec.NextSeason(), err), nil
	}

	logger.Info("series migrated to tmdb",
		logging.String(logging.FieldEventType, "series_migrated"),
		logging.String("title", rec.Title),
		logging.Int64("legacy_id", rec.ID),
		logging.Int64("tmdb_id", newID),
	)
	return SeriesResult{
		SeriesID: newID,
		Title:    rec.Title,
		Season:   rec.NextSeason(),
		Reason:   ReasonMigrated,
		Migrated: true,
		Message:  fmt.Sprintf("Migrated %s from IMDb id tt%07d to TMDB id %d", rec.Title, rec.ID, newID),
	}, nil
}
