package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"seasonwatch/internal/logging"
	"seasonwatch/internal/notifications"
	"seasonwatch/internal/provider"
	"seasonwatch/internal/reconcile"
	"seasonwatch/internal/runlock"
	"seasonwatch/internal/services"
	"seasonwatch/internal/store"
)

var errItemsFailed = errors.New("one or more items could not be checked")

// runPass performs one reconciliation pass over every tracked series and,
// when enabled, every followed artist.
func runPass(cmd *cobra.Command, ctx *commandContext) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	logger := ctx.log()
	out := cmd.OutOrStdout()
	started := time.Now()

	lock, err := runlock.Acquire(cfg.LockPath())
	if err != nil {
		return err
	}
	defer lock.Release()

	logging.CleanupOldLogs(logger, cfg.Logging.RetentionDays, logging.RetentionTarget{
		Dir:     cfg.Paths.DataDir,
		Pattern: "seasonwatch*.log",
		Exclude: []string{cfg.LogPath()},
	})

	backup, err := store.Backup(cfg.DatabasePath(), ctx.now(), cfg.Reconcile.BackupKeep)
	if err != nil {
		return err
	}
	if backup != "" {
		logger.Debug("database backed up",
			logging.String(logging.FieldEventType, "database_backup"),
			logging.String("path", backup),
		)
	}

	st, err := store.Open(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	runCtx := services.WithRunID(cmd.Context(), uuid.NewString())

	series, err := st.AllSeries(runCtx)
	if err != nil {
		return err
	}
	artists, err := st.AllArtists(runCtx)
	if err != nil {
		return err
	}
	musicActive := cfg.MusicActive()
	if len(series) == 0 && (!musicActive || len(artists) == 0) {
		fmt.Fprintln(out, "Nothing is tracked yet. Add a series with 'seasonwatch tv --add'.")
		return nil
	}

	dispatcher := &reconcile.Dispatcher{
		Sink:       notifications.NewSink(cfg, logger),
		Out:        out,
		Color:      useColor(out),
		NotifySoon: cfg.Notifications.NotifySoon,
		Options:    notifications.DefaultOptions(cfg),
		Logger:     logger,
	}

	var failed int
	if len(series) > 0 {
		gateway, err := provider.NewTVGateway(cfg)
		if err != nil {
			return err
		}
		var prompt reconcile.ConfirmationPrompt = reconcile.NonInteractivePrompt{}
		if isInteractive(cmd.InOrStdin()) {
			prompt = reconcile.NewTerminalPrompt(cmd.InOrStdin(), out)
		}
		reconciler := &reconcile.SeasonReconciler{
			Store:       st,
			Gateway:     gateway,
			Prompt:      prompt,
			Logger:      logger,
			Now:         ctx.now,
			SoonWindow:  cfg.SoonWindow(),
			StampPolicy: cfg.Reconcile.NotifiedStamp,
			NotifySoon:  cfg.Notifications.NotifySoon,
		}
		results, runErr := reconciler.Run(runCtx)
		// Results gathered before a fatal error are still reported.
		summary := dispatcher.DispatchSeries(runCtx, results)
		failed += summary.Failed
		if runErr != nil {
			return runErr
		}
	}

	if musicActive && len(artists) > 0 {
		gateway, err := provider.NewMusicGateway(cfg)
		if err != nil {
			return err
		}
		reconciler := &reconcile.MusicReconciler{
			Store:          st,
			Gateway:        gateway,
			Logger:         logger,
			Now:            ctx.now,
			ReminderWindow: reconcile.DefaultReminderWindow,
		}
		report, runErr := reconciler.Run(runCtx)
		summary := dispatcher.DispatchMusic(runCtx, report)
		failed += summary.Failed
		if runErr != nil {
			return runErr
		}
	}

	logger.Info("run finished",
		logging.String(logging.FieldEventType, "run_finished"),
		logging.String(logging.FieldRunID, runIDOf(runCtx)),
		logging.Int("failed", failed),
		logging.Duration("elapsed", time.Since(started)),
	)
	if failed > 0 {
		return fmt.Errorf("%w (%d)", errItemsFailed, failed)
	}
	return nil
}

func runIDOf(ctx context.Context) string {
	id, _ := services.RunIDFromContext(ctx)
	return id
}
