package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"seasonwatch/internal/config"
	"seasonwatch/internal/reconcile"
	"seasonwatch/internal/services"
	"seasonwatch/internal/store"
)

type tvOptions struct {
	add    bool
	remove bool
	stepUp bool
	list   bool

	title  string
	id     string
	season int
}

func newTVCommand(ctx *commandContext) *cobra.Command {
	var opts tvOptions
	cmd := &cobra.Command{
		Use:   "tv",
		Short: "Manage tracked TV series",
		Example: `  seasonwatch tv --add
  seasonwatch tv --add --title "The Expanse" --id 63639 --season 2
  seasonwatch tv --step-up 63639 1399
  seasonwatch tv --remove 63639
  seasonwatch tv --list`,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case opts.add:
				if len(args) > 0 {
					return fmt.Errorf("--add takes no positional arguments")
				}
				return ctx.withStoreLocked(func(st *store.Store) error {
					return addSeries(cmd, ctx, st, opts)
				})
			case opts.remove, opts.stepUp:
				ids, err := parseIDArgs(args)
				if err != nil {
					return err
				}
				return ctx.withStoreLocked(func(st *store.Store) error {
					if opts.remove {
						return removeSeries(cmd, st, ids)
					}
					return stepUpSeries(cmd, ctx, st, ids)
				})
			default:
				return ctx.withStore(func(st *store.Store) error {
					return listSeries(cmd, ctx, st)
				})
			}
		},
	}

	cmd.Flags().BoolVar(&opts.add, "add", false, "Track a new series")
	cmd.Flags().BoolVar(&opts.remove, "remove", false, "Stop tracking the series with the given ids")
	cmd.Flags().BoolVar(&opts.stepUp, "step-up", false, "Mark one more season as watched for the given ids")
	cmd.Flags().BoolVar(&opts.list, "list", false, "List tracked series")
	cmd.Flags().StringVar(&opts.title, "title", "", "Series title (with --add)")
	cmd.Flags().StringVar(&opts.id, "id", "", "Provider id of the series (with --add)")
	cmd.Flags().IntVar(&opts.season, "season", -1, "Last watched season (with --add)")
	cmd.MarkFlagsMutuallyExclusive("add", "remove", "step-up", "list")
	cmd.MarkFlagsOneRequired("add", "remove", "step-up", "list")

	return cmd
}

func addSeries(cmd *cobra.Command, ctx *commandContext, st *store.Store, opts tvOptions) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	source := activeSource(cfg)
	out := cmd.OutOrStdout()
	interactive := opts.title == "" || opts.id == "" || opts.season < 0
	if interactive && !isInteractive(cmd.InOrStdin()) {
		return services.Wrap(services.ErrValidation, "tv", "add", "--title, --id and --season are required without a terminal", nil)
	}

	prompt := reconcile.NewTerminalPrompt(cmd.InOrStdin(), out)
	title := strings.TrimSpace(opts.title)
	if title == "" {
		if title, err = prompt.Ask(cmd.Context(), "What the show should be called: "); err != nil {
			return err
		}
	}
	rawID := opts.id
	if rawID == "" {
		question := "ID of the show (after 'tv/' in the URL on TMDB): "
		if source == store.SourceIMDB {
			question = "IMDb id of the show (tt...): "
		}
		if rawID, err = prompt.Ask(cmd.Context(), question); err != nil {
			return err
		}
	}
	id, err := parseSeriesID(rawID)
	if err != nil {
		return err
	}
	season := opts.season
	if season < 0 {
		answer, err := prompt.Ask(cmd.Context(), "Last watched season: ")
		if err != nil {
			return err
		}
		season, err = strconv.Atoi(answer)
		if err != nil || season < 0 {
			return services.Wrap(services.ErrValidation, "tv", "add", fmt.Sprintf("couldn't parse %q as a season number", answer), nil)
		}
	}

	rec := store.Series{
		ID:                id,
		Title:             title,
		LastWatchedSeason: season,
		LastChangedAt:     ctx.now(),
		IDSource:          source,
	}
	if interactive {
		fmt.Fprintf(out, "title: %s\n%s id: %d\nLast watched season: %d\n", rec.Title, source, rec.ID, rec.LastWatchedSeason)
		ok, err := confirmDefaultYes(cmd.Context(), prompt, "Does this look ok?")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, "Data was not saved")
			return nil
		}
	}

	stored, err := st.UpsertSeries(cmd.Context(), rec, store.UpsertOptions{})
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Tracking '%s' from season %d (%s)\n", stored.Title, stored.NextSeason(), stored.Link())
	return nil
}

func removeSeries(cmd *cobra.Command, st *store.Store, ids []int64) error {
	out := cmd.OutOrStdout()
	var missing int
	for _, id := range ids {
		rec, err := st.Series(cmd.Context(), id)
		if err != nil {
			return err
		}
		removed, err := st.RemoveSeries(cmd.Context(), id)
		if err != nil {
			return err
		}
		if !removed || rec == nil {
			fmt.Fprintf(out, "Series %d is not tracked\n", id)
			missing++
			continue
		}
		fmt.Fprintf(out, "Successfully deleted '%s'.\n", rec.Title)
	}
	if missing > 0 {
		return withExitCode(exitFailure, fmt.Errorf("%d of %d series not found", missing, len(ids)))
	}
	return nil
}

func stepUpSeries(cmd *cobra.Command, ctx *commandContext, st *store.Store, ids []int64) error {
	out := cmd.OutOrStdout()
	var missing int
	for _, id := range ids {
		updated, err := st.StepUpSeason(cmd.Context(), id, ctx.now())
		if err != nil {
			return err
		}
		if !updated {
			fmt.Fprintf(out, "Series %d is not tracked\n", id)
			missing++
			continue
		}
		rec, err := st.Series(cmd.Context(), id)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Successfully stepped up '%s' to season %d.\n", rec.Title, rec.LastWatchedSeason)
	}
	if missing > 0 {
		return withExitCode(exitFailure, fmt.Errorf("%d of %d series not found", missing, len(ids)))
	}
	return nil
}

func listSeries(cmd *cobra.Command, ctx *commandContext, st *store.Store) error {
	rows, err := st.SeriesTable(cmd.Context())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(rows) == 0 {
		fmt.Fprintln(out, "No series are tracked.")
		return nil
	}
	now := ctx.now()
	table := make([][]string, 0, len(rows))
	for _, row := range rows {
		changed := "never"
		if !row.LastChangedAt.IsZero() {
			changed = humanize.RelTime(row.LastChangedAt, now, "ago", "from now")
		}
		table = append(table, []string{
			strconv.FormatInt(row.ID, 10),
			row.Title,
			strconv.Itoa(row.LastWatchedSeason),
			strconv.Itoa(row.CheckCount),
			changed,
			row.Link,
		})
	}
	fmt.Fprintln(out, renderTable([]column{
		{header: "ID", right: true},
		{header: "Title"},
		{header: "Watched", right: true},
		{header: "Checks", right: true},
		{header: "Changed"},
		{header: "Link"},
	}, table))
	return nil
}

func activeSource(cfg *config.Config) store.IDSource {
	if cfg.Providers.TV == config.TVProviderIMDb {
		return store.SourceIMDB
	}
	return store.SourceTMDB
}

// parseSeriesID accepts a bare number or an IMDb "tt" id.
func parseSeriesID(raw string) (int64, error) {
	trimmed := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(raw)), "tt")
	id, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil || id <= 0 {
		return 0, services.Wrap(services.ErrValidation, "tv", "parse id", fmt.Sprintf("%q is not a valid series id", raw), nil)
	}
	return id, nil
}

func parseIDArgs(args []string) ([]int64, error) {
	if len(args) == 0 {
		return nil, errors.New("at least one series id is required")
	}
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := parseSeriesID(arg)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// confirmDefaultYes asks a (Y/n) question; only an explicit n declines.
func confirmDefaultYes(ctx context.Context, prompt *reconcile.TerminalPrompt, question string) (bool, error) {
	answer, err := prompt.Ask(ctx, question+" (Y/n) ")
	if err != nil {
		return false, err
	}
	answer = strings.ToLower(answer)
	return answer != "n" && answer != "no", nil
}
