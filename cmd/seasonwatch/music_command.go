package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"seasonwatch/internal/provider"
	"seasonwatch/internal/services"
	"seasonwatch/internal/store"
)

type musicOptions struct {
	add    int64
	remove int64
	list   bool
	name   string
}

func newMusicCommand(ctx *commandContext) *cobra.Command {
	var opts musicOptions
	cmd := &cobra.Command{
		Use:   "music",
		Short: "Manage followed music artists",
		Example: `  seasonwatch music --add 45467
  seasonwatch music --add 45467 --name "Burial"
  seasonwatch music --remove 45467
  seasonwatch music --list`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case cmd.Flags().Changed("add"):
				return ctx.withStoreLocked(func(st *store.Store) error {
					return addArtist(cmd, ctx, st, opts)
				})
			case cmd.Flags().Changed("remove"):
				return ctx.withStoreLocked(func(st *store.Store) error {
					return removeArtist(cmd, st, opts.remove)
				})
			default:
				return ctx.withStore(func(st *store.Store) error {
					return listArtists(cmd, ctx, st)
				})
			}
		},
	}

	cmd.Flags().Int64Var(&opts.add, "add", 0, "Follow the Discogs artist with this id")
	cmd.Flags().Int64Var(&opts.remove, "remove", 0, "Stop following the artist with this id")
	cmd.Flags().BoolVar(&opts.list, "list", false, "List followed artists")
	cmd.Flags().StringVar(&opts.name, "name", "", "Artist name (with --add; looked up on Discogs when empty)")
	cmd.MarkFlagsMutuallyExclusive("add", "remove", "list")
	cmd.MarkFlagsOneRequired("add", "remove", "list")

	return cmd
}

func addArtist(cmd *cobra.Command, ctx *commandContext, st *store.Store, opts musicOptions) error {
	if opts.add <= 0 {
		return services.Wrap(services.ErrValidation, "music", "add", fmt.Sprintf("artist id must be positive, got %d", opts.add), nil)
	}
	name := strings.TrimSpace(opts.name)
	if name == "" {
		cfg, err := ctx.ensureConfig()
		if err != nil {
			return err
		}
		client, err := provider.NewDiscogsClient(cfg)
		if err != nil {
			return err
		}
		artist, err := client.Artist(cmd.Context(), opts.add)
		if err != nil {
			return err
		}
		name = strings.TrimSpace(artist.Name)
	}

	stored, err := st.UpsertArtist(cmd.Context(), store.Artist{
		ID:      opts.add,
		Name:    name,
		IsNew:   true,
		AddedAt: ctx.now(),
	})
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if stored.IsNew {
		fmt.Fprintf(out, "Following %s. Existing albums are indexed silently on the next run.\n", stored.Name)
	} else {
		fmt.Fprintf(out, "Already following %s.\n", stored.Name)
	}
	return nil
}

func removeArtist(cmd *cobra.Command, st *store.Store, id int64) error {
	artist, err := st.Artist(cmd.Context(), id)
	if err != nil {
		return err
	}
	removed, err := st.RemoveArtist(cmd.Context(), id)
	if err != nil {
		return err
	}
	if !removed || artist == nil {
		return withExitCode(exitFailure, fmt.Errorf("artist %d is not followed", id))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Stopped following %s.\n", artist.Name)
	return nil
}

func listArtists(cmd *cobra.Command, ctx *commandContext, st *store.Store) error {
	artists, err := st.AllArtists(cmd.Context())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(artists) == 0 {
		fmt.Fprintln(out, "No artists are followed.")
		return nil
	}
	now := ctx.now()
	rows := make([][]string, 0, len(artists))
	for _, artist := range artists {
		albums, err := st.AlbumsByArtist(cmd.Context(), artist.ID)
		if err != nil {
			return err
		}
		added := "unknown"
		if !artist.AddedAt.IsZero() {
			added = humanize.RelTime(artist.AddedAt, now, "ago", "from now")
		}
		rows = append(rows, []string{
			strconv.FormatInt(artist.ID, 10),
			artist.Name,
			humanize.Comma(int64(len(albums))),
			yesNo(artist.IsNew),
			added,
		})
	}
	fmt.Fprintln(out, renderTable([]column{
		{header: "ID", right: true},
		{header: "Artist"},
		{header: "Albums", right: true},
		{header: "Pending index"},
		{header: "Added"},
	}, rows))
	return nil
}
