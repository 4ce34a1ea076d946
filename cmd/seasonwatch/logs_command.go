package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"seasonwatch/internal/logs"
)

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var lines int
	var runID string
	cmd := &cobra.Command{
		Use:   "logs [term...]",
		Short: "Show recent entries from the run log",
		Long:  "Show the tail of the run log. Extra arguments keep only lines containing every term.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			terms := args
			if runID != "" {
				terms = append(terms, runID)
			}
			limit := lines
			if len(terms) > 0 {
				// Filter the whole file so matches are not cut off by the tail.
				limit = 0
			}
			entries, err := logs.Last(cfg.LogPath(), limit)
			if err != nil {
				return err
			}
			entries = logs.Filter(entries, terms...)
			if lines > 0 && len(entries) > lines {
				entries = entries[len(entries)-lines:]
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintf(out, "No log entries in %s\n", cfg.LogPath())
				return nil
			}
			for _, line := range entries {
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "Number of lines to show (0 for all)")
	cmd.Flags().StringVar(&runID, "run", "", "Only show entries for this run id")
	return cmd
}
