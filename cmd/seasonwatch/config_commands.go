package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"seasonwatch/internal/config"
	"seasonwatch/internal/preflight"
	"seasonwatch/internal/store"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigValidateCommand(ctx))
	configCmd.AddCommand(newConfigInitCommand(ctx))

	return configCmd
}

func newConfigInitCommand(ctx *commandContext) *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		Args:        cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				target = ctx.flagPath()
			}
			if target == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return fmt.Errorf("determine default config path: %w", err)
				}
				target = defaultPath
			} else {
				expanded, err := config.ExpandPath(target)
				if err != nil {
					return fmt.Errorf("resolve config path: %w", err)
				}
				target = expanded
			}

			dir := filepath.Dir(target)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create config directory %q: %w", dir, err)
			}

			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				} else if !os.IsNotExist(err) {
					return fmt.Errorf("check config path: %w", err)
				}
			}

			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Run 'seasonwatch configure --tmdb' (or export TMDB_API_KEY) before the first run.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration file and database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config path: %s\n", ctx.configPath)
			if !ctx.configExists {
				fmt.Fprintln(out, "Config file did not exist; defaults were used")
			}
			fmt.Fprintf(out, "Music pass: %s\n", yesNo(cfg.MusicActive()))
			checks := preflight.RunAll(cfg, nil)
			for _, check := range checks {
				mark := "ok"
				switch {
				case !check.Passed && check.Optional:
					mark = "warn"
				case !check.Passed:
					mark = "FAIL"
				}
				fmt.Fprintf(out, "[%s] %s: %s\n", mark, check.Name, check.Detail)
			}

			st, err := store.Open(cfg)
			if err != nil {
				return err
			}
			defer st.Close()
			health, err := st.CheckHealth(cmd.Context())
			if err != nil {
				return fmt.Errorf("database health: %w", err)
			}
			fmt.Fprintf(out, "Database: %s\n", health.DBPath)
			fmt.Fprintf(out, "Migrations: %s\n", strings.Join(health.Migrations, ", "))
			fmt.Fprintf(out, "Tracked series: %d, followed artists: %d\n", health.SeriesCount, health.ArtistCount)
			fmt.Fprintf(out, "Integrity check: %s\n", yesNo(health.IntegrityCheck))
			if len(health.MissingColumns) > 0 || !health.IntegrityCheck {
				return fmt.Errorf("database is unhealthy (missing columns: %s)", strings.Join(health.MissingColumns, ", "))
			}
			if preflight.Failed(checks) {
				return errors.New("configuration is not ready; see the failed checks above")
			}
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}
