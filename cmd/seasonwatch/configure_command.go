package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"seasonwatch/internal/config"
	"seasonwatch/internal/provider"
	"seasonwatch/internal/reconcile"
	"seasonwatch/internal/services"
	"seasonwatch/internal/services/discogs"
	"seasonwatch/internal/services/omdb"
	"seasonwatch/internal/services/tmdb"
)

type configureOptions struct {
	tmdb    bool
	omdb    bool
	discogs bool
	token   string
}

func (o configureOptions) key() string {
	switch {
	case o.omdb:
		return config.TokenOMDb
	case o.discogs:
		return config.TokenDiscogs
	default:
		return config.TokenTMDB
	}
}

func newConfigureCommand(ctx *commandContext) *cobra.Command {
	var opts configureOptions
	cmd := &cobra.Command{
		Use:   "configure",
		Short: "Store a provider API token",
		Long: `Store a provider API token in the configuration file.

The token is checked against the provider before it is written. Only the
token line changes; the rest of the file is left untouched. An invalid
token exits with status 2.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			key := opts.key()
			token := strings.TrimSpace(opts.token)
			if token == "" {
				if !isInteractive(cmd.InOrStdin()) {
					return services.Wrap(services.ErrValidation, "configure", "read token", "--token is required without a terminal", nil)
				}
				prompt := reconcile.NewTerminalPrompt(cmd.InOrStdin(), cmd.OutOrStdout())
				if token, err = prompt.Ask(cmd.Context(), fmt.Sprintf("Enter the %s token: ", key)); err != nil {
					return err
				}
			}

			if token == "" {
				return withExitCode(exitInvalidToken, fmt.Errorf("%s token must not be empty", key))
			}
			if err := validateToken(cmd.Context(), cfg, key, token); err != nil {
				if isTokenRejected(err) {
					return withExitCode(exitInvalidToken, fmt.Errorf("%s token rejected: %w", key, err))
				}
				return err
			}

			if err := config.SetToken(ctx.configPath, key, token); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s token to %s\n", key, ctx.configPath)
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.tmdb, "tmdb", false, "Configure the TMDB API key")
	cmd.Flags().BoolVar(&opts.omdb, "omdb", false, "Configure the OMDb API key (imdb backend)")
	cmd.Flags().BoolVar(&opts.discogs, "discogs", false, "Configure the Discogs personal access token")
	cmd.Flags().StringVar(&opts.token, "token", "", "Token value (prompted when omitted)")
	cmd.MarkFlagsMutuallyExclusive("tmdb", "omdb", "discogs")
	cmd.MarkFlagsOneRequired("tmdb", "omdb", "discogs")

	return cmd
}

// validateToken makes one cheap authenticated request with token.
func validateToken(ctx context.Context, cfg *config.Config, key, token string) error {
	httpClient := provider.HTTPClient(cfg)
	switch key {
	case config.TokenOMDb:
		client, err := omdb.New(token, cfg.Providers.OMDbBaseURL, omdb.WithHTTPClient(httpClient))
		if err != nil {
			return err
		}
		return client.ValidateKey(ctx)
	case config.TokenDiscogs:
		client, err := discogs.New(token, cfg.Providers.DiscogsBaseURL, discogs.WithHTTPClient(httpClient))
		if err != nil {
			return err
		}
		_, err = client.Identity(ctx)
		return err
	default:
		client, err := tmdb.New(token, cfg.Providers.TMDBBaseURL, cfg.Providers.Language, tmdb.WithHTTPClient(httpClient))
		if err != nil {
			return err
		}
		return client.ValidateKey(ctx)
	}
}

func isTokenRejected(err error) bool {
	return errors.Is(err, services.ErrValidation)
}
