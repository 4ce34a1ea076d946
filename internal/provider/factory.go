package provider

import (
	"net/http"
	"strings"

	"seasonwatch/internal/config"
	"seasonwatch/internal/services"
	"seasonwatch/internal/services/discogs"
	"seasonwatch/internal/services/httpx"
	"seasonwatch/internal/services/omdb"
	"seasonwatch/internal/services/tmdb"
)

// HTTPClient returns the retrying client configured for provider calls.
func HTTPClient(cfg *config.Config) *http.Client {
	return httpx.New(cfg.ProviderTimeout(), cfg.Providers.MaxRetries)
}

// NewTVGateway builds the gateway selected by providers.tv.
func NewTVGateway(cfg *config.Config) (TVGateway, error) {
	token, err := cfg.TVToken()
	if err != nil {
		return nil, err
	}
	client := HTTPClient(cfg)
	switch strings.ToLower(strings.TrimSpace(cfg.Providers.TV)) {
	case config.TVProviderIMDb:
		api, err := omdb.New(token, cfg.Providers.OMDbBaseURL, omdb.WithHTTPClient(client))
		if err != nil {
			return nil, err
		}
		return NewIMDb(api), nil
	case config.TVProviderTMDB, "":
		api, err := tmdb.New(token, cfg.Providers.TMDBBaseURL, cfg.Providers.Language, tmdb.WithHTTPClient(client))
		if err != nil {
			return nil, err
		}
		return NewTMDB(api), nil
	default:
		return nil, services.Wrap(services.ErrConfiguration, "provider", "tv gateway",
			"unsupported providers.tv value "+cfg.Providers.TV, nil)
	}
}

// NewDiscogsClient builds a Discogs client from the configured token.
func NewDiscogsClient(cfg *config.Config) (*discogs.Client, error) {
	return discogs.New(cfg.Tokens.Discogs, cfg.Providers.DiscogsBaseURL, discogs.WithHTTPClient(HTTPClient(cfg)))
}

// NewMusicGateway builds the Discogs gateway.
func NewMusicGateway(cfg *config.Config) (MusicGateway, error) {
	client, err := NewDiscogsClient(cfg)
	if err != nil {
		return nil, err
	}
	return NewDiscogs(client), nil
}
