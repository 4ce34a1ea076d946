// Package omdb wraps the OMDb API, which serves IMDb-namespace metadata for
// series still tracked under their legacy IMDb ids.
package omdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"seasonwatch/internal/services"
	"seasonwatch/internal/services/httpx"
)

// NotAvailable is the OMDb placeholder for absent values.
const NotAvailable = "N/A"

// Series is the OMDb title payload for a series.
type Series struct {
	Title        string `json:"Title"`
	Type         string `json:"Type"`
	IMDbID       string `json:"imdbID"`
	TotalSeasons string `json:"totalSeasons"`
	Response     string `json:"Response"`
	Error        string `json:"Error"`
}

// Seasons returns the parsed totalSeasons value; absent or N/A yields zero.
func (s Series) Seasons() int {
	n, err := strconv.Atoi(strings.TrimSpace(s.TotalSeasons))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// SeasonEpisode is one episode entry within a season payload.
type SeasonEpisode struct {
	Title    string `json:"Title"`
	Released string `json:"Released"`
	Episode  string `json:"Episode"`
	IMDbID   string `json:"imdbID"`
}

// Number returns the parsed episode number, or zero when unparseable.
func (e SeasonEpisode) Number() int {
	n, err := strconv.Atoi(strings.TrimSpace(e.Episode))
	if err != nil {
		return 0
	}
	return n
}

// Season is the OMDb payload for a single season.
type Season struct {
	Title        string          `json:"Title"`
	Season       string          `json:"Season"`
	TotalSeasons string          `json:"totalSeasons"`
	Episodes     []SeasonEpisode `json:"Episodes"`
	Response     string          `json:"Response"`
	Error        string          `json:"Error"`
}

// Episode is the OMDb payload for a single episode title.
type Episode struct {
	Title    string `json:"Title"`
	Released string `json:"Released"`
	Season   string `json:"Season"`
	Episode  string `json:"Episode"`
	SeriesID string `json:"seriesID"`
	Response string `json:"Response"`
	Error    string `json:"Error"`
}

// Client talks to the OMDb API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// New constructs an OMDb client.
func New(apiKey, baseURL string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, services.Wrap(services.ErrConfiguration, "omdb", "new client", "omdb api key required", nil)
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, services.Wrap(services.ErrConfiguration, "omdb", "new client", "omdb base url required", nil)
	}
	c := &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/") + "/",
		httpClient: httpx.New(httpx.DefaultTimeout, httpx.DefaultMaxRetries),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// FormatID renders a numeric IMDb title id in its canonical tt-prefixed form.
func FormatID(id int64) string {
	return fmt.Sprintf("tt%07d", id)
}

// GetSeries fetches the series title record.
func (c *Client) GetSeries(ctx context.Context, imdbID string) (*Series, error) {
	params := url.Values{}
	params.Set("i", imdbID)
	var payload Series
	if err := c.get(ctx, params, "series", &payload); err != nil {
		return nil, err
	}
	if err := checkResponse(payload.Response, payload.Error, "series"); err != nil {
		return nil, err
	}
	return &payload, nil
}

// GetSeason fetches the episode listing for one season.
func (c *Client) GetSeason(ctx context.Context, imdbID string, season int) (*Season, error) {
	params := url.Values{}
	params.Set("i", imdbID)
	params.Set("Season", strconv.Itoa(season))
	var payload Season
	if err := c.get(ctx, params, "season", &payload); err != nil {
		return nil, err
	}
	if err := checkResponse(payload.Response, payload.Error, "season"); err != nil {
		return nil, err
	}
	return &payload, nil
}

// GetEpisode fetches a single episode title record.
func (c *Client) GetEpisode(ctx context.Context, imdbID string) (*Episode, error) {
	params := url.Values{}
	params.Set("i", imdbID)
	var payload Episode
	if err := c.get(ctx, params, "episode", &payload); err != nil {
		return nil, err
	}
	if err := checkResponse(payload.Response, payload.Error, "episode"); err != nil {
		return nil, err
	}
	return &payload, nil
}

// ValidateKey issues a cheap lookup to confirm the key is accepted.
func (c *Client) ValidateKey(ctx context.Context) error {
	_, err := c.GetSeries(ctx, "tt0944947")
	return err
}

func checkResponse(response, message, operation string) error {
	if strings.EqualFold(response, "True") {
		return nil
	}
	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "not found"), strings.Contains(lower, "incorrect imdb id"):
		return services.Wrap(services.ErrNotFound, "omdb", operation, message, nil)
	case strings.Contains(lower, "invalid api key"), strings.Contains(lower, "no api key"):
		return services.Wrap(services.ErrValidation, "omdb", operation, message, nil)
	case message == "":
		return services.Wrap(services.ErrMalformed, "omdb", operation, "response flag missing", nil)
	default:
		return services.Wrap(services.ErrProvider, "omdb", operation, message, nil)
	}
}

func (c *Client) get(ctx context.Context, params url.Values, operation string, out any) error {
	params.Set("apikey", c.apiKey)
	endpoint := c.baseURL + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return services.Wrap(services.ErrProvider, "omdb", operation, "build request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		marker := services.ErrProvider
		if errors.Is(err, context.DeadlineExceeded) {
			marker = services.ErrTimeout
		}
		return services.Wrap(marker, "omdb", operation, "execute request", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return services.Wrap(services.ErrValidation, "omdb", operation, "omdb rejected the api key", nil)
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return services.Wrap(services.ErrProvider, "omdb", operation,
			fmt.Sprintf("omdb returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body))), nil)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return services.Wrap(services.ErrMalformed, "omdb", operation, "decode omdb response", err)
	}
	return nil
}
