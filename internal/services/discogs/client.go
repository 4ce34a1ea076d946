// Package discogs implements the small slice of the Discogs API needed to
// follow artist discographies.
package discogs

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

const (
	// DefaultUserAgent identifies the client; Discogs rejects anonymous agents.
	DefaultUserAgent = "Seasonwatch/1.0 +https://github.com/seasonwatch"
	pageSize         = 100
)

// Pagination mirrors the pagination block on list endpoints.
type Pagination struct {
	Page    int `json:"page"`
	Pages   int `json:"pages"`
	PerPage int `json:"per_page"`
	Items   int `json:"items"`
}

// Release is one entry of an artist's release list.
type Release struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Artist string `json:"artist"`
	Year   int    `json:"year"`
	Type   string `json:"type"`
	Role   string `json:"role"`
}

// ReleasePage is a single page of /artists/{id}/releases.
type ReleasePage struct {
	Pagination Pagination `json:"pagination"`
	Releases   []Release  `json:"releases"`
}

// Artist is the subset of the artist resource we read.
type Artist struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Identity is returned by /oauth/identity for a valid token.
type Identity struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// Client talks to the Discogs API with a personal access token.
type Client struct {
	token      string
	baseURL    string
	userAgent  string
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

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(agent string) Option {
	return func(c *Client) {
		if agent = strings.TrimSpace(agent); agent != "" {
			c.userAgent = agent
		}
	}
}

// New constructs a Discogs client.
func New(token, baseURL string, opts ...Option) (*Client, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, services.Wrap(services.ErrConfiguration, "discogs", "new client", "discogs token required", nil)
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, services.Wrap(services.ErrConfiguration, "discogs", "new client", "discogs base url required", nil)
	}
	c := &Client{
		token:      token,
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  DefaultUserAgent,
		httpClient: httpx.New(httpx.DefaultTimeout, httpx.DefaultMaxRetries),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ArtistReleases returns one page of an artist's releases (pages are 1-based).
func (c *Client) ArtistReleases(ctx context.Context, artistID int64, page int) (*ReleasePage, error) {
	if page < 1 {
		page = 1
	}
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("per_page", strconv.Itoa(pageSize))
	params.Set("sort", "year")
	var payload ReleasePage
	if err := c.get(ctx, fmt.Sprintf("/artists/%d/releases", artistID), params, "artist releases", &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// Artist resolves an artist id to its resource.
func (c *Client) Artist(ctx context.Context, artistID int64) (*Artist, error) {
	var payload Artist
	if err := c.get(ctx, fmt.Sprintf("/artists/%d", artistID), nil, "artist", &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// Identity returns the account behind the token, validating it.
func (c *Client) Identity(ctx context.Context) (*Identity, error) {
	var payload Identity
	if err := c.get(ctx, "/oauth/identity", nil, "identity", &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, operation string, out any) error {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return services.Wrap(services.ErrProvider, "discogs", operation, "build request", err)
	}
	req.Header.Set("Authorization", "Discogs token="+c.token)
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		marker := services.ErrProvider
		if errors.Is(err, context.DeadlineExceeded) {
			marker = services.ErrTimeout
		}
		return services.Wrap(marker, "discogs", operation, "execute request", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return services.Wrap(services.ErrNotFound, "discogs", operation, fmt.Sprintf("discogs returned 404 for %s", path), nil)
	case http.StatusUnauthorized, http.StatusForbidden:
		return services.Wrap(services.ErrValidation, "discogs", operation, "discogs rejected the token", nil)
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return services.Wrap(services.ErrProvider, "discogs", operation,
			fmt.Sprintf("discogs returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body))), nil)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return services.Wrap(services.ErrMalformed, "discogs", operation, "decode discogs response", err)
	}
	return nil
}
