package tmdb_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"seasonwatch/internal/services"
	"seasonwatch/internal/services/tmdb"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *tmdb.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := tmdb.New("key", server.URL, "en-US", tmdb.WithHTTPClient(server.Client()))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return client
}

func TestNewRequiresAPIKey(t *testing.T) {
	_, err := tmdb.New("", "https://example.com", "en-US")
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error when api key missing, got %v", err)
	}
}

func TestGetTVDetailsDecodesSeasons(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tv/1399" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		if r.URL.Query().Get("api_key") != "key" {
			t.Fatalf("expected api_key query parameter, got %q", r.URL.RawQuery)
		}
		if r.URL.Query().Get("language") != "en-US" {
			t.Fatalf("expected language query parameter, got %q", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{"id":1399,"name":"Game of Thrones","seasons":[{"season_number":0,"name":"Specials"},{"season_number":1,"episode_count":10,"air_date":"2011-04-17"}]}`))
	})

	details, err := client.GetTVDetails(context.Background(), 1399)
	if err != nil {
		t.Fatalf("GetTVDetails returned error: %v", err)
	}
	if details.Name != "Game of Thrones" || len(details.Seasons) != 2 {
		t.Fatalf("unexpected details: %#v", details)
	}
	if details.Seasons[1].AirDate != "2011-04-17" {
		t.Fatalf("unexpected season air date: %q", details.Seasons[1].AirDate)
	}
}

func TestGetTVDetailsNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"status_code":34}`))
	})
	_, err := client.GetTVDetails(context.Background(), 42)
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestGetSeasonDetailsMalformedPayload(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"episodes": "nope"`))
	})
	_, err := client.GetSeasonDetails(context.Background(), 1399, 3)
	if !errors.Is(err, services.ErrMalformed) {
		t.Fatalf("expected malformed error, got %v", err)
	}
}

func TestFindByIMDbIDUsesExternalSource(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/find/tt0944947" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		if r.URL.Query().Get("external_source") != "imdb_id" {
			t.Fatalf("expected external_source=imdb_id, got %q", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{"tv_results":[{"id":1399,"name":"Game of Thrones"}]}`))
	})

	resp, err := client.FindByIMDbID(context.Background(), "tt0944947")
	if err != nil {
		t.Fatalf("FindByIMDbID returned error: %v", err)
	}
	if len(resp.TVResults) != 1 || resp.TVResults[0].ID != 1399 {
		t.Fatalf("unexpected find response: %#v", resp)
	}
}

func TestValidateKeyRejected(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	if err := client.ValidateKey(context.Background()); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSearchTVEmptyQuery(t *testing.T) {
	client, err := tmdb.New("key", "https://example.com", "")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if _, err := client.SearchTV(context.Background(), "  "); err == nil {
		t.Fatal("expected error for empty query")
	}
}
