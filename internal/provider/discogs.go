package provider

import (
	"context"
	"fmt"
	"strings"

	"seasonwatch/internal/services"
	"seasonwatch/internal/services/discogs"
)

// maxReleasePages bounds pagination against a provider that never reports
// its last page.
const maxReleasePages = 200

// DiscogsAPI is the subset of discogs.Client used by the gateway.
type DiscogsAPI interface {
	ArtistReleases(ctx context.Context, artistID int64, page int) (*discogs.ReleasePage, error)
}

// Discogs serves MusicGateway from the Discogs database.
type Discogs struct {
	api DiscogsAPI
}

// NewDiscogs wraps a Discogs client.
func NewDiscogs(api DiscogsAPI) *Discogs {
	return &Discogs{api: api}
}

// ListReleases implements MusicGateway. Every page is retrieved before the
// combined list is returned, so callers never filter a partial discography.
func (g *Discogs) ListReleases(ctx context.Context, artistID int64) ([]Release, error) {
	var releases []Release
	for page := 1; ; page++ {
		if page > maxReleasePages {
			return nil, services.Wrap(services.ErrMalformed, "discogs", "list releases",
				fmt.Sprintf("artist %d exceeds %d pages", artistID, maxReleasePages), nil)
		}
		result, err := g.api.ArtistReleases(ctx, artistID, page)
		if err != nil {
			return nil, err
		}
		if result == nil {
			return nil, services.Wrap(services.ErrMalformed, "discogs", "list releases", fmt.Sprintf("empty page %d", page), nil)
		}
		for _, r := range result.Releases {
			if r.ID <= 0 {
				continue
			}
			releases = append(releases, Release{
				ID:             r.ID,
				Title:          strings.TrimSpace(r.Title),
				CreditedArtist: strings.TrimSpace(r.Artist),
				Year:           r.Year,
			})
		}
		if page >= result.Pagination.Pages {
			return releases, nil
		}
	}
}
