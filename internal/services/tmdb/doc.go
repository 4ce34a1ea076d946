// Package tmdb provides the minimal TMDB API client used to track TV series.
//
// It authenticates requests with an API key and exposes TV detail and season
// lookups, IMDb id translation through the find endpoint, TV search, and key
// validation. Responses are strongly typed so the provider gateway can map
// them onto seasons and air dates. Options allow tests to supply custom HTTP
// clients without modifying production code.
package tmdb
