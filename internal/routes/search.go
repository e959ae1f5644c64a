package routes

import (
	"context"
	"net/http"
	"sort"
	"strings"

	"github.com/thalweg/tidalctl/internal/tidal"
)

var validSearchTypes = map[string]bool{
	"all":       true,
	"tracks":    true,
	"albums":    true,
	"artists":   true,
	"playlists": true,
}

// Search runs one remote search and reshapes the sections the caller asked
// for. The remote returns every content type in a single call; searchType
// only controls which sections survive into the response.
func (s *Service) Search(ctx context.Context, query, searchType string, limit int) (Payload, int) {
	if strings.TrimSpace(query) == "" {
		return failf(http.StatusBadRequest, "query cannot be empty.")
	}
	if searchType == "" {
		searchType = "all"
	}
	if !validSearchTypes[searchType] {
		keys := make([]string, 0, len(validSearchTypes))
		for k := range validSearchTypes {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return failf(http.StatusBadRequest, "Invalid search_type '%s'. Must be one of: %s",
			searchType, strings.Join(keys, ", "))
	}

	cat, ok := s.catalog()
	if !ok {
		return authRequired()
	}

	limit = boundLimit(limit)
	found, err := cat.Search(ctx, query, limit)
	if err != nil {
		return failf(http.StatusInternalServerError, "Search failed: %v", err)
	}

	results := Payload{}
	summary := Payload{}
	wants := func(t string) bool { return searchType == "all" || searchType == t }

	if wants("tracks") && len(found.Tracks) > 0 {
		items := clip(found.Tracks, limit)
		s.cacheTracks(items)
		results["tracks"] = Payload{"items": items, "total": len(items)}
		summary["tracks"] = len(items)
	}
	if wants("albums") && len(found.Albums) > 0 {
		items := clip(found.Albums, limit)
		results["albums"] = Payload{"items": items, "total": len(items)}
		summary["albums"] = len(items)
	}
	if wants("artists") && len(found.Artists) > 0 {
		items := clip(found.Artists, limit)
		results["artists"] = Payload{"items": items, "total": len(items)}
		summary["artists"] = len(items)
	}
	if wants("playlists") && len(found.Playlists) > 0 {
		items := clip(found.Playlists, limit)
		results["playlists"] = Payload{"items": items, "total": len(items)}
		summary["playlists"] = len(items)
	}

	return Payload{
		"query":      query,
		"searchType": searchType,
		"limit":      limit,
		"results":    results,
		"summary":    summary,
	}, http.StatusOK
}

// SearchTracks searches for tracks only.
func (s *Service) SearchTracks(ctx context.Context, query string, limit int) (Payload, int) {
	return s.searchOne(ctx, query, limit, "tracks", "Track", func(r *tidal.SearchResults, n int) (any, int) {
		items := clip(r.Tracks, n)
		s.cacheTracks(items)
		return items, len(items)
	})
}

// SearchAlbums searches for albums only.
func (s *Service) SearchAlbums(ctx context.Context, query string, limit int) (Payload, int) {
	return s.searchOne(ctx, query, limit, "albums", "Album", func(r *tidal.SearchResults, n int) (any, int) {
		items := clip(r.Albums, n)
		return items, len(items)
	})
}

// SearchArtists searches for artists only.
func (s *Service) SearchArtists(ctx context.Context, query string, limit int) (Payload, int) {
	return s.searchOne(ctx, query, limit, "artists", "Artist", func(r *tidal.SearchResults, n int) (any, int) {
		items := clip(r.Artists, n)
		return items, len(items)
	})
}

// SearchPlaylists searches for playlists only.
func (s *Service) SearchPlaylists(ctx context.Context, query string, limit int) (Payload, int) {
	return s.searchOne(ctx, query, limit, "playlists", "Playlist", func(r *tidal.SearchResults, n int) (any, int) {
		items := clip(r.Playlists, n)
		return items, len(items)
	})
}

// searchOne runs one search call and keeps a single typed section.
func (s *Service) searchOne(ctx context.Context, query string, limit int, kind, label string, extract func(*tidal.SearchResults, int) (any, int)) (Payload, int) {
	if strings.TrimSpace(query) == "" {
		return failf(http.StatusBadRequest, "query cannot be empty.")
	}

	cat, ok := s.catalog()
	if !ok {
		return authRequired()
	}

	limit = boundLimit(limit)
	found, err := cat.Search(ctx, query, limit)
	if err != nil {
		return failf(http.StatusInternalServerError, "%s search failed: %v", label, err)
	}

	items, count := extract(found, limit)
	return Payload{
		"query":   query,
		"type":    kind,
		"limit":   limit,
		"results": Payload{kind: Payload{"items": items, "total": count}},
		"count":   count,
	}, http.StatusOK
}

func clip[T any](items []T, limit int) []T {
	if items == nil {
		return []T{}
	}
	if len(items) > limit {
		return items[:limit]
	}
	return items
}
