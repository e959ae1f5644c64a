package routes

import (
	"context"
	"net/http"
	"sort"
	"strings"

	"github.com/thalweg/tidalctl/internal/models"
	"github.com/thalweg/tidalctl/internal/tasks"
)

func validPlaylistID(id string) bool {
	return strings.TrimSpace(id) != ""
}

// CreatePlaylist creates a playlist and adds the given tracks to it. The
// track list may be empty; the title may not.
func (s *Service) CreatePlaylist(ctx context.Context, title, description string, trackIDs []string) (Payload, int) {
	if strings.TrimSpace(title) == "" {
		return failf(http.StatusBadRequest, "title cannot be empty.")
	}

	cat, ok := s.catalog()
	if !ok {
		return authRequired()
	}

	pl, err := cat.CreatePlaylist(ctx, title, description)
	if err != nil {
		return failf(http.StatusInternalServerError, "Error creating playlist: %v", err)
	}

	added := 0
	if len(trackIDs) > 0 {
		if err := cat.AddPlaylistTracks(ctx, pl.ID, trackIDs); err != nil {
			return Payload{
				"status":       "partial",
				"error":        "Playlist created but adding tracks failed: " + err.Error(),
				"playlist_id":  pl.ID,
				"playlist_url": pl.URL,
			}, http.StatusInternalServerError
		}
		added = len(trackIDs)
	}

	return Payload{
		"status":         "success",
		"playlist_id":    pl.ID,
		"playlist_title": pl.Title,
		"tracks_added":   added,
		"playlist_url":   pl.URL,
	}, http.StatusOK
}

// Playlists lists the caller's playlists, most recently updated first.
func (s *Service) Playlists(ctx context.Context) (Payload, int) {
	cat, ok := s.catalog()
	if !ok {
		return authRequired()
	}

	lists, err := cat.Playlists(ctx)
	if err != nil {
		return failf(http.StatusInternalServerError, "Error fetching playlists: %v", err)
	}

	// Most recently updated first; playlists without a timestamp sink to
	// the bottom.
	sort.SliceStable(lists, func(i, j int) bool {
		a, b := lists[i].LastUpdated, lists[j].LastUpdated
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return *a > *b
		}
	})

	if lists == nil {
		lists = []models.Playlist{}
	}
	return Payload{"playlists": lists}, http.StatusOK
}

// PlaylistTracks returns the tracks of one playlist in order. A limit at or
// below zero fetches the whole playlist regardless of length.
func (s *Service) PlaylistTracks(ctx context.Context, playlistID string, limit int) (Payload, int) {
	if !validPlaylistID(playlistID) {
		return failf(http.StatusBadRequest, "playlist_id cannot be empty.")
	}

	cat, ok := s.catalog()
	if !ok {
		return authRequired()
	}

	maxItems := limit
	if maxItems <= 0 {
		maxItems = -1
	}
	all := tasks.FetchAll(func(pageLimit, offset int) ([]models.Track, error) {
		return cat.PlaylistTracks(ctx, playlistID, pageLimit, offset)
	}, tasks.FetchOpts{
		MaxItems: maxItems,
		PageSize: s.pageSize,
		MaxPages: s.maxPages,
		Logger:   s.logger,
	})

	s.cacheTracks(all)
	if all == nil {
		all = []models.Track{}
	}
	return Payload{
		"playlist_id":  playlistID,
		"tracks":       all,
		"total_tracks": len(all),
	}, http.StatusOK
}

// DeletePlaylist removes a playlist from the caller's account.
func (s *Service) DeletePlaylist(ctx context.Context, playlistID string) (Payload, int) {
	if !validPlaylistID(playlistID) {
		return failf(http.StatusBadRequest, "playlist_id cannot be empty.")
	}

	cat, ok := s.catalog()
	if !ok {
		return authRequired()
	}

	if err := cat.DeletePlaylist(ctx, playlistID); err != nil {
		return failf(http.StatusInternalServerError, "Error deleting playlist: %v", err)
	}
	return Payload{
		"status":      "success",
		"playlist_id": playlistID,
		"message":     "Playlist deleted.",
	}, http.StatusOK
}

// AddTracks appends tracks to an existing playlist.
func (s *Service) AddTracks(ctx context.Context, playlistID string, trackIDs []string) (Payload, int) {
	if !validPlaylistID(playlistID) {
		return failf(http.StatusBadRequest, "playlist_id cannot be empty.")
	}
	if len(trackIDs) == 0 {
		return failf(http.StatusBadRequest, "track_ids cannot be empty.")
	}

	cat, ok := s.catalog()
	if !ok {
		return authRequired()
	}

	if err := cat.AddPlaylistTracks(ctx, playlistID, trackIDs); err != nil {
		return failf(http.StatusInternalServerError, "Error adding tracks to playlist: %v", err)
	}
	return Payload{
		"status":       "success",
		"tracks_added": len(trackIDs),
	}, http.StatusOK
}

// RemoveTracks removes tracks from a playlist either by track id or by
// zero-based position. Exactly one of trackIDs and indices must be given.
// Each removal is attempted independently; the response counts what stuck.
func (s *Service) RemoveTracks(ctx context.Context, playlistID string, trackIDs []string, indices []int) (Payload, int) {
	if !validPlaylistID(playlistID) {
		return failf(http.StatusBadRequest, "playlist_id cannot be empty.")
	}
	if len(trackIDs) == 0 && len(indices) == 0 {
		return failf(http.StatusBadRequest, "Must provide track_ids or indices.")
	}
	if len(trackIDs) > 0 && len(indices) > 0 {
		return failf(http.StatusBadRequest, "Provide track_ids or indices, not both.")
	}

	cat, ok := s.catalog()
	if !ok {
		return authRequired()
	}

	removed, failed := 0, 0
	if len(trackIDs) > 0 {
		for _, id := range trackIDs {
			if err := cat.RemovePlaylistTrack(ctx, playlistID, id); err != nil {
				s.logger.Warn("remove track failed", "playlist", playlistID, "track", id, "err", err)
				failed++
				continue
			}
			removed++
		}
	} else {
		for _, idx := range indices {
			if idx < 0 {
				return failf(http.StatusBadRequest, "indices must be non-negative integers.")
			}
		}
		// Delete from the end so earlier removals cannot shift the
		// positions still pending.
		sorted := make([]int, len(indices))
		copy(sorted, indices)
		sort.Sort(sort.Reverse(sort.IntSlice(sorted)))
		for _, idx := range sorted {
			if err := cat.RemovePlaylistIndex(ctx, playlistID, idx); err != nil {
				s.logger.Warn("remove index failed", "playlist", playlistID, "index", idx, "err", err)
				failed++
				continue
			}
			removed++
		}
	}

	payload := Payload{
		"status":         "success",
		"tracks_removed": removed,
	}
	if failed > 0 {
		payload["tracks_failed"] = failed
	}
	return payload, http.StatusOK
}

// UpdatePlaylist changes a playlist's title and/or description. A nil field
// is left alone; an empty string clears the field.
func (s *Service) UpdatePlaylist(ctx context.Context, playlistID string, title, description *string) (Payload, int) {
	if !validPlaylistID(playlistID) {
		return failf(http.StatusBadRequest, "playlist_id cannot be empty.")
	}
	if title == nil && description == nil {
		return failf(http.StatusBadRequest, "Must provide title or description.")
	}

	cat, ok := s.catalog()
	if !ok {
		return authRequired()
	}

	if err := cat.UpdatePlaylist(ctx, playlistID, title, description); err != nil {
		return failf(http.StatusInternalServerError, "Error updating playlist: %v", err)
	}

	updated := Payload{}
	if title != nil {
		updated["title"] = *title
	}
	if description != nil {
		updated["description"] = *description
	}
	return Payload{
		"status":         "success",
		"updated_fields": updated,
	}, http.StatusOK
}

// MoveTrack moves the track at fromIndex to toIndex within a playlist.
// Indices are zero-based.
func (s *Service) MoveTrack(ctx context.Context, playlistID string, fromIndex, toIndex int) (Payload, int) {
	if !validPlaylistID(playlistID) {
		return failf(http.StatusBadRequest, "playlist_id cannot be empty.")
	}
	if fromIndex < 0 || toIndex < 0 {
		return failf(http.StatusBadRequest, "from_index and to_index must be non-negative integers.")
	}

	cat, ok := s.catalog()
	if !ok {
		return authRequired()
	}

	if err := cat.MovePlaylistTrack(ctx, playlistID, fromIndex, toIndex); err != nil {
		return failf(http.StatusInternalServerError, "Error moving track: %v", err)
	}
	return Payload{
		"status":      "success",
		"playlist_id": playlistID,
		"from_index":  fromIndex,
		"to_index":    toIndex,
	}, http.StatusOK
}
