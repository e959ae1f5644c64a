package routes

import (
	"context"
	"net/http"

	"github.com/thalweg/tidalctl/internal/models"
	"github.com/thalweg/tidalctl/internal/tasks"
)

// UserTracks returns the caller's favorite tracks, newest first, paging past
// the remote per-request cap until limit tracks are collected. A negative
// limit is treated as zero.
func (s *Service) UserTracks(ctx context.Context, limit int) (Payload, int) {
	cat, ok := s.catalog()
	if !ok {
		return authRequired()
	}
	if limit < 0 {
		limit = 0
	}

	all := tasks.FetchAll(func(pageLimit, offset int) ([]models.Track, error) {
		return cat.FavoriteTracks(ctx, pageLimit, offset)
	}, tasks.FetchOpts{
		MaxItems: limit,
		PageSize: s.pageSize,
		MaxPages: s.maxPages,
		Logger:   s.logger,
	})

	s.cacheTracks(all)
	if all == nil {
		all = []models.Track{}
	}
	return Payload{"tracks": all}, http.StatusOK
}

// BatchRecommendations fans out one track-radio request per seed and merges
// the results in completion order. Failed seeds contribute nothing; the merge
// drops duplicate track ids when removeDuplicates is set.
func (s *Service) BatchRecommendations(ctx context.Context, trackIDs []string, limitPerTrack int, removeDuplicates bool) (Payload, int) {
	if len(trackIDs) == 0 {
		return failf(http.StatusBadRequest, "track_ids cannot be empty.")
	}

	cat, ok := s.catalog()
	if !ok {
		return authRequired()
	}

	limitPerTrack = boundLimit(limitPerTrack)

	jobs := make(map[string]tasks.TaskFunc[models.Track], len(trackIDs))
	for _, id := range trackIDs {
		trackID := id
		jobs[trackID] = func() ([]models.Track, error) {
			recs, err := cat.TrackRadio(ctx, trackID, limitPerTrack)
			if err != nil {
				return nil, err
			}
			for i := range recs {
				recs[i].SourceTrackID = trackID
			}
			return recs, nil
		}
	}

	recs := tasks.RunAll(ctx, jobs, tasks.FanOutOpts{
		MaxWorkers: s.maxWorkers,
		Dedupe:     removeDuplicates,
		Logger:     s.logger,
	})

	s.cacheTracks(recs)
	if recs == nil {
		recs = []models.Track{}
	}
	return Payload{"recommendations": recs}, http.StatusOK
}

// Recommendations recommends tracks seeded either by explicit track ids or,
// when none are given, by the caller's most recent favorites. Seed tracks are
// filtered out of the result; filterCriteria is passed through untouched for
// the caller to apply.
func (s *Service) Recommendations(ctx context.Context, trackIDs []string, filterCriteria string, limitPerTrack, limitFromFavorites int) (Payload, int) {
	if _, ok := s.catalog(); !ok {
		return authRequired()
	}

	seedTracks := []models.Track{}
	seeds := trackIDs
	if len(seeds) == 0 {
		favData, favStatus := s.UserTracks(ctx, limitFromFavorites)
		if favStatus != http.StatusOK {
			return favData, favStatus
		}
		seedTracks = favData["tracks"].([]models.Track)
		seeds = make([]string, 0, len(seedTracks))
		for _, t := range seedTracks {
			seeds = append(seeds, t.ID)
		}
	}

	if len(seeds) == 0 {
		return failf(http.StatusBadRequest,
			"No seed tracks found. Make sure you have saved tracks in your TIDAL favorites, or provide explicit track_ids.")
	}

	recData, recStatus := s.BatchRecommendations(ctx, seeds, limitPerTrack, true)
	if recStatus != http.StatusOK {
		return recData, recStatus
	}

	seedSet := make(map[string]struct{}, len(seeds))
	for _, id := range seeds {
		seedSet[id] = struct{}{}
	}
	filtered := []models.Track{}
	for _, rec := range recData["recommendations"].([]models.Track) {
		if _, isSeed := seedSet[rec.ID]; isSeed {
			continue
		}
		filtered = append(filtered, rec)
	}

	payload := Payload{
		"seed_tracks":     seedTracks,
		"recommendations": filtered,
	}
	if filterCriteria != "" {
		payload["filter_criteria"] = filterCriteria
	} else {
		payload["filter_criteria"] = nil
	}
	return payload, http.StatusOK
}
