package main

import (
	"context"
	"net/http"

	"github.com/thalweg/tidalctl/internal/models"
	"github.com/thalweg/tidalctl/internal/routes"
	"github.com/thalweg/tidalctl/internal/shared"
	"github.com/thalweg/tidalctl/internal/ui"
	"github.com/urfave/cli/v3"
)

// tracksFrom pulls a typed track slice out of an operation payload.
func tracksFrom(payload routes.Payload, key string) []models.Track {
	tracks, _ := payload[key].([]models.Track)
	return tracks
}

// Tracks lists the user's favorite tracks.
func (r *Runner) Tracks(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.service()
	if err != nil {
		return err
	}

	limit := cmd.Int("limit")
	r.logger.Infof("fetching favorite tracks with limit %v", limit)

	payload, status := svc.UserTracks(ctx, limit)
	if status != http.StatusOK {
		return payloadErr(payload, status)
	}

	if cmd.Bool("json") {
		return r.writeJSON(payload, cmd.Bool("pretty"))
	}

	tracks := tracksFrom(payload, "tracks")
	r.writePlain("%s\n", ui.Title("Favorite Tracks"))
	if len(tracks) == 0 {
		r.writePlain("No favorite tracks found.\n")
		return nil
	}
	r.printTracks(tracks)
	return nil
}

// Recommend produces recommendations from seed tracks or favorites.
func (r *Runner) Recommend(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.service()
	if err != nil {
		return err
	}

	seeds := cmd.StringSlice("track")
	r.logger.Infof("recommending tracks from %d explicit seeds", len(seeds))

	payload, status := svc.Recommendations(ctx, seeds, cmd.String("criteria"),
		cmd.Int("limit-per-track"), cmd.Int("limit-from-favorites"))
	if status != http.StatusOK {
		return payloadErr(payload, status)
	}

	if cmd.Bool("json") {
		return r.writeJSON(payload, cmd.Bool("pretty"))
	}

	seedTracks := tracksFrom(payload, "seed_tracks")
	recs := tracksFrom(payload, "recommendations")

	r.writePlain("%s\n", ui.Title("Recommendations"))
	r.writePlain("Seeds: %d tracks\n", len(seedTracks))
	if criteria, ok := payload["filter_criteria"].(string); ok && criteria != "" {
		r.writePlain("Criteria: %s\n", criteria)
	}
	if len(recs) == 0 {
		r.writePlain("No recommendations found.\n")
		return nil
	}
	r.writePlain("\n")
	r.printTracks(recs)
	return nil
}

// printTracks renders a numbered track listing.
func (r *Runner) printTracks(tracks []models.Track) {
	for i, t := range tracks {
		album := ""
		if t.Album != "" && t.Album != "Unknown Album" {
			album = " (" + t.Album + ")"
		}
		r.writePlain("%3d. %s - %s%s [%s]\n", i+1, t.Artist, t.Title, album, shared.FormatDuration(t.Duration))
	}
}
