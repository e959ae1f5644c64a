package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/thalweg/tidalctl/internal/models"
	"github.com/thalweg/tidalctl/internal/routes"
	"github.com/thalweg/tidalctl/internal/shared"
	"github.com/thalweg/tidalctl/internal/ui"
	"github.com/urfave/cli/v3"
)

// Search queries the TIDAL catalog and renders the requested sections.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.service()
	if err != nil {
		return err
	}

	query := cmd.StringArg("query")
	if query == "" {
		return fmt.Errorf("%w: query", shared.ErrMissingArgument)
	}

	r.logger.Infof("searching for %q (type %s)", query, cmd.String("type"))

	payload, status := svc.Search(ctx, query, cmd.String("type"), cmd.Int("limit"))
	if status != http.StatusOK {
		return payloadErr(payload, status)
	}

	if cmd.Bool("json") {
		return r.writeJSON(payload, cmd.Bool("pretty"))
	}

	results, _ := payload["results"].(routes.Payload)
	if len(results) == 0 {
		r.writePlain("No results for %q.\n", query)
		return nil
	}

	if section, ok := results["tracks"].(routes.Payload); ok {
		r.writePlain("%s\n", ui.Title("Tracks"))
		if items, ok := section["items"].([]models.Track); ok {
			r.printTracks(items)
		}
		r.writePlain("\n")
	}
	if section, ok := results["albums"].(routes.Payload); ok {
		r.writePlain("%s\n", ui.Title("Albums"))
		if items, ok := section["items"].([]models.Album); ok {
			for i, a := range items {
				r.writePlain("%3d. %s - %s (%d tracks)\n", i+1, a.Artist, a.Title, a.NumTracks)
			}
		}
		r.writePlain("\n")
	}
	if section, ok := results["artists"].(routes.Payload); ok {
		r.writePlain("%s\n", ui.Title("Artists"))
		if items, ok := section["items"].([]models.Artist); ok {
			for i, a := range items {
				r.writePlain("%3d. %s\n", i+1, a.Name)
			}
		}
		r.writePlain("\n")
	}
	if section, ok := results["playlists"].(routes.Payload); ok {
		r.writePlain("%s\n", ui.Title("Playlists"))
		if items, ok := section["items"].([]models.SearchPlaylist); ok {
			for i, p := range items {
				r.writePlain("%3d. %s by %s (%d tracks)\n", i+1, p.Title, p.Creator, p.NumTracks)
			}
		}
		r.writePlain("\n")
	}

	return nil
}
