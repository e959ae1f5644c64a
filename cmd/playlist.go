package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/thalweg/tidalctl/internal/formatter"
	"github.com/thalweg/tidalctl/internal/models"
	"github.com/thalweg/tidalctl/internal/shared"
	"github.com/thalweg/tidalctl/internal/ui"
	"github.com/urfave/cli/v3"
)

// PlaylistList lists the user's playlists.
func (r *Runner) PlaylistList(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.service()
	if err != nil {
		return err
	}

	payload, status := svc.Playlists(ctx)
	if status != http.StatusOK {
		return payloadErr(payload, status)
	}

	if cmd.Bool("json") {
		return r.writeJSON(payload, cmd.Bool("pretty"))
	}

	playlists, _ := payload["playlists"].([]models.Playlist)
	r.writePlain("%s\n", ui.Title("Playlists"))
	if len(playlists) == 0 {
		r.writePlain("No playlists found.\n")
		return nil
	}
	for i, p := range playlists {
		updated := ""
		if p.LastUpdated != nil {
			updated = " · updated " + *p.LastUpdated
		}
		r.writePlain("%3d. %s (%d tracks)%s\n", i+1, p.Title, p.TrackCount, updated)
		r.writePlain("     %s\n", ui.Help(p.ID))
	}
	return nil
}

// PlaylistTracks lists the tracks of one playlist.
func (r *Runner) PlaylistTracks(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.service()
	if err != nil {
		return err
	}

	payload, status := svc.PlaylistTracks(ctx, cmd.String("id"), cmd.Int("limit"))
	if status != http.StatusOK {
		return payloadErr(payload, status)
	}

	if cmd.Bool("json") {
		return r.writeJSON(payload, cmd.Bool("pretty"))
	}

	tracks := tracksFrom(payload, "tracks")
	total, _ := payload["total_tracks"].(int)
	r.writePlain("%s\n", ui.Title(fmt.Sprintf("Playlist Tracks (%d)", total)))
	if len(tracks) == 0 {
		r.writePlain("No tracks found.\n")
		return nil
	}
	r.printTracks(tracks)
	return nil
}

// PlaylistCreate creates a playlist, optionally seeding it with tracks.
func (r *Runner) PlaylistCreate(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.service()
	if err != nil {
		return err
	}

	title := cmd.String("title")
	trackIDs := cmd.StringSlice("track")
	r.logger.Infof("creating playlist %q with %d tracks", title, len(trackIDs))

	payload, status := svc.CreatePlaylist(ctx, title, cmd.String("description"), trackIDs)
	if status != http.StatusOK {
		return payloadErr(payload, status)
	}

	r.writePlain("%s\n", ui.Ok("✓ Playlist created"))
	if id, _ := payload["playlist_id"].(string); id != "" {
		r.writePlain("ID: %s\n", id)
	}
	if added, ok := payload["tracks_added"].(int); ok && added > 0 {
		r.writePlain("Tracks added: %d\n", added)
	}
	if url, _ := payload["playlist_url"].(string); url != "" {
		r.writePlain("URL: %s\n", url)
	}
	return nil
}

// PlaylistDelete deletes a playlist.
func (r *Runner) PlaylistDelete(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.service()
	if err != nil {
		return err
	}

	payload, status := svc.DeletePlaylist(ctx, cmd.String("id"))
	if status != http.StatusOK {
		return payloadErr(payload, status)
	}

	return r.writePlain("%s\n", ui.Ok("✓ Playlist deleted"))
}

// PlaylistAdd appends tracks to a playlist.
func (r *Runner) PlaylistAdd(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.service()
	if err != nil {
		return err
	}

	payload, status := svc.AddTracks(ctx, cmd.String("id"), cmd.StringSlice("track"))
	if status != http.StatusOK {
		return payloadErr(payload, status)
	}

	added, _ := payload["tracks_added"].(int)
	return r.writePlain("%s\n", ui.Ok(fmt.Sprintf("✓ Added %d tracks", added)))
}

// PlaylistRemove removes tracks by ID or by position.
func (r *Runner) PlaylistRemove(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.service()
	if err != nil {
		return err
	}

	payload, status := svc.RemoveTracks(ctx, cmd.String("id"), cmd.StringSlice("track"), cmd.IntSlice("index"))
	if status != http.StatusOK {
		return payloadErr(payload, status)
	}

	removed, _ := payload["tracks_removed"].(int)
	r.writePlain("%s\n", ui.Ok(fmt.Sprintf("✓ Removed %d tracks", removed)))
	if failed, ok := payload["tracks_failed"].(int); ok && failed > 0 {
		r.writePlain("%s\n", ui.Warn(fmt.Sprintf("✗ %d tracks could not be removed", failed)))
	}
	return nil
}

// PlaylistMove moves one track to a new position.
func (r *Runner) PlaylistMove(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.service()
	if err != nil {
		return err
	}

	payload, status := svc.MoveTrack(ctx, cmd.String("id"), cmd.Int("from"), cmd.Int("to"))
	if status != http.StatusOK {
		return payloadErr(payload, status)
	}

	return r.writePlain("%s\n", ui.Ok(fmt.Sprintf("✓ Moved track from %d to %d", cmd.Int("from"), cmd.Int("to"))))
}

// PlaylistUpdate updates title and/or description. A flag that is set to an
// empty string clears the field; an unset flag leaves it untouched.
func (r *Runner) PlaylistUpdate(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.service()
	if err != nil {
		return err
	}

	var title, description *string
	if cmd.IsSet("title") {
		v := cmd.String("title")
		title = &v
	}
	if cmd.IsSet("description") {
		v := cmd.String("description")
		description = &v
	}

	payload, status := svc.UpdatePlaylist(ctx, cmd.String("id"), title, description)
	if status != http.StatusOK {
		return payloadErr(payload, status)
	}

	r.writePlain("%s\n", ui.Ok("✓ Playlist updated"))
	if fields, ok := payload["updated_fields"].(map[string]any); ok {
		for k, v := range fields {
			r.writePlain("%s: %v\n", k, v)
		}
	}
	return nil
}

// PlaylistExport writes a playlist to CSV, Markdown or plain text.
func (r *Runner) PlaylistExport(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.service()
	if err != nil {
		return err
	}

	playlistID := cmd.String("id")
	format := strings.ToLower(cmd.String("format"))
	output := cmd.String("output")

	payload, status := svc.PlaylistTracks(ctx, playlistID, 0)
	if status != http.StatusOK {
		return payloadErr(payload, status)
	}
	tracks := tracksFrom(payload, "tracks")

	export := &formatter.PlaylistExport{
		Playlist: r.playlistMeta(ctx, playlistID),
		Tracks:   tracks,
	}

	switch format {
	case "csv":
		result, err := formatter.WriteCSVExport(export, output)
		if err != nil {
			return err
		}
		r.writePlain("%s\n", ui.Ok("✓ Export complete"))
		r.writePlain("Tracks: %s\n", result.TracksFile)
		r.writePlain("Metadata: %s\n", result.MetadataFile)
	case "markdown", "md":
		readme, err := formatter.WriteMarkdownExport(export, output)
		if err != nil {
			return err
		}
		r.writePlain("%s\n", ui.Ok("✓ Export complete"))
		r.writePlain("File: %s\n", readme)
	case "text", "txt":
		data, err := formatter.ExportToText(export)
		if err != nil {
			return err
		}
		if output == "" {
			return r.writePlain("%s", string(data))
		}
		if err := os.WriteFile(output, data, 0644); err != nil {
			return fmt.Errorf("failed to write export: %w", err)
		}
		r.writePlain("%s\n", ui.Ok("✓ Export complete"))
		r.writePlain("File: %s\n", output)
	default:
		return fmt.Errorf("%w: unsupported format %q", shared.ErrInvalidInput, format)
	}

	return nil
}

// playlistMeta resolves playlist metadata from the user's library, falling
// back to a bare handle when the playlist is not in it.
func (r *Runner) playlistMeta(ctx context.Context, playlistID string) models.Playlist {
	payload, status := r.svc.Playlists(ctx)
	if status == http.StatusOK {
		if playlists, ok := payload["playlists"].([]models.Playlist); ok {
			for _, p := range playlists {
				if p.ID == playlistID {
					return p
				}
			}
		}
	}
	return models.Playlist{ID: playlistID, Title: playlistID, URL: models.PlaylistURL(playlistID)}
}
