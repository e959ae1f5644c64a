package formatter

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/thalweg/tidalctl/internal/models"
)

func sampleExport() *PlaylistExport {
	updated := "2026-08-01T10:00:00Z"
	return &PlaylistExport{
		Playlist: models.Playlist{
			ID:          "pl-123",
			Title:       "Night Drive",
			Description: "Late night synths",
			LastUpdated: &updated,
			TrackCount:  2,
			URL:         models.PlaylistURL("pl-123"),
		},
		Tracks: []models.Track{
			{
				ID:       "track1",
				Title:    "Song One",
				Artist:   "Artist One",
				Album:    "Album One",
				Duration: 187,
				URL:      models.TrackURL("track1"),
			},
			{
				ID:       "track2",
				Title:    "Song Two",
				Artist:   "Artist Two",
				Album:    "",
				Duration: 240,
				URL:      models.TrackURL("track2"),
			},
		},
	}
}

func TestExporters(t *testing.T) {
	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(sampleExport())
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "ID,Title,Artist,Album,Duration,URL") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, "track1,Song One,Artist One,Album One,187,") {
			t.Errorf("CSV missing first record, got: %s", output)
		}
		if !strings.Contains(output, "https://tidal.com/browse/track/track2?u") {
			t.Errorf("CSV missing track URL, got: %s", output)
		}
		lines := strings.Split(strings.TrimSpace(output), "\n")
		if len(lines) != 3 {
			t.Errorf("expected header + 2 records, got %d lines", len(lines))
		}
	})

	t.Run("ExportToCSV Empty Playlist", func(t *testing.T) {
		export := sampleExport()
		export.Tracks = nil

		data, err := ExportToCSV(export)
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}
		if got := strings.TrimSpace(string(data)); got != "ID,Title,Artist,Album,Duration,URL" {
			t.Errorf("expected headers only, got: %s", got)
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		data, err := ExportToMarkdown(sampleExport())
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "# Night Drive") {
			t.Errorf("Markdown missing title heading, got: %s", output)
		}
		if !strings.Contains(output, "**Description**: Late night synths") {
			t.Errorf("Markdown missing description")
		}
		if !strings.Contains(output, "**Last updated**: 2026-08-01T10:00:00Z") {
			t.Errorf("Markdown missing last updated")
		}
		if !strings.Contains(output, "1. Artist One - Song One (Album One) [3:07]") {
			t.Errorf("Markdown missing first track line, got: %s", output)
		}
		// Album is elided when unknown.
		if !strings.Contains(output, "2. Artist Two - Song Two [4:00]") {
			t.Errorf("Markdown missing second track line, got: %s", output)
		}
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(sampleExport())
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "Playlist: Night Drive") {
			t.Errorf("text missing playlist name, got: %s", output)
		}
		if !strings.Contains(output, "Tracks: 2") {
			t.Errorf("text missing track count")
		}
		if !strings.Contains(output, "1. Artist One - Song One") {
			t.Errorf("text missing first track")
		}
	})
}

func TestWriteExports(t *testing.T) {
	t.Run("WriteCSVExport", func(t *testing.T) {
		base := filepath.Join(t.TempDir(), "export")

		result, err := WriteCSVExport(sampleExport(), base)
		if err != nil {
			t.Fatalf("WriteCSVExport failed: %v", err)
		}
		if result.TracksFile != base+"_tracks.csv" {
			t.Errorf("unexpected tracks file: %s", result.TracksFile)
		}
		if result.MetadataFile != base+"_metadata.json" {
			t.Errorf("unexpected metadata file: %s", result.MetadataFile)
		}

		metaData, err := os.ReadFile(result.MetadataFile)
		if err != nil {
			t.Fatalf("failed to read metadata file: %v", err)
		}
		var playlist models.Playlist
		if err := json.Unmarshal(metaData, &playlist); err != nil {
			t.Fatalf("metadata is not valid JSON: %v", err)
		}
		if playlist.ID != "pl-123" || playlist.Title != "Night Drive" {
			t.Errorf("metadata mismatch: %+v", playlist)
		}
	})

	t.Run("WriteMarkdownExport", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "night-drive")

		readme, err := WriteMarkdownExport(sampleExport(), dir)
		if err != nil {
			t.Fatalf("WriteMarkdownExport failed: %v", err)
		}
		if readme != filepath.Join(dir, "README.md") {
			t.Errorf("unexpected readme path: %s", readme)
		}

		data, err := os.ReadFile(readme)
		if err != nil {
			t.Fatalf("failed to read README: %v", err)
		}
		if !strings.Contains(string(data), "# Night Drive") {
			t.Errorf("README missing heading")
		}
	})
}
