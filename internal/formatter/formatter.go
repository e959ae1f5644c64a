// package formatter exports playlist data to CSV, Markdown and plain text
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/thalweg/tidalctl/internal/models"
	"github.com/thalweg/tidalctl/internal/shared"
)

// PlaylistExport bundles a playlist with its resolved tracks for export.
type PlaylistExport struct {
	Playlist models.Playlist `json:"playlist"`
	Tracks   []models.Track  `json:"tracks"`
}

// ExportToCSV converts a PlaylistExport to CSV with columns: ID, Title, Artist, Album, Duration, URL
func ExportToCSV(export *PlaylistExport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Artist", "Album", "Duration", "URL"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, track := range export.Tracks {
		record := []string{
			track.ID,
			track.Title,
			track.Artist,
			track.Album,
			strconv.Itoa(track.Duration),
			track.URL,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a PlaylistExport to Markdown
func ExportToMarkdown(export *PlaylistExport) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", export.Playlist.Title))

	if export.Playlist.Description != "" {
		buf.WriteString(fmt.Sprintf("**Description**: %s\n\n", export.Playlist.Description))
	}

	buf.WriteString(fmt.Sprintf("**Tracks**: %d\n", len(export.Tracks)))
	if export.Playlist.LastUpdated != nil {
		buf.WriteString(fmt.Sprintf("**Last updated**: %s\n", *export.Playlist.LastUpdated))
	}
	if export.Playlist.URL != "" {
		buf.WriteString(fmt.Sprintf("**Listen**: %s\n", export.Playlist.URL))
	}
	buf.WriteString("\n## Tracks\n\n")

	for i, track := range export.Tracks {
		duration := shared.FormatDuration(track.Duration)
		albumPart := ""
		if track.Album != "" {
			albumPart = fmt.Sprintf(" (%s)", track.Album)
		}
		buf.WriteString(fmt.Sprintf("%d. %s - %s%s [%s]\n", i+1, track.Artist, track.Title, albumPart, duration))
	}

	return buf.Bytes(), nil
}

// ExportToText converts a PlaylistExport to plain text
func ExportToText(export *PlaylistExport) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Playlist: %s\n", export.Playlist.Title))
	if export.Playlist.Description != "" {
		buf.WriteString(fmt.Sprintf("Description: %s\n", export.Playlist.Description))
	}
	buf.WriteString(fmt.Sprintf("Tracks: %d\n\n", len(export.Tracks)))

	for i, track := range export.Tracks {
		buf.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, track.Artist, track.Title))
	}

	return buf.Bytes(), nil
}

// ToMetadataJSON generates an indented JSON representation of playlist metadata (without tracks)
func ToMetadataJSON(playlist models.Playlist) ([]byte, error) {
	return json.MarshalIndent(playlist, "", "  ")
}

// CSVExportResult contains the paths of files created by WriteCSVExport
type CSVExportResult struct {
	TracksFile   string
	MetadataFile string
}

// WriteCSVExport exports a playlist to CSV format with an accompanying metadata JSON file.
//
// Defaults to playlist ID as the base filename & creates {base}_tracks.csv and {base}_metadata.json
func WriteCSVExport(export *PlaylistExport, baseFilepath string) (*CSVExportResult, error) {
	if baseFilepath == "" {
		baseFilepath = export.Playlist.ID
	}

	csvData, err := ExportToCSV(export)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	tracksFile := baseFilepath + "_tracks.csv"
	if err := os.WriteFile(tracksFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	metadataJSON, err := ToMetadataJSON(export.Playlist)
	if err != nil {
		return nil, fmt.Errorf("failed to generate metadata JSON: %w", err)
	}

	metadataFile := baseFilepath + "_metadata.json"
	if err := os.WriteFile(metadataFile, metadataJSON, 0644); err != nil {
		return nil, fmt.Errorf("failed to write metadata file: %w", err)
	}

	return &CSVExportResult{
		TracksFile:   tracksFile,
		MetadataFile: metadataFile,
	}, nil
}

// WriteMarkdownExport exports a playlist as README.md inside outputDir.
//
// The directory name defaults to the playlist ID and is created if missing.
func WriteMarkdownExport(export *PlaylistExport, outputDir string) (string, error) {
	if outputDir == "" {
		outputDir = export.Playlist.ID
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	mdData, err := ExportToMarkdown(export)
	if err != nil {
		return "", fmt.Errorf("failed to generate Markdown: %w", err)
	}

	readmeFile := filepath.Join(outputDir, "README.md")
	if err := os.WriteFile(readmeFile, mdData, 0644); err != nil {
		return "", fmt.Errorf("failed to write Markdown file: %w", err)
	}

	return readmeFile, nil
}
