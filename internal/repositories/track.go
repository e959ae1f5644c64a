package repositories

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/thalweg/tidalctl/internal/models"
	"github.com/thalweg/tidalctl/internal/shared"
)

// TrackRepository caches tracks seen in API responses, keyed by TIDAL id.
//
// Inserts use INSERT OR IGNORE against the tidal_id unique constraint, so
// re-caching a track the cache already holds is a no-op rather than an error.
type TrackRepository struct {
	db *sql.DB
}

// NewTrackRepository creates a new TrackRepository with the given database connection
func NewTrackRepository(db *sql.DB) *TrackRepository {
	return &TrackRepository{db: db}
}

// CacheTracks records a batch of tracks in one statement. Tracks without an
// id are skipped. Satisfies the routes.TrackCacher interface.
func (r *TrackRepository) CacheTracks(tracks []models.Track) error {
	rows := make([]models.Track, 0, len(tracks))
	for _, t := range tracks {
		if t.ID == "" {
			continue
		}
		rows = append(rows, t)
	}
	if len(rows) == 0 {
		return nil
	}

	var sb strings.Builder
	sb.WriteString(`INSERT OR IGNORE INTO tracks (id, tidal_id, title, artist, album, duration, url, cached_at) VALUES `)
	args := make([]any, 0, len(rows)*8)
	now := time.Now().UTC()
	for i, t := range rows {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("(?, ?, ?, ?, ?, ?, ?, ?)")
		args = append(args, shared.GenerateID(), t.ID, t.Title, t.Artist, t.Album, t.Duration, t.URL, now)
	}

	if _, err := r.db.Exec(sb.String(), args...); err != nil {
		return fmt.Errorf("failed to cache tracks: %w", err)
	}
	return nil
}

// GetByTidalID retrieves a cached track by its TIDAL id. A miss returns
// sql.ErrNoRows.
func (r *TrackRepository) GetByTidalID(tidalID string) (*models.Track, error) {
	query := `
		SELECT tidal_id, title, artist, album, duration, url
		FROM tracks
		WHERE tidal_id = ?
	`
	return r.scanOne(r.db.QueryRow(query, tidalID))
}

// Recent returns the most recently cached tracks, newest first.
func (r *TrackRepository) Recent(limit int) ([]models.Track, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT tidal_id, title, artist, album, duration, url
		FROM tracks
		ORDER BY cached_at DESC, rowid DESC
		LIMIT ?
	`
	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent tracks: %w", err)
	}
	defer rows.Close()

	var tracks []models.Track
	for rows.Next() {
		t, err := scanTrack(rows)
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, *t)
	}
	return tracks, rows.Err()
}

// SearchByArtist returns cached tracks whose artist matches the given
// substring, case-insensitively.
func (r *TrackRepository) SearchByArtist(artist string, limit int) ([]models.Track, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT tidal_id, title, artist, album, duration, url
		FROM tracks
		WHERE artist LIKE ? COLLATE NOCASE
		ORDER BY cached_at DESC
		LIMIT ?
	`
	rows, err := r.db.Query(query, "%"+artist+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search cached tracks: %w", err)
	}
	defer rows.Close()

	var tracks []models.Track
	for rows.Next() {
		t, err := scanTrack(rows)
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, *t)
	}
	return tracks, rows.Err()
}

// Count returns the number of cached tracks.
func (r *TrackRepository) Count() (int, error) {
	var n int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM tracks`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count cached tracks: %w", err)
	}
	return n, nil
}

// Prune deletes cache entries older than the cutoff and reports how many
// were removed.
func (r *TrackRepository) Prune(olderThan time.Time) (int64, error) {
	result, err := r.db.Exec(`DELETE FROM tracks WHERE cached_at < ?`, olderThan.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to prune track cache: %w", err)
	}
	return result.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *TrackRepository) scanOne(row rowScanner) (*models.Track, error) {
	return scanTrack(row)
}

func scanTrack(row rowScanner) (*models.Track, error) {
	var t models.Track
	var album, url sql.NullString
	if err := row.Scan(&t.ID, &t.Title, &t.Artist, &album, &t.Duration, &url); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan track: %w", err)
	}
	t.Album = album.String
	t.URL = url.String
	return &t, nil
}
