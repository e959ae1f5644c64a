// package repositories provides the local SQLite cache behind the API surface.
//
// Every track that passes through a listing, search, or recommendation
// response is recorded here so the CLI can answer "what have I seen recently"
// without a network round trip. The cache is strictly best-effort: writes
// that fail are logged by the caller and never surface as operation errors.
package repositories

import (
	"database/sql"
	"fmt"
)

// Schema is the full cache schema. CREATE IF NOT EXISTS keeps Migrate
// idempotent; there is no version ladder because the cache is disposable and
// can be rebuilt from scratch at any time.
const Schema = `
CREATE TABLE IF NOT EXISTS tracks (
	id         TEXT PRIMARY KEY,
	tidal_id   TEXT NOT NULL UNIQUE,
	title      TEXT NOT NULL,
	artist     TEXT NOT NULL,
	album      TEXT,
	duration   INTEGER NOT NULL DEFAULT 0,
	url        TEXT,
	cached_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_tracks_artist ON tracks(artist);
CREATE INDEX IF NOT EXISTS idx_tracks_cached_at ON tracks(cached_at);
`

// Migrate creates the cache schema if it does not exist.
func Migrate(db *sql.DB) error {
	if _, err := db.Exec(Schema); err != nil {
		return fmt.Errorf("failed to create cache schema: %w", err)
	}
	return nil
}
