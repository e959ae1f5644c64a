package models

// Track represents a TIDAL track in wire shape.
//
// SourceTrackID records which seed track produced this item when it arrived
// through a recommendation batch; it is empty everywhere else.
type Track struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Artist        string `json:"artist"`
	Album         string `json:"album"`
	Duration      int    `json:"duration"`
	URL           string `json:"url"`
	SourceTrackID string `json:"source_track_id,omitempty"`
}

// Key identifies a track for deduplication.
func (t Track) Key() string { return t.ID }

// Album represents a TIDAL album search result.
type Album struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Artist      string  `json:"artist"`
	ReleaseDate *string `json:"release_date"`
	NumTracks   int     `json:"num_tracks"`
	Duration    int     `json:"duration"`
	Explicit    bool    `json:"explicit"`
	URL         string  `json:"url"`
}

// Artist represents a TIDAL artist search result.
type Artist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Playlist represents a playlist in the user's library.
type Playlist struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Created     *string `json:"created"`
	LastUpdated *string `json:"last_updated"`
	TrackCount  int     `json:"track_count"`
	Duration    int     `json:"duration"`
	URL         string  `json:"url"`
}

// SearchPlaylist represents a playlist as returned by search, which exposes a
// creator instead of library bookkeeping fields.
type SearchPlaylist struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Creator     string  `json:"creator"`
	NumTracks   int     `json:"num_tracks"`
	Duration    int     `json:"duration"`
	URL         string  `json:"url"`
}

// Browse URLs as shown in the TIDAL web player.
func TrackURL(id string) string    { return "https://tidal.com/browse/track/" + id + "?u" }
func AlbumURL(id string) string    { return "https://tidal.com/browse/album/" + id + "?u" }
func ArtistURL(id string) string   { return "https://tidal.com/browse/artist/" + id + "?u" }
func PlaylistURL(id string) string { return "https://tidal.com/browse/playlist/" + id + "?u" }
