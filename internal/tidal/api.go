// TIDAL v1 API implementation of [Catalog]
//
// Response types cover only the fields the operation layer passes through.
package tidal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/thalweg/tidalctl/internal/models"
	"github.com/thalweg/tidalctl/internal/shared"
)

// API binds a Client to a Session. All Catalog methods issue one request.
type API struct {
	client  *Client
	session *Session
}

type tidalArtist struct {
	ID   json.Number `json:"id"`
	Name string      `json:"name"`
}

type tidalAlbum struct {
	ID             json.Number `json:"id"`
	Title          string      `json:"title"`
	Artist         tidalArtist `json:"artist"`
	ReleaseDate    string      `json:"releaseDate"`
	NumberOfTracks int         `json:"numberOfTracks"`
	Duration       int         `json:"duration"`
	Explicit       bool        `json:"explicit"`
}

type tidalTrack struct {
	ID       json.Number `json:"id"`
	Title    string      `json:"title"`
	Duration int         `json:"duration"`
	Artist   tidalArtist `json:"artist"`
	Album    tidalAlbum  `json:"album"`
}

type tidalPlaylist struct {
	UUID           string      `json:"uuid"`
	Title          string      `json:"title"`
	Description    string      `json:"description"`
	Created        string      `json:"created"`
	LastUpdated    string      `json:"lastUpdated"`
	NumberOfTracks int         `json:"numberOfTracks"`
	Duration       int         `json:"duration"`
	Creator        tidalArtist `json:"creator"`
}

type trackPage struct {
	Items []struct {
		Item tidalTrack `json:"item"`
		Type string     `json:"type"`
	} `json:"items"`
}

type trackList struct {
	Items []tidalTrack `json:"items"`
}

// doRequest performs one authenticated request against the TIDAL API. form is
// sent urlencoded for mutating methods; result, when non-nil, receives the
// decoded JSON body.
func (a *API) doRequest(ctx context.Context, method, path string, form url.Values, result any) error {
	if !a.session.IsValid() && a.session.Token == nil {
		return fmt.Errorf("%w: no session token", shared.ErrNotAuthenticated)
	}
	if err := a.client.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	apiURL := a.client.base + path
	if a.session.CountryCode != "" {
		sep := "?"
		if strings.Contains(apiURL, "?") {
			sep = "&"
		}
		apiURL += sep + "countryCode=" + url.QueryEscape(a.session.CountryCode)
	}

	var req *http.Request
	var err error
	if form != nil {
		req, err = http.NewRequestWithContext(ctx, method, apiURL, strings.NewReader(form.Encode()))
		if err == nil {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}
	} else {
		req, err = http.NewRequestWithContext(ctx, method, apiURL, nil)
	}
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+a.session.Token.AccessToken)

	resp, err := a.client.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%w: status 401", shared.ErrNotAuthenticated)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

func (a *API) Search(ctx context.Context, query string, limit int) (*SearchResults, error) {
	endpoint := fmt.Sprintf("/search?query=%s&limit=%d&types=TRACKS,ALBUMS,ARTISTS,PLAYLISTS",
		url.QueryEscape(query), limit)

	var out struct {
		Tracks trackList `json:"tracks"`
		Albums struct {
			Items []tidalAlbum `json:"items"`
		} `json:"albums"`
		Artists struct {
			Items []tidalArtist `json:"items"`
		} `json:"artists"`
		Playlists struct {
			Items []tidalPlaylist `json:"items"`
		} `json:"playlists"`
	}
	if err := a.doRequest(ctx, http.MethodGet, endpoint, nil, &out); err != nil {
		return nil, err
	}

	results := &SearchResults{}
	for _, t := range out.Tracks.Items {
		results.Tracks = append(results.Tracks, formatTrack(t, ""))
	}
	for _, al := range out.Albums.Items {
		results.Albums = append(results.Albums, formatAlbum(al))
	}
	for _, ar := range out.Artists.Items {
		results.Artists = append(results.Artists, formatArtist(ar))
	}
	for _, p := range out.Playlists.Items {
		results.Playlists = append(results.Playlists, formatSearchPlaylist(p))
	}
	return results, nil
}

func (a *API) FavoriteTracks(ctx context.Context, limit, offset int) ([]models.Track, error) {
	endpoint := fmt.Sprintf("/users/%s/favorites/tracks?limit=%d&offset=%d&order=DATE&orderDirection=DESC",
		a.session.UserID, limit, offset)

	var out trackPage
	if err := a.doRequest(ctx, http.MethodGet, endpoint, nil, &out); err != nil {
		return nil, err
	}

	tracks := make([]models.Track, 0, len(out.Items))
	for _, it := range out.Items {
		tracks = append(tracks, formatTrack(it.Item, ""))
	}
	return tracks, nil
}

func (a *API) TrackRadio(ctx context.Context, trackID string, limit int) ([]models.Track, error) {
	endpoint := fmt.Sprintf("/tracks/%s/radio?limit=%d", url.PathEscape(trackID), limit)

	var out trackList
	if err := a.doRequest(ctx, http.MethodGet, endpoint, nil, &out); err != nil {
		return nil, err
	}

	tracks := make([]models.Track, 0, len(out.Items))
	for _, t := range out.Items {
		tracks = append(tracks, formatTrack(t, trackID))
	}
	return tracks, nil
}

func (a *API) Playlists(ctx context.Context) ([]models.Playlist, error) {
	endpoint := fmt.Sprintf("/users/%s/playlists", a.session.UserID)

	var out struct {
		Items []tidalPlaylist `json:"items"`
	}
	if err := a.doRequest(ctx, http.MethodGet, endpoint, nil, &out); err != nil {
		return nil, err
	}

	playlists := make([]models.Playlist, 0, len(out.Items))
	for _, p := range out.Items {
		playlists = append(playlists, formatPlaylist(p))
	}
	return playlists, nil
}

func (a *API) PlaylistTracks(ctx context.Context, playlistID string, limit, offset int) ([]models.Track, error) {
	endpoint := fmt.Sprintf("/playlists/%s/items?limit=%d&offset=%d",
		url.PathEscape(playlistID), limit, offset)

	var out trackPage
	if err := a.doRequest(ctx, http.MethodGet, endpoint, nil, &out); err != nil {
		return nil, err
	}

	tracks := make([]models.Track, 0, len(out.Items))
	for _, it := range out.Items {
		// Playlists may also hold videos; only tracks pass through.
		if it.Type != "" && it.Type != "track" {
			continue
		}
		tracks = append(tracks, formatTrack(it.Item, ""))
	}
	return tracks, nil
}

func (a *API) CreatePlaylist(ctx context.Context, title, description string) (*models.Playlist, error) {
	endpoint := fmt.Sprintf("/users/%s/playlists", a.session.UserID)
	form := url.Values{"title": {title}, "description": {description}}

	var out tidalPlaylist
	if err := a.doRequest(ctx, http.MethodPost, endpoint, form, &out); err != nil {
		return nil, err
	}

	pl := formatPlaylist(out)
	return &pl, nil
}

func (a *API) DeletePlaylist(ctx context.Context, playlistID string) error {
	endpoint := "/playlists/" + url.PathEscape(playlistID)
	return a.doRequest(ctx, http.MethodDelete, endpoint, nil, nil)
}

func (a *API) AddPlaylistTracks(ctx context.Context, playlistID string, trackIDs []string) error {
	endpoint := fmt.Sprintf("/playlists/%s/items", url.PathEscape(playlistID))
	form := url.Values{
		"trackIds": {strings.Join(trackIDs, ",")},
		"onDupes":  {"SKIP"},
	}
	return a.doRequest(ctx, http.MethodPost, endpoint, form, nil)
}

func (a *API) RemovePlaylistTrack(ctx context.Context, playlistID, trackID string) error {
	endpoint := fmt.Sprintf("/playlists/%s/tracks/%s",
		url.PathEscape(playlistID), url.PathEscape(trackID))
	return a.doRequest(ctx, http.MethodDelete, endpoint, nil, nil)
}

func (a *API) RemovePlaylistIndex(ctx context.Context, playlistID string, index int) error {
	endpoint := fmt.Sprintf("/playlists/%s/items/%d", url.PathEscape(playlistID), index)
	return a.doRequest(ctx, http.MethodDelete, endpoint, nil, nil)
}

func (a *API) MovePlaylistTrack(ctx context.Context, playlistID string, fromIndex, toIndex int) error {
	endpoint := fmt.Sprintf("/playlists/%s/items/%d", url.PathEscape(playlistID), fromIndex)
	form := url.Values{"toIndex": {strconv.Itoa(toIndex)}}
	return a.doRequest(ctx, http.MethodPost, endpoint, form, nil)
}

func (a *API) UpdatePlaylist(ctx context.Context, playlistID string, title, description *string) error {
	endpoint := "/playlists/" + url.PathEscape(playlistID)
	form := url.Values{}
	if title != nil {
		form.Set("title", *title)
	}
	if description != nil {
		form.Set("description", *description)
	}
	return a.doRequest(ctx, http.MethodPost, endpoint, form, nil)
}

// Formatting helpers — convert wire objects into the shared model shapes.

func formatTrack(t tidalTrack, sourceTrackID string) models.Track {
	artist := t.Artist.Name
	if artist == "" {
		artist = "Unknown"
	}
	album := t.Album.Title
	if album == "" {
		album = "Unknown"
	}
	id := t.ID.String()
	return models.Track{
		ID:            id,
		Title:         t.Title,
		Artist:        artist,
		Album:         album,
		Duration:      t.Duration,
		URL:           models.TrackURL(id),
		SourceTrackID: sourceTrackID,
	}
}

func formatAlbum(al tidalAlbum) models.Album {
	artist := al.Artist.Name
	if artist == "" {
		artist = "Unknown Artist"
	}
	var release *string
	if al.ReleaseDate != "" {
		release = &al.ReleaseDate
	}
	id := al.ID.String()
	return models.Album{
		ID:          id,
		Title:       al.Title,
		Artist:      artist,
		ReleaseDate: release,
		NumTracks:   al.NumberOfTracks,
		Duration:    al.Duration,
		Explicit:    al.Explicit,
		URL:         models.AlbumURL(id),
	}
}

func formatArtist(ar tidalArtist) models.Artist {
	id := ar.ID.String()
	return models.Artist{ID: id, Name: ar.Name, URL: models.ArtistURL(id)}
}

func formatPlaylist(p tidalPlaylist) models.Playlist {
	var created, updated *string
	if p.Created != "" {
		created = &p.Created
	}
	if p.LastUpdated != "" {
		updated = &p.LastUpdated
	}
	return models.Playlist{
		ID:          p.UUID,
		Title:       p.Title,
		Description: p.Description,
		Created:     created,
		LastUpdated: updated,
		TrackCount:  p.NumberOfTracks,
		Duration:    p.Duration,
		URL:         models.PlaylistURL(p.UUID),
	}
}

func formatSearchPlaylist(p tidalPlaylist) models.SearchPlaylist {
	creator := p.Creator.Name
	if creator == "" {
		creator = "Unknown"
	}
	var desc *string
	if p.Description != "" {
		desc = &p.Description
	}
	return models.SearchPlaylist{
		ID:          p.UUID,
		Title:       p.Title,
		Description: desc,
		Creator:     creator,
		NumTracks:   p.NumberOfTracks,
		Duration:    p.Duration,
		URL:         models.PlaylistURL(p.UUID),
	}
}
