package tidal

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/thalweg/tidalctl/internal/shared"
	"golang.org/x/oauth2"
)

func testClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	c, err := NewClient(ClientOpts{
		Config: &shared.Config{
			Tidal: shared.TidalConfig{
				ClientID:    "test-client",
				APIBaseURL:  baseURL,
				AuthBaseURL: "https://auth.example.com/v1/oauth2",
				RateLimit:   1000,
			},
		},
	})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	return c
}

func authedSession() *Session {
	return &Session{
		Token: &oauth2.Token{
			AccessToken: "test-token",
			Expiry:      time.Now().Add(time.Hour),
		},
		UserID:      "42",
		CountryCode: "US",
	}
}

func TestAPI(t *testing.T) {
	ctx := context.Background()

	t.Run("Request Carries Auth And Country Code", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
				t.Errorf("expected bearer token, got %q", got)
			}
			if got := r.URL.Query().Get("countryCode"); got != "US" {
				t.Errorf("expected countryCode US, got %q", got)
			}
			json.NewEncoder(w).Encode(map[string]any{"items": []any{}})
		}))
		defer server.Close()

		cat := testClient(t, server.URL).Bind(authedSession())
		if _, err := cat.Playlists(ctx); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("Unauthorized Maps To ErrNotAuthenticated", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		cat := testClient(t, server.URL).Bind(authedSession())
		_, err := cat.Playlists(ctx)
		if !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})

	t.Run("Server Error Maps To ErrAPIRequest", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		cat := testClient(t, server.URL).Bind(authedSession())
		_, err := cat.FavoriteTracks(ctx, 10, 0)
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})

	t.Run("FavoriteTracks Formats Items", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/users/42/favorites/tracks" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			q := r.URL.Query()
			if q.Get("limit") != "10" || q.Get("offset") != "20" {
				t.Errorf("unexpected paging params %v", q)
			}
			json.NewEncoder(w).Encode(map[string]any{
				"items": []map[string]any{
					{"type": "track", "item": map[string]any{
						"id":       12345,
						"title":    "Song",
						"duration": 200,
						"artist":   map[string]any{"id": 1, "name": "Band"},
						"album":    map[string]any{"id": 2, "title": "Record"},
					}},
				},
			})
		}))
		defer server.Close()

		cat := testClient(t, server.URL).Bind(authedSession())
		tracks, err := cat.FavoriteTracks(ctx, 10, 20)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(tracks) != 1 {
			t.Fatalf("expected 1 track, got %d", len(tracks))
		}
		tr := tracks[0]
		if tr.ID != "12345" || tr.Title != "Song" || tr.Artist != "Band" || tr.Album != "Record" {
			t.Errorf("unexpected track %+v", tr)
		}
		if tr.URL != "https://tidal.com/browse/track/12345?u" {
			t.Errorf("unexpected URL %s", tr.URL)
		}
	})

	t.Run("Missing Names Fall Back To Unknown", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{
				"items": []map[string]any{
					{"id": 9, "title": "Orphan"},
				},
			})
		}))
		defer server.Close()

		cat := testClient(t, server.URL).Bind(authedSession())
		tracks, err := cat.TrackRadio(ctx, "1", 10)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if tracks[0].Artist != "Unknown" || tracks[0].Album != "Unknown" {
			t.Errorf("expected Unknown fallbacks, got %+v", tracks[0])
		}
		if tracks[0].SourceTrackID != "1" {
			t.Errorf("expected seed id stamped, got %q", tracks[0].SourceTrackID)
		}
	})

	t.Run("PlaylistTracks Skips Videos", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{
				"items": []map[string]any{
					{"type": "track", "item": map[string]any{"id": 1, "title": "Keep"}},
					{"type": "video", "item": map[string]any{"id": 2, "title": "Drop"}},
				},
			})
		}))
		defer server.Close()

		cat := testClient(t, server.URL).Bind(authedSession())
		tracks, err := cat.PlaylistTracks(ctx, "uuid-1", 50, 0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(tracks) != 1 || tracks[0].Title != "Keep" {
			t.Errorf("expected only the track to survive, got %v", tracks)
		}
	})

	t.Run("CreatePlaylist Posts Form", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				t.Errorf("expected POST, got %s", r.Method)
			}
			if err := r.ParseForm(); err != nil {
				t.Fatalf("bad form: %v", err)
			}
			if r.PostForm.Get("title") != "Mix" || r.PostForm.Get("description") != "desc" {
				t.Errorf("unexpected form %v", r.PostForm)
			}
			json.NewEncoder(w).Encode(map[string]any{
				"uuid": "new-uuid", "title": "Mix", "numberOfTracks": 0,
			})
		}))
		defer server.Close()

		cat := testClient(t, server.URL).Bind(authedSession())
		pl, err := cat.CreatePlaylist(ctx, "Mix", "desc")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if pl.ID != "new-uuid" {
			t.Errorf("expected new-uuid, got %s", pl.ID)
		}
		if pl.URL != "https://tidal.com/browse/playlist/new-uuid?u" {
			t.Errorf("unexpected URL %s", pl.URL)
		}
	})

	t.Run("AddPlaylistTracks Joins IDs", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.ParseForm()
			if r.PostForm.Get("trackIds") != "1,2,3" {
				t.Errorf("expected joined ids, got %q", r.PostForm.Get("trackIds"))
			}
			if r.PostForm.Get("onDupes") != "SKIP" {
				t.Errorf("expected onDupes SKIP, got %q", r.PostForm.Get("onDupes"))
			}
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		cat := testClient(t, server.URL).Bind(authedSession())
		if err := cat.AddPlaylistTracks(ctx, "uuid-1", []string{"1", "2", "3"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("MovePlaylistTrack Sends Target Index", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/playlists/uuid-1/items/5" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			r.ParseForm()
			if r.PostForm.Get("toIndex") != "2" {
				t.Errorf("expected toIndex 2, got %q", r.PostForm.Get("toIndex"))
			}
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		cat := testClient(t, server.URL).Bind(authedSession())
		if err := cat.MovePlaylistTrack(ctx, "uuid-1", 5, 2); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("Search Splits Sections", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("query"); got != "nina simone" {
				t.Errorf("unexpected query %q", got)
			}
			json.NewEncoder(w).Encode(map[string]any{
				"tracks":    map[string]any{"items": []map[string]any{{"id": 1, "title": "T"}}},
				"albums":    map[string]any{"items": []map[string]any{{"id": 2, "title": "A"}}},
				"artists":   map[string]any{"items": []map[string]any{{"id": 3, "name": "N"}}},
				"playlists": map[string]any{"items": []map[string]any{{"uuid": "u4", "title": "P"}}},
			})
		}))
		defer server.Close()

		cat := testClient(t, server.URL).Bind(authedSession())
		res, err := cat.Search(ctx, "nina simone", 10)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(res.Tracks) != 1 || len(res.Albums) != 1 || len(res.Artists) != 1 || len(res.Playlists) != 1 {
			t.Errorf("expected one item per section, got %+v", res)
		}
		if res.Playlists[0].Creator != "Unknown" {
			t.Errorf("expected Unknown creator fallback, got %q", res.Playlists[0].Creator)
		}
	})
}

func TestSessionFile(t *testing.T) {
	t.Run("Round Trip", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "session.json")
		want := authedSession()
		want.Username = "listener"

		if err := SaveSessionFile(want, path); err != nil {
			t.Fatalf("save failed: %v", err)
		}
		got, err := LoadSessionFile(path)
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}
		if got.UserID != "42" || got.Username != "listener" || got.CountryCode != "US" {
			t.Errorf("unexpected session %+v", got)
		}
		if !got.IsValid() {
			t.Error("expected restored session to be valid")
		}
	})

	t.Run("Missing File", func(t *testing.T) {
		if _, err := LoadSessionFile(filepath.Join(t.TempDir(), "absent.json")); err == nil {
			t.Error("expected an error for a missing file")
		}
	})

	t.Run("Corrupt Blob", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "session.json")
		writeFile(t, path, "{not json")

		_, err := LoadSessionFile(path)
		if !errors.Is(err, shared.ErrSessionCorrupt) {
			t.Errorf("expected ErrSessionCorrupt, got %v", err)
		}
	})

	t.Run("Token Missing", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "session.json")
		writeFile(t, path, `{"user_id": "42"}`)

		_, err := LoadSessionFile(path)
		if !errors.Is(err, shared.ErrSessionCorrupt) {
			t.Errorf("expected ErrSessionCorrupt, got %v", err)
		}
	})

	t.Run("FileStore Round Trip", func(t *testing.T) {
		store := FileStore{Path: filepath.Join(t.TempDir(), "s.json")}
		if err := store.Save(authedSession()); err != nil {
			t.Fatalf("save failed: %v", err)
		}
		got, err := store.Load()
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}
		if got.UserID != "42" {
			t.Errorf("unexpected session %+v", got)
		}
	})
}

func TestSessionIsValid(t *testing.T) {
	cases := []struct {
		name string
		sess *Session
		want bool
	}{
		{"Nil Session", nil, false},
		{"No Token", &Session{UserID: "42"}, false},
		{"Expired Token", &Session{
			Token:  &oauth2.Token{AccessToken: "t", Expiry: time.Now().Add(-time.Minute)},
			UserID: "42",
		}, false},
		{"No User", &Session{
			Token: &oauth2.Token{AccessToken: "t", Expiry: time.Now().Add(time.Hour)},
		}, false},
		{"Valid", &Session{
			Token:  &oauth2.Token{AccessToken: "t", Expiry: time.Now().Add(time.Hour)},
			UserID: "42",
		}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.sess.IsValid(); got != tc.want {
				t.Errorf("IsValid() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestEnsureHTTPS(t *testing.T) {
	cases := []struct{ in, want string }{
		{"link.tidal.com/ABCDE", "https://link.tidal.com/ABCDE"},
		{"https://link.tidal.com/ABCDE", "https://link.tidal.com/ABCDE"},
		{"http://link.tidal.com/ABCDE", "http://link.tidal.com/ABCDE"},
	}
	for _, tc := range cases {
		if got := ensureHTTPS(tc.in); got != tc.want {
			t.Errorf("ensureHTTPS(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestDevEndpoint(t *testing.T) {
	ep := devEndpoint("https://auth.tidal.com/v1/oauth2/")
	if ep.DeviceAuthURL != "https://auth.tidal.com/v1/oauth2/device_authorization" {
		t.Errorf("unexpected device auth URL %s", ep.DeviceAuthURL)
	}
	if ep.TokenURL != "https://auth.tidal.com/v1/oauth2/token" {
		t.Errorf("unexpected token URL %s", ep.TokenURL)
	}
}

func TestHandshake(t *testing.T) {
	t.Run("Unresolved", func(t *testing.T) {
		h := NewHandshake()
		if h.Done() {
			t.Error("expected not done")
		}
		if h.Err() != nil {
			t.Error("expected nil error before resolution")
		}
	})

	t.Run("Resolved With Error", func(t *testing.T) {
		h := NewHandshake()
		h.Complete(errors.New("declined"))
		if !h.Done() {
			t.Error("expected done")
		}
		if h.Err() == nil || h.Err().Error() != "declined" {
			t.Errorf("unexpected error %v", h.Err())
		}
	})

	t.Run("Readable From Many Goroutines", func(t *testing.T) {
		h := NewHandshake()
		done := make(chan bool, 10)
		for i := 0; i < 10; i++ {
			go func() {
				for !h.Done() {
					time.Sleep(time.Millisecond)
				}
				done <- h.Err() == nil
			}()
		}
		h.Complete(nil)
		for i := 0; i < 10; i++ {
			if !<-done {
				t.Fatal("reader observed a non-nil error")
			}
		}
	})
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write failed: %v", err)
	}
}
