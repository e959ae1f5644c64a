// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/thalweg/tidalctl/internal/models"
	"github.com/thalweg/tidalctl/internal/tidal"
)

// MockCatalog is a test double for [tidal.Catalog]. Each method delegates to
// the matching function field when set and otherwise returns zero values.
type MockCatalog struct {
	SearchFunc              func(ctx context.Context, query string, limit int) (*tidal.SearchResults, error)
	FavoriteTracksFunc      func(ctx context.Context, limit, offset int) ([]models.Track, error)
	TrackRadioFunc          func(ctx context.Context, trackID string, limit int) ([]models.Track, error)
	PlaylistsFunc           func(ctx context.Context) ([]models.Playlist, error)
	PlaylistTracksFunc      func(ctx context.Context, playlistID string, limit, offset int) ([]models.Track, error)
	CreatePlaylistFunc      func(ctx context.Context, title, description string) (*models.Playlist, error)
	DeletePlaylistFunc      func(ctx context.Context, playlistID string) error
	AddPlaylistTracksFunc   func(ctx context.Context, playlistID string, trackIDs []string) error
	RemovePlaylistTrackFunc func(ctx context.Context, playlistID, trackID string) error
	RemovePlaylistIndexFunc func(ctx context.Context, playlistID string, index int) error
	MovePlaylistTrackFunc   func(ctx context.Context, playlistID string, fromIndex, toIndex int) error
	UpdatePlaylistFunc      func(ctx context.Context, playlistID string, title, description *string) error
}

func (m *MockCatalog) Search(ctx context.Context, query string, limit int) (*tidal.SearchResults, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, query, limit)
	}
	return &tidal.SearchResults{}, nil
}

func (m *MockCatalog) FavoriteTracks(ctx context.Context, limit, offset int) ([]models.Track, error) {
	if m.FavoriteTracksFunc != nil {
		return m.FavoriteTracksFunc(ctx, limit, offset)
	}
	return nil, nil
}

func (m *MockCatalog) TrackRadio(ctx context.Context, trackID string, limit int) ([]models.Track, error) {
	if m.TrackRadioFunc != nil {
		return m.TrackRadioFunc(ctx, trackID, limit)
	}
	return nil, nil
}

func (m *MockCatalog) Playlists(ctx context.Context) ([]models.Playlist, error) {
	if m.PlaylistsFunc != nil {
		return m.PlaylistsFunc(ctx)
	}
	return nil, nil
}

func (m *MockCatalog) PlaylistTracks(ctx context.Context, playlistID string, limit, offset int) ([]models.Track, error) {
	if m.PlaylistTracksFunc != nil {
		return m.PlaylistTracksFunc(ctx, playlistID, limit, offset)
	}
	return nil, nil
}

func (m *MockCatalog) CreatePlaylist(ctx context.Context, title, description string) (*models.Playlist, error) {
	if m.CreatePlaylistFunc != nil {
		return m.CreatePlaylistFunc(ctx, title, description)
	}
	return &models.Playlist{}, nil
}

func (m *MockCatalog) DeletePlaylist(ctx context.Context, playlistID string) error {
	if m.DeletePlaylistFunc != nil {
		return m.DeletePlaylistFunc(ctx, playlistID)
	}
	return nil
}

func (m *MockCatalog) AddPlaylistTracks(ctx context.Context, playlistID string, trackIDs []string) error {
	if m.AddPlaylistTracksFunc != nil {
		return m.AddPlaylistTracksFunc(ctx, playlistID, trackIDs)
	}
	return nil
}

func (m *MockCatalog) RemovePlaylistTrack(ctx context.Context, playlistID, trackID string) error {
	if m.RemovePlaylistTrackFunc != nil {
		return m.RemovePlaylistTrackFunc(ctx, playlistID, trackID)
	}
	return nil
}

func (m *MockCatalog) RemovePlaylistIndex(ctx context.Context, playlistID string, index int) error {
	if m.RemovePlaylistIndexFunc != nil {
		return m.RemovePlaylistIndexFunc(ctx, playlistID, index)
	}
	return nil
}

func (m *MockCatalog) MovePlaylistTrack(ctx context.Context, playlistID string, fromIndex, toIndex int) error {
	if m.MovePlaylistTrackFunc != nil {
		return m.MovePlaylistTrackFunc(ctx, playlistID, fromIndex, toIndex)
	}
	return nil
}

func (m *MockCatalog) UpdatePlaylist(ctx context.Context, playlistID string, title, description *string) error {
	if m.UpdatePlaylistFunc != nil {
		return m.UpdatePlaylistFunc(ctx, playlistID, title, description)
	}
	return nil
}

// MemStore is an in-memory session store for [auth.Store]. Load and Save
// errors can be injected per call site.
type MemStore struct {
	mu      sync.Mutex
	Session *tidal.Session
	LoadErr error
	SaveErr error
	Saves   int
}

func (s *MemStore) Load() (*tidal.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.LoadErr != nil {
		return nil, s.LoadErr
	}
	if s.Session == nil {
		return nil, errors.New("no session")
	}
	return s.Session, nil
}

func (s *MemStore) Save(sess *tidal.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Saves++
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.Session = sess
	return nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
