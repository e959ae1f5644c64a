package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/thalweg/tidalctl/internal/auth"
	"github.com/thalweg/tidalctl/internal/models"
	"github.com/thalweg/tidalctl/internal/routes"
	"github.com/thalweg/tidalctl/internal/shared"
	tu "github.com/thalweg/tidalctl/internal/testing"
	"github.com/thalweg/tidalctl/internal/tidal"
	"golang.org/x/oauth2"
)

func testRouter(cat tidal.Catalog) *BasicRouter {
	logger := shared.NewLogger(io.Discard)
	store := &tu.MemStore{Session: &tidal.Session{
		Token:  &oauth2.Token{AccessToken: "tok", Expiry: time.Now().Add(time.Hour)},
		UserID: "42",
	}}
	svc := routes.New(routes.Opts{
		Store:   store,
		Connect: func(*tidal.Session) tidal.Catalog { return cat },
		Logger:  logger,
	})

	r := NewBasicRouter()
	r.Use(RequestID())
	NewAPI(svc, nil, logger).Register(r)
	r.Handler(HealthHandler{})
	return r
}

type noBeginner struct{}

func (noBeginner) BeginDeviceAuth(context.Context) (*tidal.Login, error) {
	return nil, errors.New("not configured")
}

func newPollCoordinator(store auth.Store) *auth.Coordinator {
	return auth.NewCoordinator(noBeginner{}, store, shared.NewLogger(io.Discard))
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return out
}

func TestBasicRouter(t *testing.T) {
	t.Run("Method Filtering", func(t *testing.T) {
		r := NewBasicRouter()
		r.Handle(http.MethodGet, "/only-get", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/only-get", nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", rec.Code)
		}
		if rec.Header().Get("Allow") != http.MethodGet {
			t.Errorf("expected Allow header, got %q", rec.Header().Get("Allow"))
		}
	})

	t.Run("Middleware Order", func(t *testing.T) {
		var order []string
		mw := func(name string) Middleware {
			return func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					order = append(order, name)
					next.ServeHTTP(w, r)
				})
			}
		}

		r := NewBasicRouter()
		r.Use(mw("first"), mw("second"))
		r.Handle(http.MethodGet, "/", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))

		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		if len(order) != 2 || order[0] != "first" || order[1] != "second" {
			t.Errorf("expected [first second], got %v", order)
		}
	})

	t.Run("Request ID Assigned", func(t *testing.T) {
		r := NewBasicRouter()
		r.Use(RequestID())
		r.Handle(http.MethodGet, "/", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Header().Get(RequestIDHeader) == "" {
			t.Error("expected a generated request id")
		}
	})

	t.Run("Request ID Preserved", func(t *testing.T) {
		r := NewBasicRouter()
		r.Use(RequestID())
		r.Handle(http.MethodGet, "/", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "caller-id")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if got := rec.Header().Get(RequestIDHeader); got != "caller-id" {
			t.Errorf("expected caller-id echoed, got %q", got)
		}
	})
}

func TestAPIEndpoints(t *testing.T) {
	t.Run("Health", func(t *testing.T) {
		r := testRouter(&tu.MockCatalog{})
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if decode(t, rec)["status"] != "ok" {
			t.Error("expected status ok")
		}
	})

	t.Run("User Tracks", func(t *testing.T) {
		cat := &tu.MockCatalog{
			FavoriteTracksFunc: func(_ context.Context, limit, offset int) ([]models.Track, error) {
				if offset > 0 {
					return nil, nil
				}
				return []models.Track{{ID: "1", Title: "Song", Artist: "Band"}}, nil
			},
		}
		r := testRouter(cat)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tracks?limit=5", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
		}
		tracks := decode(t, rec)["tracks"].([]any)
		if len(tracks) != 1 {
			t.Errorf("expected 1 track, got %d", len(tracks))
		}
	})

	t.Run("Create Playlist Validates Title", func(t *testing.T) {
		r := testRouter(&tu.MockCatalog{})
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/playlists", strings.NewReader(`{"title": ""}`))
		r.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		if !strings.Contains(decode(t, rec)["error"].(string), "title") {
			t.Error("expected a title validation error")
		}
	})

	t.Run("Malformed Body Returns 400", func(t *testing.T) {
		r := testRouter(&tu.MockCatalog{})
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/playlists", strings.NewReader(`{not json`))
		r.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("Playlist Path Value Flows Through", func(t *testing.T) {
		var gotID string
		cat := &tu.MockCatalog{
			DeletePlaylistFunc: func(_ context.Context, playlistID string) error {
				gotID = playlistID
				return nil
			},
		}
		r := testRouter(cat)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/playlists/uuid-9", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
		}
		if gotID != "uuid-9" {
			t.Errorf("expected playlist id from path, got %q", gotID)
		}
	})

	t.Run("Search Requires Query", func(t *testing.T) {
		r := testRouter(&tu.MockCatalog{})
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/search", nil))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("Login Poll Without Login", func(t *testing.T) {
		logger := shared.NewLogger(io.Discard)
		store := &tu.MemStore{}
		svc := routes.New(routes.Opts{
			Coordinator: newPollCoordinator(store),
			Store:       store,
			Connect:     func(*tidal.Session) tidal.Catalog { return &tu.MockCatalog{} },
			Logger:      logger,
		})
		r := NewBasicRouter()
		NewAPI(svc, nil, logger).Register(r)

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/login/poll", nil))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}
