package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/thalweg/tidalctl/internal/models"
	"github.com/thalweg/tidalctl/internal/routes"
	"github.com/thalweg/tidalctl/internal/shared"
	tu "github.com/thalweg/tidalctl/internal/testing"
	"github.com/thalweg/tidalctl/internal/tidal"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

func validSession() *tidal.Session {
	return &tidal.Session{
		Token: &oauth2.Token{
			AccessToken: "token",
			Expiry:      time.Now().Add(time.Hour),
		},
		UserID:      "42",
		CountryCode: "US",
	}
}

// newTestRunner builds a Runner whose service is backed by cat and an
// already-authenticated in-memory session store.
func newTestRunner(cat *tu.MockCatalog) (*Runner, *bytes.Buffer) {
	output := &bytes.Buffer{}
	logger := shared.NewLogger(output)
	store := &tu.MemStore{Session: validSession()}

	svc := routes.New(routes.Opts{
		Store:   store,
		Connect: func(*tidal.Session) tidal.Catalog { return cat },
		Logger:  logger,
	})

	runner := NewRunner(RunnerOpts{
		Config: shared.DefaultConfig(),
		Store:  store,
		Svc:    svc,
		Logger: logger,
		Output: output,
	})
	return runner, output
}

// run executes one CLI invocation against the runner's registered commands.
func run(t *testing.T, r *Runner, args ...string) error {
	t.Helper()
	app := &cli.Command{Name: "tidalctl", Commands: r.register()}
	return app.Run(context.Background(), append([]string{"tidalctl"}, args...))
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			store := &tu.MemStore{}

			runner := NewRunner(RunnerOpts{
				Config: config,
				Store:  store,
				Logger: logger,
				Output: output,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.store != store {
				t.Error("expected store to be set")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
			if runner.output == nil {
				t.Error("expected default output to be set")
			}
		})
	})

	t.Run("service", func(t *testing.T) {
		t.Run("without a configured client", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			if _, err := runner.service(); !errors.Is(err, shared.ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})

		t.Run("with a configured service", func(t *testing.T) {
			runner, _ := newTestRunner(&tu.MockCatalog{})

			if _, err := runner.service(); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	})
}

func TestPayloadErr(t *testing.T) {
	err := payloadErr(routes.Payload{"error": "title cannot be empty."}, 400)
	if !errors.Is(err, shared.ErrAPIRequest) {
		t.Errorf("expected ErrAPIRequest, got %v", err)
	}
	if !strings.Contains(err.Error(), "title cannot be empty.") {
		t.Errorf("error %q missing payload message", err)
	}
	if !strings.Contains(err.Error(), "400") {
		t.Errorf("error %q missing status code", err)
	}

	t.Run("missing error key", func(t *testing.T) {
		err := payloadErr(routes.Payload{}, 500)
		if !strings.Contains(err.Error(), "unknown error") {
			t.Errorf("error %q missing fallback message", err)
		}
	})
}

func TestTracksCommand(t *testing.T) {
	t.Run("lists favorites", func(t *testing.T) {
		cat := &tu.MockCatalog{
			FavoriteTracksFunc: func(ctx context.Context, limit, offset int) ([]models.Track, error) {
				if offset > 0 {
					return nil, nil
				}
				return []models.Track{
					{ID: "1", Title: "Song One", Artist: "Artist One", Album: "Album One", Duration: 187},
					{ID: "2", Title: "Song Two", Artist: "Artist Two", Duration: 240},
				}, nil
			},
		}
		runner, output := newTestRunner(cat)

		if err := run(t, runner, "tracks", "--limit", "2"); err != nil {
			t.Fatalf("tracks command failed: %v", err)
		}

		got := output.String()
		if !strings.Contains(got, "Artist One - Song One (Album One) [3:07]") {
			t.Errorf("output missing first track, got: %s", got)
		}
		if !strings.Contains(got, "Artist Two - Song Two [4:00]") {
			t.Errorf("output missing second track, got: %s", got)
		}
	})

	t.Run("json output", func(t *testing.T) {
		cat := &tu.MockCatalog{
			FavoriteTracksFunc: func(ctx context.Context, limit, offset int) ([]models.Track, error) {
				return nil, nil
			},
		}
		runner, output := newTestRunner(cat)

		if err := run(t, runner, "tracks", "--limit", "1", "--json"); err != nil {
			t.Fatalf("tracks command failed: %v", err)
		}
		if !strings.Contains(output.String(), `"tracks":[]`) {
			t.Errorf("expected empty JSON track list, got: %s", output.String())
		}
	})

	t.Run("without credentials", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

		if err := run(t, runner, "tracks"); !errors.Is(err, shared.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})
}

func TestAuthStatusCommand(t *testing.T) {
	t.Run("authenticated", func(t *testing.T) {
		runner, output := newTestRunner(&tu.MockCatalog{})

		if err := run(t, runner, "status"); err != nil {
			t.Fatalf("auth status failed: %v", err)
		}
		if !strings.Contains(output.String(), "Authenticated") {
			t.Errorf("expected authenticated output, got: %s", output.String())
		}
		if !strings.Contains(output.String(), "42") {
			t.Errorf("expected user id in output, got: %s", output.String())
		}
	})

	t.Run("not authenticated", func(t *testing.T) {
		output := &bytes.Buffer{}
		logger := shared.NewLogger(output)
		store := &tu.MemStore{}
		svc := routes.New(routes.Opts{
			Store:   store,
			Connect: func(*tidal.Session) tidal.Catalog { return &tu.MockCatalog{} },
			Logger:  logger,
		})
		runner := NewRunner(RunnerOpts{Svc: svc, Logger: logger, Output: output})

		if err := run(t, runner, "status"); err != nil {
			t.Fatalf("auth status failed: %v", err)
		}
		if !strings.Contains(output.String(), "Not authenticated") {
			t.Errorf("expected unauthenticated output, got: %s", output.String())
		}
	})
}

func TestPlaylistCommands(t *testing.T) {
	t.Run("list renders titles and ids", func(t *testing.T) {
		updated := "2026-08-01"
		cat := &tu.MockCatalog{
			PlaylistsFunc: func(ctx context.Context) ([]models.Playlist, error) {
				return []models.Playlist{
					{ID: "pl-1", Title: "Night Drive", TrackCount: 12, LastUpdated: &updated},
				}, nil
			},
		}
		runner, output := newTestRunner(cat)

		if err := run(t, runner, "playlist", "list"); err != nil {
			t.Fatalf("playlist list failed: %v", err)
		}
		got := output.String()
		if !strings.Contains(got, "Night Drive (12 tracks)") {
			t.Errorf("output missing playlist line, got: %s", got)
		}
		if !strings.Contains(got, "pl-1") {
			t.Errorf("output missing playlist id, got: %s", got)
		}
	})

	t.Run("create reports id and url", func(t *testing.T) {
		cat := &tu.MockCatalog{
			CreatePlaylistFunc: func(ctx context.Context, title, description string) (*models.Playlist, error) {
				return &models.Playlist{ID: "pl-9", Title: title, URL: models.PlaylistURL("pl-9")}, nil
			},
		}
		runner, output := newTestRunner(cat)

		if err := run(t, runner, "playlist", "create", "--title", "Mix"); err != nil {
			t.Fatalf("playlist create failed: %v", err)
		}
		if !strings.Contains(output.String(), "pl-9") {
			t.Errorf("output missing playlist id, got: %s", output.String())
		}
	})

	t.Run("remove surfaces validation errors", func(t *testing.T) {
		runner, _ := newTestRunner(&tu.MockCatalog{})

		err := run(t, runner, "playlist", "remove", "--id", "pl-1")
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Fatalf("expected ErrAPIRequest, got %v", err)
		}
		if !strings.Contains(err.Error(), "Must provide track_ids or indices.") {
			t.Errorf("error %q missing validation message", err)
		}
	})
}
