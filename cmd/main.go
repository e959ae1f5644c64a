package main

import (
	"context"
	"database/sql"
	"os"

	"github.com/thalweg/tidalctl/internal/auth"
	"github.com/thalweg/tidalctl/internal/repositories"
	"github.com/thalweg/tidalctl/internal/routes"
	"github.com/thalweg/tidalctl/internal/shared"
	"github.com/thalweg/tidalctl/internal/tidal"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	store := tidal.FileStore{Path: config.SessionPath()}

	var client *tidal.Client
	var coord *auth.Coordinator
	if c, err := tidal.NewClient(tidal.ClientOpts{Config: config, Logger: logger}); err == nil {
		client = c
		coord = auth.NewCoordinator(client, store, logger)
	} else {
		// Credentials are optional until a command actually talks to TIDAL.
		logger.Debug("tidal client unavailable", "error", err)
	}

	var db *sql.DB
	var cacheRepo *repositories.TrackRepository
	if config.Cache.Path != "" {
		if d, err := shared.NewDatabase(config.Cache.Path); err == nil {
			if err := repositories.Migrate(d); err == nil {
				db = d
				cacheRepo = repositories.NewTrackRepository(d)
			} else {
				logger.Warn("cache migration failed", "error", err)
				d.Close()
			}
		} else {
			logger.Warn("track cache unavailable", "error", err)
		}
	}
	if db != nil {
		defer db.Close()
	}

	var svc *routes.Service
	if client != nil {
		opts := routes.Opts{
			Coordinator: coord,
			Store:       store,
			Connect:     func(s *tidal.Session) tidal.Catalog { return client.Bind(s) },
			Logger:      logger,
			PageSize:    config.Fetch.PageSize,
			MaxPages:    config.Fetch.MaxPages,
		}
		if cacheRepo != nil {
			opts.Cache = cacheRepo
		}
		svc = routes.New(opts)
	}

	runner := NewRunner(RunnerOpts{
		Config: config,
		Client: client,
		Store:  store,
		Coord:  coord,
		Svc:    svc,
		Cache:  cacheRepo,
		DB:     db,
		Logger: logger,
		Output: os.Stdout,
	})

	app := &cli.Command{
		Name:     "tidalctl",
		Usage:    "Browse TIDAL favorites, recommendations, playlists and search from the terminal",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
