package main

import (
	"context"
	"fmt"
	"os"

	"github.com/thalweg/tidalctl/internal/repositories"
	"github.com/thalweg/tidalctl/internal/shared"
	"github.com/thalweg/tidalctl/internal/ui"
	"github.com/urfave/cli/v3"
)

// Setup creates a config file from the embedded template and initializes the
// track cache database.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	var config *shared.Config
	if _, err := os.Stat(configPath); err == nil {
		if config, err = shared.LoadConfig(configPath); err != nil {
			r.logger.Warn("failed to load config, using defaults", "error", err)
			config = shared.DefaultConfig()
		}
	} else {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			r.logger.Warn("failed to create config file, using defaults", "error", err)
			config = shared.DefaultConfig()
		} else {
			r.logger.Info("config file created", "path", configPath)
			if config, err = shared.LoadConfig(configPath); err != nil {
				r.logger.Warn("failed to load created config, using defaults", "error", err)
				config = shared.DefaultConfig()
			}
		}
	}

	if config.Cache.Path == "" {
		r.writePlain("%s\n", ui.Warn("cache.path is empty, skipping cache setup"))
	} else {
		r.logger.Info("initializing track cache", "path", config.Cache.Path)

		db, err := shared.NewDatabase(config.Cache.Path)
		if err != nil {
			return fmt.Errorf("failed to create cache database: %w", err)
		}
		defer db.Close()

		if err := repositories.Migrate(db); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		r.logger.Infof("cache ready at %v", config.Cache.Path)
	}

	r.writePlain("%s\n", ui.Ok("✓ Setup complete"))
	r.writePlain("Next steps:\n")
	r.writePlain("1. Add your TIDAL client_id to %s\n", configPath)
	r.writePlain("2. Run 'tidalctl auth login' to authenticate\n")
	return nil
}
