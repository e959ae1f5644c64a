package main

import (
	"context"
	"fmt"
	"time"

	"github.com/thalweg/tidalctl/internal/repositories"
	"github.com/thalweg/tidalctl/internal/shared"
	"github.com/thalweg/tidalctl/internal/ui"
	"github.com/urfave/cli/v3"
)

// repo guards cache actions against a missing or unconfigured cache database.
func (r *Runner) repo() (*repositories.TrackRepository, error) {
	if r.cache == nil {
		return nil, fmt.Errorf("%w: cache.path is not configured", shared.ErrInvalidConfig)
	}
	return r.cache, nil
}

// CacheTracks shows the most recently cached tracks.
func (r *Runner) CacheTracks(ctx context.Context, cmd *cli.Command) error {
	repo, err := r.repo()
	if err != nil {
		return err
	}

	tracks, err := repo.Recent(cmd.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to read cache: %w", err)
	}

	count, err := repo.Count()
	if err != nil {
		return fmt.Errorf("failed to count cache: %w", err)
	}

	r.writePlain("%s\n", ui.Title(fmt.Sprintf("Cached Tracks (%d total)", count)))
	if len(tracks) == 0 {
		r.writePlain("Cache is empty.\n")
		return nil
	}
	r.printTracks(tracks)
	return nil
}

// CacheSearch searches cached tracks by artist name.
func (r *Runner) CacheSearch(ctx context.Context, cmd *cli.Command) error {
	repo, err := r.repo()
	if err != nil {
		return err
	}

	artist := cmd.StringArg("artist")
	if artist == "" {
		return fmt.Errorf("%w: artist", shared.ErrMissingArgument)
	}

	tracks, err := repo.SearchByArtist(artist, cmd.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to search cache: %w", err)
	}

	r.writePlain("%s\n", ui.Title(fmt.Sprintf("Cached tracks by %q", artist)))
	if len(tracks) == 0 {
		r.writePlain("No matches in cache.\n")
		return nil
	}
	r.printTracks(tracks)
	return nil
}

// CachePrune deletes cache entries older than the given number of days.
func (r *Runner) CachePrune(ctx context.Context, cmd *cli.Command) error {
	repo, err := r.repo()
	if err != nil {
		return err
	}

	days := cmd.Int("days")
	if days < 0 {
		return fmt.Errorf("%w: days must be non-negative", shared.ErrInvalidInput)
	}

	cutoff := time.Now().AddDate(0, 0, -days)
	pruned, err := repo.Prune(cutoff)
	if err != nil {
		return fmt.Errorf("failed to prune cache: %w", err)
	}

	r.logger.Info("cache pruned", "removed", pruned, "older_than_days", days)
	return r.writePlain("%s\n", ui.Ok(fmt.Sprintf("✓ Pruned %d entries", pruned)))
}
