package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/thalweg/tidalctl/internal/auth"
	"github.com/thalweg/tidalctl/internal/repositories"
	"github.com/thalweg/tidalctl/internal/routes"
	"github.com/thalweg/tidalctl/internal/shared"
	"github.com/thalweg/tidalctl/internal/tidal"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config *shared.Config
	client *tidal.Client
	store  auth.Store
	coord  *auth.Coordinator
	svc    *routes.Service
	cache  *repositories.TrackRepository
	db     *sql.DB
	logger *log.Logger
	output io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config *shared.Config
	Client *tidal.Client
	Store  auth.Store
	Coord  *auth.Coordinator
	Svc    *routes.Service
	Cache  *repositories.TrackRepository
	DB     *sql.DB
	Logger *log.Logger
	Output io.Writer
}

// NewRunner creates a new Runner with the provided dependencies
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config: opts.Config,
		client: opts.Client,
		store:  opts.Store,
		coord:  opts.Coord,
		svc:    opts.Svc,
		cache:  opts.Cache,
		db:     opts.DB,
		logger: opts.Logger,
		output: opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, loginCommand, statusCommand, logoutCommand, tracksCommand, recommendCommand, searchCommand, playlistCommand, cacheCommand, serveCommand, mcpCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// service guards actions that need configured TIDAL credentials.
func (r *Runner) service() (*routes.Service, error) {
	if r.svc == nil {
		return nil, fmt.Errorf("%w: missing tidal.client_id, run 'tidalctl setup' and edit config.toml", shared.ErrInvalidConfig)
	}
	return r.svc, nil
}

// payloadErr converts a non-200 operation payload into a CLI error.
func payloadErr(payload routes.Payload, status int) error {
	msg, _ := payload["error"].(string)
	if msg == "" {
		msg = "unknown error"
	}
	return fmt.Errorf("%w: %s (status %d)", shared.ErrAPIRequest, msg, status)
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
