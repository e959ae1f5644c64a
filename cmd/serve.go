package main

import (
	"context"

	"github.com/thalweg/tidalctl/internal/mcpserver"
	"github.com/thalweg/tidalctl/internal/server"
	"github.com/urfave/cli/v3"
)

// Serve runs the HTTP API until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.service()
	if err != nil {
		return err
	}

	cfg := r.config.Server
	if host := cmd.String("host"); host != "" {
		cfg.Host = host
	}
	if port := cmd.Int("port"); port != 0 {
		cfg.Port = port
	}

	router := server.NewBasicRouter()
	router.Use(server.RequestID(), server.Logging(r.logger))
	router.Handler(server.HealthHandler{})

	api := server.NewAPI(svc, r.cache, r.logger)
	api.Register(router)

	return server.Serve(ctx, cfg, router, r.logger)
}

// MCP serves the gateway's tools over an MCP stdio transport. Output on
// stdout belongs to the protocol; all logging goes to stderr.
func (r *Runner) MCP(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.service()
	if err != nil {
		return err
	}

	srv := mcpserver.New(svc, r.logger, "tidalctl", cmd.Root().Version)
	return srv.ListenAndServe(ctx)
}
