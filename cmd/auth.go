package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/thalweg/tidalctl/internal/shared"
	"github.com/thalweg/tidalctl/internal/ui"
	"github.com/urfave/cli/v3"
)

const loginPollInterval = 2 * time.Second

// AuthLogin drives the device-authorization flow end to end: it starts a
// login, shows (and optionally opens) the authorization link, then polls
// until the user approves or the link expires.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.service()
	if err != nil {
		return err
	}

	payload, status := svc.LoginStart(ctx)
	if status != http.StatusOK {
		return payloadErr(payload, status)
	}

	if payload["status"] == "success" {
		userID, _ := payload["user_id"].(string)
		r.writePlain("%s\n", ui.Ok("✓ Already logged in"))
		if userID != "" {
			r.writePlain("User ID: %s\n", userID)
		}
		return nil
	}

	authURL, _ := payload["auth_url"].(string)
	expiresIn, _ := payload["expires_in"].(int)
	if authURL == "" {
		return fmt.Errorf("%w: login did not produce an authorization URL", shared.ErrAuthFailed)
	}

	r.writePlain("%s\n", ui.Title("TIDAL Login"))
	r.writePlain("Open this link and approve the login:\n\n  %s\n\n", authURL)
	r.writePlain("%s\n", ui.Help(fmt.Sprintf("The link expires in %d seconds.", expiresIn)))

	if !cmd.Bool("no-browser") {
		if err := shared.OpenBrowser(authURL); err != nil {
			r.logger.Debug("could not open browser", "error", err)
		}
	}

	return r.waitForLogin(ctx, expiresIn)
}

// waitForLogin polls the pending login until it resolves.
func (r *Runner) waitForLogin(ctx context.Context, expiresIn int) error {
	if expiresIn <= 0 {
		expiresIn = 300
	}
	deadline := time.Now().Add(time.Duration(expiresIn) * time.Second)

	ticker := time.NewTicker(loginPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		if time.Now().After(deadline) {
			return fmt.Errorf("%w: authorization link expired", shared.ErrAuthFailed)
		}

		payload, status := r.svc.LoginPoll(ctx)
		if payload["status"] == "pending" {
			continue
		}
		if status != http.StatusOK {
			return payloadErr(payload, status)
		}

		userID, _ := payload["user_id"].(string)
		r.writePlain("%s\n", ui.Ok("✓ Login successful"))
		if userID != "" {
			r.writePlain("User ID: %s\n", userID)
		}
		return nil
	}
}

// AuthStatus shows whether a valid session exists.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.service()
	if err != nil {
		return err
	}

	payload, _ := svc.AuthStatus()
	if authed, _ := payload["authenticated"].(bool); authed {
		r.writePlain("%s\n", ui.Ok("✓ Authenticated"))
		if userID, _ := payload["user_id"].(string); userID != "" {
			r.writePlain("User ID: %s\n", userID)
		}
		if cc, _ := payload["country_code"].(string); cc != "" {
			r.writePlain("Country: %s\n", cc)
		}
		return nil
	}

	r.writePlain("%s\n", ui.Warn("✗ Not authenticated"))
	r.writePlain("%s\n", ui.Help("Run 'tidalctl auth login' to log in."))
	return nil
}

// AuthLogout deletes the persisted session file.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	path := r.config.SessionPath()
	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			r.writePlain("No session to remove.\n")
			return nil
		}
		return fmt.Errorf("failed to remove session file: %w", err)
	}

	r.logger.Info("session removed", "path", path)
	return r.writePlain("%s\n", ui.Ok("✓ Logged out"))
}
