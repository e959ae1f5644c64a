package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Authentication errors
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrNoLogin          = fmt.Errorf("no login in progress")
	ErrSessionCorrupt   = fmt.Errorf("session file corrupt")
	ErrSessionSave      = fmt.Errorf("failed to save session")

	// API and service errors
	ErrAPIRequest       = fmt.Errorf("API request failed")
	ErrPlaylistNotFound = fmt.Errorf("playlist not found")
	ErrTrackNotFound    = fmt.Errorf("track not found")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
)
