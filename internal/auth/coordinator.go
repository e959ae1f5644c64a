// package auth coordinates the TIDAL device-authorization flow.
//
// The coordinator owns the one piece of mutable process-wide state: the
// in-flight login attempt. Begin and Poll are safe to call concurrently and
// repeatedly; only the most recent Begin matters (last-writer-wins), and a
// resolved attempt is observed and cleared in a single critical section so
// two racing pollers can never both consume it.
package auth

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/thalweg/tidalctl/internal/shared"
	"github.com/thalweg/tidalctl/internal/tidal"
)

// Beginner starts a device-authorization handshake. *tidal.Client satisfies it.
type Beginner interface {
	BeginDeviceAuth(ctx context.Context) (*tidal.Login, error)
}

// Store persists and restores the session handle. tidal.FileStore satisfies it.
type Store interface {
	Load() (*tidal.Session, error)
	Save(*tidal.Session) error
}

// State is the outcome class of a Begin or Poll call.
type State string

const (
	StateSuccess State = "success"
	StatePending State = "pending"
	StateError   State = "error"
)

// Status is the result of one coordinator operation.
type Status struct {
	State     State
	Message   string
	URL       string
	ExpiresIn int
	UserID    string
	Err       error
}

// pendingLogin is the single in-flight attempt. At most one exists; a new
// Begin silently discards any unresolved predecessor, whose handshake then
// resolves into a handle nobody reads.
type pendingLogin struct {
	handshake *tidal.Handshake
	session   *tidal.Session
	url       string
	expiresIn int
}

// Coordinator guards the pending-login slot behind a mutex. The lock is held
// only for in-memory state transitions, never across session file I/O.
type Coordinator struct {
	mu      sync.Mutex
	pending *pendingLogin

	begin  Beginner
	store  Store
	logger *log.Logger
}

// NewCoordinator creates a Coordinator.
func NewCoordinator(begin Beginner, store Store, logger *log.Logger) *Coordinator {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Coordinator{begin: begin, store: store, logger: logger}
}

// Begin starts the login flow without blocking.
//
// A valid persisted session short-circuits to success and touches no pending
// state. Otherwise a fresh handshake is started; failure to even start is
// returned as an error with nothing installed, and success installs the new
// pending attempt, replacing any prior one.
func (c *Coordinator) Begin(ctx context.Context) Status {
	if sess, err := c.store.Load(); err == nil && sess.IsValid() {
		return Status{
			State:   StateSuccess,
			Message: "Already authenticated with TIDAL",
			UserID:  sess.UserID,
		}
	}

	login, err := c.begin.BeginDeviceAuth(ctx)
	if err != nil {
		return Status{
			State:   StateError,
			Message: fmt.Sprintf("Failed to initiate TIDAL login: %v", err),
			Err:     err,
		}
	}

	c.mu.Lock()
	if c.pending != nil {
		c.logger.Debug("discarding previous pending login attempt")
	}
	c.pending = &pendingLogin{
		handshake: login.Handshake,
		session:   login.Session,
		url:       login.URL,
		expiresIn: login.ExpiresIn,
	}
	c.mu.Unlock()

	return Status{
		State:     StatePending,
		Message:   "Authorization required. Please open the URL in your browser.",
		URL:       login.URL,
		ExpiresIn: login.ExpiresIn,
	}
}

// Poll checks whether the user has completed authorization.
//
// Observation and clearing of a resolved attempt happen in one critical
// section: exactly one poller consumes the terminal state, and a later Begin
// cannot interleave with the clear. Session persistence runs after the lock
// is released; if it fails the login itself stands, but the caller is told so
// the save can be retried.
func (c *Coordinator) Poll(ctx context.Context) Status {
	c.mu.Lock()
	state := c.pending

	if state == nil {
		c.mu.Unlock()
		// No login in progress — another process may have persisted a
		// session in the meantime.
		if sess, err := c.store.Load(); err == nil && sess.IsValid() {
			return Status{
				State:   StateSuccess,
				Message: "Already authenticated with TIDAL",
				UserID:  sess.UserID,
			}
		}
		return Status{
			State:   StateError,
			Message: "No login in progress. Start a login first.",
			Err:     shared.ErrNoLogin,
		}
	}

	if !state.handshake.Done() {
		c.mu.Unlock()
		return Status{
			State:   StatePending,
			Message: "Waiting for user to authorize in browser.",
		}
	}

	// Resolved — read the outcome and clear the slot under the same lock.
	err := state.handshake.Err()
	c.pending = nil
	c.mu.Unlock()

	if err != nil {
		return Status{
			State:   StateError,
			Message: fmt.Sprintf("Authorization failed: %v", err),
			Err:     err,
		}
	}

	if err := c.store.Save(state.session); err != nil {
		return Status{
			State:   StateError,
			Message: fmt.Sprintf("Login succeeded but failed to save session: %v", err),
			UserID:  state.session.UserID,
			Err:     err,
		}
	}

	return Status{
		State:   StateSuccess,
		Message: "Successfully authenticated with TIDAL",
		UserID:  state.session.UserID,
	}
}

// Current returns the persisted session when it exists and is valid.
func (c *Coordinator) Current() (*tidal.Session, error) {
	sess, err := c.store.Load()
	if err != nil {
		return nil, err
	}
	if !sess.IsValid() {
		return nil, shared.ErrNotAuthenticated
	}
	return sess, nil
}
