package tidal

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/thalweg/tidalctl/internal/shared"
	"golang.org/x/oauth2"
)

// Handshake is the completion handle for one device-authorization attempt.
// It resolves exactly once, from the background goroutine polling the token
// endpoint; any number of readers may observe it without blocking.
type Handshake struct {
	done chan struct{}
	err  error
}

// NewHandshake creates an unresolved Handshake.
func NewHandshake() *Handshake {
	return &Handshake{done: make(chan struct{})}
}

// Complete resolves the handshake. Called exactly once by whoever created it;
// err is written before done closes, so readers that observed Done() == true
// see a consistent value.
func (h *Handshake) Complete(err error) {
	h.err = err
	close(h.done)
}

// Done reports whether the attempt has resolved, without blocking.
func (h *Handshake) Done() bool {
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}

// Err returns the resolution error. Only meaningful once Done reports true.
func (h *Handshake) Err() error {
	select {
	case <-h.done:
		return h.err
	default:
		return nil
	}
}

// Login is everything a caller needs to drive one device-authorization
// attempt: the URL to show the user, how long it stays valid, the session the
// attempt will authenticate, and the handle that resolves on completion.
type Login struct {
	URL       string
	ExpiresIn int
	Session   *Session
	Handshake *Handshake
}

// BeginDeviceAuth starts the TIDAL device flow without blocking.
//
// The returned Login carries a fresh, not-yet-authenticated Session; a
// background goroutine polls the token endpoint and completes the Handshake
// when the user approves, the link expires, or ctx is cancelled. Abandoned
// attempts are not cancelled remotely — their handshake simply resolves into
// a handle nobody reads.
func (c *Client) BeginDeviceAuth(ctx context.Context) (*Login, error) {
	da, err := c.oauth.DeviceAuth(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	sess := &Session{}
	h := NewHandshake()

	go func() {
		tok, err := c.oauth.DeviceAccessToken(ctx, da)
		if err != nil {
			h.Complete(fmt.Errorf("%w: %v", shared.ErrAuthFailed, err))
			return
		}
		sess.Token = tok
		if err := c.attachIdentity(ctx, sess); err != nil {
			h.Complete(err)
			return
		}
		h.Complete(nil)
	}()

	url := da.VerificationURIComplete
	if url == "" {
		url = da.VerificationURI
	}

	return &Login{
		URL:       ensureHTTPS(url),
		ExpiresIn: int(time.Until(da.Expiry).Seconds()),
		Session:   sess,
		Handshake: h,
	}, nil
}

// ensureHTTPS prepends https:// if the URL has no scheme. TIDAL returns the
// verification URI as a bare hostname.
func ensureHTTPS(url string) string {
	if !strings.HasPrefix(url, "http") {
		return "https://" + url
	}
	return url
}

// devEndpoint builds the oauth2 endpoint for the configured auth base URL.
func devEndpoint(base string) oauth2.Endpoint {
	base = strings.TrimRight(base, "/")
	return oauth2.Endpoint{
		DeviceAuthURL: base + "/device_authorization",
		TokenURL:      base + "/token",
	}
}
