package tidal

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/thalweg/tidalctl/internal/shared"
	"golang.org/x/oauth2"
)

// Session is the handle for an authenticated TIDAL connection. It is created
// either by a completed device-authorization handshake or by loading a
// previously persisted file, and is never shared between two in-flight login
// attempts.
type Session struct {
	Token       *oauth2.Token `json:"token"`
	UserID      string        `json:"user_id"`
	Username    string        `json:"username,omitempty"`
	Email       string        `json:"email,omitempty"`
	CountryCode string        `json:"country_code,omitempty"`
}

// IsValid reports whether the session can be presented to the remote API:
// it must carry an unexpired token and a resolved user identity.
func (s *Session) IsValid() bool {
	return s != nil && s.Token != nil && s.Token.Valid() && s.UserID != ""
}

// LoadSessionFile restores a session from its serialized blob on disk.
// A missing file is a plain error; an unreadable blob wraps ErrSessionCorrupt.
func LoadSessionFile(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrSessionCorrupt, err)
	}
	if s.Token == nil {
		return nil, fmt.Errorf("%w: no token", shared.ErrSessionCorrupt)
	}

	return &s, nil
}

// SaveSessionFile persists the session blob with owner-only permissions.
func SaveSessionFile(s *Session, path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrSessionSave, err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrSessionSave, err)
	}
	return nil
}

// FileStore reads and writes the session blob at a fixed path. It satisfies
// the store interface the authorization coordinator persists through.
type FileStore struct {
	Path string
}

func (f FileStore) Load() (*Session, error) { return LoadSessionFile(f.Path) }

func (f FileStore) Save(s *Session) error { return SaveSessionFile(s, f.Path) }
