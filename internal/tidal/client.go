package tidal

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/thalweg/tidalctl/internal/models"
	"github.com/thalweg/tidalctl/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

// SearchResults groups the typed sections a single search call returns.
type SearchResults struct {
	Tracks    []models.Track
	Albums    []models.Album
	Artists   []models.Artist
	Playlists []models.SearchPlaylist
}

// Catalog is the session-bound remote capability the operation layer calls.
// Every method maps to one remote request; callers own pagination, fan-out,
// and error policy.
type Catalog interface {
	Search(ctx context.Context, query string, limit int) (*SearchResults, error)
	FavoriteTracks(ctx context.Context, limit, offset int) ([]models.Track, error)
	TrackRadio(ctx context.Context, trackID string, limit int) ([]models.Track, error)

	Playlists(ctx context.Context) ([]models.Playlist, error)
	PlaylistTracks(ctx context.Context, playlistID string, limit, offset int) ([]models.Track, error)
	CreatePlaylist(ctx context.Context, title, description string) (*models.Playlist, error)
	DeletePlaylist(ctx context.Context, playlistID string) error
	AddPlaylistTracks(ctx context.Context, playlistID string, trackIDs []string) error
	RemovePlaylistTrack(ctx context.Context, playlistID, trackID string) error
	RemovePlaylistIndex(ctx context.Context, playlistID string, index int) error
	MovePlaylistTrack(ctx context.Context, playlistID string, fromIndex, toIndex int) error
	UpdatePlaylist(ctx context.Context, playlistID string, title, description *string) error
}

// ClientOpts configures a Client.
type ClientOpts struct {
	Config     *shared.Config
	HTTPClient *http.Client
	Logger     *log.Logger
}

// Client owns the OAuth configuration and shared HTTP plumbing. Bind attaches
// it to a session to obtain a Catalog.
type Client struct {
	oauth   *oauth2.Config
	http    *http.Client
	base    string
	limiter *rate.Limiter
	logger  *log.Logger
}

// NewClient creates a Client from configuration.
func NewClient(opts ClientOpts) (*Client, error) {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	cfg := opts.Config.Tidal
	if cfg.ClientID == "" {
		return nil, fmt.Errorf("%w: missing tidal.client_id", shared.ErrInvalidConfig)
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	rps := cfg.RateLimit
	if rps <= 0 {
		rps = 5.0
	}

	return &Client{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Scopes:       []string{"r_usr", "w_usr"},
			Endpoint:     devEndpoint(cfg.AuthBaseURL),
		},
		http:    opts.HTTPClient,
		base:    strings.TrimRight(cfg.APIBaseURL, "/"),
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
		logger:  opts.Logger,
	}, nil
}

// Bind attaches the client to a session, yielding the Catalog capability.
func (c *Client) Bind(s *Session) Catalog {
	return &API{client: c, session: s}
}

// attachIdentity resolves the authenticated user behind a fresh token and
// stamps it onto the session.
func (c *Client) attachIdentity(ctx context.Context, s *Session) error {
	var out struct {
		UserID      int64  `json:"userId"`
		CountryCode string `json:"countryCode"`
	}
	a := &API{client: c, session: s}
	if err := a.doRequest(ctx, http.MethodGet, "/sessions", nil, &out); err != nil {
		return fmt.Errorf("%w: could not resolve user identity: %v", shared.ErrAuthFailed, err)
	}
	s.UserID = strconv.FormatInt(out.UserID, 10)
	s.CountryCode = out.CountryCode
	return nil
}
