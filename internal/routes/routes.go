package routes

import (
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/thalweg/tidalctl/internal/auth"
	"github.com/thalweg/tidalctl/internal/models"
	"github.com/thalweg/tidalctl/internal/shared"
	"github.com/thalweg/tidalctl/internal/tidal"
)

// Payload is the JSON-shaped body every operation returns.
type Payload = map[string]any

// AuthRequiredMessage tells an automated caller how to recover from a
// missing session.
const AuthRequiredMessage = "You need to login to TIDAL first before using this feature. " +
	"Please run the tidal_login tool."

// maxResultLimit is the per-type ceiling the remote API accepts.
const maxResultLimit = 50

// ConnectFunc binds a session to the remote capability. *tidal.Client.Bind
// satisfies it; tests substitute a mock catalog.
type ConnectFunc func(*tidal.Session) tidal.Catalog

// TrackCacher records tracks seen in responses. Optional; failures are
// logged, never surfaced.
type TrackCacher interface {
	CacheTracks(tracks []models.Track) error
}

// Opts configures a Service.
type Opts struct {
	Coordinator *auth.Coordinator
	Store       auth.Store
	Connect     ConnectFunc
	Cache       TrackCacher
	Logger      *log.Logger
	PageSize    int
	MaxPages    int
	MaxWorkers  int
}

// Service holds the dependencies every operation shares.
type Service struct {
	coord      *auth.Coordinator
	store      auth.Store
	connect    ConnectFunc
	cache      TrackCacher
	logger     *log.Logger
	pageSize   int
	maxPages   int
	maxWorkers int
}

// New creates a Service.
func New(opts Opts) *Service {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.MaxWorkers <= 0 {
		opts.MaxWorkers = 10
	}
	return &Service{
		coord:      opts.Coordinator,
		store:      opts.Store,
		connect:    opts.Connect,
		cache:      opts.Cache,
		logger:     opts.Logger,
		pageSize:   opts.PageSize,
		maxPages:   opts.MaxPages,
		maxWorkers: opts.MaxWorkers,
	}
}

// catalog loads and validates the persisted session, returning the bound
// remote capability. A false return means the caller must authenticate.
func (s *Service) catalog() (tidal.Catalog, bool) {
	sess, err := s.store.Load()
	if err != nil || !sess.IsValid() {
		return nil, false
	}
	return s.connect(sess), true
}

// cacheTracks records tracks in the local cache if one is configured.
func (s *Service) cacheTracks(tracks []models.Track) {
	if s.cache == nil || len(tracks) == 0 {
		return
	}
	if err := s.cache.CacheTracks(tracks); err != nil {
		s.logger.Debug("track cache write failed", "err", err)
	}
}

func authRequired() (Payload, int) {
	return Payload{"error": AuthRequiredMessage}, http.StatusUnauthorized
}

func failf(status int, format string, args ...any) (Payload, int) {
	return Payload{"error": fmt.Sprintf(format, args...)}, status
}

// boundLimit clamps a per-type result limit to [1, maxResultLimit]. The zero
// value means "unset" and yields the ceiling.
func boundLimit(limit int) int {
	if limit == 0 {
		return maxResultLimit
	}
	if limit < 1 {
		return 1
	}
	if limit > maxResultLimit {
		return maxResultLimit
	}
	return limit
}
