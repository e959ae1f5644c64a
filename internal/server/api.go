package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/thalweg/tidalctl/internal/repositories"
	"github.com/thalweg/tidalctl/internal/routes"
)

// API exposes every account operation as a JSON endpoint. Each handler is a
// thin parse step in front of the operation layer: the (payload, status)
// pair an operation returns is written to the response verbatim.
type API struct {
	svc    *routes.Service
	cache  *repositories.TrackRepository
	logger *log.Logger
}

// NewAPI creates the API handler group. cache may be nil, in which case the
// cache endpoints respond 404.
func NewAPI(svc *routes.Service, cache *repositories.TrackRepository, logger *log.Logger) *API {
	return &API{svc: svc, cache: cache, logger: logger}
}

// Register mounts every endpoint on the router.
func (a *API) Register(r Router) {
	r.Handle(http.MethodPost, "/api/login", http.HandlerFunc(a.loginStart))
	r.Handle(http.MethodPost, "/api/login/poll", http.HandlerFunc(a.loginPoll))
	r.Handle(http.MethodGet, "/api/auth/status", http.HandlerFunc(a.authStatus))

	r.Handle(http.MethodGet, "/api/tracks", http.HandlerFunc(a.userTracks))
	r.Handle(http.MethodPost, "/api/recommendations", http.HandlerFunc(a.recommendations))
	r.Handle(http.MethodPost, "/api/recommendations/batch", http.HandlerFunc(a.batchRecommendations))

	r.Handle(http.MethodGet, "/api/playlists", http.HandlerFunc(a.playlists))
	r.Handle(http.MethodPost, "/api/playlists", http.HandlerFunc(a.createPlaylist))
	r.Handle(http.MethodGet, "/api/playlists/{id}/tracks", http.HandlerFunc(a.playlistTracks))
	r.Handle(http.MethodPost, "/api/playlists/{id}/tracks", http.HandlerFunc(a.addTracks))
	r.Handle(http.MethodPost, "/api/playlists/{id}/tracks/remove", http.HandlerFunc(a.removeTracks))
	r.Handle(http.MethodPost, "/api/playlists/{id}/tracks/move", http.HandlerFunc(a.moveTrack))
	r.Handle(http.MethodPatch, "/api/playlists/{id}", http.HandlerFunc(a.updatePlaylist))
	r.Handle(http.MethodDelete, "/api/playlists/{id}", http.HandlerFunc(a.deletePlaylist))

	r.Handle(http.MethodGet, "/api/search", http.HandlerFunc(a.search))

	if a.cache != nil {
		r.Handle(http.MethodGet, "/api/cache/tracks", http.HandlerFunc(a.cachedTracks))
	}
}

func writeJSON(w http.ResponseWriter, payload routes.Payload, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeBadBody(w http.ResponseWriter) {
	writeJSON(w, routes.Payload{"error": "Invalid JSON body."}, http.StatusBadRequest)
}

// queryInt parses an integer query parameter, falling back to def when absent
// or malformed.
func queryInt(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

func (a *API) loginStart(w http.ResponseWriter, r *http.Request) {
	payload, status := a.svc.LoginStart(r.Context())
	writeJSON(w, payload, status)
}

func (a *API) loginPoll(w http.ResponseWriter, r *http.Request) {
	payload, status := a.svc.LoginPoll(r.Context())
	writeJSON(w, payload, status)
}

func (a *API) authStatus(w http.ResponseWriter, r *http.Request) {
	payload, status := a.svc.AuthStatus()
	writeJSON(w, payload, status)
}

func (a *API) userTracks(w http.ResponseWriter, r *http.Request) {
	payload, status := a.svc.UserTracks(r.Context(), queryInt(r, "limit", 20))
	writeJSON(w, payload, status)
}

func (a *API) recommendations(w http.ResponseWriter, r *http.Request) {
	var body struct {
		TrackIDs           []string `json:"track_ids"`
		FilterCriteria     string   `json:"filter_criteria"`
		LimitPerTrack      int      `json:"limit_per_track"`
		LimitFromFavorites int      `json:"limit_from_favorites"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeBadBody(w)
		return
	}
	if body.LimitPerTrack == 0 {
		body.LimitPerTrack = 20
	}
	if body.LimitFromFavorites == 0 {
		body.LimitFromFavorites = 20
	}
	payload, status := a.svc.Recommendations(r.Context(),
		body.TrackIDs, body.FilterCriteria, body.LimitPerTrack, body.LimitFromFavorites)
	writeJSON(w, payload, status)
}

func (a *API) batchRecommendations(w http.ResponseWriter, r *http.Request) {
	var body struct {
		TrackIDs       []string `json:"track_ids"`
		LimitPerTrack  int      `json:"limit_per_track"`
		KeepDuplicates bool     `json:"keep_duplicates"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeBadBody(w)
		return
	}
	if body.LimitPerTrack == 0 {
		body.LimitPerTrack = 20
	}
	payload, status := a.svc.BatchRecommendations(r.Context(),
		body.TrackIDs, body.LimitPerTrack, !body.KeepDuplicates)
	writeJSON(w, payload, status)
}

func (a *API) playlists(w http.ResponseWriter, r *http.Request) {
	payload, status := a.svc.Playlists(r.Context())
	writeJSON(w, payload, status)
}

func (a *API) createPlaylist(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Title       string   `json:"title"`
		Description string   `json:"description"`
		TrackIDs    []string `json:"track_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeBadBody(w)
		return
	}
	payload, status := a.svc.CreatePlaylist(r.Context(), body.Title, body.Description, body.TrackIDs)
	writeJSON(w, payload, status)
}

func (a *API) playlistTracks(w http.ResponseWriter, r *http.Request) {
	payload, status := a.svc.PlaylistTracks(r.Context(), r.PathValue("id"), queryInt(r, "limit", 0))
	writeJSON(w, payload, status)
}

func (a *API) deletePlaylist(w http.ResponseWriter, r *http.Request) {
	payload, status := a.svc.DeletePlaylist(r.Context(), r.PathValue("id"))
	writeJSON(w, payload, status)
}

func (a *API) addTracks(w http.ResponseWriter, r *http.Request) {
	var body struct {
		TrackIDs []string `json:"track_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeBadBody(w)
		return
	}
	payload, status := a.svc.AddTracks(r.Context(), r.PathValue("id"), body.TrackIDs)
	writeJSON(w, payload, status)
}

func (a *API) removeTracks(w http.ResponseWriter, r *http.Request) {
	var body struct {
		TrackIDs []string `json:"track_ids"`
		Indices  []int    `json:"indices"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeBadBody(w)
		return
	}
	payload, status := a.svc.RemoveTracks(r.Context(), r.PathValue("id"), body.TrackIDs, body.Indices)
	writeJSON(w, payload, status)
}

func (a *API) updatePlaylist(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeBadBody(w)
		return
	}
	payload, status := a.svc.UpdatePlaylist(r.Context(), r.PathValue("id"), body.Title, body.Description)
	writeJSON(w, payload, status)
}

func (a *API) moveTrack(w http.ResponseWriter, r *http.Request) {
	var body struct {
		FromIndex int `json:"from_index"`
		ToIndex   int `json:"to_index"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeBadBody(w)
		return
	}
	payload, status := a.svc.MoveTrack(r.Context(), r.PathValue("id"), body.FromIndex, body.ToIndex)
	writeJSON(w, payload, status)
}

func (a *API) search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	payload, status := a.svc.Search(r.Context(), q.Get("q"), q.Get("type"), queryInt(r, "limit", 20))
	writeJSON(w, payload, status)
}

func (a *API) cachedTracks(w http.ResponseWriter, r *http.Request) {
	tracks, err := a.cache.Recent(queryInt(r, "limit", 50))
	if err != nil {
		writeJSON(w, routes.Payload{"error": err.Error()}, http.StatusInternalServerError)
		return
	}
	writeJSON(w, routes.Payload{"tracks": tracks, "count": len(tracks)}, http.StatusOK)
}

// HealthHandler answers liveness probes. Implements [Handler].
type HealthHandler struct{}

func (HealthHandler) Routes() []string { return []string{"/health"} }

func (HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, routes.Payload{"status": "ok"}, http.StatusOK)
}
