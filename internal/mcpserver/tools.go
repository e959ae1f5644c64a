package mcpserver

import (
	"context"

	"github.com/viant/jsonrpc"
	"github.com/viant/mcp-protocol/schema"
	proto "github.com/viant/mcp-protocol/server"

	"github.com/thalweg/tidalctl/internal/models"
	"github.com/thalweg/tidalctl/internal/routes"
)

const defaultToolLimit = 20

type emptyIn struct{}

type limitIn struct {
	Limit int `json:"limit,omitempty" description:"Maximum number of tracks to return"`
}

type recommendIn struct {
	TrackIDs          []string `json:"track_ids,omitempty" description:"Seed track IDs; defaults to the user's favorites when omitted"`
	FilterCriteria    *string  `json:"filter_criteria,omitempty" description:"Free-form criteria to steer the recommendations"`
	LimitPerTrack     int      `json:"limit_per_track,omitempty" description:"Recommendations fetched per seed track"`
	LimitFromFavorite int      `json:"limit_from_favorite,omitempty" description:"Favorites used as seeds when track_ids is omitted"`
}

type createPlaylistIn struct {
	Title       string   `json:"title" description:"Playlist title"`
	TrackIDs    []string `json:"track_ids,omitempty" description:"Track IDs added after creation"`
	Description string   `json:"description,omitempty" description:"Playlist description"`
}

type playlistTracksIn struct {
	PlaylistID string `json:"playlist_id" description:"TIDAL playlist ID"`
	Limit      *int   `json:"limit,omitempty" description:"Maximum tracks to return; omit for all"`
}

type playlistIn struct {
	PlaylistID string `json:"playlist_id" description:"TIDAL playlist ID"`
}

type playlistAddIn struct {
	PlaylistID string   `json:"playlist_id" description:"TIDAL playlist ID"`
	TrackIDs   []string `json:"track_ids" description:"Track IDs to append"`
}

type playlistRemoveIn struct {
	PlaylistID string   `json:"playlist_id" description:"TIDAL playlist ID"`
	TrackIDs   []string `json:"track_ids,omitempty" description:"Track IDs to remove; use this or indices"`
	Indices    []int    `json:"indices,omitempty" description:"Zero-based positions to remove; use this or track_ids"`
}

type playlistUpdateIn struct {
	PlaylistID  string  `json:"playlist_id" description:"TIDAL playlist ID"`
	Title       *string `json:"title,omitempty" description:"New title; empty string clears it"`
	Description *string `json:"description,omitempty" description:"New description; empty string clears it"`
}

type playlistMoveIn struct {
	PlaylistID string `json:"playlist_id" description:"TIDAL playlist ID"`
	FromIndex  int    `json:"from_index" description:"Zero-based position of the track to move"`
	ToIndex    int    `json:"to_index" description:"Zero-based destination position"`
}

type searchIn struct {
	Query      string `json:"query" description:"Search query"`
	SearchType string `json:"search_type,omitempty" description:"One of all, tracks, albums, artists, playlists"`
	Limit      int    `json:"limit,omitempty" description:"Maximum results per section"`
}

type typedSearchIn struct {
	Query string `json:"query" description:"Search query"`
	Limit int    `json:"limit,omitempty" description:"Maximum results to return"`
}

type loginOut struct {
	Status    string `json:"status"`
	Message   string `json:"message,omitempty"`
	AuthURL   string `json:"auth_url,omitempty"`
	ExpiresIn int    `json:"expires_in,omitempty"`
	UserID    string `json:"user_id,omitempty"`
}

type tracksOut struct {
	Tracks []models.Track `json:"tracks"`
}

type recommendOut struct {
	SeedTracks      []models.Track `json:"seed_tracks"`
	Recommendations []models.Track `json:"recommendations"`
	FilterCriteria  *string        `json:"filter_criteria"`
}

type createPlaylistOut struct {
	Status        string `json:"status"`
	PlaylistID    string `json:"playlist_id"`
	PlaylistTitle string `json:"playlist_title,omitempty"`
	TracksAdded   int    `json:"tracks_added"`
	PlaylistURL   string `json:"playlist_url"`
}

type playlistsOut struct {
	Playlists []models.Playlist `json:"playlists"`
}

type playlistTracksOut struct {
	PlaylistID  string         `json:"playlist_id"`
	Tracks      []models.Track `json:"tracks"`
	TotalTracks int            `json:"total_tracks"`
}

type statusOut struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type removeOut struct {
	Status        string `json:"status"`
	TracksRemoved int    `json:"tracks_removed"`
	TracksFailed  int    `json:"tracks_failed,omitempty"`
}

type updateOut struct {
	Status        string            `json:"status"`
	PlaylistID    string            `json:"playlist_id"`
	UpdatedFields map[string]string `json:"updated_fields"`
}

type searchOut struct {
	Query      string         `json:"query"`
	SearchType string         `json:"searchType,omitempty"`
	Type       string         `json:"type,omitempty"`
	Limit      int            `json:"limit"`
	Results    map[string]any `json:"results"`
	Summary    map[string]int `json:"summary,omitempty"`
	Count      int            `json:"count,omitempty"`
}

// register wires every tool into the handler registry. Tool names and
// argument shapes follow the public tool surface, so clients migrating
// between transports keep their calls unchanged.
func (s *Server) register(h *proto.DefaultHandler) error {
	if err := proto.RegisterTool[*emptyIn, *loginOut](h.Registry, "tidal_login",
		"Start a TIDAL device login and return the authorization URL to open.",
		func(ctx context.Context, _ *emptyIn) (*schema.CallToolResult, *jsonrpc.Error) {
			return call(func() (routes.Payload, int) { return s.svc.LoginStart(ctx) })
		}); err != nil {
		return err
	}
	if err := proto.RegisterTool[*emptyIn, *loginOut](h.Registry, "tidal_check_login",
		"Check whether the pending TIDAL login has been authorized yet.",
		func(ctx context.Context, _ *emptyIn) (*schema.CallToolResult, *jsonrpc.Error) {
			return call(func() (routes.Payload, int) { return s.svc.LoginPoll(ctx) })
		}); err != nil {
		return err
	}
	if err := proto.RegisterTool[*limitIn, *tracksOut](h.Registry, "get_favorite_tracks",
		"Fetch the user's favorite TIDAL tracks, newest first.",
		func(ctx context.Context, in *limitIn) (*schema.CallToolResult, *jsonrpc.Error) {
			return call(func() (routes.Payload, int) {
				return s.svc.UserTracks(ctx, orDefault(in.Limit, defaultToolLimit))
			})
		}); err != nil {
		return err
	}
	if err := proto.RegisterTool[*recommendIn, *recommendOut](h.Registry, "recommend_tracks",
		"Recommend tracks seeded from explicit track IDs or the user's favorites.",
		func(ctx context.Context, in *recommendIn) (*schema.CallToolResult, *jsonrpc.Error) {
			return call(func() (routes.Payload, int) {
				criteria := ""
				if in.FilterCriteria != nil {
					criteria = *in.FilterCriteria
				}
				return s.svc.Recommendations(ctx, in.TrackIDs, criteria,
					orDefault(in.LimitPerTrack, defaultToolLimit),
					orDefault(in.LimitFromFavorite, defaultToolLimit))
			})
		}); err != nil {
		return err
	}
	if err := s.registerPlaylistTools(h); err != nil {
		return err
	}
	return s.registerSearchTools(h)
}

func (s *Server) registerPlaylistTools(h *proto.DefaultHandler) error {
	if err := proto.RegisterTool[*createPlaylistIn, *createPlaylistOut](h.Registry, "create_tidal_playlist",
		"Create a TIDAL playlist and optionally seed it with tracks.",
		func(ctx context.Context, in *createPlaylistIn) (*schema.CallToolResult, *jsonrpc.Error) {
			return call(func() (routes.Payload, int) {
				return s.svc.CreatePlaylist(ctx, in.Title, in.Description, in.TrackIDs)
			})
		}); err != nil {
		return err
	}
	if err := proto.RegisterTool[*emptyIn, *playlistsOut](h.Registry, "get_user_playlists",
		"List the user's TIDAL playlists, most recently updated first.",
		func(ctx context.Context, _ *emptyIn) (*schema.CallToolResult, *jsonrpc.Error) {
			return call(func() (routes.Payload, int) { return s.svc.Playlists(ctx) })
		}); err != nil {
		return err
	}
	if err := proto.RegisterTool[*playlistTracksIn, *playlistTracksOut](h.Registry, "get_playlist_tracks",
		"Fetch the tracks of a TIDAL playlist in playlist order.",
		func(ctx context.Context, in *playlistTracksIn) (*schema.CallToolResult, *jsonrpc.Error) {
			return call(func() (routes.Payload, int) {
				limit := 0
				if in.Limit != nil {
					limit = *in.Limit
				}
				return s.svc.PlaylistTracks(ctx, in.PlaylistID, limit)
			})
		}); err != nil {
		return err
	}
	if err := proto.RegisterTool[*playlistIn, *statusOut](h.Registry, "delete_tidal_playlist",
		"Delete a TIDAL playlist.",
		func(ctx context.Context, in *playlistIn) (*schema.CallToolResult, *jsonrpc.Error) {
			return call(func() (routes.Payload, int) { return s.svc.DeletePlaylist(ctx, in.PlaylistID) })
		}); err != nil {
		return err
	}
	if err := proto.RegisterTool[*playlistAddIn, *statusOut](h.Registry, "add_tracks_to_playlist",
		"Append tracks to an existing TIDAL playlist.",
		func(ctx context.Context, in *playlistAddIn) (*schema.CallToolResult, *jsonrpc.Error) {
			return call(func() (routes.Payload, int) {
				return s.svc.AddTracks(ctx, in.PlaylistID, in.TrackIDs)
			})
		}); err != nil {
		return err
	}
	if err := proto.RegisterTool[*playlistRemoveIn, *removeOut](h.Registry, "remove_tracks_from_playlist",
		"Remove playlist tracks by track ID or by zero-based position.",
		func(ctx context.Context, in *playlistRemoveIn) (*schema.CallToolResult, *jsonrpc.Error) {
			return call(func() (routes.Payload, int) {
				return s.svc.RemoveTracks(ctx, in.PlaylistID, in.TrackIDs, in.Indices)
			})
		}); err != nil {
		return err
	}
	if err := proto.RegisterTool[*playlistUpdateIn, *updateOut](h.Registry, "update_playlist_metadata",
		"Update a playlist's title and/or description; empty strings clear a field.",
		func(ctx context.Context, in *playlistUpdateIn) (*schema.CallToolResult, *jsonrpc.Error) {
			return call(func() (routes.Payload, int) {
				return s.svc.UpdatePlaylist(ctx, in.PlaylistID, in.Title, in.Description)
			})
		}); err != nil {
		return err
	}
	return proto.RegisterTool[*playlistMoveIn, *statusOut](h.Registry, "reorder_playlist_tracks",
		"Move a playlist track from one zero-based position to another.",
		func(ctx context.Context, in *playlistMoveIn) (*schema.CallToolResult, *jsonrpc.Error) {
			return call(func() (routes.Payload, int) {
				return s.svc.MoveTrack(ctx, in.PlaylistID, in.FromIndex, in.ToIndex)
			})
		})
}

func (s *Server) registerSearchTools(h *proto.DefaultHandler) error {
	if err := proto.RegisterTool[*searchIn, *searchOut](h.Registry, "search_tidal",
		"Search the TIDAL catalog across tracks, albums, artists and playlists.",
		func(ctx context.Context, in *searchIn) (*schema.CallToolResult, *jsonrpc.Error) {
			return call(func() (routes.Payload, int) {
				return s.svc.Search(ctx, in.Query, in.SearchType, orDefault(in.Limit, defaultToolLimit))
			})
		}); err != nil {
		return err
	}
	typed := []struct {
		name, desc string
		op         func(context.Context, string, int) (routes.Payload, int)
	}{
		{"search_tracks", "Search the TIDAL catalog for tracks only.", s.svc.SearchTracks},
		{"search_albums", "Search the TIDAL catalog for albums only.", s.svc.SearchAlbums},
		{"search_artists", "Search the TIDAL catalog for artists only.", s.svc.SearchArtists},
		{"search_playlists", "Search the TIDAL catalog for playlists only.", s.svc.SearchPlaylists},
	}
	for _, t := range typed {
		op := t.op
		if err := proto.RegisterTool[*typedSearchIn, *searchOut](h.Registry, t.name, t.desc,
			func(ctx context.Context, in *typedSearchIn) (*schema.CallToolResult, *jsonrpc.Error) {
				return call(func() (routes.Payload, int) {
					return op(ctx, in.Query, orDefault(in.Limit, defaultToolLimit))
				})
			}); err != nil {
			return err
		}
	}
	return nil
}
