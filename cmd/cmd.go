// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create config.toml and initialize the track cache",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Setup,
	}
}

// loginCommand drives the device-authorization flow
func loginCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Log in to TIDAL via device authorization",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "no-browser",
				Usage: "Print the authorization URL instead of opening a browser",
			},
		},
		Action: r.AuthLogin,
	}
}

func statusCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "status",
		Usage:  "Show the current session state",
		Action: r.AuthStatus,
	}
}

func logoutCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "logout",
		Usage:  "Delete the persisted session",
		Action: r.AuthLogout,
	}
}

// tracksCommand lists the user's favorite tracks
func tracksCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tracks",
		Aliases: []string{"favorites"},
		Usage:   "List favorite tracks",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of tracks to return",
				Value: 20,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print JSON output",
			},
		},
		Action: r.Tracks,
	}
}

// recommendCommand produces recommendations from seed tracks or favorites
func recommendCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "recommend",
		Aliases: []string{"rec"},
		Usage:   "Recommend tracks from seeds or favorites",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "track",
				Aliases: []string{"t"},
				Usage:   "Seed track ID (repeatable); defaults to favorites when omitted",
			},
			&cli.StringFlag{
				Name:  "criteria",
				Usage: "Free-form filter criteria echoed in the result",
			},
			&cli.IntFlag{
				Name:  "limit-per-track",
				Usage: "Recommendations fetched per seed track",
				Value: 20,
			},
			&cli.IntFlag{
				Name:  "limit-from-favorites",
				Usage: "Favorites used as seeds when no --track is given",
				Value: 20,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print JSON output",
			},
		},
		Action: r.Recommend,
	}
}

// searchCommand queries the TIDAL catalog
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Search the TIDAL catalog",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "query"},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "type",
				Usage: "Result type: all, tracks, albums, artists, playlists",
				Value: "all",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum results per section",
				Value: 20,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print JSON output",
			},
		},
		Action: r.Search,
	}
}

// playlistCommand handles playlist CRUD and export
func playlistCommand(r *Runner) *cli.Command {
	idFlag := func() cli.Flag {
		return &cli.StringFlag{
			Name:     "id",
			Usage:    "Playlist ID",
			Required: true,
		}
	}
	jsonFlags := func() []cli.Flag {
		return []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
			&cli.BoolFlag{Name: "pretty", Usage: "Pretty-print JSON output"},
		}
	}

	return &cli.Command{
		Name:    "playlist",
		Aliases: []string{"pl"},
		Usage:   "Playlist operations",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List your playlists, most recently updated first",
				Flags:  jsonFlags(),
				Action: r.PlaylistList,
			},
			{
				Name:  "tracks",
				Usage: "List the tracks of a playlist",
				Flags: append([]cli.Flag{
					idFlag(),
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum tracks to return (0 = all)",
					},
				}, jsonFlags()...),
				Action: r.PlaylistTracks,
			},
			{
				Name:  "create",
				Usage: "Create a playlist, optionally seeded with tracks",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "title",
						Usage:    "Playlist title",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "description",
						Usage: "Playlist description",
					},
					&cli.StringSliceFlag{
						Name:    "track",
						Aliases: []string{"t"},
						Usage:   "Track ID to add after creation (repeatable)",
					},
				},
				Action: r.PlaylistCreate,
			},
			{
				Name:   "delete",
				Usage:  "Delete a playlist",
				Flags:  []cli.Flag{idFlag()},
				Action: r.PlaylistDelete,
			},
			{
				Name:  "add",
				Usage: "Append tracks to a playlist",
				Flags: []cli.Flag{
					idFlag(),
					&cli.StringSliceFlag{
						Name:     "track",
						Aliases:  []string{"t"},
						Usage:    "Track ID to append (repeatable)",
						Required: true,
					},
				},
				Action: r.PlaylistAdd,
			},
			{
				Name:  "remove",
				Usage: "Remove tracks by ID or by zero-based position",
				Flags: []cli.Flag{
					idFlag(),
					&cli.StringSliceFlag{
						Name:    "track",
						Aliases: []string{"t"},
						Usage:   "Track ID to remove (repeatable; use this or --index)",
					},
					&cli.IntSliceFlag{
						Name:    "index",
						Aliases: []string{"i"},
						Usage:   "Zero-based position to remove (repeatable; use this or --track)",
					},
				},
				Action: r.PlaylistRemove,
			},
			{
				Name:  "move",
				Usage: "Move a track from one position to another",
				Flags: []cli.Flag{
					idFlag(),
					&cli.IntFlag{
						Name:     "from",
						Usage:    "Zero-based source position",
						Required: true,
					},
					&cli.IntFlag{
						Name:     "to",
						Usage:    "Zero-based destination position",
						Required: true,
					},
				},
				Action: r.PlaylistMove,
			},
			{
				Name:    "update",
				Aliases: []string{"rename"},
				Usage:   "Update title and/or description; empty values clear a field",
				Flags: []cli.Flag{
					idFlag(),
					&cli.StringFlag{
						Name:  "title",
						Usage: "New title",
					},
					&cli.StringFlag{
						Name:  "description",
						Usage: "New description",
					},
				},
				Action: r.PlaylistUpdate,
			},
			{
				Name:  "export",
				Usage: "Export a playlist to CSV, Markdown or plain text",
				Flags: []cli.Flag{
					idFlag(),
					&cli.StringFlag{
						Name:  "format",
						Usage: "Export format: csv, markdown, text",
						Value: "csv",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output path (base filename for csv, directory for markdown)",
					},
				},
				Action: r.PlaylistExport,
			},
		},
	}
}

// cacheCommand inspects and maintains the local track cache
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Inspect the local track cache",
		Commands: []*cli.Command{
			{
				Name:  "tracks",
				Usage: "Show recently cached tracks",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum tracks to show",
						Value: 20,
					},
				},
				Action: r.CacheTracks,
			},
			{
				Name:  "search",
				Usage: "Search cached tracks by artist",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "artist"},
				},
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum tracks to show",
						Value: 20,
					},
				},
				Action: r.CacheSearch,
			},
			{
				Name:  "prune",
				Usage: "Delete cache entries older than a number of days",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "days",
						Usage: "Age threshold in days",
						Value: 30,
					},
				},
				Action: r.CachePrune,
			},
		},
	}
}

// serveCommand runs the HTTP API
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Bind address (overrides config)",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "Bind port (overrides config)",
			},
		},
		Action: r.Serve,
	}
}

// mcpCommand runs the MCP stdio server
func mcpCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "mcp",
		Usage:  "Serve MCP tools over stdio",
		Action: r.MCP,
	}
}
