// package models defines the data model shared by the TIDAL client, the
// operation layer, and the output surfaces.
//
// Fields carry json tags matching the wire shape every operation returns, so
// payloads marshal identically whether they leave through the HTTP server,
// the MCP tools, or the CLI's --json output.
package models
