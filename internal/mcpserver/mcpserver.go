// Package mcpserver exposes the TIDAL gateway operations as Model Context
// Protocol tools over a stdio transport. Each tool delegates to the
// corresponding routes.Service operation and relays its payload verbatim,
// so MCP clients and the HTTP API observe identical shapes.
package mcpserver

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/viant/jsonrpc"
	"github.com/viant/mcp-protocol/schema"
	proto "github.com/viant/mcp-protocol/server"
	"github.com/viant/mcp/server"

	"github.com/thalweg/tidalctl/internal/routes"
)

// Server wraps a routes.Service behind an MCP stdio endpoint.
type Server struct {
	svc     *routes.Service
	logger  *log.Logger
	name    string
	version string
}

// New builds a Server around svc. Logging must stay on stderr: stdout
// carries the JSON-RPC stream.
func New(svc *routes.Service, logger *log.Logger, name, version string) *Server {
	return &Server{svc: svc, logger: logger, name: name, version: version}
}

// ListenAndServe registers every tool and serves the stdio transport until
// ctx is cancelled or stdin closes.
func (s *Server) ListenAndServe(ctx context.Context) error {
	newHandler := proto.WithDefaultHandler(ctx, s.register)
	srv, err := server.New(
		server.WithNewHandler(newHandler),
		server.WithImplementation(schema.Implementation{Name: s.name, Version: s.version}),
	)
	if err != nil {
		return err
	}
	s.logger.Info("mcp server listening on stdio", "name", s.name, "version", s.version)
	return srv.Stdio(ctx).ListenAndServe()
}

// result converts an operation payload into a tool call result. The payload
// is serialized once and reused for both the text block and the structured
// content; non-200 statuses flip the IsError flag instead of surfacing as
// protocol errors so clients can read the "error" key.
func result(payload routes.Payload, status int) (*schema.CallToolResult, *jsonrpc.Error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, jsonrpc.NewInternalError(err.Error(), nil)
	}
	structured := map[string]interface{}{}
	if err := json.Unmarshal(data, &structured); err != nil {
		return nil, jsonrpc.NewInternalError(err.Error(), nil)
	}
	out := &schema.CallToolResult{
		StructuredContent: structured,
		Content: []schema.CallToolResultContentElem{
			{Text: string(data), Type: "text"},
		},
	}
	if status != http.StatusOK {
		isError := true
		out.IsError = &isError
	}
	return out, nil
}

// call adapts a (Payload, int) operation into a tool handler body.
func call(op func() (routes.Payload, int)) (*schema.CallToolResult, *jsonrpc.Error) {
	payload, status := op()
	return result(payload, status)
}

func orDefault(n, fallback int) int {
	if n == 0 {
		return fallback
	}
	return n
}
