package mcp

import (
	"net/http"

	"github.com/cloudpulse/cloudpulse/internal/meta"
	"github.com/cloudpulse/cloudpulse/internal/registry"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewServer creates an MCP server that has the read-only tools.
func NewServer(s Store) *mcp.Server {
	impl := &mcp.Implementation{
		Name:    "cloudpulse",
		Version: meta.Version,
		Title:   "Cloud-Pulse",
	}

	opts := &mcp.ServerOptions{
		Instructions: "Cloud-Pulse polls the status pages of third-party cloud services and records the statuses. Use query_status for the current state and query_history for trends. Besides the jq builtins, queries can use is_healthy and is_stable on a status string, and age that converts an RFC 3339 timestamp into elapsed seconds.",
	}

	server := mcp.NewServer(impl, opts)
	AddReadOnlyTools(server, s)

	return server
}

// NewLocalServer creates an MCP server for a local client.
// It has the tools of NewServer, and check_service that fetches services in reg through c.
func NewLocalServer(s Store, reg registry.Registry, c Checker) *mcp.Server {
	server := NewServer(s)
	AddLocalTools(server, reg, c)
	return server
}

// Handler creates an HTTP handler for MCP requests.
func Handler(s Store) http.Handler {
	server := NewServer(s)

	return mcp.NewStreamableHTTPHandler(func(req *http.Request) *mcp.Server {
		return server
	}, &mcp.StreamableHTTPOptions{
		Stateless:    true,
		JSONResponse: true,
	})
}
