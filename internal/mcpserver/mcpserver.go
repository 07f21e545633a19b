// Package mcpserver exposes driftline's aggregation queries as MCP tools
// over stdio, so agents can inspect issue history without shelling out.
package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/driftline/driftline/internal/service"
)

// Server wraps the MCP server and registers all driftline tools.
type Server struct {
	server *mcp.Server
	svc    *service.Service
}

// NewServer creates an MCP server over an open service.
func NewServer(svc *service.Service, version string) *Server {
	if version == "" {
		version = "dev"
	}
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "driftline",
			Version: version,
		},
		nil,
	)

	s := &Server{server: server, svc: svc}
	s.registerTools()
	return s
}

// Run starts the MCP server over stdio transport.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_builds",
		Description: describeListBuilds(),
	}, s.handleListBuilds)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_baseline",
		Description: describeGetBaseline(),
	}, s.handleGetBaseline)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "diff_builds",
		Description: describeDiffBuilds(),
	}, s.handleDiffBuilds)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_trend",
		Description: describeGetTrend(),
	}, s.handleGetTrend)
}
