// Package mcpserver exposes the bookmark operations as MCP tools over stdio.
package mcpserver

import (
	"context"
	"io"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/jackzampolin/bookmark/internal/config"
	"github.com/jackzampolin/bookmark/internal/sources"
	"github.com/jackzampolin/bookmark/version"
)

// Name is the implementation name reported to MCP clients.
const Name = "bookmark"

// Deps are the services the tools run against.
type Deps struct {
	Sources *sources.Registry
	Config  *config.Manager
	Logger  *slog.Logger
}

// New creates an MCP server with every tool registered.
func New(deps Deps) *mcp.Server {
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	server := mcp.NewServer(&mcp.Implementation{Name: Name, Version: version.GitRelease}, nil)
	ts := &toolset{deps: deps}

	mcp.AddTool(server, FetchTOCTool(), ts.fetchTOC)
	mcp.AddTool(server, BookInfoTool(), ts.bookInfo)
	mcp.AddTool(server, ReadingProgressTool(), ts.readingProgress)

	return server
}

// Run serves the tools on stdin/stdout until ctx is done or the client hangs up.
func Run(ctx context.Context, deps Deps) error {
	return New(deps).Run(ctx, &mcp.StdioTransport{})
}
