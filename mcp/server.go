// Package mcp exposes the catalog and the financing quote as MCP tools.
package mcp

import (
	"context"
	"net/http"

	"github.com/lukman83/autolot/internal/catalog"
	"github.com/lukman83/autolot/internal/financing"
	"github.com/lukman83/autolot/internal/models"
	"github.com/mark3labs/mcp-go/server"
)

const (
	serverName    = "autolot"
	serverVersion = "1.0.0"
)

// Backend is what the tools call into. Nil fields make the matching tools
// answer with a configuration error.
type Backend struct {
	Quotes interface {
		Quote(ctx context.Context, body map[string]any) (*financing.Result, error)
	}
	Syncer interface {
		Run(ctx context.Context) (catalog.Result, error)
	}
	Catalog interface {
		Vehicles(ctx context.Context) ([]models.Vehicle, error)
		VehicleBySlug(ctx context.Context, slug string) (*models.Vehicle, error)
	}
}

// NewServer builds an MCP server with every tool registered.
func NewServer(b Backend) *server.MCPServer {
	s := server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithToolCapabilities(true),
	)
	registerTools(s, &tools{b})
	return s
}

// Serve runs the MCP server on stdio until stdin closes.
func Serve(b Backend) error {
	return server.ServeStdio(NewServer(b))
}

// Handler returns the stateless streamable HTTP transport, ready to mount at /mcp.
func Handler(b Backend) http.Handler {
	return server.NewStreamableHTTPServer(NewServer(b), server.WithStateLess(true))
}
