// Package mcp exposes the converter and workout library as MCP tools.
package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("ZWOM", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("ZWOM workout converter. Convert ZWOM workout sources to Zwift ZWO files, check sources for language violations, and browse the stored workout library."),
	)

	h := &handlers{ds: ds, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolConvertWorkout, Handler: h.convertWorkout},
		server.ServerTool{Tool: toolCheckWorkout, Handler: h.checkWorkout},
		server.ServerTool{Tool: toolListWorkouts, Handler: h.listWorkouts},
		server.ServerTool{Tool: toolGetWorkout, Handler: h.getWorkout},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resPowerZones, Handler: h.powerZones},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
}

// --- Resource definitions ---

var resPowerZones = mcp.NewResource(
	"zwom://power_zones",
	"Power Zones",
	mcp.WithResourceDescription("The named power zones accepted in POWER values and the FTP percentage each maps to"),
	mcp.WithMIMEType("application/json"),
)
