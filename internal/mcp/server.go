package mcp

import (
	"context"
	"database/sql"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/secondkeith/vitalog/internal/config"
)

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"health_import": {
		def:     importToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleImport },
	},
	"health_export": {
		def:     exportToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleExport },
	},
	"health_log_day": {
		def:     logDayToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleLogDay },
	},
	"health_days": {
		def:     daysToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleDays },
	},
	"health_macros": {
		def:     macrosToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleMacros },
	},
	"health_rolling": {
		def:     rollingToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleRolling },
	},
	"health_activity": {
		def:     activityToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleActivity },
	},
	"health_volume": {
		def:     volumeToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleVolume },
	},
	"health_exercises": {
		def:     exercisesToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleExercises },
	},
	"health_recommend": {
		def:     recommendToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleRecommend },
	},
}

// AllToolNames returns a list of all valid tool names.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	return names
}

// ValidateDisabledTools returns a list of unknown tool names from the given list.
func ValidateDisabledTools(names []string) []string {
	unknown := make([]string, 0)
	for _, name := range names {
		if _, ok := toolRegistry[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// NewServer creates a new MCP server with Vitalog tools registered.
// Tools listed in cfg.DisabledTools are excluded from registration.
func NewServer(db *sql.DB, baseDir string, cfg *config.Config, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"vitalog",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(db, baseDir, cfg)

	disabled := make(map[string]bool)
	for _, name := range cfg.DisabledTools {
		disabled[name] = true
	}

	for name, entry := range toolRegistry {
		if disabled[name] {
			continue
		}
		s.AddTool(entry.def, entry.handler(h))
	}

	return s
}

// Run starts the MCP server using stdio transport.
func Run(db *sql.DB, baseDir string, cfg *config.Config, version string) error {
	s := NewServer(db, baseDir, cfg, version)
	return server.ServeStdio(s)
}

// ToolHandlerFunc is the signature for tool handlers.
type ToolHandlerFunc func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)
