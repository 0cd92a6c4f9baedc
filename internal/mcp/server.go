package mcp

import (
	"context"
	"log/slog"

	"github.com/claude/gain/internal/config"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

type contextKey int

const userIDKey contextKey = iota

// UserIDFromContext extracts the user ID injected by the transport layer.
func UserIDFromContext(ctx context.Context) int {
	if id, ok := ctx.Value(userIDKey).(int); ok {
		return id
	}
	return 1
}

// WithUserID returns a context with the given user ID.
func WithUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, analyticsCfg config.AnalyticsConfig, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("GAIN", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("GAIN workout analytics server. Query logged workouts and run session quality, muscle balance, and weekly fatigue analytics over the training history. All data is scoped to the authenticated user."),
	)

	h := &handlers{ds: ds, analytics: analyticsCfg, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolGetWorkouts, Handler: h.getWorkouts},
		server.ServerTool{Tool: toolGetSessionQuality, Handler: h.getSessionQuality},
		server.ServerTool{Tool: toolGetMuscleBalance, Handler: h.getMuscleBalance},
		server.ServerTool{Tool: toolGetWeeklyFatigue, Handler: h.getWeeklyFatigue},
		server.ServerTool{Tool: toolGetStats, Handler: h.getStats},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resRecentWorkouts, Handler: h.recentWorkouts},
		server.ServerResource{Resource: resTrainingOverview, Handler: h.trainingOverview},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds        DataSource
	analytics config.AnalyticsConfig
	log       *slog.Logger
}

// --- Resource definitions ---

var resRecentWorkouts = mcp.NewResource(
	"gain://recent_workouts",
	"Recent Workouts",
	mcp.WithResourceDescription("Workouts from the last 14 days with exercises and sets"),
	mcp.WithMIMEType("application/json"),
)

var resTrainingOverview = mcp.NewResource(
	"gain://training_overview",
	"Training Overview",
	mcp.WithResourceDescription("Dataset statistics plus the latest weekly fatigue and muscle balance snapshots"),
	mcp.WithMIMEType("application/json"),
)
