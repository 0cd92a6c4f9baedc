package mcp

import (
	"context"
	"time"

	"github.com/claude/gain/internal/models"
	"github.com/claude/gain/internal/storage"
)

// DataSource abstracts the data layer for MCP tools. Both *storage.DB (local)
// and HTTPClient (remote via REST API) satisfy this interface.
type DataSource interface {
	QueryWorkoutRecords(ctx context.Context, start, end time.Time, userID int) ([]models.WorkoutRecord, error)
	GetDataStats(ctx context.Context, userID int) (*storage.DataStats, error)
}

// Compile-time check: *storage.DB satisfies DataSource.
var _ DataSource = (*storage.DB)(nil)
