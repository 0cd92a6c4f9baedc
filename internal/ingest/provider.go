package ingest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/claude/gain/internal/observability"
	"github.com/claude/gain/internal/storage"
)

// Result holds the outcome of an ingest operation.
type Result struct {
	WorkoutsReceived int    `json:"workouts_received"`
	WorkoutsInserted int    `json:"workouts_inserted"`
	WorkoutsSkipped  int    `json:"workouts_skipped"`
	Message          string `json:"message,omitempty"`
}

// Provider processes workout JSON exports.
type Provider struct {
	db  *storage.DB
	log *slog.Logger
}

// NewProvider creates a workout export ingest provider.
func NewProvider(db *storage.DB, log *slog.Logger) *Provider {
	return &Provider{db: db, log: log}
}

// Ingest parses an export and stores its workouts. Workouts whose IDs already
// exist are skipped, so re-sending an export is harmless. Every run is
// recorded in the import log.
func (p *Provider) Ingest(ctx context.Context, r io.Reader, userID int) (*Result, error) {
	started := time.Now()

	logID, err := p.db.InsertImportLog(ctx, storage.ImportLog{
		UserID: userID,
		Source: "export",
		Status: "running",
	})
	if err != nil {
		return nil, fmt.Errorf("creating import log: %w", err)
	}

	result, err := p.ingest(ctx, r, userID)
	durationMs := int(time.Since(started).Milliseconds())

	entry := storage.ImportLog{
		UserID:     userID,
		Source:     "export",
		Status:     "success",
		DurationMs: &durationMs,
	}
	if err != nil {
		msg := err.Error()
		entry.Status = "error"
		entry.ErrorMessage = &msg
	} else {
		entry.WorkoutsReceived = result.WorkoutsReceived
		entry.WorkoutsInserted = result.WorkoutsInserted
		entry.WorkoutsSkipped = result.WorkoutsSkipped
	}
	if logErr := p.db.UpdateImportLog(ctx, logID, entry); logErr != nil {
		p.log.Warn("updating import log failed", "id", logID, "error", logErr)
	}

	return result, err
}

func (p *Provider) ingest(ctx context.Context, r io.Reader, userID int) (*Result, error) {
	records, err := Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing export: %w", err)
	}

	result := &Result{WorkoutsReceived: len(records)}
	for _, rec := range records {
		inserted, err := p.db.InsertWorkoutRecord(ctx, rec, userID)
		if err != nil {
			return nil, fmt.Errorf("storing workout %s: %w", rec.ID, err)
		}
		if inserted {
			result.WorkoutsInserted++
			observability.RecordWorkoutIngested(rec.Start)
		} else {
			result.WorkoutsSkipped++
		}
	}

	p.log.Info("export ingested",
		"received", result.WorkoutsReceived,
		"inserted", result.WorkoutsInserted,
		"skipped", result.WorkoutsSkipped,
	)
	return result, nil
}
