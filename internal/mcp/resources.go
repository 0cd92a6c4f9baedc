package mcp

import (
	"context"
	"encoding/json"
	"time"

	"github.com/claude/gain/internal/analytics"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
)

func (h *handlers) recentWorkouts(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uid := UserIDFromContext(ctx)
	end := time.Now()
	start := end.AddDate(0, 0, -14)

	workouts, err := h.ds.QueryWorkoutRecords(ctx, start, end, uid)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(workouts)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (h *handlers) trainingOverview(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uid := UserIDFromContext(ctx)

	stats, err := h.ds.GetDataStats(ctx, uid)
	if err != nil {
		return nil, err
	}

	sessions, err := h.ds.QueryWorkoutRecords(ctx, time.Time{}, time.Now(), uid)
	if err != nil {
		h.log.Warn("training_overview: workout query failed", "error", err)
	}

	overview := map[string]any{
		"stats": stats,
	}

	if len(sessions) > 0 {
		scored, err := analytics.ScoreAllSessions(sessions, h.analytics.RecentWindow)
		if err == nil {
			scores := make(map[uuid.UUID]float64, len(scored))
			for _, m := range scored {
				scores[m.WorkoutID] = m.SessionScore
			}
			weeks, err := analytics.WeeklyFatigue(sessions, scores,
				h.analytics.HighFatigueThreshold, h.analytics.DeloadThreshold)
			if err == nil && len(weeks) > 0 {
				overview["latest_fatigue"] = weeks[len(weeks)-1]
			}
		}
		if balance := analytics.WeeklyBalance(sessions); len(balance) > 0 {
			overview["latest_balance"] = balance[len(balance)-1]
		}
	}

	data, err := json.Marshal(overview)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
