package mcp

import (
	"context"
	"time"

	"github.com/claude/gain/internal/analytics"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
)

// defaultTimeRange returns start/end defaulting to the last 30 days.
func defaultTimeRange(startStr, endStr string) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error

	if endStr != "" {
		end, err = parseFlexTime(endStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		end = time.Now()
	}

	if startStr != "" {
		start, err = parseFlexTime(startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		start = end.AddDate(0, 0, -30)
	}

	return start, end, nil
}

// historyTimeRange is like defaultTimeRange but defaults to the full
// training history, which the weekly engines need to bucket correctly.
func historyTimeRange(startStr, endStr string) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error

	if endStr != "" {
		end, err = parseFlexTime(endStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		end = time.Now()
	}

	if startStr != "" {
		start, err = parseFlexTime(startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	}

	return start, end, nil
}

func parseFlexTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	t, err = time.Parse("2006-01-02", s)
	if err == nil {
		return t, nil
	}
	return time.Time{}, err
}

// --- Tool definitions ---

var toolGetWorkouts = mcp.NewTool("get_workouts",
	mcp.WithDescription("Query logged workouts. Returns sessions with their exercises, muscle group tags, sets, and volume totals."),
	mcp.WithString("start", mcp.Description("Start date (ISO 8601 or YYYY-MM-DD). Defaults to 30 days ago.")),
	mcp.WithString("end", mcp.Description("End date (ISO 8601 or YYYY-MM-DD). Defaults to now.")),
)

var toolGetSessionQuality = mcp.NewTool("get_session_quality",
	mcp.WithDescription("Score each workout session 0-100 from set completion and volume relative to the recent trailing average. Returns per-session completion rate, volume ratio, and score."),
	mcp.WithString("start", mcp.Description("Start date. Defaults to the full history.")),
	mcp.WithString("end", mcp.Description("End date. Defaults to now.")),
	mcp.WithNumber("window", mcp.Description("Number of prior sessions in the trailing volume average. Defaults to 5.")),
)

var toolGetMuscleBalance = mcp.NewTool("get_muscle_balance",
	mcp.WithDescription("Per-week training volume by muscle group, plus push/pull/legs composite totals. Useful for spotting imbalances between movement patterns."),
	mcp.WithString("start", mcp.Description("Start date. Defaults to the full history.")),
	mcp.WithString("end", mcp.Description("End date. Defaults to now.")),
)

var toolGetWeeklyFatigue = mcp.NewTool("get_weekly_fatigue",
	mcp.WithDescription("Per-week fatigue index 0-100 from volume relative to the trailing weekly average, blended with session quality. Flags high-fatigue weeks and suggests deloads."),
	mcp.WithString("start", mcp.Description("Start date. Defaults to the full history.")),
	mcp.WithString("end", mcp.Description("End date. Defaults to now.")),
	mcp.WithNumber("high", mcp.Description("High-fatigue threshold in [0, 100]. Defaults to 70.")),
	mcp.WithNumber("deload", mcp.Description("Deload-suggestion threshold in [0, 100]. Defaults to 85.")),
)

var toolGetStats = mcp.NewTool("get_stats",
	mcp.WithDescription("Dataset statistics: workout, exercise, and set counts, total volume, date range, and per-workout-name breakdown."),
)

// --- Tool handlers ---

func (h *handlers) getWorkouts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := defaultTimeRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	uid := UserIDFromContext(ctx)
	workouts, err := h.ds.QueryWorkoutRecords(ctx, start, end, uid)
	if err != nil {
		h.log.Error("mcp get_workouts", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(workouts)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getSessionQuality(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := historyTimeRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	window := req.GetInt("window", h.analytics.RecentWindow)
	uid := UserIDFromContext(ctx)

	sessions, err := h.ds.QueryWorkoutRecords(ctx, start, end, uid)
	if err != nil {
		h.log.Error("mcp get_session_quality", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	metrics, err := analytics.ScoreAllSessions(sessions, window)
	if err != nil {
		return mcp.NewToolResultError("scoring failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(metrics)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getMuscleBalance(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := historyTimeRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	uid := UserIDFromContext(ctx)
	sessions, err := h.ds.QueryWorkoutRecords(ctx, start, end, uid)
	if err != nil {
		h.log.Error("mcp get_muscle_balance", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(analytics.WeeklyBalance(sessions))
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getWeeklyFatigue(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := historyTimeRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	high := req.GetFloat("high", h.analytics.HighFatigueThreshold)
	deload := req.GetFloat("deload", h.analytics.DeloadThreshold)
	uid := UserIDFromContext(ctx)

	sessions, err := h.ds.QueryWorkoutRecords(ctx, start, end, uid)
	if err != nil {
		h.log.Error("mcp get_weekly_fatigue", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	scored, err := analytics.ScoreAllSessions(sessions, h.analytics.RecentWindow)
	if err != nil {
		return mcp.NewToolResultError("scoring failed: " + err.Error()), nil
	}
	scores := make(map[uuid.UUID]float64, len(scored))
	for _, m := range scored {
		scores[m.WorkoutID] = m.SessionScore
	}

	weeks, err := analytics.WeeklyFatigue(sessions, scores, high, deload)
	if err != nil {
		return mcp.NewToolResultError("fatigue analysis failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(weeks)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getStats(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid := UserIDFromContext(ctx)
	stats, err := h.ds.GetDataStats(ctx, uid)
	if err != nil {
		h.log.Error("mcp get_stats", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(stats)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
