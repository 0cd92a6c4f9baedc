package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/claude/gain/internal/models"
	"github.com/google/uuid"
)

// DefaultRecentWindow is the number of prior sessions a session is compared
// against when scoring.
const DefaultRecentWindow = 5

// Session score weights. The completion rate dominates; relative volume
// (clamped to twice the recent average) contributes the rest.
const (
	completionWeight = 0.6
	volumeWeight     = 0.4
	volumeRatioCap   = 2.0
)

// SessionQualityMetrics is the quality score for a single session.
type SessionQualityMetrics struct {
	WorkoutID      uuid.UUID `json:"workout_id"`
	Date           time.Time `json:"date"`
	CompletionRate float64   `json:"completion_rate"`
	TotalVolume    float64   `json:"total_volume"`
	VolumeRatio    float64   `json:"volume_ratio"`
	SessionScore   float64   `json:"session_score"`
}

// ScoreSession scores one session against its own set completion and the mean
// volume of its recentWindow most recent predecessors in allSessions (by
// start time, strictly earlier). A session with no sets scores 0.0 completion;
// a session with no history gets the neutral volume ratio 1.0, so a first-ever
// session is never penalized. The score is always in [0, 100].
func ScoreSession(session models.WorkoutRecord, allSessions []models.WorkoutRecord, recentWindow int) (SessionQualityMetrics, error) {
	if recentWindow < 1 {
		return SessionQualityMetrics{}, fmt.Errorf("recent window must be positive, got %d", recentWindow)
	}

	var totalSets, completedSets int
	for _, ex := range session.Exercises {
		for _, set := range ex.Sets {
			totalSets++
			if set.IsCompleted {
				completedSets++
			}
		}
	}
	completionRate := 0.0
	if totalSets > 0 {
		completionRate = float64(completedSets) / float64(totalSets)
	}

	recentAvg := recentAverageVolume(session, allSessions, recentWindow)

	volumeRatio := 1.0
	if recentAvg > 0 {
		volumeRatio = session.TotalVolume / recentAvg
	}
	volumeComponent := clamp(volumeRatio, 0, volumeRatioCap) / volumeRatioCap

	return SessionQualityMetrics{
		WorkoutID:      session.ID,
		Date:           session.Start,
		CompletionRate: completionRate,
		TotalVolume:    session.TotalVolume,
		VolumeRatio:    volumeRatio,
		SessionScore:   100 * (completionWeight*completionRate + volumeWeight*volumeComponent),
	}, nil
}

// recentAverageVolume returns the mean volume of the recentWindow sessions
// closest before session's start, or 0 when there is no history.
func recentAverageVolume(session models.WorkoutRecord, allSessions []models.WorkoutRecord, recentWindow int) float64 {
	prior := make([]models.WorkoutRecord, 0, len(allSessions))
	for _, s := range allSessions {
		if s.Start.Before(session.Start) {
			prior = append(prior, s)
		}
	}
	if len(prior) == 0 {
		return 0
	}

	sort.SliceStable(prior, func(i, j int) bool {
		return prior[i].Start.After(prior[j].Start)
	})
	if len(prior) > recentWindow {
		prior = prior[:recentWindow]
	}

	var sum float64
	for _, s := range prior {
		sum += s.TotalVolume
	}
	return sum / float64(len(prior))
}

// ScoreAllSessions scores every session in chronological order, each against
// only the sessions strictly preceding it. The result is ascending by start
// time.
func ScoreAllSessions(sessions []models.WorkoutRecord, recentWindow int) ([]SessionQualityMetrics, error) {
	if recentWindow < 1 {
		return nil, fmt.Errorf("recent window must be positive, got %d", recentWindow)
	}

	ordered := make([]models.WorkoutRecord, len(sessions))
	copy(ordered, sessions)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Start.Before(ordered[j].Start)
	})

	result := make([]SessionQualityMetrics, 0, len(ordered))
	for _, s := range ordered {
		m, err := ScoreSession(s, ordered, recentWindow)
		if err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	return result, nil
}
