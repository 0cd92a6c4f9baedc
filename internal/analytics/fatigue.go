package analytics

import (
	"fmt"
	"time"

	"github.com/claude/gain/internal/models"
	"github.com/google/uuid"
)

// Default fatigue thresholds, on the 0–100 index scale.
const (
	DefaultHighFatigueThreshold = 70.0
	DefaultDeloadThreshold      = 85.0
)

// fatigueLookbackWeeks is how many non-empty prior weeks the baseline volume
// average is drawn from. Gap weeks with no sessions do not count toward this
// depth; the lookback takes the 3 nearest weeks that actually hold data.
const fatigueLookbackWeeks = 3

// How much the relative-volume base and the inverted session quality each
// contribute to the blended index, when session scores are available.
const (
	volumeBlendWeight  = 0.7
	qualityBlendWeight = 0.3
)

// WeeklyFatigueMetrics is the fatigue estimate for one ISO week.
// AvgSessionScore is nil when no session in the week has a score entry.
type WeeklyFatigueMetrics struct {
	WeekStart         time.Time `json:"week_start"`
	TotalVolume       float64   `json:"total_volume"`
	SessionCount      int       `json:"session_count"`
	AvgSessionScore   *float64  `json:"avg_session_score,omitempty"`
	FatigueIndex      float64   `json:"fatigue_index"`
	IsHighFatigueWeek bool      `json:"is_high_fatigue_week"`
	SuggestDeload     bool      `json:"suggest_deload"`
}

// WeeklyFatigue computes a 0–100 fatigue index per ISO week by comparing each
// week's volume against the per-session average of the preceding weeks,
// optionally blended with session quality scores (lower quality reads as
// higher fatigue). sessionScores may be nil. Thresholds must be in [0, 100].
// Weeks with no prior history get the neutral volume factor 1.0. The result
// is ascending by week start; empty input yields an empty result.
func WeeklyFatigue(sessions []models.WorkoutRecord, sessionScores map[uuid.UUID]float64, highFatigueThreshold, deloadThreshold float64) ([]WeeklyFatigueMetrics, error) {
	if highFatigueThreshold < 0 || highFatigueThreshold > 100 {
		return nil, fmt.Errorf("high fatigue threshold must be in [0, 100], got %g", highFatigueThreshold)
	}
	if deloadThreshold < 0 || deloadThreshold > 100 {
		return nil, fmt.Errorf("deload threshold must be in [0, 100], got %g", deloadThreshold)
	}

	buckets := weeklyBuckets(sessions)

	result := make([]WeeklyFatigueMetrics, 0, len(buckets))
	for i, b := range buckets {
		m := WeeklyFatigueMetrics{
			WeekStart:    b.start,
			SessionCount: len(b.sessions),
		}

		var scoreSum float64
		var scoreCount int
		for _, s := range b.sessions {
			m.TotalVolume += s.TotalVolume
			if score, ok := sessionScores[s.ID]; ok {
				scoreSum += score
				scoreCount++
			}
		}
		if scoreCount > 0 {
			avg := scoreSum / float64(scoreCount)
			m.AvgSessionScore = &avg
		}

		prevAvg := trailingSessionAverage(buckets[:i])

		volumeFactor := 1.0
		if prevAvg > 0 {
			volumeFactor = clamp(m.TotalVolume/prevAvg, 0, 2)
		}

		m.FatigueIndex = volumeFactor / 2 * 100
		if m.AvgSessionScore != nil {
			m.FatigueIndex = volumeBlendWeight*m.FatigueIndex + qualityBlendWeight*(100-*m.AvgSessionScore)
		}

		m.IsHighFatigueWeek = m.FatigueIndex >= highFatigueThreshold
		m.SuggestDeload = m.FatigueIndex >= deloadThreshold

		result = append(result, m)
	}
	return result, nil
}

// trailingSessionAverage returns the mean session volume across the last
// fatigueLookbackWeeks buckets of prior, or 0 when prior is empty.
func trailingSessionAverage(prior []weekBucket) float64 {
	if len(prior) > fatigueLookbackWeeks {
		prior = prior[len(prior)-fatigueLookbackWeeks:]
	}

	var volumeSum float64
	var sessionCount int
	for _, b := range prior {
		for _, s := range b.sessions {
			volumeSum += s.TotalVolume
			sessionCount++
		}
	}
	if sessionCount == 0 {
		return 0
	}
	return volumeSum / float64(sessionCount)
}
