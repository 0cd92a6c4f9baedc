// Package analytics derives longitudinal training metrics from workout
// records: per-session quality scores, weekly fatigue indices with deload
// recommendations, and weekly muscle-group volume balance. All functions are
// pure and read-only over caller-supplied records; they hold no state and may
// be called concurrently over distinct input snapshots.
package analytics

import (
	"sort"
	"time"

	"github.com/claude/gain/internal/models"
)

// WeekStart returns the start of t's ISO-8601 week: the preceding (or same)
// Monday at midnight in t's location. Two timestamps fall in the same week
// bucket iff WeekStart returns the same date for both.
func WeekStart(t time.Time) time.Time {
	year, month, day := t.Date()
	midnight := time.Date(year, month, day, 0, 0, 0, 0, t.Location())
	// Weekday is Sunday-based; shift so Monday is 0.
	offset := (int(midnight.Weekday()) + 6) % 7
	return midnight.AddDate(0, 0, -offset)
}

// weekBucket holds one non-empty ISO week of sessions, in input order.
type weekBucket struct {
	start    time.Time
	sessions []models.WorkoutRecord
}

// weeklyBuckets groups sessions into ISO week buckets, ascending by week
// start. Buckets with no sessions are never materialized; relative order
// within a bucket equals input order.
func weeklyBuckets(sessions []models.WorkoutRecord) []weekBucket {
	byKey := make(map[string]*weekBucket)
	for _, s := range sessions {
		start := WeekStart(s.Start)
		key := start.Format("2006-01-02")
		b, ok := byKey[key]
		if !ok {
			b = &weekBucket{start: start}
			byKey[key] = b
		}
		b.sessions = append(b.sessions, s)
	}

	keys := make([]string, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	buckets := make([]weekBucket, 0, len(keys))
	for _, k := range keys {
		buckets = append(buckets, *byKey[k])
	}
	return buckets
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
