package analytics

import (
	"sort"
	"strings"
	"time"

	"github.com/claude/gain/internal/models"
	"github.com/google/uuid"
)

// Composite tag membership for the push/pull/legs balance heuristic. A tag
// that appears in more than one composite (or an exercise tagged with several
// members of the same composite) double-counts: the composites are a rough
// balance signal, not a strict partition of volume.
var (
	pushTags = map[string]bool{"push": true, "chest": true, "shoulders": true, "triceps": true}
	pullTags = map[string]bool{"pull": true, "back": true, "biceps": true}
	legsTags = map[string]bool{"legs": true, "quads": true, "hamstrings": true, "glutes": true}
)

// MuscleGroupVolume is the aggregate for one muscle-group tag within a week.
// SessionCount counts distinct sessions touching the tag, not exercises.
type MuscleGroupVolume struct {
	MuscleGroup  string  `json:"muscle_group"`
	TotalVolume  float64 `json:"total_volume"`
	SessionCount int     `json:"session_count"`
}

// WeeklyMuscleBalance is the per-week muscle-group volume breakdown.
type WeeklyMuscleBalance struct {
	WeekStart  time.Time           `json:"week_start"`
	Volumes    []MuscleGroupVolume `json:"volumes"`
	PushVolume float64             `json:"push_volume"`
	PullVolume float64             `json:"pull_volume"`
	LegsVolume float64             `json:"legs_volume"`
}

// WeeklyBalance aggregates per-muscle-group volume per ISO week from exercise
// tags. Exercises without tags contribute to no aggregate. Weeks are ascending
// by start; tags within a week are ordered by volume descending, name
// ascending on ties. Empty input yields an empty result.
func WeeklyBalance(sessions []models.WorkoutRecord) []WeeklyMuscleBalance {
	buckets := weeklyBuckets(sessions)

	result := make([]WeeklyMuscleBalance, 0, len(buckets))
	for _, b := range buckets {
		result = append(result, balanceForWeek(b))
	}
	return result
}

type tagAccumulator struct {
	volume   float64
	sessions map[uuid.UUID]bool
}

func balanceForWeek(b weekBucket) WeeklyMuscleBalance {
	byTag := make(map[string]*tagAccumulator)

	for _, session := range b.sessions {
		for _, ex := range session.Exercises {
			for _, raw := range ex.MuscleGroups {
				tag := strings.ToLower(strings.TrimSpace(raw))
				if tag == "" {
					continue
				}
				acc, ok := byTag[tag]
				if !ok {
					acc = &tagAccumulator{sessions: make(map[uuid.UUID]bool)}
					byTag[tag] = acc
				}
				acc.volume += ex.TotalVolume
				acc.sessions[session.ID] = true
			}
		}
	}

	week := WeeklyMuscleBalance{WeekStart: b.start}
	for tag, acc := range byTag {
		week.Volumes = append(week.Volumes, MuscleGroupVolume{
			MuscleGroup:  tag,
			TotalVolume:  acc.volume,
			SessionCount: len(acc.sessions),
		})
		if pushTags[tag] {
			week.PushVolume += acc.volume
		}
		if pullTags[tag] {
			week.PullVolume += acc.volume
		}
		if legsTags[tag] {
			week.LegsVolume += acc.volume
		}
	}

	sort.Slice(week.Volumes, func(i, j int) bool {
		if week.Volumes[i].TotalVolume != week.Volumes[j].TotalVolume {
			return week.Volumes[i].TotalVolume > week.Volumes[j].TotalVolume
		}
		return week.Volumes[i].MuscleGroup < week.Volumes[j].MuscleGroup
	})

	return week
}
