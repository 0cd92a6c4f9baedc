package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// RepSet is a single set: repetitions at a weight, with a completion flag.
// Completion rate metrics are computed solely from IsCompleted.
type RepSet struct {
	Reps        int     `json:"reps"`
	WeightKg    float64 `json:"weight_kg"`
	IsCompleted bool    `json:"is_completed"`
}

// Volume returns reps × weight for this set.
func (s RepSet) Volume() float64 {
	return float64(s.Reps) * s.WeightKg
}

// ExerciseEntry is one exercise performed within a session.
// MuscleGroups holds lowercase tags (e.g. "chest", "push"); it may be empty,
// in which case the exercise contributes to no muscle-group aggregate.
// TotalVolume is derived from Sets and recomputed whenever the sets change;
// consumers trust the stored value.
type ExerciseEntry struct {
	Name         string   `json:"name"`
	MuscleGroups []string `json:"muscle_groups,omitempty"`
	Sets         []RepSet `json:"sets"`
	TotalVolume  float64  `json:"total_volume"`
}

// ComputeVolume returns the sum of set volumes for this exercise.
func (e ExerciseEntry) ComputeVolume() float64 {
	var total float64
	for _, s := range e.Sets {
		total += s.Volume()
	}
	return total
}

// WorkoutRecord is one completed or in-progress training session.
// Start is the sole temporal anchor used for ordering and week grouping.
// TotalVolume carries the same trust invariant as ExerciseEntry.TotalVolume.
type WorkoutRecord struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Start       time.Time       `json:"start"`
	Exercises   []ExerciseEntry `json:"exercises"`
	TotalVolume float64         `json:"total_volume"`
}

// ComputeVolume returns the sum of exercise volumes for this session.
func (w WorkoutRecord) ComputeVolume() float64 {
	var total float64
	for _, e := range w.Exercises {
		total += e.ComputeVolume()
	}
	return total
}

// NormalizeMuscleGroups lowercases and trims tags, dropping empties and
// duplicates while preserving first-seen order.
func NormalizeMuscleGroups(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
