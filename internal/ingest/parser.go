// Package ingest parses workout JSON exports and writes them to the log store.
package ingest

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/claude/gain/internal/models"
	"github.com/google/uuid"
)

// workoutNamespace seeds deterministic IDs for export entries that carry no
// ID of their own, so re-importing the same file never duplicates a session.
var workoutNamespace = uuid.MustParse("a2c9e3a0-44f2-4b61-9d3c-cba1f0f3b8e7")

// Parse reads a workout export and returns normalized workout records:
// stable IDs assigned, muscle-group tags lowercased, and the derived volume
// fields computed from the raw sets.
func Parse(r io.Reader) ([]models.WorkoutRecord, error) {
	var payload models.ExportPayload
	dec := json.NewDecoder(r)
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding export: %w", err)
	}

	records := make([]models.WorkoutRecord, 0, len(payload.Workouts))
	for i, w := range payload.Workouts {
		if w.Start.IsZero() {
			return nil, fmt.Errorf("workout %d (%q): missing start time", i, w.Name)
		}
		records = append(records, toRecord(w))
	}
	return records, nil
}

func toRecord(w models.ExportWorkout) models.WorkoutRecord {
	rec := models.WorkoutRecord{
		ID:    workoutID(w),
		Name:  w.Name,
		Start: w.Start.Time,
	}

	for _, ex := range w.Exercises {
		entry := models.ExerciseEntry{
			Name:         ex.Name,
			MuscleGroups: models.NormalizeMuscleGroups(ex.MuscleGroups),
		}
		for _, set := range ex.Sets {
			entry.Sets = append(entry.Sets, models.RepSet{
				Reps:        set.Reps,
				WeightKg:    set.WeightKg,
				IsCompleted: set.IsCompleted,
			})
		}
		entry.TotalVolume = entry.ComputeVolume()
		rec.Exercises = append(rec.Exercises, entry)
	}

	rec.TotalVolume = rec.ComputeVolume()
	return rec
}

// workoutID returns the export's own ID when present and valid, otherwise a
// deterministic UUID derived from the session name and start time.
func workoutID(w models.ExportWorkout) uuid.UUID {
	if id, err := uuid.Parse(w.ID); err == nil {
		return id
	}
	seed := w.Name + "|" + w.Start.UTC().Format(time.RFC3339)
	return uuid.NewSHA1(workoutNamespace, []byte(seed))
}
