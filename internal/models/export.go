package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// ExportTime handles the workout export date formats: RFC 3339 for full
// timestamps and "2006-01-02" for date-only entries from older exports.
type ExportTime struct {
	time.Time
}

const ExportDateOnlyLayout = "2006-01-02"

func (t *ExportTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	return t.Parse(s)
}

func (t ExportTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Format(time.RFC3339))
}

// Parse parses an export time string, trying RFC 3339 first, then date-only.
func (t *ExportTime) Parse(s string) error {
	parsed, err := time.Parse(time.RFC3339, s)
	if err == nil {
		t.Time = parsed
		return nil
	}
	parsed, err2 := time.Parse(ExportDateOnlyLayout, s)
	if err2 == nil {
		t.Time = parsed
		return nil
	}
	return fmt.Errorf("cannot parse export time %q: %w", s, err)
}

// ExportPayload is the top-level workout export JSON structure.
type ExportPayload struct {
	Workouts []ExportWorkout `json:"workouts"`
}

// ExportWorkout is one session as it appears in an export file.
// The ID may be absent in older exports; the ingest layer assigns one.
type ExportWorkout struct {
	ID        string           `json:"id,omitempty"`
	Name      string           `json:"name"`
	Start     ExportTime       `json:"start"`
	Exercises []ExportExercise `json:"exercises"`
}

// ExportExercise is one exercise entry in an export file.
type ExportExercise struct {
	Name         string      `json:"name"`
	MuscleGroups []string    `json:"muscle_groups"`
	Sets         []ExportSet `json:"sets"`
}

// ExportSet is one set in an export file.
type ExportSet struct {
	Reps        int     `json:"reps"`
	WeightKg    float64 `json:"weight_kg"`
	IsCompleted bool    `json:"is_completed"`
}
