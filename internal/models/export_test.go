package models

import (
	"encoding/json"
	"testing"
	"time"
)

// TestExportTimeParse verifies both supported export timestamp layouts.
func TestExportTimeParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{
			name:  "rfc3339",
			input: "2025-03-10T18:30:00+01:00",
			want:  time.Date(2025, 3, 10, 18, 30, 0, 0, time.FixedZone("", 3600)),
		},
		{
			name:  "rfc3339 utc",
			input: "2025-03-10T18:30:00Z",
			want:  time.Date(2025, 3, 10, 18, 30, 0, 0, time.UTC),
		},
		{
			name:  "date only",
			input: "2025-03-10",
			want:  time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			name:    "garbage",
			input:   "not a date",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var et ExportTime
			err := et.Parse(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Parse(%q) succeeded, want error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.input, err)
			}
			if !et.Equal(tt.want) {
				t.Errorf("Parse(%q) = %v, want %v", tt.input, et.Time, tt.want)
			}
		})
	}
}

// TestExportWorkoutUnmarshal verifies a full export payload decodes into
// nested workout/exercise/set shapes.
func TestExportWorkoutUnmarshal(t *testing.T) {
	payload := `{
		"workouts": [
			{
				"id": "5a8f7d10-9c5e-4b7b-9f0f-6a2b1c3d4e5f",
				"name": "Push Day",
				"start": "2025-03-10T18:30:00Z",
				"exercises": [
					{
						"name": "Bench Press",
						"muscle_groups": ["Chest", "Triceps"],
						"sets": [
							{"reps": 8, "weight_kg": 100, "is_completed": true},
							{"reps": 8, "weight_kg": 100, "is_completed": false}
						]
					}
				]
			}
		]
	}`

	var p ExportPayload
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	if len(p.Workouts) != 1 {
		t.Fatalf("workouts = %d, want 1", len(p.Workouts))
	}
	w := p.Workouts[0]
	if w.Name != "Push Day" {
		t.Errorf("name = %q, want %q", w.Name, "Push Day")
	}
	if w.Start.Hour() != 18 || w.Start.Minute() != 30 {
		t.Errorf("start = %v, want 18:30", w.Start.Time)
	}
	if len(w.Exercises) != 1 || len(w.Exercises[0].Sets) != 2 {
		t.Fatalf("exercises/sets shape = %+v", w.Exercises)
	}
	if w.Exercises[0].MuscleGroups[1] != "Triceps" {
		t.Errorf("muscle_groups = %v", w.Exercises[0].MuscleGroups)
	}
	if !w.Exercises[0].Sets[0].IsCompleted || w.Exercises[0].Sets[1].IsCompleted {
		t.Errorf("is_completed flags = %v, %v", w.Exercises[0].Sets[0].IsCompleted, w.Exercises[0].Sets[1].IsCompleted)
	}
}
