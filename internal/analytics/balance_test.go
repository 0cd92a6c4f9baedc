package analytics

import (
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/claude/gain/internal/models"
	"github.com/google/uuid"
)

func taggedSession(start time.Time, exercises ...models.ExerciseEntry) models.WorkoutRecord {
	var total float64
	for _, e := range exercises {
		total += e.TotalVolume
	}
	return models.WorkoutRecord{ID: uuid.New(), Start: start, Exercises: exercises, TotalVolume: total}
}

func findTag(volumes []MuscleGroupVolume, tag string) (MuscleGroupVolume, bool) {
	for _, v := range volumes {
		if v.MuscleGroup == tag {
			return v, true
		}
	}
	return MuscleGroupVolume{}, false
}

// TestWeeklyBalanceCompositeDoubleCount verifies that an exercise tagged with
// two push-composite tags contributes its volume to both per-tag totals and
// twice to the push composite sum.
func TestWeeklyBalanceCompositeDoubleCount(t *testing.T) {
	start := time.Date(2025, 3, 11, 18, 0, 0, 0, time.UTC)
	s := taggedSession(start, models.ExerciseEntry{
		Name:         "Close-Grip Bench",
		MuscleGroups: []string{"chest", "triceps"},
		TotalVolume:  1200,
	})

	weeks := WeeklyBalance([]models.WorkoutRecord{s})
	if len(weeks) != 1 {
		t.Fatalf("weeks = %d, want 1", len(weeks))
	}
	w := weeks[0]

	for _, tag := range []string{"chest", "triceps"} {
		v, ok := findTag(w.Volumes, tag)
		if !ok {
			t.Fatalf("tag %q missing from volumes: %+v", tag, w.Volumes)
		}
		if v.TotalVolume != 1200 {
			t.Errorf("%s volume = %v, want 1200", tag, v.TotalVolume)
		}
		if v.SessionCount != 1 {
			t.Errorf("%s session count = %d, want 1", tag, v.SessionCount)
		}
	}

	// Both tags are push-composite members, so the exercise counts twice.
	if w.PushVolume != 2400 {
		t.Errorf("push volume = %v, want 2400", w.PushVolume)
	}
	if w.PullVolume != 0 || w.LegsVolume != 0 {
		t.Errorf("pull/legs = %v/%v, want 0/0", w.PullVolume, w.LegsVolume)
	}
}

// TestWeeklyBalanceUntaggedExcluded verifies silent exclusion of exercises
// without muscle-group tags.
func TestWeeklyBalanceUntaggedExcluded(t *testing.T) {
	start := time.Date(2025, 3, 11, 18, 0, 0, 0, time.UTC)
	s := taggedSession(start,
		models.ExerciseEntry{Name: "Farmer Carry", TotalVolume: 800},
		models.ExerciseEntry{Name: "Deadlift", MuscleGroups: []string{"back"}, TotalVolume: 2000},
	)

	weeks := WeeklyBalance([]models.WorkoutRecord{s})
	if len(weeks) != 1 {
		t.Fatalf("weeks = %d, want 1", len(weeks))
	}
	if len(weeks[0].Volumes) != 1 {
		t.Fatalf("volumes = %+v, want only the tagged exercise", weeks[0].Volumes)
	}
	if weeks[0].PullVolume != 2000 {
		t.Errorf("pull volume = %v, want 2000", weeks[0].PullVolume)
	}
}

// TestWeeklyBalanceSessionCountDedup verifies that two exercises sharing a tag
// within one session count that session once, while volume still sums.
func TestWeeklyBalanceSessionCountDedup(t *testing.T) {
	start := time.Date(2025, 3, 11, 18, 0, 0, 0, time.UTC)
	s1 := taggedSession(start,
		models.ExerciseEntry{Name: "Bench Press", MuscleGroups: []string{"chest"}, TotalVolume: 1000},
		models.ExerciseEntry{Name: "Incline Press", MuscleGroups: []string{"chest"}, TotalVolume: 600},
	)
	s2 := taggedSession(start.AddDate(0, 0, 2),
		models.ExerciseEntry{Name: "Dips", MuscleGroups: []string{"Chest"}, TotalVolume: 400},
	)

	weeks := WeeklyBalance([]models.WorkoutRecord{s1, s2})
	if len(weeks) != 1 {
		t.Fatalf("weeks = %d, want 1", len(weeks))
	}
	v, ok := findTag(weeks[0].Volumes, "chest")
	if !ok {
		t.Fatalf("chest missing: %+v", weeks[0].Volumes)
	}
	if v.TotalVolume != 2000 {
		t.Errorf("chest volume = %v, want 2000", v.TotalVolume)
	}
	if v.SessionCount != 2 {
		t.Errorf("chest session count = %d, want 2 (dedup within session, mixed-case tag counted)", v.SessionCount)
	}
}

// TestWeeklyBalanceWeekSplit verifies grouping into separate ascending weeks.
func TestWeeklyBalanceWeekSplit(t *testing.T) {
	weekA := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	weekB := weekA.AddDate(0, 0, 7)
	sessions := []models.WorkoutRecord{
		taggedSession(weekB.Add(10*time.Hour), models.ExerciseEntry{MuscleGroups: []string{"quads"}, TotalVolume: 500}),
		taggedSession(weekA.Add(10*time.Hour), models.ExerciseEntry{MuscleGroups: []string{"legs"}, TotalVolume: 900}),
	}

	weeks := WeeklyBalance(sessions)
	if len(weeks) != 2 {
		t.Fatalf("weeks = %d, want 2", len(weeks))
	}
	if !weeks[0].WeekStart.Equal(weekA) || !weeks[1].WeekStart.Equal(weekB) {
		t.Errorf("week order = %v, %v", weeks[0].WeekStart, weeks[1].WeekStart)
	}
	if weeks[0].LegsVolume != 900 || weeks[1].LegsVolume != 500 {
		t.Errorf("legs volumes = %v, %v; want 900, 500", weeks[0].LegsVolume, weeks[1].LegsVolume)
	}
}

// TestWeeklyBalanceEmptyAndIdempotent verifies the empty-input contract and
// bit-identical repeated output.
func TestWeeklyBalanceEmptyAndIdempotent(t *testing.T) {
	if got := WeeklyBalance(nil); len(got) != 0 {
		t.Errorf("WeeklyBalance(nil) = %d weeks, want 0", len(got))
	}

	start := time.Date(2025, 3, 11, 18, 0, 0, 0, time.UTC)
	sessions := []models.WorkoutRecord{
		taggedSession(start,
			models.ExerciseEntry{MuscleGroups: []string{"chest", "shoulders"}, TotalVolume: 700},
			models.ExerciseEntry{MuscleGroups: []string{"back"}, TotalVolume: 700},
		),
	}
	a := WeeklyBalance(sessions)
	b := WeeklyBalance(sessions)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("repeated calls differ:\n%+v\n%+v", a, b)
	}

	// Equal volumes must have a stable tie-break (name ascending).
	vols := a[0].Volumes
	for i := 1; i < len(vols); i++ {
		if vols[i-1].TotalVolume == vols[i].TotalVolume && vols[i-1].MuscleGroup > vols[i].MuscleGroup {
			t.Errorf("tie-break order wrong: %q before %q", vols[i-1].MuscleGroup, vols[i].MuscleGroup)
		}
	}
	if math.Abs(a[0].PushVolume-1400) > 1e-9 {
		t.Errorf("push volume = %v, want 1400", a[0].PushVolume)
	}
}
