package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/claude/gain/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// InsertWorkoutRecord inserts a workout with its exercises and sets in one
// transaction. Returns false without error when a workout with the same ID
// already exists, so re-ingesting an export is idempotent.
func (db *DB) InsertWorkoutRecord(ctx context.Context, rec models.WorkoutRecord, userID int) (bool, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`INSERT INTO workouts (id, user_id, name, start_time, total_volume)
		 VALUES ($1,$2,$3,$4,$5)
		 ON CONFLICT DO NOTHING`,
		rec.ID, userID, rec.Name, rec.Start, rec.TotalVolume)
	if err != nil {
		return false, fmt.Errorf("inserting workout: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	if err := insertExercises(ctx, tx, rec); err != nil {
		return false, err
	}
	if err := insertSets(ctx, tx, rec); err != nil {
		return false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("committing workout: %w", err)
	}
	return true, nil
}

func insertExercises(ctx context.Context, tx pgx.Tx, rec models.WorkoutRecord) error {
	if len(rec.Exercises) == 0 {
		return nil
	}

	query := `INSERT INTO workout_exercises (workout_id, position, name, muscle_groups, total_volume) VALUES `
	args := make([]any, 0, len(rec.Exercises)*5)
	valueStrings := make([]string, 0, len(rec.Exercises))

	for i, ex := range rec.Exercises {
		base := i * 5
		valueStrings = append(valueStrings, fmt.Sprintf(
			"($%d,$%d,$%d,$%d,$%d)", base+1, base+2, base+3, base+4, base+5))
		args = append(args, rec.ID, i, ex.Name, ex.MuscleGroups, ex.TotalVolume)
	}

	if _, err := tx.Exec(ctx, query+strings.Join(valueStrings, ","), args...); err != nil {
		return fmt.Errorf("inserting exercises: %w", err)
	}
	return nil
}

func insertSets(ctx context.Context, tx pgx.Tx, rec models.WorkoutRecord) error {
	var args []any
	var valueStrings []string

	n := 0
	for pos, ex := range rec.Exercises {
		for setNum, set := range ex.Sets {
			base := n * 6
			valueStrings = append(valueStrings, fmt.Sprintf(
				"($%d,$%d,$%d,$%d,$%d,$%d)", base+1, base+2, base+3, base+4, base+5, base+6))
			args = append(args, rec.ID, pos, setNum, set.Reps, set.WeightKg, set.IsCompleted)
			n++
		}
	}
	if n == 0 {
		return nil
	}

	query := `INSERT INTO workout_sets (workout_id, exercise_position, set_number, reps, weight_kg, is_completed) VALUES ` +
		strings.Join(valueStrings, ",")
	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("inserting sets: %w", err)
	}
	return nil
}

// QueryWorkoutRecords retrieves fully assembled workout records with start
// times in [start, end), ascending by start time. This is the input shape the
// analytics engines consume.
func (db *DB) QueryWorkoutRecords(ctx context.Context, start, end time.Time, userID int) ([]models.WorkoutRecord, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, name, start_time, total_volume
		 FROM workouts
		 WHERE start_time >= $1 AND start_time < $2 AND user_id = $3
		 ORDER BY start_time ASC`,
		start, end, userID)
	if err != nil {
		return nil, fmt.Errorf("querying workouts: %w", err)
	}
	defer rows.Close()

	var result []models.WorkoutRecord
	index := make(map[uuid.UUID]int)
	for rows.Next() {
		var w models.WorkoutRecord
		if err := rows.Scan(&w.ID, &w.Name, &w.Start, &w.TotalVolume); err != nil {
			return nil, fmt.Errorf("scanning workout: %w", err)
		}
		index[w.ID] = len(result)
		result = append(result, w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return nil, nil
	}

	if err := db.attachExercises(ctx, start, end, userID, result, index); err != nil {
		return nil, err
	}
	if err := db.attachSets(ctx, start, end, userID, result, index); err != nil {
		return nil, err
	}
	return result, nil
}

func (db *DB) attachExercises(ctx context.Context, start, end time.Time, userID int, records []models.WorkoutRecord, index map[uuid.UUID]int) error {
	rows, err := db.Pool.Query(ctx,
		`SELECT e.workout_id, e.name, e.muscle_groups, e.total_volume
		 FROM workout_exercises e
		 JOIN workouts w ON w.id = e.workout_id
		 WHERE w.start_time >= $1 AND w.start_time < $2 AND w.user_id = $3
		 ORDER BY e.workout_id, e.position ASC`,
		start, end, userID)
	if err != nil {
		return fmt.Errorf("querying exercises: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var workoutID uuid.UUID
		var ex models.ExerciseEntry
		if err := rows.Scan(&workoutID, &ex.Name, &ex.MuscleGroups, &ex.TotalVolume); err != nil {
			return fmt.Errorf("scanning exercise: %w", err)
		}
		if i, ok := index[workoutID]; ok {
			records[i].Exercises = append(records[i].Exercises, ex)
		}
	}
	return rows.Err()
}

func (db *DB) attachSets(ctx context.Context, start, end time.Time, userID int, records []models.WorkoutRecord, index map[uuid.UUID]int) error {
	rows, err := db.Pool.Query(ctx,
		`SELECT s.workout_id, s.exercise_position, s.reps, s.weight_kg, s.is_completed
		 FROM workout_sets s
		 JOIN workouts w ON w.id = s.workout_id
		 WHERE w.start_time >= $1 AND w.start_time < $2 AND w.user_id = $3
		 ORDER BY s.workout_id, s.exercise_position ASC, s.set_number ASC`,
		start, end, userID)
	if err != nil {
		return fmt.Errorf("querying sets: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var workoutID uuid.UUID
		var pos int
		var set models.RepSet
		if err := rows.Scan(&workoutID, &pos, &set.Reps, &set.WeightKg, &set.IsCompleted); err != nil {
			return fmt.Errorf("scanning set: %w", err)
		}
		i, ok := index[workoutID]
		if !ok || pos >= len(records[i].Exercises) {
			continue
		}
		records[i].Exercises[pos].Sets = append(records[i].Exercises[pos].Sets, set)
	}
	return rows.Err()
}

// GetWorkoutRecord retrieves a single workout with exercises and sets.
func (db *DB) GetWorkoutRecord(ctx context.Context, workoutID uuid.UUID, userID int) (*models.WorkoutRecord, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT id, name, start_time, total_volume
		 FROM workouts
		 WHERE id = $1 AND user_id = $2`,
		workoutID, userID)

	var w models.WorkoutRecord
	if err := row.Scan(&w.ID, &w.Name, &w.Start, &w.TotalVolume); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("workout %s: not found", workoutID)
		}
		return nil, fmt.Errorf("querying workout: %w", err)
	}

	exRows, err := db.Pool.Query(ctx,
		`SELECT name, muscle_groups, total_volume
		 FROM workout_exercises
		 WHERE workout_id = $1
		 ORDER BY position ASC`,
		workoutID)
	if err != nil {
		return nil, fmt.Errorf("querying exercises: %w", err)
	}
	defer exRows.Close()

	for exRows.Next() {
		var ex models.ExerciseEntry
		if err := exRows.Scan(&ex.Name, &ex.MuscleGroups, &ex.TotalVolume); err != nil {
			return nil, fmt.Errorf("scanning exercise: %w", err)
		}
		w.Exercises = append(w.Exercises, ex)
	}
	if err := exRows.Err(); err != nil {
		return nil, err
	}

	setRows, err := db.Pool.Query(ctx,
		`SELECT exercise_position, reps, weight_kg, is_completed
		 FROM workout_sets
		 WHERE workout_id = $1
		 ORDER BY exercise_position ASC, set_number ASC`,
		workoutID)
	if err != nil {
		return nil, fmt.Errorf("querying sets: %w", err)
	}
	defer setRows.Close()

	for setRows.Next() {
		var pos int
		var set models.RepSet
		if err := setRows.Scan(&pos, &set.Reps, &set.WeightKg, &set.IsCompleted); err != nil {
			return nil, fmt.Errorf("scanning set: %w", err)
		}
		if pos < len(w.Exercises) {
			w.Exercises[pos].Sets = append(w.Exercises[pos].Sets, set)
		}
	}
	return &w, setRows.Err()
}

// DeleteWorkoutRecord removes a workout and, via cascade, its exercises and
// sets. Returns true if a row was deleted.
func (db *DB) DeleteWorkoutRecord(ctx context.Context, workoutID uuid.UUID, userID int) (bool, error) {
	tag, err := db.Pool.Exec(ctx,
		`DELETE FROM workouts WHERE id = $1 AND user_id = $2`,
		workoutID, userID)
	if err != nil {
		return false, fmt.Errorf("deleting workout: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
