package storage

import (
	"context"
	"fmt"
	"time"
)

// DataStats holds aggregate statistics about the stored workout log.
type DataStats struct {
	TotalWorkouts   int64             `json:"total_workouts"`
	TotalExercises  int64             `json:"total_exercises"`
	TotalSets       int64             `json:"total_sets"`
	TotalVolumeKg   float64           `json:"total_volume_kg"`
	EarliestSession *time.Time        `json:"earliest_session"`
	LatestSession   *time.Time        `json:"latest_session"`
	WorkoutsByName  []WorkoutNameStat `json:"workouts_by_name"`
}

// WorkoutNameStat holds summary stats for one recurring session name.
type WorkoutNameStat struct {
	Name        string  `json:"name"`
	Count       int64   `json:"count"`
	TotalVolume float64 `json:"total_volume_kg"`
}

// GetDataStats returns aggregate statistics for a user's workout log.
func (db *DB) GetDataStats(ctx context.Context, userID int) (*DataStats, error) {
	stats := &DataStats{}

	err := db.Pool.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(SUM(total_volume), 0), MIN(start_time), MAX(start_time)
		 FROM workouts WHERE user_id = $1`, userID,
	).Scan(&stats.TotalWorkouts, &stats.TotalVolumeKg, &stats.EarliestSession, &stats.LatestSession)
	if err != nil {
		return nil, fmt.Errorf("counting workouts: %w", err)
	}

	err = db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM workout_exercises e
		 JOIN workouts w ON w.id = e.workout_id
		 WHERE w.user_id = $1`, userID,
	).Scan(&stats.TotalExercises)
	if err != nil {
		return nil, fmt.Errorf("counting exercises: %w", err)
	}

	err = db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM workout_sets s
		 JOIN workouts w ON w.id = s.workout_id
		 WHERE w.user_id = $1`, userID,
	).Scan(&stats.TotalSets)
	if err != nil {
		return nil, fmt.Errorf("counting sets: %w", err)
	}

	rows, err := db.Pool.Query(ctx,
		`SELECT name, COUNT(*), COALESCE(SUM(total_volume), 0)
		 FROM workouts
		 WHERE user_id = $1
		 GROUP BY name
		 ORDER BY COUNT(*) DESC, name ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying workouts by name: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s WorkoutNameStat
		if err := rows.Scan(&s.Name, &s.Count, &s.TotalVolume); err != nil {
			return nil, fmt.Errorf("scanning workout name stat: %w", err)
		}
		stats.WorkoutsByName = append(stats.WorkoutsByName, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stats, nil
}
