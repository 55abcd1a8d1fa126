// ABOUTME: Read-only queries over an ingested store for the stats and MCP surfaces.
// ABOUTME: Never writes; the importer is the only writer a store ever sees.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/hkimport/internal/models"
)

// RecordTypeCount pairs a record type with how many rows carry it.
type RecordTypeCount struct {
	Type  string
	Count int64
}

// RecordTypes returns the distinct record types in the store with counts,
// most frequent first.
func (d *DB) RecordTypes() ([]RecordTypeCount, error) {
	rows, err := d.db.Query(`
		SELECT type, COUNT(*) FROM records
		GROUP BY type
		ORDER BY COUNT(*) DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("record types: %w", err)
	}
	defer rows.Close()

	var out []RecordTypeCount
	for rows.Next() {
		var rt RecordTypeCount
		if err := rows.Scan(&rt.Type, &rt.Count); err != nil {
			return nil, fmt.Errorf("scan record type: %w", err)
		}
		out = append(out, rt)
	}
	return out, rows.Err()
}

// QueryRecords returns records of one type, optionally bounded to a date
// range, most recent first.
func (d *DB) QueryRecords(recordType string, from, to *time.Time, limit int) ([]*models.Record, error) {
	query := `
		SELECT id, type, source_name, source_version, device, unit, value,
		       creation_date, start_date, end_date, profile_id
		FROM records
		WHERE type = ?
	`
	args := []any{recordType}
	if from != nil {
		query += " AND start_date >= ?"
		args = append(args, from.Format(time.RFC3339))
	}
	if to != nil {
		query += " AND start_date <= ?"
		args = append(args, to.Format(time.RFC3339))
	}
	query += " ORDER BY start_date DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var out []*models.Record
	for rows.Next() {
		var r models.Record
		var id, profileID, start, end string
		var creation *string
		if err := rows.Scan(&id, &r.Type, &r.SourceName, &r.SourceVersion, &r.Device,
			&r.Unit, &r.Value, &creation, &start, &end, &profileID); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		if r.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parse record id: %w", err)
		}
		if r.ProfileID, err = uuid.Parse(profileID); err != nil {
			return nil, fmt.Errorf("parse profile id: %w", err)
		}
		if r.StartDate, err = time.Parse(time.RFC3339, start); err != nil {
			return nil, fmt.Errorf("parse start date: %w", err)
		}
		if r.EndDate, err = time.Parse(time.RFC3339, end); err != nil {
			return nil, fmt.Errorf("parse end date: %w", err)
		}
		if creation != nil {
			t, err := time.Parse(time.RFC3339, *creation)
			if err != nil {
				return nil, fmt.Errorf("parse creation date: %w", err)
			}
			r.CreationDate = &t
		}
		out = append(out, &r)
	}
	return out, rows.Err()
}

// ListWorkouts returns workouts, most recent first.
func (d *DB) ListWorkouts(limit int) ([]*models.Workout, error) {
	query := `
		SELECT id, activity_type, duration, duration_unit, total_distance,
		       total_distance_unit, total_energy_burned, total_energy_burned_unit,
		       source_name, start_date, end_date, profile_id
		FROM workouts
		ORDER BY start_date DESC
	`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}
	defer rows.Close()

	var out []*models.Workout
	for rows.Next() {
		var w models.Workout
		var id, profileID, start, end string
		if err := rows.Scan(&id, &w.ActivityType, &w.Duration, &w.DurationUnit,
			&w.TotalDistance, &w.TotalDistanceUnit, &w.TotalEnergyBurned,
			&w.TotalEnergyBurnedUnit, &w.SourceName, &start, &end, &profileID); err != nil {
			return nil, fmt.Errorf("scan workout: %w", err)
		}
		if w.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parse workout id: %w", err)
		}
		if w.ProfileID, err = uuid.Parse(profileID); err != nil {
			return nil, fmt.Errorf("parse profile id: %w", err)
		}
		if w.StartDate, err = time.Parse(time.RFC3339, start); err != nil {
			return nil, fmt.Errorf("parse start date: %w", err)
		}
		if w.EndDate, err = time.Parse(time.RFC3339, end); err != nil {
			return nil, fmt.Errorf("parse end date: %w", err)
		}
		out = append(out, &w)
	}
	return out, rows.Err()
}

// SummaryByDate returns the activity summary for one calendar day, or nil.
func (d *DB) SummaryByDate(dateComponents string) (*models.ActivitySummary, error) {
	row := d.db.QueryRow(`
		SELECT id, date_components, active_energy_burned, active_energy_goal,
		       active_energy_unit, move_time, move_time_goal, exercise_time,
		       exercise_time_goal, stand_hours, stand_hours_goal, profile_id
		FROM activity_summaries
		WHERE date_components = ?
	`, dateComponents)

	var s models.ActivitySummary
	var id, profileID string
	err := row.Scan(&id, &s.DateComponents, &s.ActiveEnergyBurned, &s.ActiveEnergyGoal,
		&s.ActiveEnergyUnit, &s.MoveTime, &s.MoveTimeGoal, &s.ExerciseTime,
		&s.ExerciseTimeGoal, &s.StandHours, &s.StandHoursGoal, &profileID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("summary by date: %w", err)
	}
	if s.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("parse summary id: %w", err)
	}
	if s.ProfileID, err = uuid.Parse(profileID); err != nil {
		return nil, fmt.Errorf("parse profile id: %w", err)
	}
	return &s, nil
}

// TableCount pairs a table name with its row count.
type TableCount struct {
	Table string
	Count int64
}

// importTables lists every table the importer writes, in report order.
var importTables = []string{
	"health_profiles", "records", "correlations", "correlation_records",
	"workouts", "workout_events", "workout_statistics", "workout_routes",
	"activity_summaries", "clinical_records", "audiograms", "sensitivity_points",
	"vision_prescriptions", "eye_prescriptions", "vision_attachments",
	"metadata_entries", "hrv_lists", "instantaneous_bpm",
}

// TableCounts returns per-table row counts for the stats command.
func (d *DB) TableCounts() ([]TableCount, error) {
	out := make([]TableCount, 0, len(importTables))
	for _, table := range importTables {
		var count int64
		if err := d.db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count); err != nil {
			return nil, fmt.Errorf("count %s: %w", table, err)
		}
		out = append(out, TableCount{Table: table, Count: count})
	}
	return out, nil
}
