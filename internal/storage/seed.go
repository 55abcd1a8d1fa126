// ABOUTME: Seed-scan queries projecting existing rows onto their identity keys.
// ABOUTME: Feeds the in-memory duplicate index before a run touches any input.
package storage

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/harperreed/hkimport/internal/models"
)

// RecordKeyIDs returns the identity key of every stored record for a profile,
// mapped to its row id. The COALESCE mirrors the decode-time nil-to-empty
// collapse; the two sides must project identically or dedup silently fails.
// Stored timestamps carry whatever zone the writing run used, so they are
// reprojected into the canonical key zone before keying.
func (d *DB) RecordKeyIDs(profileID uuid.UUID) (map[models.RecordKey]uuid.UUID, error) {
	rows, err := d.db.Query(`
		SELECT id, type, start_date, end_date, COALESCE(value, '')
		FROM records
		WHERE profile_id = ?
	`, profileID.String())
	if err != nil {
		return nil, fmt.Errorf("seed record keys: %w", err)
	}
	defer rows.Close()

	keys := make(map[models.RecordKey]uuid.UUID)
	for rows.Next() {
		var id, recordType, start, end, value string
		if err := rows.Scan(&id, &recordType, &start, &end, &value); err != nil {
			return nil, fmt.Errorf("scan record key: %w", err)
		}
		parsed, err := uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("parse record id: %w", err)
		}
		if start, err = models.NormalizeKeyTime(start); err != nil {
			return nil, fmt.Errorf("normalize record start: %w", err)
		}
		if end, err = models.NormalizeKeyTime(end); err != nil {
			return nil, fmt.Errorf("normalize record end: %w", err)
		}
		keys[models.NewRecordKey(recordType, start, end, &value)] = parsed
	}
	return keys, rows.Err()
}

// WorkoutKeys returns the identity keys of every stored workout for a profile.
func (d *DB) WorkoutKeys(profileID uuid.UUID) ([]models.WorkoutKey, error) {
	rows, err := d.db.Query(`
		SELECT activity_type, start_date, end_date
		FROM workouts
		WHERE profile_id = ?
	`, profileID.String())
	if err != nil {
		return nil, fmt.Errorf("seed workout keys: %w", err)
	}
	defer rows.Close()

	var keys []models.WorkoutKey
	for rows.Next() {
		var activityType, start, end string
		if err := rows.Scan(&activityType, &start, &end); err != nil {
			return nil, fmt.Errorf("scan workout key: %w", err)
		}
		var err error
		if start, err = models.NormalizeKeyTime(start); err != nil {
			return nil, fmt.Errorf("normalize workout start: %w", err)
		}
		if end, err = models.NormalizeKeyTime(end); err != nil {
			return nil, fmt.Errorf("normalize workout end: %w", err)
		}
		keys = append(keys, models.NewWorkoutKey(activityType, start, end))
	}
	return keys, rows.Err()
}

// CorrelationKeyIDs returns the identity key of every stored correlation for
// a profile, mapped to its row id.
func (d *DB) CorrelationKeyIDs(profileID uuid.UUID) (map[models.CorrelationKey]uuid.UUID, error) {
	rows, err := d.db.Query(`
		SELECT id, type, start_date, end_date
		FROM correlations
		WHERE profile_id = ?
	`, profileID.String())
	if err != nil {
		return nil, fmt.Errorf("seed correlation keys: %w", err)
	}
	defer rows.Close()

	keys := make(map[models.CorrelationKey]uuid.UUID)
	for rows.Next() {
		var id, corrType, start, end string
		if err := rows.Scan(&id, &corrType, &start, &end); err != nil {
			return nil, fmt.Errorf("scan correlation key: %w", err)
		}
		parsed, err := uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("parse correlation id: %w", err)
		}
		if start, err = models.NormalizeKeyTime(start); err != nil {
			return nil, fmt.Errorf("normalize correlation start: %w", err)
		}
		if end, err = models.NormalizeKeyTime(end); err != nil {
			return nil, fmt.Errorf("normalize correlation end: %w", err)
		}
		keys[models.NewCorrelationKey(corrType, start, end)] = parsed
	}
	return keys, rows.Err()
}

// SummaryKeys returns the identity keys of every stored activity summary for
// a profile.
func (d *DB) SummaryKeys(profileID uuid.UUID) ([]models.SummaryKey, error) {
	rows, err := d.db.Query(`
		SELECT date_components
		FROM activity_summaries
		WHERE profile_id = ?
	`, profileID.String())
	if err != nil {
		return nil, fmt.Errorf("seed summary keys: %w", err)
	}
	defer rows.Close()

	var keys []models.SummaryKey
	for rows.Next() {
		var dateComponents string
		if err := rows.Scan(&dateComponents); err != nil {
			return nil, fmt.Errorf("scan summary key: %w", err)
		}
		keys = append(keys, models.NewSummaryKey(dateComponents))
	}
	return keys, rows.Err()
}

// LinkKeys returns every stored correlation-record pair, so re-establishing a
// link on a later run stays a no-op.
func (d *DB) LinkKeys() ([]models.LinkKey, error) {
	rows, err := d.db.Query(`SELECT correlation_id, record_id FROM correlation_records`)
	if err != nil {
		return nil, fmt.Errorf("seed link keys: %w", err)
	}
	defer rows.Close()

	var keys []models.LinkKey
	for rows.Next() {
		var corrID, recID string
		if err := rows.Scan(&corrID, &recID); err != nil {
			return nil, fmt.Errorf("scan link key: %w", err)
		}
		cid, err := uuid.Parse(corrID)
		if err != nil {
			return nil, fmt.Errorf("parse correlation id: %w", err)
		}
		rid, err := uuid.Parse(recID)
		if err != nil {
			return nil, fmt.Errorf("parse record id: %w", err)
		}
		keys = append(keys, models.LinkKey{CorrelationID: cid, RecordID: rid})
	}
	return keys, rows.Err()
}
