// ABOUTME: Point lookups for the low-volume kinds that skip the seed scan.
// ABOUTME: Clinical records, audiograms, and vision prescriptions dedup per candidate.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// findID runs a single-row id lookup, reporting whether a row matched.
func (d *DB) findID(query string, args ...any) (uuid.UUID, bool, error) {
	var id string
	err := d.db.QueryRow(query, args...).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("parse id: %w", err)
	}
	return parsed, true, nil
}

// FindClinicalRecordID looks up a clinical record by its source identifier.
func (d *DB) FindClinicalRecordID(identifier string, profileID uuid.UUID) (uuid.UUID, bool, error) {
	id, ok, err := d.findID(`
		SELECT id FROM clinical_records
		WHERE identifier = ? AND profile_id = ?
	`, identifier, profileID.String())
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("find clinical record: %w", err)
	}
	return id, ok, nil
}

// FindAudiogramID looks up an audiogram by type and interval. Stored columns
// may carry any zone offset, so the comparison goes through datetime(), which
// normalizes both sides to UTC.
func (d *DB) FindAudiogramID(audioType string, start, end time.Time, profileID uuid.UUID) (uuid.UUID, bool, error) {
	id, ok, err := d.findID(`
		SELECT id FROM audiograms
		WHERE type = ? AND datetime(start_date) = datetime(?) AND datetime(end_date) = datetime(?) AND profile_id = ?
	`, audioType, start.UTC().Format(time.RFC3339), end.UTC().Format(time.RFC3339), profileID.String())
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("find audiogram: %w", err)
	}
	return id, ok, nil
}

// FindVisionPrescriptionID looks up a vision prescription by type and issue
// date, with the same zone-normalized comparison as the audiogram lookup.
func (d *DB) FindVisionPrescriptionID(visionType string, dateIssued time.Time, profileID uuid.UUID) (uuid.UUID, bool, error) {
	id, ok, err := d.findID(`
		SELECT id FROM vision_prescriptions
		WHERE type = ? AND datetime(date_issued) = datetime(?) AND profile_id = ?
	`, visionType, dateIssued.UTC().Format(time.RFC3339), profileID.String())
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("find vision prescription: %w", err)
	}
	return id, ok, nil
}
