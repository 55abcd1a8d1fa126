// ABOUTME: HealthProfile persistence: singleton resolve-or-create and deferred updates.
// ABOUTME: ExportDate and Me elements update the row in place after creation.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/hkimport/internal/models"
)

// FindProfile returns the singleton profile, or nil when the store is fresh.
func (d *DB) FindProfile() (*models.HealthProfile, error) {
	row := d.db.QueryRow(`
		SELECT id, locale, export_date, date_of_birth, biological_sex,
		       blood_type, skin_type, medications_use
		FROM health_profiles
		LIMIT 1
	`)

	var p models.HealthProfile
	var id, exportDate string
	err := row.Scan(&id, &p.Locale, &exportDate, &p.DateOfBirth,
		&p.BiologicalSex, &p.BloodType, &p.SkinType, &p.MedicationsUse)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find profile: %w", err)
	}

	if p.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("parse profile id: %w", err)
	}
	if p.ExportDate, err = time.Parse(time.RFC3339, exportDate); err != nil {
		return nil, fmt.Errorf("parse export date: %w", err)
	}
	return &p, nil
}

// CreateProfile inserts the singleton profile row.
func (d *DB) CreateProfile(p *models.HealthProfile) error {
	_, err := d.db.Exec(`
		INSERT INTO health_profiles (id, locale, export_date, date_of_birth,
			biological_sex, blood_type, skin_type, medications_use)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		p.ID.String(), p.Locale, p.ExportDate.Format(time.RFC3339),
		p.DateOfBirth, p.BiologicalSex, p.BloodType, p.SkinType, p.MedicationsUse,
	)
	if err != nil {
		return fmt.Errorf("create profile: %w", err)
	}
	return nil
}

// UpdateProfileExportDate writes the export instant once the ExportDate
// sibling element arrives.
func (d *DB) UpdateProfileExportDate(id uuid.UUID, t time.Time) error {
	_, err := d.db.Exec(`UPDATE health_profiles SET export_date = ? WHERE id = ?`,
		t.Format(time.RFC3339), id.String())
	if err != nil {
		return fmt.Errorf("update export date: %w", err)
	}
	return nil
}

// UpdateProfilePersonalInfo writes the characteristic fields from a Me element.
func (d *DB) UpdateProfilePersonalInfo(id uuid.UUID, info models.PersonalInfo) error {
	_, err := d.db.Exec(`
		UPDATE health_profiles
		SET date_of_birth = ?, biological_sex = ?, blood_type = ?,
		    skin_type = ?, medications_use = ?
		WHERE id = ?
	`,
		info.DateOfBirth, info.BiologicalSex, info.BloodType,
		info.SkinType, info.MedicationsUse, id.String(),
	)
	if err != nil {
		return fmt.Errorf("update personal info: %w", err)
	}
	return nil
}
