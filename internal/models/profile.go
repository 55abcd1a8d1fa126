// ABOUTME: HealthProfile model, the singleton root entity of a destination store.
// ABOUTME: Personal fields arrive as sibling elements and are filled in after creation.
package models

import (
	"time"

	"github.com/google/uuid"
)

// HealthProfile is the root entity every other row belongs to. Exactly one
// exists per destination store; repeated imports reuse it.
type HealthProfile struct {
	ID         uuid.UUID
	Locale     string
	ExportDate time.Time

	// Filled in by the Me element after the root is created.
	DateOfBirth    string
	BiologicalSex  string
	BloodType      string
	SkinType       string
	MedicationsUse string
}

// NewHealthProfile creates a profile for a fresh destination store. The export
// date defaults to now and is overwritten when the ExportDate element arrives.
func NewHealthProfile(locale string, now time.Time) *HealthProfile {
	return &HealthProfile{
		ID:         uuid.New(),
		Locale:     locale,
		ExportDate: now,
	}
}

// PersonalInfo carries the characteristic fields from a Me element.
type PersonalInfo struct {
	DateOfBirth    string
	BiologicalSex  string
	BloodType      string
	SkinType       string
	MedicationsUse string
}

// ApplyPersonalInfo overwrites the profile's characteristic fields.
func (p *HealthProfile) ApplyPersonalInfo(info PersonalInfo) {
	p.DateOfBirth = info.DateOfBirth
	p.BiologicalSex = info.BiologicalSex
	p.BloodType = info.BloodType
	p.SkinType = info.SkinType
	p.MedicationsUse = info.MedicationsUse
}
