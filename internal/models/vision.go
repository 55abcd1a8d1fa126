// ABOUTME: VisionPrescription model with per-eye prescriptions and attachments.
// ABOUTME: Low-volume kind; deduplicated by (type, date issued) via store lookup.
package models

import (
	"time"

	"github.com/google/uuid"
)

// EyeSide distinguishes the two Prescription child elements.
type EyeSide string

const (
	EyeLeft  EyeSide = "left"
	EyeRight EyeSide = "right"
)

// VisionPrescription is one glasses or contacts prescription.
type VisionPrescription struct {
	ID             uuid.UUID
	Type           string
	DateIssued     time.Time
	ExpirationDate *time.Time
	Brand          *string
	ProfileID      uuid.UUID
}

// VisionKey is the identity key for deduplicating vision prescriptions.
type VisionKey struct {
	Type       string
	DateIssued string
}

// Key projects the prescription onto its identity key.
func (v *VisionPrescription) Key() VisionKey {
	return VisionKey{Type: v.Type, DateIssued: KeyTime(v.DateIssued)}
}

// EyePrescription holds the optical parameters for one eye.
type EyePrescription struct {
	ID              uuid.UUID
	EyeSide         EyeSide
	Sphere          *float64
	SphereUnit      *string
	Cylinder        *float64
	CylinderUnit    *string
	Axis            *float64
	AxisUnit        *string
	Add             *float64
	AddUnit         *string
	Vertex          *float64
	VertexUnit      *string
	PrismAmount     *float64
	PrismAmountUnit *string
	PrismAngle      *float64
	PrismAngleUnit  *string
	FarPD           *float64
	FarPDUnit       *string
	NearPD          *float64
	NearPDUnit      *string
	BaseCurve       *float64
	BaseCurveUnit   *string
	Diameter        *float64
	DiameterUnit    *string
	PrescriptionID  uuid.UUID
}

// VisionAttachment references a scanned prescription document.
type VisionAttachment struct {
	ID             uuid.UUID
	Identifier     string
	PrescriptionID uuid.UUID
}
