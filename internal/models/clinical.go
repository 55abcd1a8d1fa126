// ABOUTME: ClinicalRecord model for FHIR resources referenced by the export.
// ABOUTME: Low-volume kind; deduplicated by identifier via direct store lookup.
package models

import (
	"time"

	"github.com/google/uuid"
)

// ClinicalRecord references a FHIR resource file shipped with the export.
type ClinicalRecord struct {
	ID               uuid.UUID
	Type             string
	Identifier       string
	SourceName       string
	SourceURL        *string
	FHIRVersion      *string
	ReceivedDate     time.Time
	ResourceFilePath *string
	ProfileID        uuid.UUID
}

// ClinicalKey is the identity key for deduplicating clinical records.
type ClinicalKey struct {
	Identifier string
}

// Key projects the clinical record onto its identity key.
func (c *ClinicalRecord) Key() ClinicalKey {
	return ClinicalKey{Identifier: c.Identifier}
}
