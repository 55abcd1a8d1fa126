// ABOUTME: Correlation model grouping records taken together, plus the link table.
// ABOUTME: Links are deduplicated independently of the records they join.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Correlation groups records sampled together, e.g. a blood pressure reading
// made of a systolic and a diastolic record.
type Correlation struct {
	ID            uuid.UUID
	Type          string
	SourceName    string
	SourceVersion *string
	Device        *string
	CreationDate  *time.Time
	StartDate     time.Time
	EndDate       time.Time
	ProfileID     uuid.UUID
}

// CorrelationKey is the identity key for deduplicating correlations.
type CorrelationKey struct {
	Type  string
	Start string
	End   string
}

// Key projects the correlation onto its identity key.
func (c *Correlation) Key() CorrelationKey {
	return NewCorrelationKey(c.Type, KeyTime(c.StartDate), KeyTime(c.EndDate))
}

// NewCorrelationKey builds a correlation identity key from stored column values.
func NewCorrelationKey(corrType, start, end string) CorrelationKey {
	return CorrelationKey{Type: corrType, Start: start, End: end}
}

// CorrelationLink joins a correlation to one of its member records.
// Re-establishing an existing link is a no-op, never an error.
type CorrelationLink struct {
	ID            uuid.UUID
	CorrelationID uuid.UUID
	RecordID      uuid.UUID
}

// LinkKey identifies one correlation-record pair.
type LinkKey struct {
	CorrelationID uuid.UUID
	RecordID      uuid.UUID
}

// Key projects the link onto its identity pair.
func (l *CorrelationLink) Key() LinkKey {
	return LinkKey{CorrelationID: l.CorrelationID, RecordID: l.RecordID}
}
