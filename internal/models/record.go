// ABOUTME: Record model for individual health measurements and its identity key.
// ABOUTME: Values are opaque strings since the export mixes numbers, enums, and text.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Record is one measurement sample from the export. Value stays a string:
// the export mixes numeric quantities, category codes, and free text under
// the same element.
type Record struct {
	ID            uuid.UUID
	Type          string
	SourceName    string
	SourceVersion *string
	Device        *string
	Unit          *string
	Value         *string
	CreationDate  *time.Time
	StartDate     time.Time
	EndDate       time.Time
	ProfileID     uuid.UUID
}

// RecordKey is the identity key for deduplicating records: same type, same
// interval, same value string means same logical record. Comparable, so it
// can be used directly as a map key.
type RecordKey struct {
	Type  string
	Start string
	End   string
	Value string
}

// Key projects the record onto its identity key.
func (r *Record) Key() RecordKey {
	return NewRecordKey(r.Type, KeyTime(r.StartDate), KeyTime(r.EndDate), r.Value)
}

// NewRecordKey builds a record identity key from stored column values.
// A nil value collapses to the empty string, matching the seed query's
// COALESCE projection.
func NewRecordKey(recordType, start, end string, value *string) RecordKey {
	v := ""
	if value != nil {
		v = *value
	}
	return RecordKey{Type: recordType, Start: start, End: end, Value: v}
}
