// ABOUTME: MetadataEntry model plus the HRV list and its beat samples.
// ABOUTME: All three attach to an open parent and never outlive it.
package models

import (
	"time"

	"github.com/google/uuid"
)

// MetadataEntry is a free-form key/value pair tagged with its parent. The
// (ParentKind, ParentID) pair is a weak back-reference, not an ownership edge;
// entries are only ever looked up by parent.
type MetadataEntry struct {
	ID         uuid.UUID
	Key        string
	Value      string
	ParentKind Kind
	ParentID   uuid.UUID
}

// HRVList groups the instantaneous beat samples attached to one heart rate
// variability record.
type HRVList struct {
	ID       uuid.UUID
	RecordID uuid.UUID
}

// InstantaneousBPM is one beat sample within an HRV list.
type InstantaneousBPM struct {
	ID        uuid.UUID
	BPM       int64
	Time      time.Time
	HRVListID uuid.UUID
}
