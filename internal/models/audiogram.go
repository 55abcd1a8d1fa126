// ABOUTME: Audiogram model and its per-frequency sensitivity point children.
// ABOUTME: Low-volume kind; deduplicated by (type, start, end) via store lookup.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Audiogram is one hearing test session.
type Audiogram struct {
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

// AudiogramKey is the identity key for deduplicating audiograms.
type AudiogramKey struct {
	Type  string
	Start string
	End   string
}

// Key projects the audiogram onto its identity key.
func (a *Audiogram) Key() AudiogramKey {
	return AudiogramKey{
		Type:  a.Type,
		Start: KeyTime(a.StartDate),
		End:   KeyTime(a.EndDate),
	}
}

// SensitivityPoint is one frequency measurement within an audiogram.
type SensitivityPoint struct {
	ID                uuid.UUID
	FrequencyValue    float64
	FrequencyUnit     string
	LeftEarValue      *float64
	LeftEarUnit       *string
	LeftEarMasked     *bool
	LeftEarClampLow   *float64
	LeftEarClampHigh  *float64
	RightEarValue     *float64
	RightEarUnit      *string
	RightEarMasked    *bool
	RightEarClampLow  *float64
	RightEarClampHigh *float64
	AudiogramID       uuid.UUID
}
