// ABOUTME: ActivitySummary model for per-day move/exercise/stand ring data.
// ABOUTME: Keyed by calendar date; one summary per day per profile.
package models

import "github.com/google/uuid"

// ActivitySummary is one day of activity ring data. DateComponents stays the
// export's day-granularity string, e.g. "2024-03-01".
type ActivitySummary struct {
	ID                 uuid.UUID
	DateComponents     string
	ActiveEnergyBurned *float64
	ActiveEnergyGoal   *float64
	ActiveEnergyUnit   *string
	MoveTime           *float64
	MoveTimeGoal       *float64
	ExerciseTime       *float64
	ExerciseTimeGoal   *float64
	StandHours         *int64
	StandHoursGoal     *int64
	ProfileID          uuid.UUID
}

// SummaryKey is the identity key for deduplicating activity summaries.
type SummaryKey struct {
	DateComponents string
}

// Key projects the summary onto its identity key.
func (s *ActivitySummary) Key() SummaryKey {
	return NewSummaryKey(s.DateComponents)
}

// NewSummaryKey builds a summary identity key from the stored date string.
func NewSummaryKey(dateComponents string) SummaryKey {
	return SummaryKey{DateComponents: dateComponents}
}
