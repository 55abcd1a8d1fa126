// ABOUTME: Workout model with its nested event, statistics, and route children.
// ABOUTME: Identity key is (activity type, start, end); children ride on acceptance.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Workout is one exercise session from the export.
type Workout struct {
	ID                    uuid.UUID
	ActivityType          string
	Duration              *float64
	DurationUnit          *string
	TotalDistance         *float64
	TotalDistanceUnit     *string
	TotalEnergyBurned     *float64
	TotalEnergyBurnedUnit *string
	SourceName            string
	SourceVersion         *string
	Device                *string
	CreationDate          *time.Time
	StartDate             time.Time
	EndDate               time.Time
	ProfileID             uuid.UUID
}

// WorkoutKey is the identity key for deduplicating workouts.
type WorkoutKey struct {
	ActivityType string
	Start        string
	End          string
}

// Key projects the workout onto its identity key.
func (w *Workout) Key() WorkoutKey {
	return NewWorkoutKey(w.ActivityType, KeyTime(w.StartDate), KeyTime(w.EndDate))
}

// NewWorkoutKey builds a workout identity key from stored column values.
func NewWorkoutKey(activityType, start, end string) WorkoutKey {
	return WorkoutKey{ActivityType: activityType, Start: start, End: end}
}

// WorkoutEvent is a pause/resume/segment marker inside a workout.
type WorkoutEvent struct {
	ID           uuid.UUID
	Type         string
	Date         time.Time
	Duration     *float64
	DurationUnit *string
	WorkoutID    uuid.UUID
}

// WorkoutStatistics is an aggregate measurement over a workout interval.
type WorkoutStatistics struct {
	ID        uuid.UUID
	Type      string
	StartDate time.Time
	EndDate   time.Time
	Average   *float64
	Minimum   *float64
	Maximum   *float64
	Sum       *float64
	Unit      *string
	WorkoutID uuid.UUID
}

// WorkoutRoute points at a GPX file shipped alongside the export.
type WorkoutRoute struct {
	ID            uuid.UUID
	SourceName    string
	SourceVersion *string
	Device        *string
	CreationDate  *time.Time
	StartDate     time.Time
	EndDate       time.Time
	FilePath      string
	WorkoutID     uuid.UUID
}
