// ABOUTME: Kind enumeration for the entity types found in a health export.
// ABOUTME: Used to tag batched rows, statistics counters, and dedup sets.
package models

// Kind identifies one entity type from the export tree.
type Kind string

const (
	KindProfile            Kind = "profile"
	KindRecord             Kind = "record"
	KindWorkout            Kind = "workout"
	KindWorkoutEvent       Kind = "workout_event"
	KindWorkoutStatistics  Kind = "workout_statistics"
	KindWorkoutRoute       Kind = "workout_route"
	KindCorrelation        Kind = "correlation"
	KindCorrelationLink    Kind = "correlation_link"
	KindActivitySummary    Kind = "activity_summary"
	KindClinicalRecord     Kind = "clinical_record"
	KindAudiogram          Kind = "audiogram"
	KindSensitivityPoint   Kind = "sensitivity_point"
	KindVisionPrescription Kind = "vision_prescription"
	KindEyePrescription    Kind = "eye_prescription"
	KindVisionAttachment   Kind = "vision_attachment"
	KindMetadataEntry      Kind = "metadata_entry"
	KindHRVList            Kind = "hrv_list"
	KindBeatsPerMinute     Kind = "instantaneous_bpm"
)
