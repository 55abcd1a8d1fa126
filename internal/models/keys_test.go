// ABOUTME: Tests for identity key projection across entity kinds.
// ABOUTME: Keys computed from entities must equal keys built from stored columns.
package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func strPtr(s string) *string { return &s }

func TestRecordKeyRoundTrip(t *testing.T) {
	start := time.Date(2025, 5, 10, 8, 0, 0, 0, time.UTC)
	end := start.Add(time.Minute)
	r := &Record{
		ID:        uuid.New(),
		Type:      "HKQuantityTypeIdentifierHeartRate",
		Value:     strPtr("62"),
		StartDate: start,
		EndDate:   end,
	}

	fromEntity := r.Key()
	fromColumns := NewRecordKey(r.Type, start.Format(time.RFC3339), end.Format(time.RFC3339), r.Value)
	if fromEntity != fromColumns {
		t.Errorf("entity key %+v != column key %+v", fromEntity, fromColumns)
	}
}

func TestRecordKeyNilValue(t *testing.T) {
	start := time.Date(2025, 5, 10, 8, 0, 0, 0, time.UTC)
	r := &Record{Type: "HKCategoryTypeIdentifierSleepAnalysis", StartDate: start, EndDate: start}

	key := r.Key()
	if key.Value != "" {
		t.Errorf("nil value should project to empty string, got %q", key.Value)
	}
	// Matches the seed query's COALESCE(value, '') projection.
	if key != NewRecordKey(r.Type, start.Format(time.RFC3339), start.Format(time.RFC3339), nil) {
		t.Error("nil-value keys from entity and columns differ")
	}
}

func TestRecordKeyDistinguishesValue(t *testing.T) {
	start := time.Date(2025, 5, 10, 8, 0, 0, 0, time.UTC)
	a := &Record{Type: "T", Value: strPtr("1"), StartDate: start, EndDate: start}
	b := &Record{Type: "T", Value: strPtr("2"), StartDate: start, EndDate: start}

	if a.Key() == b.Key() {
		t.Error("records with different values must have different keys")
	}
}

func TestRecordKeyTimezoneInvariant(t *testing.T) {
	// The same instant rendered in different zones is the same logical
	// record; keys normalize to UTC before comparison, so a run configured
	// for another zone still recognizes everything already stored.
	utc := time.Date(2025, 5, 10, 8, 0, 0, 0, time.UTC)
	zurich, err := time.LoadLocation("Europe/Zurich")
	if err != nil {
		t.Skip("tzdata unavailable")
	}

	a := &Record{Type: "T", StartDate: utc, EndDate: utc}
	b := &Record{Type: "T", StartDate: utc.In(zurich), EndDate: utc.In(zurich)}
	if a.Key() != b.Key() {
		t.Errorf("same instant keyed differently across zones: %+v vs %+v", a.Key(), b.Key())
	}

	w1 := &Workout{ActivityType: "Run", StartDate: utc, EndDate: utc}
	w2 := &Workout{ActivityType: "Run", StartDate: utc.In(zurich), EndDate: utc.In(zurich)}
	if w1.Key() != w2.Key() {
		t.Errorf("same workout keyed differently across zones: %+v vs %+v", w1.Key(), w2.Key())
	}

	c1 := &Correlation{Type: "C", StartDate: utc, EndDate: utc}
	c2 := &Correlation{Type: "C", StartDate: utc.In(zurich), EndDate: utc.In(zurich)}
	if c1.Key() != c2.Key() {
		t.Errorf("same correlation keyed differently across zones: %+v vs %+v", c1.Key(), c2.Key())
	}
}

func TestKeyTimeNormalizesToUTC(t *testing.T) {
	plus2 := time.FixedZone("UTC+2", 2*3600)
	zoned := time.Date(2025, 5, 10, 10, 0, 0, 0, plus2)

	if got := KeyTime(zoned); got != "2025-05-10T08:00:00Z" {
		t.Errorf("KeyTime() = %q, want 2025-05-10T08:00:00Z", got)
	}
}

func TestNormalizeKeyTime(t *testing.T) {
	got, err := NormalizeKeyTime("2025-05-10T10:00:00+02:00")
	if err != nil {
		t.Fatalf("NormalizeKeyTime() failed: %v", err)
	}
	if got != "2025-05-10T08:00:00Z" {
		t.Errorf("NormalizeKeyTime() = %q, want 2025-05-10T08:00:00Z", got)
	}

	if _, err := NormalizeKeyTime("not a timestamp"); err == nil {
		t.Error("expected error for malformed column value")
	}
}

func TestWorkoutKey(t *testing.T) {
	start := time.Date(2025, 5, 10, 8, 0, 0, 0, time.UTC)
	end := start.Add(31 * time.Minute)
	w := &Workout{ActivityType: "HKWorkoutActivityTypeRunning", StartDate: start, EndDate: end}

	want := NewWorkoutKey(w.ActivityType, start.Format(time.RFC3339), end.Format(time.RFC3339))
	if w.Key() != want {
		t.Errorf("Key() = %+v, want %+v", w.Key(), want)
	}
}

func TestCorrelationKey(t *testing.T) {
	start := time.Date(2025, 5, 10, 8, 0, 0, 0, time.UTC)
	c := &Correlation{Type: "HKCorrelationTypeIdentifierBloodPressure", StartDate: start, EndDate: start}

	key := c.Key()
	if key.Type != c.Type || key.Start != start.Format(time.RFC3339) {
		t.Errorf("unexpected key %+v", key)
	}
}

func TestSummaryKey(t *testing.T) {
	s := &ActivitySummary{DateComponents: "2025-05-10"}
	if s.Key() != (SummaryKey{DateComponents: "2025-05-10"}) {
		t.Errorf("unexpected key %+v", s.Key())
	}
}

func TestClinicalKey(t *testing.T) {
	c := &ClinicalRecord{Identifier: "fhir-123", Type: "Observation"}
	if c.Key() != (ClinicalKey{Identifier: "fhir-123"}) {
		t.Errorf("unexpected key %+v", c.Key())
	}
}

func TestAudiogramKey(t *testing.T) {
	start := time.Date(2025, 5, 10, 8, 0, 0, 0, time.UTC)
	a := &Audiogram{Type: "HKDataTypeIdentifierAudiogram", StartDate: start, EndDate: start}

	key := a.Key()
	if key.Start != start.Format(time.RFC3339) || key.End != start.Format(time.RFC3339) {
		t.Errorf("unexpected key %+v", key)
	}
}

func TestVisionKey(t *testing.T) {
	issued := time.Date(2024, 11, 2, 0, 0, 0, 0, time.UTC)
	v := &VisionPrescription{Type: "glasses", DateIssued: issued}

	if v.Key() != (VisionKey{Type: "glasses", DateIssued: issued.Format(time.RFC3339)}) {
		t.Errorf("unexpected key %+v", v.Key())
	}
}

func TestApplyPersonalInfo(t *testing.T) {
	p := NewHealthProfile("en_US", time.Now())
	p.ApplyPersonalInfo(PersonalInfo{
		DateOfBirth:   "1990-01-01",
		BiologicalSex: "HKBiologicalSexFemale",
		BloodType:     "HKBloodTypeAPositive",
	})

	if p.DateOfBirth != "1990-01-01" || p.BiologicalSex != "HKBiologicalSexFemale" {
		t.Errorf("personal info not applied: %+v", p)
	}
	if p.Locale != "en_US" {
		t.Errorf("locale clobbered: %q", p.Locale)
	}
}
