// ABOUTME: Tests for the read-only query surface behind stats and MCP tools.
// ABOUTME: Seeds a small fixture store and checks ordering, filters, and limits.
package storage

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/hkimport/internal/models"
)

// seedQueryFixture loads three heart rate records a day apart, one step
// record, two workouts, and one activity summary.
func seedQueryFixture(t *testing.T, d *DB) *models.HealthProfile {
	t.Helper()
	p := newTestProfile(t, d)

	base := time.Date(2025, 5, 10, 8, 0, 0, 0, time.UTC)
	unit := "count/min"
	var rows []any
	for i := 0; i < 3; i++ {
		v := fmt.Sprintf("%d", 60+i)
		rows = append(rows, &models.Record{
			ID:         uuid.New(),
			Type:       "HKQuantityTypeIdentifierHeartRate",
			SourceName: "Watch",
			Unit:       &unit,
			Value:      &v,
			StartDate:  base.AddDate(0, 0, i),
			EndDate:    base.AddDate(0, 0, i),
			ProfileID:  p.ID,
		})
	}
	steps := "1200"
	rows = append(rows, &models.Record{
		ID:        uuid.New(),
		Type:      "HKQuantityTypeIdentifierStepCount",
		Value:     &steps,
		StartDate: base,
		EndDate:   base.Add(time.Hour),
		ProfileID: p.ID,
	})
	mustInsert(t, d, models.KindRecord, rows)

	duration := 30.5
	durationUnit := "min"
	mustInsert(t, d, models.KindWorkout, []any{
		&models.Workout{
			ID:           uuid.New(),
			ActivityType: "HKWorkoutActivityTypeRunning",
			Duration:     &duration,
			DurationUnit: &durationUnit,
			SourceName:   "Watch",
			StartDate:    base.AddDate(0, 0, 1),
			EndDate:      base.AddDate(0, 0, 1).Add(30 * time.Minute),
			ProfileID:    p.ID,
		},
		&models.Workout{
			ID:           uuid.New(),
			ActivityType: "HKWorkoutActivityTypeWalking",
			SourceName:   "Watch",
			StartDate:    base,
			EndDate:      base.Add(time.Hour),
			ProfileID:    p.ID,
		},
	})

	energy := 450.0
	goal := 500.0
	mustInsert(t, d, models.KindActivitySummary, []any{
		&models.ActivitySummary{
			ID:                 uuid.New(),
			DateComponents:     "2025-05-10",
			ActiveEnergyBurned: &energy,
			ActiveEnergyGoal:   &goal,
			ProfileID:          p.ID,
		},
	})
	return p
}

func TestRecordTypes(t *testing.T) {
	d := openTestDB(t)
	seedQueryFixture(t, d)

	types, err := d.RecordTypes()
	if err != nil {
		t.Fatalf("RecordTypes() failed: %v", err)
	}
	if len(types) != 2 {
		t.Fatalf("got %d types, want 2", len(types))
	}
	// Most frequent first.
	if types[0].Type != "HKQuantityTypeIdentifierHeartRate" || types[0].Count != 3 {
		t.Errorf("types[0] = %+v", types[0])
	}
	if types[1].Type != "HKQuantityTypeIdentifierStepCount" || types[1].Count != 1 {
		t.Errorf("types[1] = %+v", types[1])
	}
}

func TestQueryRecordsOrderAndFields(t *testing.T) {
	d := openTestDB(t)
	seedQueryFixture(t, d)

	recs, err := d.QueryRecords("HKQuantityTypeIdentifierHeartRate", nil, nil, 0)
	if err != nil {
		t.Fatalf("QueryRecords() failed: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("got %d records, want 3", len(recs))
	}
	for i := 1; i < len(recs); i++ {
		if recs[i].StartDate.After(recs[i-1].StartDate) {
			t.Error("records not in descending start date order")
		}
	}
	if recs[0].Value == nil || *recs[0].Value != "62" {
		t.Errorf("latest record value = %v, want 62", recs[0].Value)
	}
	if recs[0].Unit == nil || *recs[0].Unit != "count/min" {
		t.Errorf("unit = %v", recs[0].Unit)
	}
}

func TestQueryRecordsDateRange(t *testing.T) {
	d := openTestDB(t)
	seedQueryFixture(t, d)

	from := time.Date(2025, 5, 11, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 5, 11, 23, 59, 59, 0, time.UTC)
	recs, err := d.QueryRecords("HKQuantityTypeIdentifierHeartRate", &from, &to, 0)
	if err != nil {
		t.Fatalf("QueryRecords() failed: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("got %d records in range, want 1", len(recs))
	}
	if *recs[0].Value != "61" {
		t.Errorf("value = %q, want 61", *recs[0].Value)
	}
}

func TestQueryRecordsLimit(t *testing.T) {
	d := openTestDB(t)
	seedQueryFixture(t, d)

	recs, err := d.QueryRecords("HKQuantityTypeIdentifierHeartRate", nil, nil, 2)
	if err != nil {
		t.Fatalf("QueryRecords() failed: %v", err)
	}
	if len(recs) != 2 {
		t.Errorf("got %d records, want 2", len(recs))
	}
}

func TestQueryRecordsUnknownType(t *testing.T) {
	d := openTestDB(t)
	seedQueryFixture(t, d)

	recs, err := d.QueryRecords("HKQuantityTypeIdentifierNope", nil, nil, 0)
	if err != nil {
		t.Fatalf("QueryRecords() failed: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("got %d records for unknown type, want 0", len(recs))
	}
}

func TestListWorkouts(t *testing.T) {
	d := openTestDB(t)
	seedQueryFixture(t, d)

	workouts, err := d.ListWorkouts(0)
	if err != nil {
		t.Fatalf("ListWorkouts() failed: %v", err)
	}
	if len(workouts) != 2 {
		t.Fatalf("got %d workouts, want 2", len(workouts))
	}
	if workouts[0].ActivityType != "HKWorkoutActivityTypeRunning" {
		t.Errorf("workouts[0] = %q, want the later run first", workouts[0].ActivityType)
	}
	if workouts[0].Duration == nil || *workouts[0].Duration != 30.5 {
		t.Errorf("duration = %v, want 30.5", workouts[0].Duration)
	}
	if workouts[1].Duration != nil {
		t.Errorf("walk duration = %v, want nil", workouts[1].Duration)
	}

	limited, err := d.ListWorkouts(1)
	if err != nil {
		t.Fatalf("ListWorkouts(1) failed: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("got %d workouts with limit 1", len(limited))
	}
}

func TestSummaryByDate(t *testing.T) {
	d := openTestDB(t)
	seedQueryFixture(t, d)

	s, err := d.SummaryByDate("2025-05-10")
	if err != nil {
		t.Fatalf("SummaryByDate() failed: %v", err)
	}
	if s == nil {
		t.Fatal("summary not found")
	}
	if s.ActiveEnergyBurned == nil || *s.ActiveEnergyBurned != 450.0 {
		t.Errorf("ActiveEnergyBurned = %v, want 450", s.ActiveEnergyBurned)
	}

	missing, err := d.SummaryByDate("1999-01-01")
	if err != nil {
		t.Fatalf("SummaryByDate() failed: %v", err)
	}
	if missing != nil {
		t.Errorf("absent day returned %+v, want nil", missing)
	}
}

func TestTableCounts(t *testing.T) {
	d := openTestDB(t)
	seedQueryFixture(t, d)

	counts, err := d.TableCounts()
	if err != nil {
		t.Fatalf("TableCounts() failed: %v", err)
	}

	byTable := make(map[string]int64, len(counts))
	for _, tc := range counts {
		byTable[tc.Table] = tc.Count
	}
	want := map[string]int64{
		"health_profiles":    1,
		"records":            4,
		"workouts":           2,
		"activity_summaries": 1,
		"correlations":       0,
	}
	for table, n := range want {
		if byTable[table] != n {
			t.Errorf("%s = %d, want %d", table, byTable[table], n)
		}
	}
}
