// ABOUTME: Tests for point lookups on the low-volume kinds.
// ABOUTME: Each lookup is exercised both before and after the row exists.
package storage

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/hkimport/internal/models"
)

func TestFindClinicalRecordID(t *testing.T) {
	d := openTestDB(t)
	p := newTestProfile(t, d)

	_, ok, err := d.FindClinicalRecordID("fhir-obs-1", p.ID)
	if err != nil {
		t.Fatalf("FindClinicalRecordID() failed: %v", err)
	}
	if ok {
		t.Error("lookup hit before insert")
	}

	cr := &models.ClinicalRecord{
		ID:           uuid.New(),
		Type:         "Observation",
		Identifier:   "fhir-obs-1",
		SourceName:   "Clinic",
		ReceivedDate: time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC),
		ProfileID:    p.ID,
	}
	mustInsert(t, d, models.KindClinicalRecord, []any{cr})

	id, ok, err := d.FindClinicalRecordID("fhir-obs-1", p.ID)
	if err != nil {
		t.Fatalf("FindClinicalRecordID() failed: %v", err)
	}
	if !ok || id != cr.ID {
		t.Errorf("lookup = (%v, %v), want (%v, true)", id, ok, cr.ID)
	}

	// Same identifier under another profile is a different entity.
	if _, ok, err := d.FindClinicalRecordID("fhir-obs-1", uuid.New()); err != nil || ok {
		t.Errorf("foreign profile lookup = (%v, %v), want miss", ok, err)
	}
}

func TestFindAudiogramID(t *testing.T) {
	d := openTestDB(t)
	p := newTestProfile(t, d)

	start := time.Date(2025, 3, 15, 14, 0, 0, 0, time.UTC)
	end := start.Add(10 * time.Minute)

	_, ok, err := d.FindAudiogramID("HKDataTypeIdentifierAudiogram", start, end, p.ID)
	if err != nil {
		t.Fatalf("FindAudiogramID() failed: %v", err)
	}
	if ok {
		t.Error("lookup hit before insert")
	}

	a := &models.Audiogram{
		ID:         uuid.New(),
		Type:       "HKDataTypeIdentifierAudiogram",
		SourceName: "Watch",
		StartDate:  start,
		EndDate:    end,
		ProfileID:  p.ID,
	}
	mustInsert(t, d, models.KindAudiogram, []any{a})

	id, ok, err := d.FindAudiogramID("HKDataTypeIdentifierAudiogram", start, end, p.ID)
	if err != nil {
		t.Fatalf("FindAudiogramID() failed: %v", err)
	}
	if !ok || id != a.ID {
		t.Errorf("lookup = (%v, %v), want (%v, true)", id, ok, a.ID)
	}

	if _, ok, err := d.FindAudiogramID("HKDataTypeIdentifierAudiogram", start.Add(time.Minute), end, p.ID); err != nil || ok {
		t.Errorf("shifted interval lookup = (%v, %v), want miss", ok, err)
	}
}

func TestFindAudiogramIDZoneInvariant(t *testing.T) {
	d := openTestDB(t)
	p := newTestProfile(t, d)

	// Stored with a +02:00 offset, looked up with the same instant in UTC.
	plus2 := time.FixedZone("UTC+2", 2*3600)
	start := time.Date(2025, 3, 15, 16, 0, 0, 0, plus2)
	end := start.Add(10 * time.Minute)
	a := &models.Audiogram{
		ID:         uuid.New(),
		Type:       "HKDataTypeIdentifierAudiogram",
		SourceName: "Watch",
		StartDate:  start,
		EndDate:    end,
		ProfileID:  p.ID,
	}
	mustInsert(t, d, models.KindAudiogram, []any{a})

	id, ok, err := d.FindAudiogramID(a.Type, start.UTC(), end.UTC(), p.ID)
	if err != nil {
		t.Fatalf("FindAudiogramID() failed: %v", err)
	}
	if !ok || id != a.ID {
		t.Errorf("UTC lookup = (%v, %v), want (%v, true)", id, ok, a.ID)
	}
}

func TestFindVisionPrescriptionID(t *testing.T) {
	d := openTestDB(t)
	p := newTestProfile(t, d)

	issued := time.Date(2025, 2, 20, 9, 0, 0, 0, time.UTC)

	_, ok, err := d.FindVisionPrescriptionID("glasses", issued, p.ID)
	if err != nil {
		t.Fatalf("FindVisionPrescriptionID() failed: %v", err)
	}
	if ok {
		t.Error("lookup hit before insert")
	}

	vp := &models.VisionPrescription{
		ID:         uuid.New(),
		Type:       "glasses",
		DateIssued: issued,
		ProfileID:  p.ID,
	}
	mustInsert(t, d, models.KindVisionPrescription, []any{vp})

	id, ok, err := d.FindVisionPrescriptionID("glasses", issued, p.ID)
	if err != nil {
		t.Fatalf("FindVisionPrescriptionID() failed: %v", err)
	}
	if !ok || id != vp.ID {
		t.Errorf("lookup = (%v, %v), want (%v, true)", id, ok, vp.ID)
	}

	if _, ok, err := d.FindVisionPrescriptionID("contacts", issued, p.ID); err != nil || ok {
		t.Errorf("other type lookup = (%v, %v), want miss", ok, err)
	}

	// The same instant expressed in another zone still hits.
	plus2 := time.FixedZone("UTC+2", 2*3600)
	id, ok, err = d.FindVisionPrescriptionID("glasses", issued.In(plus2), p.ID)
	if err != nil {
		t.Fatalf("FindVisionPrescriptionID() failed: %v", err)
	}
	if !ok || id != vp.ID {
		t.Errorf("zoned lookup = (%v, %v), want (%v, true)", id, ok, vp.ID)
	}
}
