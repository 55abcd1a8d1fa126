// ABOUTME: In-memory duplicate index keyed by per-kind identity keys.
// ABOUTME: Seeded from the store at run start; updated at accept time, not flush time.
package importer

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/harperreed/hkimport/internal/models"
	"github.com/harperreed/hkimport/internal/storage"
)

// SeedOptions selects which kinds load their existing keys at startup.
// A disabled kind still gets in-run duplicate detection; it just starts from
// an empty set, so duplicates against prior runs go unnoticed.
type SeedOptions struct {
	Records      bool
	Workouts     bool
	Correlations bool
	Summaries    bool
	Links        bool
}

// DefaultSeedOptions seeds every high-volume kind.
func DefaultSeedOptions() SeedOptions {
	return SeedOptions{Records: true, Workouts: true, Correlations: true, Summaries: true, Links: true}
}

// dupIndex answers "have I already stored this logical record" in O(1).
// Records and correlations map to their row id so a duplicate can still be
// referenced (a record inside a correlation links to the existing row).
// The low-volume kinds (clinical records, audiograms, vision prescriptions)
// are not held here; they dedup through direct store lookups instead of a
// seed scan over rarely populated tables.
type dupIndex struct {
	records      map[models.RecordKey]uuid.UUID
	workouts     map[models.WorkoutKey]struct{}
	correlations map[models.CorrelationKey]uuid.UUID
	summaries    map[models.SummaryKey]struct{}
	links        map[models.LinkKey]struct{}

	// In-run sets for the store-lookup kinds, so a duplicate arriving in the
	// same batch as its original, before any flush, is still caught.
	clinical   map[models.ClinicalKey]struct{}
	audiograms map[models.AudiogramKey]uuid.UUID
	visions    map[models.VisionKey]uuid.UUID
}

func newDupIndex() *dupIndex {
	return &dupIndex{
		records:      make(map[models.RecordKey]uuid.UUID),
		workouts:     make(map[models.WorkoutKey]struct{}),
		correlations: make(map[models.CorrelationKey]uuid.UUID),
		summaries:    make(map[models.SummaryKey]struct{}),
		links:        make(map[models.LinkKey]struct{}),
		clinical:     make(map[models.ClinicalKey]struct{}),
		audiograms:   make(map[models.AudiogramKey]uuid.UUID),
		visions:      make(map[models.VisionKey]uuid.UUID),
	}
}

// seed loads the identity keys of every existing row belonging to the profile.
// Seed-time keys and decode-time keys share the same constructors; computing
// them differently would make dedup silently fail.
func (x *dupIndex) seed(store *storage.DB, profileID uuid.UUID, opts SeedOptions) error {
	if opts.Records {
		keys, err := store.RecordKeyIDs(profileID)
		if err != nil {
			return fmt.Errorf("seed records: %w", err)
		}
		for key, id := range keys {
			x.records[key] = id
		}
	}
	if opts.Workouts {
		keys, err := store.WorkoutKeys(profileID)
		if err != nil {
			return fmt.Errorf("seed workouts: %w", err)
		}
		for _, key := range keys {
			x.workouts[key] = struct{}{}
		}
	}
	if opts.Correlations {
		keys, err := store.CorrelationKeyIDs(profileID)
		if err != nil {
			return fmt.Errorf("seed correlations: %w", err)
		}
		for key, id := range keys {
			x.correlations[key] = id
		}
	}
	if opts.Summaries {
		keys, err := store.SummaryKeys(profileID)
		if err != nil {
			return fmt.Errorf("seed summaries: %w", err)
		}
		for _, key := range keys {
			x.summaries[key] = struct{}{}
		}
	}
	if opts.Links {
		keys, err := store.LinkKeys()
		if err != nil {
			return fmt.Errorf("seed links: %w", err)
		}
		for _, key := range keys {
			x.links[key] = struct{}{}
		}
	}
	return nil
}

// lookupRecord returns the id of the already-accepted record with this key.
func (x *dupIndex) lookupRecord(key models.RecordKey) (uuid.UUID, bool) {
	id, ok := x.records[key]
	return id, ok
}

// recordAccepted registers a record at accept time, before any flush, so an
// identical candidate later in the same batch is still caught.
func (x *dupIndex) recordAccepted(r *models.Record) {
	x.records[r.Key()] = r.ID
}

func (x *dupIndex) hasWorkout(key models.WorkoutKey) bool {
	_, ok := x.workouts[key]
	return ok
}

func (x *dupIndex) workoutAccepted(w *models.Workout) {
	x.workouts[w.Key()] = struct{}{}
}

func (x *dupIndex) lookupCorrelation(key models.CorrelationKey) (uuid.UUID, bool) {
	id, ok := x.correlations[key]
	return id, ok
}

func (x *dupIndex) correlationAccepted(c *models.Correlation) {
	x.correlations[c.Key()] = c.ID
}

func (x *dupIndex) hasSummary(key models.SummaryKey) bool {
	_, ok := x.summaries[key]
	return ok
}

func (x *dupIndex) summaryAccepted(s *models.ActivitySummary) {
	x.summaries[s.Key()] = struct{}{}
}

// linkAccepted registers a correlation-record pair, reporting whether it was
// new. Re-establishing an existing link is a no-op, not an error.
func (x *dupIndex) linkAccepted(key models.LinkKey) bool {
	if _, ok := x.links[key]; ok {
		return false
	}
	x.links[key] = struct{}{}
	return true
}

// lookupClinical consults the in-run set, then the store. Low-cardinality
// kinds trade a per-candidate lookup for skipping a seed scan.
func (x *dupIndex) lookupClinical(store *storage.DB, c *models.ClinicalRecord) (bool, error) {
	if _, ok := x.clinical[c.Key()]; ok {
		return true, nil
	}
	_, ok, err := store.FindClinicalRecordID(c.Identifier, c.ProfileID)
	if err != nil {
		return false, err
	}
	return ok, nil
}

func (x *dupIndex) clinicalAccepted(c *models.ClinicalRecord) {
	x.clinical[c.Key()] = struct{}{}
}

// lookupAudiogram returns the id of an already-stored or already-accepted
// audiogram with this identity.
func (x *dupIndex) lookupAudiogram(store *storage.DB, a *models.Audiogram) (uuid.UUID, bool, error) {
	if id, ok := x.audiograms[a.Key()]; ok {
		return id, true, nil
	}
	return store.FindAudiogramID(a.Type, a.StartDate, a.EndDate, a.ProfileID)
}

func (x *dupIndex) audiogramAccepted(a *models.Audiogram) {
	x.audiograms[a.Key()] = a.ID
}

// lookupVision returns the id of an already-stored or already-accepted
// vision prescription with this identity.
func (x *dupIndex) lookupVision(store *storage.DB, v *models.VisionPrescription) (uuid.UUID, bool, error) {
	if id, ok := x.visions[v.Key()]; ok {
		return id, true, nil
	}
	return store.FindVisionPrescriptionID(v.Type, v.DateIssued, v.ProfileID)
}

func (x *dupIndex) visionAccepted(v *models.VisionPrescription) {
	x.visions[v.Key()] = v.ID
}
