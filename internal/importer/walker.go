// ABOUTME: Stream walker: a single forward pass over the export tree.
// ABOUTME: Dispatches enter/leave events to decode, dedup, context, and batching.
package importer

import (
	"bufio"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/hkimport/internal/models"
	"github.com/harperreed/hkimport/internal/storage"
)

// Defaults mirror the throughput sweet spot for multi-gigabyte exports.
const (
	DefaultBatchSize     = 10000
	DefaultCommitEvery   = 50000
	DefaultProgressEvery = 100000
	DefaultTimezone      = "Europe/Zurich"
)

// ErrNoRoot means the input opened fine but no HealthData root was found.
var ErrNoRoot = errors.New("no HealthData root element in input")

// Config is the tuning surface of one import run.
type Config struct {
	// BatchSize caps each per-kind pending list before a flush.
	BatchSize int
	// CommitEvery forces a flush after this many processed elements.
	CommitEvery int
	// Location is the target time zone every instant is reprojected into.
	Location *time.Location
	// Seed controls which kinds preload existing keys at startup.
	Seed SeedOptions
	// Progress, when set, is called with a stats snapshot every
	// ProgressEvery processed elements.
	Progress      func(Stats)
	ProgressEvery int
}

// Importer drives import runs against one destination store.
type Importer struct {
	store *storage.DB
	cfg   Config
}

// New creates an importer, filling unset config fields with defaults.
func New(store *storage.DB, cfg Config) *Importer {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.CommitEvery <= 0 {
		cfg.CommitEvery = DefaultCommitEvery
	}
	if cfg.ProgressEvery <= 0 {
		cfg.ProgressEvery = DefaultProgressEvery
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &Importer{store: store, cfg: cfg}
}

// run is the per-pass state. Each call to Run gets a fresh one, so parallel
// walkers in the partitioned extension never share mutable state.
type run struct {
	store   *storage.DB
	cfg     Config
	profile *models.HealthProfile
	index   *dupIndex
	batch   *batchWriter
	parents parentContext
	stats   Stats

	lastCommit   int64
	lastProgress int64
}

// handler processes the enter event of one recognized tag.
type handler func(r *run, attrs map[string]string) error

// handlers is the dispatch table: adding an entity kind is a new entry here
// plus its decoder, not another branch in the event loop.
var handlers = map[string]handler{
	"ExportDate":                       (*run).enterExportDate,
	"Me":                               (*run).enterMe,
	"Record":                           (*run).enterRecord,
	"Correlation":                      (*run).enterCorrelation,
	"Workout":                          (*run).enterWorkout,
	"ActivitySummary":                  (*run).enterActivitySummary,
	"ClinicalRecord":                   (*run).enterClinicalRecord,
	"Audiogram":                        (*run).enterAudiogram,
	"VisionPrescription":               (*run).enterVisionPrescription,
	"MetadataEntry":                    (*run).enterMetadataEntry,
	"HeartRateVariabilityMetadataList": (*run).enterHRVList,
	"InstantaneousBeatsPerMinute":      (*run).enterInstantaneousBPM,
	"WorkoutEvent":                     (*run).enterWorkoutEvent,
	"WorkoutStatistics":                (*run).enterWorkoutStatistics,
	"WorkoutRoute":                     (*run).enterWorkoutRoute,
	"SensitivityPoint":                 (*run).enterSensitivityPoint,
	"Prescription":                     (*run).enterEyePrescription,
	"Attachment":                       (*run).enterVisionAttachment,
}

// Run executes one full streaming pass over the export file. The returned
// stats are valid on success and on cancellation; per-element errors never
// abort the run, store-level and startup-level errors do.
func (imp *Importer) Run(ctx context.Context, xmlPath string) (*Stats, error) {
	r := &run{store: imp.store, cfg: imp.cfg}
	r.index = newDupIndex()
	r.batch = newBatchWriter(imp.store, imp.cfg.BatchSize, &r.stats)

	f, err := os.Open(xmlPath)
	if err != nil {
		return nil, fmt.Errorf("open source: %w", err)
	}
	defer func() { _ = f.Close() }()

	dec := xml.NewDecoder(bufio.NewReaderSize(f, 1<<20))

	rootAttrs, err := findRoot(dec)
	if err != nil {
		return nil, err
	}

	if err := r.resolveProfile(rootAttrs); err != nil {
		return nil, err
	}
	if err := r.index.seed(imp.store, r.profile.ID, imp.cfg.Seed); err != nil {
		return nil, fmt.Errorf("seed duplicate index: %w", err)
	}

	if err := r.walk(ctx, dec); err != nil {
		return &r.stats, err
	}

	if err := r.batch.flush(); err != nil {
		return &r.stats, err
	}
	return &r.stats, nil
}

// findRoot consumes tokens until the HealthData root opens. Anything else as
// the first element is fatal: the input is not a health export.
func findRoot(dec *xml.Decoder) (map[string]string, error) {
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil, ErrNoRoot
		}
		if err != nil {
			return nil, fmt.Errorf("read source: %w", err)
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if se.Name.Local != "HealthData" {
			return nil, fmt.Errorf("%w: found <%s>", ErrNoRoot, se.Name.Local)
		}
		return attrMap(se.Attr), nil
	}
}

// resolveProfile reuses the existing singleton profile or creates one. The
// check is by existence, not by key: the profile is a true singleton.
func (r *run) resolveProfile(rootAttrs map[string]string) error {
	existing, err := r.store.FindProfile()
	if err != nil {
		return err
	}
	if existing != nil {
		r.profile = existing
		return nil
	}

	p := models.NewHealthProfile(attrStr(rootAttrs, "locale"), time.Now().In(r.cfg.Location))
	if err := r.store.CreateProfile(p); err != nil {
		return err
	}
	r.profile = p
	return nil
}

// walk is the event loop. Each enter/leave event runs to completion before
// the next token is pulled; cancellation is checked between events.
func (r *run) walk(ctx context.Context, dec *xml.Decoder) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read source: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			r.stats.Processed++

			if r.stats.Processed-r.lastCommit >= int64(r.cfg.CommitEvery) {
				if err := r.batch.flush(); err != nil {
					return err
				}
				r.lastCommit = r.stats.Processed
			}
			if r.cfg.Progress != nil && r.stats.Processed-r.lastProgress >= int64(r.cfg.ProgressEvery) {
				r.cfg.Progress(r.stats)
				r.lastProgress = r.stats.Processed
			}

			h, ok := handlers[t.Name.Local]
			if !ok {
				// Unrecognized tags are ignored; their subtrees still
				// stream through as individual events.
				continue
			}
			if err := h(r, attrMap(t.Attr)); err != nil {
				if isFatal(err) {
					return err
				}
				r.stats.Errors++
			}

		case xml.EndElement:
			// Leaving a container clears its slot. Token memory is
			// transient: nothing from the subtree is retained here.
			r.parents.closeTag(t.Name.Local)
		}
	}
}

// fatalError marks store-level failures that must abort the run, as opposed
// to per-element decode errors that are only counted.
type fatalError struct{ err error }

func (e *fatalError) Error() string { return e.err.Error() }
func (e *fatalError) Unwrap() error { return e.err }

func fatal(err error) error {
	if err == nil {
		return nil
	}
	return &fatalError{err: err}
}

func isFatal(err error) bool {
	var fe *fatalError
	return errors.As(err, &fe)
}

// attrMap flattens a start element's attributes. The map lives only for the
// duration of the element's enter handling.
func attrMap(attrs []xml.Attr) map[string]string {
	m := make(map[string]string, len(attrs))
	for _, a := range attrs {
		m[a.Name.Local] = a.Value
	}
	return m
}

// enqueue adds an accepted entity and flushes when any pending list is full.
func (r *run) enqueue(kind models.Kind, row any) error {
	if r.batch.enqueue(kind, row) {
		if err := r.batch.flush(); err != nil {
			return fatal(err)
		}
	}
	return nil
}

func (r *run) enterExportDate(attrs map[string]string) error {
	v := attrStr(attrs, "value")
	if v == "" {
		return nil
	}
	t, err := parseDate(v, r.cfg.Location)
	if err != nil {
		return err
	}
	if err := r.store.UpdateProfileExportDate(r.profile.ID, t); err != nil {
		return fatal(err)
	}
	r.profile.ExportDate = t
	return nil
}

func (r *run) enterMe(attrs map[string]string) error {
	info := decodePersonalInfo(attrs)
	if err := r.store.UpdateProfilePersonalInfo(r.profile.ID, info); err != nil {
		return fatal(err)
	}
	r.profile.ApplyPersonalInfo(info)
	return nil
}

func (r *run) enterRecord(attrs map[string]string) error {
	rec, err := decodeRecord(attrs, r.profile.ID, r.cfg.Location)
	if err != nil {
		return err
	}

	if r.parents.correlation.open {
		return r.attachCorrelationMember(rec)
	}

	if id, dup := r.index.lookupRecord(rec.Key()); dup {
		r.stats.Duplicates++
		r.parents.record.set(id, false)
		r.parents.suppressMetadata()
		return nil
	}

	r.index.recordAccepted(rec)
	r.stats.Records++
	r.parents.record.set(rec.ID, true)
	r.parents.setMetadataParent(models.KindRecord, rec.ID)
	return r.enqueue(models.KindRecord, rec)
}

// attachCorrelationMember links a record observed inside an open correlation.
// The record itself still dedups independently; the link is a no-op when it
// already exists, and member records never count toward the top-level total.
func (r *run) attachCorrelationMember(rec *models.Record) error {
	recID, dup := r.index.lookupRecord(rec.Key())
	if dup {
		r.stats.Duplicates++
	} else {
		r.index.recordAccepted(rec)
		recID = rec.ID
		if err := r.enqueue(models.KindRecord, rec); err != nil {
			return err
		}
	}

	key := models.LinkKey{CorrelationID: r.parents.correlation.id, RecordID: recID}
	if !r.index.linkAccepted(key) {
		return nil
	}
	r.stats.CorrelationLinks++
	return r.enqueue(models.KindCorrelationLink, &models.CorrelationLink{
		ID:            uuid.New(),
		CorrelationID: key.CorrelationID,
		RecordID:      key.RecordID,
	})
}

func (r *run) enterCorrelation(attrs map[string]string) error {
	corr, err := decodeCorrelation(attrs, r.profile.ID, r.cfg.Location)
	if err != nil {
		return err
	}

	if id, dup := r.index.lookupCorrelation(corr.Key()); dup {
		r.stats.Duplicates++
		r.parents.correlation.set(id, false)
		r.parents.suppressMetadata()
		return nil
	}

	r.index.correlationAccepted(corr)
	r.stats.Correlations++
	r.parents.correlation.set(corr.ID, true)
	r.parents.setMetadataParent(models.KindCorrelation, corr.ID)
	return r.enqueue(models.KindCorrelation, corr)
}

func (r *run) enterWorkout(attrs map[string]string) error {
	w, err := decodeWorkout(attrs, r.profile.ID, r.cfg.Location)
	if err != nil {
		return err
	}

	if r.index.hasWorkout(w.Key()) {
		r.stats.Duplicates++
		r.parents.workout.set(uuid.Nil, false)
		r.parents.suppressMetadata()
		return nil
	}

	r.index.workoutAccepted(w)
	r.stats.Workouts++
	r.parents.workout.set(w.ID, true)
	r.parents.setMetadataParent(models.KindWorkout, w.ID)
	return r.enqueue(models.KindWorkout, w)
}

func (r *run) enterActivitySummary(attrs map[string]string) error {
	s, err := decodeActivitySummary(attrs, r.profile.ID)
	if err != nil {
		return err
	}

	if r.index.hasSummary(s.Key()) {
		r.stats.Duplicates++
		return nil
	}

	r.index.summaryAccepted(s)
	r.stats.ActivitySummaries++
	return r.enqueue(models.KindActivitySummary, s)
}

func (r *run) enterClinicalRecord(attrs map[string]string) error {
	c, err := decodeClinicalRecord(attrs, r.profile.ID, r.cfg.Location)
	if err != nil {
		return err
	}

	dup, err := r.index.lookupClinical(r.store, c)
	if err != nil {
		return fatal(err)
	}
	if dup {
		r.stats.Duplicates++
		return nil
	}

	r.index.clinicalAccepted(c)
	r.stats.ClinicalRecords++
	return r.enqueue(models.KindClinicalRecord, c)
}

func (r *run) enterAudiogram(attrs map[string]string) error {
	a, err := decodeAudiogram(attrs, r.profile.ID, r.cfg.Location)
	if err != nil {
		return err
	}

	if id, dup, err := r.index.lookupAudiogram(r.store, a); err != nil {
		return fatal(err)
	} else if dup {
		r.stats.Duplicates++
		r.parents.audiogram.set(id, false)
		return nil
	}

	r.index.audiogramAccepted(a)
	r.stats.Audiograms++
	r.parents.audiogram.set(a.ID, true)
	return r.enqueue(models.KindAudiogram, a)
}

func (r *run) enterVisionPrescription(attrs map[string]string) error {
	v, err := decodeVisionPrescription(attrs, r.profile.ID, r.cfg.Location)
	if err != nil {
		return err
	}

	if id, dup, err := r.index.lookupVision(r.store, v); err != nil {
		return fatal(err)
	} else if dup {
		r.stats.Duplicates++
		r.parents.vision.set(id, false)
		return nil
	}

	r.index.visionAccepted(v)
	r.stats.VisionPrescriptions++
	r.parents.vision.set(v.ID, true)
	return r.enqueue(models.KindVisionPrescription, v)
}

func (r *run) enterMetadataEntry(attrs map[string]string) error {
	if !r.parents.metadataOpen {
		if !r.parents.metadataSuppressed {
			r.stats.Skipped++
		}
		return nil
	}
	m := decodeMetadataEntry(attrs, r.parents.metadataKind, r.parents.metadataID)
	r.stats.MetadataEntries++
	return r.enqueue(models.KindMetadataEntry, m)
}

func (r *run) enterHRVList(attrs map[string]string) error {
	if !r.parents.record.open {
		r.stats.Skipped++
		return nil
	}
	if !r.parents.record.fresh {
		// The owning record is a duplicate; its beat list already exists.
		return nil
	}
	list := &models.HRVList{ID: uuid.New(), RecordID: r.parents.record.id}
	r.parents.hrvList.set(list.ID, true)
	r.stats.HRVLists++
	return r.enqueue(models.KindHRVList, list)
}

func (r *run) enterInstantaneousBPM(attrs map[string]string) error {
	if !r.parents.hrvList.open {
		if r.parents.record.open && !r.parents.record.fresh {
			return nil
		}
		r.stats.Skipped++
		return nil
	}
	bpm, err := decodeInstantaneousBPM(attrs, r.parents.hrvList.id, r.cfg.Location)
	if err != nil {
		return err
	}
	return r.enqueue(models.KindBeatsPerMinute, bpm)
}

// childOfWorkout gates the nested workout kinds: dropped with a structural
// warning when no workout is open, silently skipped when the open workout is
// a duplicate from an earlier run.
func (r *run) childOfWorkout() (uuid.UUID, bool) {
	if !r.parents.workout.open {
		r.stats.Skipped++
		return uuid.Nil, false
	}
	if !r.parents.workout.fresh {
		return uuid.Nil, false
	}
	return r.parents.workout.id, true
}

func (r *run) enterWorkoutEvent(attrs map[string]string) error {
	workoutID, ok := r.childOfWorkout()
	if !ok {
		return nil
	}
	e, err := decodeWorkoutEvent(attrs, workoutID, r.cfg.Location)
	if err != nil {
		return err
	}
	return r.enqueue(models.KindWorkoutEvent, e)
}

func (r *run) enterWorkoutStatistics(attrs map[string]string) error {
	workoutID, ok := r.childOfWorkout()
	if !ok {
		return nil
	}
	s, err := decodeWorkoutStatistics(attrs, workoutID, r.cfg.Location)
	if err != nil {
		return err
	}
	return r.enqueue(models.KindWorkoutStatistics, s)
}

func (r *run) enterWorkoutRoute(attrs map[string]string) error {
	workoutID, ok := r.childOfWorkout()
	if !ok {
		return nil
	}
	route, err := decodeWorkoutRoute(attrs, workoutID, r.cfg.Location)
	if err != nil {
		return err
	}
	return r.enqueue(models.KindWorkoutRoute, route)
}

func (r *run) enterSensitivityPoint(attrs map[string]string) error {
	if !r.parents.audiogram.open {
		r.stats.Skipped++
		return nil
	}
	if !r.parents.audiogram.fresh {
		return nil
	}
	p, err := decodeSensitivityPoint(attrs, r.parents.audiogram.id)
	if err != nil {
		return err
	}
	return r.enqueue(models.KindSensitivityPoint, p)
}

func (r *run) enterEyePrescription(attrs map[string]string) error {
	if !r.parents.vision.open {
		r.stats.Skipped++
		return nil
	}
	if !r.parents.vision.fresh {
		return nil
	}
	e, err := decodeEyePrescription(attrs, r.parents.vision.id)
	if err != nil {
		return err
	}
	return r.enqueue(models.KindEyePrescription, e)
}

func (r *run) enterVisionAttachment(attrs map[string]string) error {
	if !r.parents.vision.open {
		r.stats.Skipped++
		return nil
	}
	if !r.parents.vision.fresh {
		return nil
	}
	return r.enqueue(models.KindVisionAttachment, decodeVisionAttachment(attrs, r.parents.vision.id))
}
