// ABOUTME: Batch writer: per-kind pending lists flushed as bulk transactional inserts.
// ABOUTME: Any bulk-write failure is fatal; each commit is a durable boundary.
package importer

import (
	"fmt"

	"github.com/harperreed/hkimport/internal/models"
	"github.com/harperreed/hkimport/internal/storage"
)

// genericFlushOrder fixes the kind order within one flush so parents commit
// before their children (audiograms before sensitivity points, HRV lists
// before beat samples). The dedicated lists flush ahead of all of these.
var genericFlushOrder = []models.Kind{
	models.KindClinicalRecord,
	models.KindAudiogram,
	models.KindVisionPrescription,
	models.KindHRVList,
	models.KindWorkoutEvent,
	models.KindWorkoutStatistics,
	models.KindWorkoutRoute,
	models.KindSensitivityPoint,
	models.KindEyePrescription,
	models.KindVisionAttachment,
	models.KindCorrelationLink,
	models.KindMetadataEntry,
	models.KindBeatsPerMinute,
}

// batchWriter accumulates decoded entities per kind and flushes them to the
// store in bulk. Dedicated lists serve the four high-volume kinds; everything
// else shares one generic kind-bucketed map.
type batchWriter struct {
	store     *storage.DB
	batchSize int
	stats     *Stats

	records      []any
	workouts     []any
	correlations []any
	summaries    []any
	generic      map[models.Kind][]any
	genericCount int
}

func newBatchWriter(store *storage.DB, batchSize int, stats *Stats) *batchWriter {
	return &batchWriter{
		store:     store,
		batchSize: batchSize,
		stats:     stats,
		generic:   make(map[models.Kind][]any),
	}
}

// enqueue appends one entity and reports whether any pending list reached the
// batch size, in which case the caller must flush.
func (b *batchWriter) enqueue(kind models.Kind, row any) bool {
	switch kind {
	case models.KindRecord:
		b.records = append(b.records, row)
		return len(b.records) >= b.batchSize
	case models.KindWorkout:
		b.workouts = append(b.workouts, row)
		return len(b.workouts) >= b.batchSize
	case models.KindCorrelation:
		b.correlations = append(b.correlations, row)
		return len(b.correlations) >= b.batchSize
	case models.KindActivitySummary:
		b.summaries = append(b.summaries, row)
		return len(b.summaries) >= b.batchSize
	default:
		b.generic[kind] = append(b.generic[kind], row)
		b.genericCount++
		return b.genericCount >= b.batchSize
	}
}

// pending reports how many rows await a flush.
func (b *batchWriter) pending() int {
	return len(b.records) + len(b.workouts) + len(b.correlations) +
		len(b.summaries) + b.genericCount
}

// flush writes every pending list in one committed transaction, parents
// before children, FIFO within each kind. Called on batch-size and
// commit-frequency thresholds and unconditionally at end of stream.
func (b *batchWriter) flush() error {
	if b.pending() == 0 {
		return nil
	}

	tx, err := b.store.Begin()
	if err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	dedicated := []struct {
		kind models.Kind
		rows *[]any
	}{
		{models.KindRecord, &b.records},
		{models.KindCorrelation, &b.correlations},
		{models.KindWorkout, &b.workouts},
		{models.KindActivitySummary, &b.summaries},
	}
	for _, d := range dedicated {
		if len(*d.rows) == 0 {
			continue
		}
		if err := storage.BulkInsert(tx, d.kind, *d.rows); err != nil {
			return fmt.Errorf("flush %s: %w", d.kind, err)
		}
		b.stats.BulkInserts++
	}

	for _, kind := range genericFlushOrder {
		rows := b.generic[kind]
		if len(rows) == 0 {
			continue
		}
		if err := storage.BulkInsert(tx, kind, rows); err != nil {
			return fmt.Errorf("flush %s: %w", kind, err)
		}
		b.stats.BulkInserts++
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("flush commit: %w", err)
	}

	// Only drop pending rows once the commit is durable.
	b.records = b.records[:0]
	b.workouts = b.workouts[:0]
	b.correlations = b.correlations[:0]
	b.summaries = b.summaries[:0]
	b.generic = make(map[models.Kind][]any)
	b.genericCount = 0
	return nil
}
