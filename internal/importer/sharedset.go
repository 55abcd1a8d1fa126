// ABOUTME: Cross-process duplicate key set backed by Badger, for partitioned runs.
// ABOUTME: Check-and-insert is atomic per key so two workers cannot both accept a record.
package importer

import (
	"bytes"
	"errors"
	"fmt"

	badger "github.com/dgraph-io/badger/v3"
	"github.com/harperreed/hkimport/internal/models"
)

// SharedKeySet is the duplicate index variant for the partitioned-import
// extension: N workers, each running an independent walker, share one
// on-disk key set. Add is an atomic check-and-insert, so a logical record
// seen by two workers is accepted by exactly one of them. The single
// in-process pipeline never needs this; it exists for the scheduling
// strategy layered on top of the same parsing and dedup logic.
type SharedKeySet struct {
	db *badger.DB
}

// OpenSharedKeySet opens (or creates) the key set at dir.
func OpenSharedKeySet(dir string) (*SharedKeySet, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open shared key set: %w", err)
	}
	return &SharedKeySet{db: db}, nil
}

// Add inserts the identity key for a kind, reporting whether it was new.
// A false return means another worker (or an earlier run) already holds it.
func (s *SharedKeySet) Add(kind models.Kind, key []byte) (bool, error) {
	full := encodeSharedKey(kind, key)
	for {
		added := false
		err := s.db.Update(func(txn *badger.Txn) error {
			_, err := txn.Get(full)
			if err == nil {
				return nil
			}
			if !errors.Is(err, badger.ErrKeyNotFound) {
				return err
			}
			added = true
			return txn.Set(full, nil)
		})
		if errors.Is(err, badger.ErrConflict) {
			// Another worker raced us on this key; retry and let the
			// re-read decide who won.
			continue
		}
		if err != nil {
			return false, fmt.Errorf("shared key set add: %w", err)
		}
		return added, nil
	}
}

// Contains reports whether the key is already present, without inserting.
func (s *SharedKeySet) Contains(kind models.Kind, key []byte) (bool, error) {
	full := encodeSharedKey(kind, key)
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(full)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("shared key set contains: %w", err)
	}
	return true, nil
}

// Close releases the underlying store.
func (s *SharedKeySet) Close() error {
	return s.db.Close()
}

func encodeSharedKey(kind models.Kind, key []byte) []byte {
	var buf bytes.Buffer
	buf.WriteString(string(kind))
	buf.WriteByte(0)
	buf.Write(key)
	return buf.Bytes()
}

// EncodeRecordKey serializes a record identity key for the shared set.
func EncodeRecordKey(k models.RecordKey) []byte {
	return encodeFields(k.Type, k.Start, k.End, k.Value)
}

// EncodeWorkoutKey serializes a workout identity key for the shared set.
func EncodeWorkoutKey(k models.WorkoutKey) []byte {
	return encodeFields(k.ActivityType, k.Start, k.End)
}

// EncodeCorrelationKey serializes a correlation identity key for the shared set.
func EncodeCorrelationKey(k models.CorrelationKey) []byte {
	return encodeFields(k.Type, k.Start, k.End)
}

// EncodeSummaryKey serializes a summary identity key for the shared set.
func EncodeSummaryKey(k models.SummaryKey) []byte {
	return encodeFields(k.DateComponents)
}

func encodeFields(fields ...string) []byte {
	var buf bytes.Buffer
	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(0)
		}
		buf.WriteString(f)
	}
	return buf.Bytes()
}
