// Package history provides Badger DB-backed storage for past run reports.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/johnwesleyquintero/sentinel/pkg/sentinel/types"
)

// Key prefixes for different data types
const (
	prefixRun  = "r:" // Run reports, keyed by timestamp for ordered scans
	prefixMeta = "m:" // Metadata (schema version, etc.)
)

// schemaVersion is stamped into new stores and checked on open. Bump it
// when the on-disk layout changes.
const schemaVersion = "1"

// keyTimeFormat is a fixed-width RFC 3339 layout. RFC3339Nano trims
// trailing zeros, which breaks lexicographic ordering within a second;
// every key must render the full nanosecond field.
const keyTimeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// ErrNoRuns is returned when the store holds no run reports.
var ErrNoRuns = errors.New("history: no runs recorded")

// Store is the run history backed by Badger DB.
type Store struct {
	db *badger.DB
}

// Open opens or creates a store at the given path.
func Open(path string) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil // Disable logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// ensureSchema stamps the schema version into a new store and rejects a
// store written by an incompatible version.
func ensureSchema(db *badger.DB) error {
	key := []byte(prefixMeta + "schema")
	return db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return txn.Set(key, []byte(schemaVersion))
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			if string(val) != schemaVersion {
				return fmt.Errorf("history: unsupported schema version %q (want %s)",
					val, schemaVersion)
			}
			return nil
		})
	})
}

// Close closes the store.
func (s *Store) Close() error {
	return s.db.Close()
}

// runKey builds a timestamp-ordered key so iteration returns runs in
// chronological order and reverse iteration returns the newest first.
func runKey(rep *types.OptimizationReport) []byte {
	ts := rep.Timestamp.UTC().Format(keyTimeFormat)
	return []byte(fmt.Sprintf("%s%s:%s", prefixRun, ts, rep.RunID))
}

// Put stores a run report.
func (s *Store) Put(rep *types.OptimizationReport) error {
	data, err := json.Marshal(rep)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(runKey(rep), data)
	})
}

// Last returns the most recent run report, or ErrNoRuns.
func (s *Store) Last() (*types.OptimizationReport, error) {
	var rep *types.OptimizationReport

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		it := txn.NewIterator(opts)
		defer it.Close()

		// Reverse-seek to the end of the run keyspace. 0xff sorts after
		// every RFC 3339 timestamp byte.
		seek := append([]byte(prefixRun), 0xff)
		it.Seek(seek)
		if !it.ValidForPrefix([]byte(prefixRun)) {
			return ErrNoRuns
		}

		return it.Item().Value(func(val []byte) error {
			rep = &types.OptimizationReport{}
			return json.Unmarshal(val, rep)
		})
	})
	if err != nil {
		return nil, err
	}

	return rep, nil
}

// List returns up to limit run reports, newest first. A limit of zero or
// less returns every stored run.
func (s *Store) List(limit int) ([]*types.OptimizationReport, error) {
	var reports []*types.OptimizationReport

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(prefixRun)
		seek := append([]byte(prefixRun), 0xff)
		for it.Seek(seek); it.ValidForPrefix(prefix); it.Next() {
			if limit > 0 && len(reports) >= limit {
				break
			}

			err := it.Item().Value(func(val []byte) error {
				var rep types.OptimizationReport
				if err := json.Unmarshal(val, &rep); err != nil {
					return nil // Skip invalid entries
				}
				reports = append(reports, &rep)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})

	return reports, err
}

// Prune deletes run reports older than retention and returns how many were
// removed. A retention of zero or less disables pruning.
func (s *Store) Prune(retention time.Duration) (int, error) {
	if retention <= 0 {
		return 0, nil
	}
	cutoff := time.Now().Add(-retention).UTC().Format(keyTimeFormat)
	// Keys order by timestamp, so everything before the cutoff key is stale.
	cutoffKey := []byte(prefixRun + cutoff)

	var removed int
	err := s.db.Update(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		var keysToDelete [][]byte
		prefix := []byte(prefixRun)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := it.Item().KeyCopy(nil)
			if string(key) >= string(cutoffKey) {
				break
			}
			keysToDelete = append(keysToDelete, key)
		}

		for _, key := range keysToDelete {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}
		removed = len(keysToDelete)
		return nil
	})

	return removed, err
}

// Count returns the number of stored run reports.
func (s *Store) Count() (int, error) {
	var count int
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(prefixRun)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			count++
		}
		return nil
	})
	return count, err
}
