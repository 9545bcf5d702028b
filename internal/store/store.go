package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/mmartin/mediashelf/internal/domain"
	bolt "go.etcd.io/bbolt"
)

// Bucket names
var bucketRecords = []byte("records")

// Store implements domain.RecordStore using BoltDB. Values are
// JSON-encoded records keyed by record ID.
type Store struct {
	db     *bolt.DB
	dir    string
	logger *slog.Logger
}

// Open opens (creating if needed) the library database under dir.
// Bucket creation is idempotent, so Open is safe to reach from multiple
// call sites within one process. An open failure is fatal to the
// application and is returned, never swallowed.
func Open(dir string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dir, "mediashelf.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketRecords)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, dir: dir, logger: logger}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// GetAll returns every record in the table, order unspecified.
func (s *Store) GetAll() ([]domain.Record, error) {
	var recs []domain.Record
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketRecords)
		return b.ForEach(func(k, v []byte) error {
			var rec domain.Record
			if err := json.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("decode record %s: %w", k, err)
			}
			recs = append(recs, rec)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return recs, nil
}

// Put upserts a record by its ID.
func (s *Store) Put(rec domain.Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketRecords)
		return b.Put([]byte(rec.ID), data)
	})
}

// Delete removes a record if present. Deleting an absent ID is a no-op.
func (s *Store) Delete(id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketRecords)
		return b.Delete([]byte(id))
	})
}

// ReplaceAll clears the table and inserts every given record inside a
// single transaction. Used exclusively by bulk import, which replaces
// rather than merges.
func (s *Store) ReplaceAll(recs []domain.Record) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(bucketRecords); err != nil {
			return err
		}
		b, err := tx.CreateBucket(bucketRecords)
		if err != nil {
			return err
		}
		for _, rec := range recs {
			data, err := json.Marshal(rec)
			if err != nil {
				return err
			}
			if err := b.Put([]byte(rec.ID), data); err != nil {
				return err
			}
		}
		return nil
	})
}
