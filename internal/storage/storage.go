// Package storage persists analysis history for the air quality dashboard.
// It uses BoltDB as the underlying storage engine; records are keyed by
// timestamp so recent-history queries are a reverse cursor scan.
package storage

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	"airsage/internal/severity"
)

const analysesBucket = "analyses" // Bucket name for completed analyses

// AnalysisRecord is one completed analysis as persisted to the history store.
type AnalysisRecord struct {
	Timestamp  time.Time          `json:"timestamp"`
	Inputs     map[string]float64 `json:"inputs"`
	Prediction float64            `json:"prediction"`
	Threshold  float64            `json:"threshold"`
	Severity   severity.Level     `json:"severity"`
}

// Store provides persistent storage for analysis history using BoltDB.
type Store struct {
	db *bbolt.DB
}

// New creates a new storage instance with the specified data path.
// It initializes the BoltDB database and creates the analyses bucket.
func New(dataPath string) (*Store, error) {
	dbPath := filepath.Join(dataPath, "airsage-data.db")

	db, err := bbolt.Open(dbPath, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(analysesBucket)); err != nil {
			return fmt.Errorf("create analyses bucket: %w", err)
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the database connection gracefully.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// StoreAnalysis persists one analysis record. Records are keyed by their
// UnixNano timestamp, zero padded so byte order matches time order.
func (s *Store) StoreAnalysis(rec AnalysisRecord) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(analysesBucket))

		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("marshal analysis record: %w", err)
		}

		key := fmt.Sprintf("%020d", rec.Timestamp.UnixNano())
		return b.Put([]byte(key), data)
	})
}

// RecentAnalyses returns up to limit records, newest first.
func (s *Store) RecentAnalyses(limit int) ([]AnalysisRecord, error) {
	var records []AnalysisRecord

	err := s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket([]byte(analysesBucket)).Cursor()
		for k, v := c.Last(); k != nil && len(records) < limit; k, v = c.Prev() {
			var rec AnalysisRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				continue // Skip malformed records
			}
			records = append(records, rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return records, nil
}
