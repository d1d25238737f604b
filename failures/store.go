package failures

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"hiredesk/media"

	pebble "github.com/cockroachdb/pebble"
)

// FailureRecord represents an ingest that did not produce a reference
type FailureRecord struct {
	Hash      string    `json:"hash"`
	Timestamp time.Time `json:"timestamp"`
	Backend   string    `json:"backend"`
	Filename  string    `json:"filename,omitempty"`
	MIMEType  string    `json:"mime_type"`
	Size      int64     `json:"size"`
	Error     string    `json:"error"`
}

var db *pebble.DB

// Init initializes the failure store
func Init(dbPath string) error {
	var err error
	db, err = pebble.Open(dbPath, &pebble.Options{})
	if err != nil {
		return fmt.Errorf("failed to open failure store: %w", err)
	}
	return nil
}

// Close closes the failure store
func Close() error {
	if db == nil {
		return nil
	}
	err := db.Close()
	db = nil
	return err
}

// StoreFailure stores a processing failure
func StoreFailure(hash, backend string, in media.Input, cause error) error {
	if db == nil {
		return fmt.Errorf("failure store not initialized")
	}

	msg := "unknown failure"
	if cause != nil {
		msg = cause.Error()
	}
	record := FailureRecord{
		Hash:      hash,
		Timestamp: time.Now(),
		Backend:   backend,
		Filename:  in.Filename,
		MIMEType:  in.MIMEType,
		Size:      in.Size,
		Error:     msg,
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal failure record: %w", err)
	}
	return db.Set([]byte(hash), data, pebble.Sync)
}

// GetFailure retrieves a failure record by hash
func GetFailure(hash string) (*FailureRecord, error) {
	if db == nil {
		return nil, fmt.Errorf("failure store not initialized")
	}

	data, closer, err := db.Get([]byte(hash))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, nil // No failure found
		}
		return nil, fmt.Errorf("failed to get failure: %w", err)
	}
	defer closer.Close()

	var record FailureRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal failure record: %w", err)
	}
	return &record, nil
}

// DeleteFailure removes a failure record
func DeleteFailure(hash string) error {
	if db == nil {
		return fmt.Errorf("failure store not initialized")
	}
	return db.Delete([]byte(hash), pebble.Sync)
}

// ListFailures returns all failure records (for admin purposes)
func ListFailures() ([]FailureRecord, error) {
	if db == nil {
		return nil, fmt.Errorf("failure store not initialized")
	}

	iter, err := db.NewIter(&pebble.IterOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to create iterator: %w", err)
	}
	defer iter.Close()

	failures := []FailureRecord{}
	for iter.First(); iter.Valid(); iter.Next() {
		var record FailureRecord
		if err := json.Unmarshal(iter.Value(), &record); err != nil {
			continue // Skip invalid records
		}
		failures = append(failures, record)
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("iteration error: %w", err)
	}
	return failures, nil
}

// CleanupOldRecords drops failures older than maxAge.
func CleanupOldRecords(maxAge time.Duration) (int, error) {
	if db == nil {
		return 0, fmt.Errorf("failure store not initialized")
	}

	cutoff := time.Now().Add(-maxAge)
	batch := db.NewBatch()
	defer batch.Close()

	iter, err := db.NewIter(&pebble.IterOptions{})
	if err != nil {
		return 0, fmt.Errorf("failed to create iterator: %w", err)
	}
	removed := 0
	for iter.First(); iter.Valid(); iter.Next() {
		var record FailureRecord
		if err := json.Unmarshal(iter.Value(), &record); err != nil {
			continue
		}
		if record.Timestamp.Before(cutoff) {
			// Batch.Delete copies the key.
			if err := batch.Delete(iter.Key(), nil); err != nil {
				iter.Close()
				return 0, err
			}
			removed++
		}
	}
	if err := iter.Close(); err != nil {
		return 0, err
	}

	if removed == 0 {
		return 0, nil
	}
	if err := batch.Commit(pebble.Sync); err != nil {
		return 0, fmt.Errorf("failed to delete old failure records: %w", err)
	}
	return removed, nil
}

// CheckHealth verifies the failure database answers reads.
func CheckHealth() error {
	if db == nil {
		return fmt.Errorf("failure database not initialized")
	}

	_, closer, err := db.Get([]byte("__health_check__"))
	if err != nil && !errors.Is(err, pebble.ErrNotFound) {
		return fmt.Errorf("database health check failed: %w", err)
	}
	if closer != nil {
		closer.Close()
	}
	return nil
}
