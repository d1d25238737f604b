package success

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"hiredesk/media"

	pebble "github.com/cockroachdb/pebble"
)

// SuccessRecord describes one stored media file, keyed by the SHA-256 of its bytes.
type SuccessRecord struct {
	Hash       string    `json:"hash"`
	Timestamp  time.Time `json:"timestamp"`
	Backend    string    `json:"backend"`
	Filename   string    `json:"filename,omitempty"`
	MIMEType   string    `json:"mime_type"`
	Size       int64     `json:"size"`
	URL        string    `json:"url"`
	ExternalID string    `json:"external_id,omitempty"`
}

var db *pebble.DB

// Init initializes the success store
func Init(dbPath string) error {
	var err error
	db, err = pebble.Open(dbPath, &pebble.Options{})
	if err != nil {
		return fmt.Errorf("failed to open success store: %w", err)
	}
	return nil
}

// Close closes the success store
func Close() error {
	if db == nil {
		return nil
	}
	err := db.Close()
	db = nil
	return err
}

// ledgerURL keeps remote URLs as they are. Inline data URIs are reduced to
// their header and length so processed media never lands on disk.
func ledgerURL(url string) string {
	if !strings.HasPrefix(url, "data:") {
		return url
	}
	header := url
	if i := strings.IndexByte(url, ','); i >= 0 {
		header = url[:i+1]
	}
	return fmt.Sprintf("%s(%d bytes inline)", header, len(url))
}

// StoreSuccess records that in was stored by backend under res.
func StoreSuccess(hash, backend string, in media.Input, res media.UploadResult) error {
	if db == nil {
		return fmt.Errorf("success store not initialized")
	}

	record := SuccessRecord{
		Hash:       hash,
		Timestamp:  time.Now(),
		Backend:    backend,
		Filename:   in.Filename,
		MIMEType:   in.MIMEType,
		Size:       in.Size,
		URL:        ledgerURL(res.URL),
		ExternalID: res.ExternalID,
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal success record: %w", err)
	}
	return db.Set([]byte(hash), data, pebble.Sync)
}

// GetSuccess retrieves a success record by hash. A missing record is (nil, nil).
func GetSuccess(hash string) (*SuccessRecord, error) {
	if db == nil {
		return nil, fmt.Errorf("success store not initialized")
	}

	data, closer, err := db.Get([]byte(hash))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	defer closer.Close()

	var record SuccessRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal success record: %w", err)
	}
	return &record, nil
}

// DeleteSuccess removes a success record
func DeleteSuccess(hash string) error {
	if db == nil {
		return fmt.Errorf("success store not initialized")
	}
	return db.Delete([]byte(hash), pebble.Sync)
}

// ListSuccessRecords returns all success records (for admin/debugging)
func ListSuccessRecords() ([]SuccessRecord, error) {
	if db == nil {
		return nil, fmt.Errorf("success store not initialized")
	}

	iter, err := db.NewIter(&pebble.IterOptions{})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	records := []SuccessRecord{}
	for iter.First(); iter.Valid(); iter.Next() {
		var record SuccessRecord
		if err := json.Unmarshal(iter.Value(), &record); err != nil {
			continue // Skip invalid records
		}
		records = append(records, record)
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("iteration error: %w", err)
	}
	return records, nil
}

// CleanupOldRecords removes success records older than maxAge and returns how many went.
func CleanupOldRecords(maxAge time.Duration) (int, error) {
	if db == nil {
		return 0, fmt.Errorf("success store not initialized")
	}

	cutoff := time.Now().Add(-maxAge)
	iter, err := db.NewIter(&pebble.IterOptions{})
	if err != nil {
		return 0, err
	}

	var keysToDelete [][]byte
	for iter.First(); iter.Valid(); iter.Next() {
		var record SuccessRecord
		if err := json.Unmarshal(iter.Value(), &record); err != nil {
			continue
		}
		if record.Timestamp.Before(cutoff) {
			key := make([]byte, len(iter.Key()))
			copy(key, iter.Key())
			keysToDelete = append(keysToDelete, key)
		}
	}
	if err := iter.Close(); err != nil {
		return 0, err
	}

	for _, key := range keysToDelete {
		if err := db.Delete(key, pebble.Sync); err != nil {
			return 0, fmt.Errorf("failed to delete old success record: %w", err)
		}
	}
	return len(keysToDelete), nil
}

// CheckHealth performs a basic health check on the success database
func CheckHealth() error {
	if db == nil {
		return fmt.Errorf("success database not initialized")
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
