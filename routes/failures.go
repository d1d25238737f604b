package routes

import (
	"encoding/json"
	"net/http"

	"hiredesk/failures"
	"hiredesk/logger"
)

// FailureQueryHandler reports whether the upload with the given content hash failed
func FailureQueryHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	hash := r.URL.Query().Get("hash")
	if hash == "" {
		http.Error(w, "hash parameter required", http.StatusBadRequest)
		return
	}

	record, err := failures.GetFailure(hash)
	if err != nil {
		logger.Errorf("Failed to query failure for hash %s: %v", hash, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if record == nil {
		json.NewEncoder(w).Encode(map[string]any{
			"hash":    hash,
			"status":  "not_found",
			"message": "No failure recorded for this hash",
		})
		return
	}

	json.NewEncoder(w).Encode(map[string]any{
		"hash":      record.Hash,
		"status":    "failed",
		"timestamp": record.Timestamp,
		"backend":   record.Backend,
		"mime_type": record.MIMEType,
		"size":      record.Size,
		"error":     record.Error,
	})
}

// FailureListHandler handles listing all failures (admin endpoint)
func FailureListHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	failuresList, err := failures.ListFailures()
	if err != nil {
		logger.Errorf("Failed to list failures: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"failures": failuresList,
		"count":    len(failuresList),
	})
}
