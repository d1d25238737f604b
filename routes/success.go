package routes

import (
	"encoding/json"
	"net/http"

	"hiredesk/logger"
	"hiredesk/success"
)

// SuccessQueryHandler returns the stored reference for a content hash
func SuccessQueryHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	hash := r.URL.Query().Get("hash")
	if hash == "" {
		http.Error(w, "hash parameter required", http.StatusBadRequest)
		return
	}

	record, err := success.GetSuccess(hash)
	if err != nil {
		logger.Errorf("Failed to query success for hash %s: %v", hash, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if record == nil {
		json.NewEncoder(w).Encode(map[string]any{
			"hash":    hash,
			"status":  "not_found",
			"message": "No success record found for this hash",
		})
		return
	}

	json.NewEncoder(w).Encode(map[string]any{
		"hash":        record.Hash,
		"status":      "success",
		"timestamp":   record.Timestamp,
		"backend":     record.Backend,
		"url":         record.URL,
		"external_id": record.ExternalID,
	})
}

// SuccessListHandler handles listing all success records (admin endpoint)
func SuccessListHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	records, err := success.ListSuccessRecords()
	if err != nil {
		logger.Errorf("Failed to list success records: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"success_records": records,
		"count":           len(records),
	})
}
