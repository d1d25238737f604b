package failures

import (
	"errors"
	"testing"
	"time"

	"hiredesk/media"
)

func TestFailureStore(t *testing.T) {
	if err := Init(t.TempDir()); err != nil {
		t.Fatalf("Failed to initialize failure store: %v", err)
	}
	defer Close()

	in := media.NewInput([]byte("%PDF-1.4"), "application/pdf", "cv.pdf")
	hash := in.Fingerprint()
	cause := errors.New("invalid media type: only image files are accepted")

	if err := StoreFailure(hash, "embedded", in, cause); err != nil {
		t.Fatalf("Failed to store failure: %v", err)
	}

	record, err := GetFailure(hash)
	if err != nil {
		t.Fatalf("Failed to get failure: %v", err)
	}
	if record == nil {
		t.Fatal("Expected failure record, got nil")
	}
	if record.Error != cause.Error() {
		t.Errorf("Expected error %q, got %q", cause.Error(), record.Error)
	}
	if record.MIMEType != "application/pdf" || record.Filename != "cv.pdf" {
		t.Errorf("Unexpected record: %+v", record)
	}

	missing, err := GetFailure("does-not-exist")
	if err != nil || missing != nil {
		t.Errorf("Expected (nil, nil) for a missing hash, got %v %v", missing, err)
	}

	list, err := ListFailures()
	if err != nil {
		t.Fatalf("Failed to list failures: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("Expected 1 failure, got %d", len(list))
	}

	if err := DeleteFailure(hash); err != nil {
		t.Fatalf("Failed to delete failure: %v", err)
	}
	if record, _ := GetFailure(hash); record != nil {
		t.Error("Expected failure to be deleted")
	}
}

func TestFailureCleanup(t *testing.T) {
	if err := Init(t.TempDir()); err != nil {
		t.Fatalf("Failed to initialize failure store: %v", err)
	}
	defer Close()

	for _, b := range []string{"one", "two"} {
		in := media.NewInput([]byte(b), "image/png", b)
		if err := StoreFailure(in.Fingerprint(), "endpoint", in, nil); err != nil {
			t.Fatalf("Failed to store failure: %v", err)
		}
	}

	if n, err := CleanupOldRecords(24 * time.Hour); err != nil || n != 0 {
		t.Fatalf("Expected no cleanup, got %d %v", n, err)
	}
	if n, err := CleanupOldRecords(-time.Minute); err != nil || n != 2 {
		t.Fatalf("Expected 2 removed, got %d %v", n, err)
	}
	if err := CheckHealth(); err != nil {
		t.Errorf("Health check failed: %v", err)
	}
}
