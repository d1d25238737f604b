package success

import (
	"strings"
	"testing"
	"time"

	"hiredesk/media"
)

func openTestStore(t *testing.T) {
	t.Helper()
	if err := Init(t.TempDir()); err != nil {
		t.Fatalf("Failed to initialize success store: %v", err)
	}
	t.Cleanup(func() { Close() })
}

func TestSuccessStore(t *testing.T) {
	openTestStore(t)

	in := media.NewInput([]byte("resume-photo"), "image/png", "me.png")
	hash := in.Fingerprint()

	err := StoreSuccess(hash, "s3", in, media.UploadResult{URL: "https://cdn/k.png", ExternalID: "k.png"})
	if err != nil {
		t.Fatalf("Failed to store success: %v", err)
	}

	record, err := GetSuccess(hash)
	if err != nil {
		t.Fatalf("Failed to get success: %v", err)
	}
	if record == nil {
		t.Fatal("Expected success record, got nil")
	}
	if record.Backend != "s3" || record.URL != "https://cdn/k.png" || record.ExternalID != "k.png" {
		t.Errorf("Unexpected record: %+v", record)
	}
	if record.Size != int64(len("resume-photo")) || record.MIMEType != "image/png" {
		t.Errorf("Expected size/mime to be kept, got %d %s", record.Size, record.MIMEType)
	}

	if err := DeleteSuccess(hash); err != nil {
		t.Fatalf("Failed to delete success: %v", err)
	}
	record, err = GetSuccess(hash)
	if err != nil {
		t.Fatalf("Failed to get deleted success: %v", err)
	}
	if record != nil {
		t.Errorf("Expected nil record after delete, got %+v", record)
	}
}

func TestSuccessStoreDoesNotPersistInlineData(t *testing.T) {
	openTestStore(t)

	in := media.NewInput([]byte("x"), "image/png", "x.png")
	uri := "data:image/jpeg;base64," + strings.Repeat("A", 4096)
	if err := StoreSuccess(in.Fingerprint(), "embedded", in, media.UploadResult{URL: uri}); err != nil {
		t.Fatalf("Failed to store success: %v", err)
	}

	record, err := GetSuccess(in.Fingerprint())
	if err != nil || record == nil {
		t.Fatalf("Expected record, got %v %v", record, err)
	}
	if strings.Contains(record.URL, "AAAA") {
		t.Errorf("Inline payload was persisted: %q", record.URL)
	}
	if record.URL != "data:image/jpeg;base64,(4119 bytes inline)" {
		t.Errorf("Unexpected summary %q", record.URL)
	}
}

func TestListAndCleanup(t *testing.T) {
	openTestStore(t)

	for _, name := range []string{"a", "b", "c"} {
		in := media.NewInput([]byte(name), "image/gif", name+".gif")
		if err := StoreSuccess(in.Fingerprint(), "local", in, media.UploadResult{URL: "http://h/" + name}); err != nil {
			t.Fatalf("Failed to store %s: %v", name, err)
		}
	}

	records, err := ListSuccessRecords()
	if err != nil {
		t.Fatalf("Failed to list: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(records))
	}

	removed, err := CleanupOldRecords(time.Hour)
	if err != nil || removed != 0 {
		t.Fatalf("Expected nothing removed, got %d %v", removed, err)
	}

	// A negative age puts the cutoff in the future.
	removed, err = CleanupOldRecords(-time.Hour)
	if err != nil {
		t.Fatalf("Cleanup failed: %v", err)
	}
	if removed != 3 {
		t.Errorf("Expected 3 removed, got %d", removed)
	}

	records, _ = ListSuccessRecords()
	if len(records) != 0 {
		t.Errorf("Expected empty ledger, got %d", len(records))
	}
}

func TestUninitialized(t *testing.T) {
	Close()
	if err := CheckHealth(); err == nil {
		t.Error("Expected health check to fail before Init")
	}
	if _, err := GetSuccess("x"); err == nil {
		t.Error("Expected error before Init")
	}

	openTestStore(t)
	if err := CheckHealth(); err != nil {
		t.Errorf("Health check failed: %v", err)
	}
}
