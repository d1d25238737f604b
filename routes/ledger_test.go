package routes

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"hiredesk/failures"
	"hiredesk/media"
	"hiredesk/success"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openLedgers(t *testing.T) {
	t.Helper()
	require.NoError(t, success.Init(t.TempDir()))
	require.NoError(t, failures.Init(t.TempDir()))
	t.Cleanup(func() {
		success.Close()
		failures.Close()
	})
}

func getJSON(t *testing.T, h http.HandlerFunc, target string) (int, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, target, nil))
	var body map[string]any
	if rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec.Code, body
}

func TestSuccessRoutes(t *testing.T) {
	openLedgers(t)
	in := media.NewInput([]byte("photo"), "image/jpeg", "p.jpg")
	require.NoError(t, success.StoreSuccess(in.Fingerprint(), "s3", in, media.UploadResult{URL: "https://cdn/p.jpg", ExternalID: "p.jpg"}))

	code, body := getJSON(t, SuccessQueryHandler, "/success?hash="+in.Fingerprint())
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, "https://cdn/p.jpg", body["url"])

	_, body = getJSON(t, SuccessQueryHandler, "/success?hash=missing")
	assert.Equal(t, "not_found", body["status"])

	code, _ = getJSON(t, SuccessQueryHandler, "/success")
	assert.Equal(t, http.StatusBadRequest, code)

	_, body = getJSON(t, SuccessListHandler, "/success/list")
	assert.Equal(t, float64(1), body["count"])
}

func TestFailureRoutes(t *testing.T) {
	openLedgers(t)
	in := media.NewInput([]byte("doc"), "application/pdf", "cv.pdf")
	require.NoError(t, failures.StoreFailure(in.Fingerprint(), "embedded", in, errors.New("invalid media type")))

	code, body := getJSON(t, FailureQueryHandler, "/failures?hash="+in.Fingerprint())
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "failed", body["status"])
	assert.Equal(t, "invalid media type", body["error"])

	_, body = getJSON(t, FailureListHandler, "/failures/list")
	assert.Equal(t, float64(1), body["count"])
}

func TestHealthAndVersion(t *testing.T) {
	_, body := getJSON(t, HealthHandler, "/health")
	assert.Equal(t, "degraded", body["status"])

	openLedgers(t)
	_, body = getJSON(t, HealthHandler, "/health")
	assert.Equal(t, "healthy", body["status"])

	_, body = getJSON(t, VersionHandler, "/version")
	assert.Equal(t, Version, body["version"])
	assert.NotEmpty(t, body["go_version"])
}
