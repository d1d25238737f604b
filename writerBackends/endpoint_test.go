package writerbackends

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"hiredesk/media"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func endpointServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(10<<20))
		assert.Equal(t, "user-42", r.FormValue("uid"))

		f, _, err := r.FormFile("file")
		require.NoError(t, err)
		data, _ := io.ReadAll(f)
		f.Close()
		assert.Equal(t, "original-bytes", string(data), "the original bytes must be sent unmodified")

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestEndpointReturnsJSON(t *testing.T) {
	srv := endpointServer(t, http.StatusCreated, `{"link":"https://files/abc","fileId":"abc","size":14}`)
	u := NewEndpointUploader(srv.URL, srv.Client())

	resp, err := u.Upload(context.Background(), sampleInput(), "user-42")
	require.NoError(t, err)
	assert.Equal(t, "https://files/abc", resp["link"])
	assert.Equal(t, float64(14), resp["size"])

	ref, err := u.Reference(resp)
	require.NoError(t, err)
	assert.Equal(t, "https://files/abc", ref.URL)
	assert.Equal(t, "abc", ref.ExternalID)
}

func TestEndpointReferenceFallbacks(t *testing.T) {
	u := NewEndpointUploader("http://unused", nil)

	ref, err := u.Reference(map[string]any{"secure_url": "https://a", "url": "http://a"})
	require.NoError(t, err)
	assert.Equal(t, "https://a", ref.URL)

	ref, err = u.Reference(map[string]any{"url": "http://b", "fileId": float64(991)})
	require.NoError(t, err)
	assert.Equal(t, "http://b", ref.URL)
	assert.Equal(t, "991", ref.ExternalID)

	_, err = u.Reference(map[string]any{"fileId": "only-id"})
	assert.True(t, errors.Is(err, media.ErrMalformedResponse))
}

func TestEndpointRejectionCarriesBody(t *testing.T) {
	srv := endpointServer(t, http.StatusInsufficientStorage, "quota exceeded")
	u := NewEndpointUploader(srv.URL, srv.Client())

	_, err := u.Upload(context.Background(), sampleInput(), "user-42")
	var rejection *media.RemoteRejectionError
	require.True(t, errors.As(err, &rejection))
	assert.Equal(t, "quota exceeded", rejection.Body)
	assert.Equal(t, http.StatusInsufficientStorage, rejection.StatusCode)
}

func TestEndpointRejectionKeepsRawJSON(t *testing.T) {
	srv := endpointServer(t, http.StatusBadRequest, `{ "error": "bad uid" }`)
	_, err := NewEndpointUploader(srv.URL, srv.Client()).Upload(context.Background(), sampleInput(), "user-42")
	var rejection *media.RemoteRejectionError
	require.True(t, errors.As(err, &rejection))
	assert.Equal(t, `{ "error": "bad uid" }`, rejection.Body)
}

func TestEndpointEmptyURL(t *testing.T) {
	_, err := NewEndpointUploader("", nil).Upload(context.Background(), sampleInput(), "u")
	assert.True(t, errors.Is(err, media.ErrConfiguration))
}

func TestEndpointNonJSONSuccess(t *testing.T) {
	srv := endpointServer(t, http.StatusOK, "ok")
	_, err := NewEndpointUploader(srv.URL, srv.Client()).Upload(context.Background(), sampleInput(), "user-42")
	assert.True(t, errors.Is(err, media.ErrMalformedResponse))
}

func TestEndpointStoreUsesContextUID(t *testing.T) {
	srv := endpointServer(t, http.StatusOK, `{"link":"https://files/abc"}`)
	var s Store = NewEndpointUploader(srv.URL, srv.Client())

	ctx := WithUID(context.Background(), "user-42")
	assert.Equal(t, "user-42", UIDFromContext(ctx))

	res := s.Store(ctx, sampleInput())
	require.True(t, res.Success, res.Error)
	assert.Equal(t, "https://files/abc", res.Data.URL)
}

func TestEndpointStoreFailureIsResult(t *testing.T) {
	srv := endpointServer(t, http.StatusForbidden, "nope")
	res := NewEndpointUploader(srv.URL, srv.Client()).Store(WithUID(context.Background(), "user-42"), sampleInput())
	assert.False(t, res.Success)
	assert.Nil(t, res.Data)
	assert.Contains(t, res.Error, "nope")
	assert.True(t, errors.Is(res.Err(), media.ErrRemoteRejection))
}
