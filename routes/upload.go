package routes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"hiredesk/logger"
	"hiredesk/media"
	"hiredesk/pipeline"
	writerbackends "hiredesk/writerBackends"

	"github.com/gabriel-vasile/mimetype"
)

// MaxFormBytes caps the multipart request body.
const MaxFormBytes = 32 << 20

// UploadOptions wires the upload handler to its pipelines.
type UploadOptions struct {
	JWTSecret []byte
	Issuer    string

	// Pipelines holds one pipeline per available backend kind. A token may
	// pick one through its backend claim; otherwise Default is used.
	Pipelines map[string]*pipeline.Pipeline
	Default   string
}

// declaredType prefers the part's Content-Type and sniffs the bytes when the
// browser sent nothing useful.
func declaredType(partType string, data []byte) string {
	partType = strings.TrimSpace(partType)
	if partType != "" && !strings.HasPrefix(partType, "application/octet-stream") {
		return partType
	}
	return mimetype.Detect(data).String()
}

// statusFor maps a pipeline Result to the HTTP status returned to the browser.
func statusFor(res media.Result) int {
	if res.Success {
		return http.StatusOK
	}
	err := res.Err()
	switch {
	case errors.Is(err, media.ErrInvalidMediaType),
		errors.Is(err, media.ErrMediaTooLarge),
		errors.Is(err, media.ErrDecode):
		return http.StatusUnprocessableEntity
	case errors.Is(err, media.ErrNetwork),
		errors.Is(err, media.ErrRemoteRejection),
		errors.Is(err, media.ErrMalformedResponse):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func writeResult(w http.ResponseWriter, status int, res media.Result) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(res); err != nil {
		logger.Errorf("Failed to encode upload result: %v", err)
	}
}

// UploadHandler accepts one multipart "file" from an authenticated user and
// answers with the media.Result of the ingest.
func UploadHandler(opts UploadOptions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		claims, err := verifyJWT(r, AuthOptions{JWTSecret: opts.JWTSecret, Issuer: opts.Issuer})
		if err != nil {
			logger.Debugf("Rejected upload from %s: %v", r.RemoteAddr, err)
			http.Error(w, fmt.Sprintf("Invalid token: %v", err), http.StatusUnauthorized)
			return
		}

		backend := opts.Default
		if claims.Backend != "" {
			backend = claims.Backend
		}
		p, ok := opts.Pipelines[backend]
		if !ok {
			http.Error(w, fmt.Sprintf("backend %q is not available", backend), http.StatusBadRequest)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, MaxFormBytes)
		if err := r.ParseMultipartForm(MaxFormBytes); err != nil {
			http.Error(w, "Failed to parse multipart form", http.StatusBadRequest)
			return
		}
		defer r.MultipartForm.RemoveAll()

		file, header, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "Failed to get file from form", http.StatusBadRequest)
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			http.Error(w, "Failed to read file data", http.StatusInternalServerError)
			return
		}

		in := media.NewInput(data, declaredType(header.Header.Get("Content-Type"), data), header.Filename)
		ctx := writerbackends.WithUID(r.Context(), claims.Subject)

		res := p.Ingest(ctx, in)
		logger.Infof("Upload from %s: file=%q type=%s size=%d backend=%s success=%t",
			claims.Subject, in.Filename, in.MIMEType, in.Size, backend, res.Success)

		w.Header().Set("X-Content-Hash", in.Fingerprint())
		writeResult(w, statusFor(res), res)
	}
}
