package media

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Input is a single file handed to the pipeline by a caller.
// It is never mutated once built.
type Input struct {
	Data     []byte
	MIMEType string // declared by the caller, not sniffed
	Size     int64
	Filename string
}

// NewInput builds an Input whose Size matches the buffer length.
func NewInput(data []byte, mimeType, filename string) Input {
	return Input{
		Data:     data,
		MIMEType: mimeType,
		Size:     int64(len(data)),
		Filename: filename,
	}
}

// UploadResult is the reference a store hands back for persisted media.
// URL is non-empty whenever the store succeeded.
type UploadResult struct {
	URL        string `json:"url"`
	ExternalID string `json:"externalId,omitempty"`
}

// Result is the outcome shape every store resolves to.
type Result struct {
	Success bool          `json:"success"`
	Data    *UploadResult `json:"data,omitempty"`
	Error   string        `json:"error,omitempty"`

	cause error
}

// Succeeded wraps an upload reference into a successful Result.
func Succeeded(res UploadResult) Result {
	return Result{Success: true, Data: &res}
}

// Failed wraps err into a failed Result. The message is what callers render.
func Failed(err error) Result {
	if err == nil {
		return Result{Success: false, Error: "unknown failure"}
	}
	return Result{Success: false, Error: err.Error(), cause: err}
}

// Err returns the underlying failure, or nil for a successful Result.
func (r Result) Err() error {
	return r.cause
}

// Fingerprint is the hex SHA-256 of the input bytes, used as the ledger key.
func (in Input) Fingerprint() string {
	sum := sha256.Sum256(in.Data)
	return hex.EncodeToString(sum[:])
}

// IsImage reports whether a declared MIME type belongs to the image family.
func IsImage(mimeType string) bool {
	return strings.HasPrefix(normalizeMIME(mimeType), "image/")
}

// IsRaster reports whether mimeType is a bitmap format that cannot carry
// script. SVG and unknown image types are not raster.
func IsRaster(mimeType string) bool {
	switch normalizeMIME(mimeType) {
	case "image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp",
		"image/bmp", "image/tiff", "image/avif", "image/heic":
		return true
	}
	return false
}

// ExtensionFromMIME maps a MIME type to the file extension used for object keys.
func ExtensionFromMIME(mimeType string) string {
	switch normalizeMIME(mimeType) {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "image/bmp":
		return ".bmp"
	case "image/tiff":
		return ".tiff"
	case "image/avif":
		return ".avif"
	case "image/heic":
		return ".heic"
	case "image/svg+xml":
		return ".svg"
	default:
		return ".bin"
	}
}

// normalizeMIME strips parameters and lowercases, "Image/PNG; q=1" -> "image/png".
func normalizeMIME(mimeType string) string {
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = mimeType[:i]
	}
	return strings.ToLower(strings.TrimSpace(mimeType))
}
