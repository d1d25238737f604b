// Package datauri turns compressed image bytes into strings that can be stored
// directly in a document field, and back.
package datauri

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

var ErrMalformed = errors.New("malformed data uri")

const (
	scheme       = "data:"
	base64Marker = ";base64,"
)

// Encode renders data as data:<mime>;base64,<payload>. It never truncates.
func Encode(data []byte, mimeType string) string {
	var b strings.Builder
	b.Grow(len(scheme) + len(mimeType) + len(base64Marker) + base64.StdEncoding.EncodedLen(len(data)))
	b.WriteString(scheme)
	b.WriteString(mimeType)
	b.WriteString(base64Marker)
	b.WriteString(base64.StdEncoding.EncodeToString(data))
	return b.String()
}

// Decode splits a base64 data URI into its MIME type and bytes.
func Decode(uri string) (string, []byte, error) {
	if !strings.HasPrefix(uri, scheme) {
		return "", nil, fmt.Errorf("%w: missing %q prefix", ErrMalformed, scheme)
	}
	header, payload, ok := strings.Cut(uri[len(scheme):], ",")
	if !ok {
		return "", nil, fmt.Errorf("%w: missing payload separator", ErrMalformed)
	}
	mimeType, found := strings.CutSuffix(header, ";base64")
	if !found {
		return "", nil, fmt.Errorf("%w: only base64 payloads are supported", ErrMalformed)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return mimeType, data, nil
}

// EncodedLen is the length of Encode's output for n bytes of the given type.
func EncodedLen(n int, mimeType string) int {
	return len(scheme) + len(mimeType) + len(base64Marker) + base64.StdEncoding.EncodedLen(n)
}
