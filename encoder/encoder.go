package encoder

import (
	"context"
	"image"
	"io"
	"sync"

	"hiredesk/logger"
)

// EncodeFunc is the function signature for any encoder
type EncodeFunc func(ctx context.Context, img image.Image, w io.Writer, opts EncodeOptions) error

type EncodeOptions struct {
	Width, Height int // bounding box
	Quality       int // 1–100, ignored by lossless encoders
}

// Codec pairs an encoder with the MIME type it produces.
type Codec struct {
	MIMEType string
	Encode   EncodeFunc
}

var (
	registryMu sync.RWMutex
	// Registry maps format name → codec
	Registry = map[string]Codec{}
)

// Register adds or replaces the codec for a format
func Register(format, mimeType string, fn EncodeFunc) {
	registryMu.Lock()
	defer registryMu.Unlock()
	Registry[format] = Codec{MIMEType: mimeType, Encode: fn}
	logger.Debugf("encoder [%s] registered (produces %s)", format, mimeType)
}

// Get looks up a codec by format
func Get(format string) (Codec, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	c, ok := Registry[format]
	return c, ok
}

var defaultsOnce sync.Once

// RegisterDefaults registers the built-in codecs once.
func RegisterDefaults() {
	defaultsOnce.Do(func() {
		Register("jpg", "image/jpeg", EncodeJPG)
		Register("png", "image/png", EncodePNG)
	})
}
