package writerbackends

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"hiredesk/logger"
	"hiredesk/media"

	"github.com/google/uuid"
)

// Store persists one validated media input. Every backend reports through
// media.Result so callers branch on Success instead of juggling conventions.
type Store interface {
	Kind() string
	Store(ctx context.Context, in media.Input) media.Result
}

// UploadFunc is the error-returning shape each backend implements internally.
type UploadFunc func(ctx context.Context, in media.Input) (media.UploadResult, error)

type uploadStore struct {
	kind   string
	upload UploadFunc
}

// Wrap adapts an UploadFunc into a Store.
func Wrap(kind string, fn UploadFunc) Store {
	return &uploadStore{kind: kind, upload: fn}
}

func (s *uploadStore) Kind() string { return s.kind }

func (s *uploadStore) Store(ctx context.Context, in media.Input) media.Result {
	log := logger.With(s.kind)
	start := time.Now()

	res, err := s.upload(ctx, in)
	if err != nil {
		log.Warnf("store %q (%s, %d bytes) failed after %v: %v",
			in.Filename, in.MIMEType, in.Size, time.Since(start), err)
		return media.Failed(err)
	}
	if res.URL == "" {
		log.Errorf("store %q returned an empty url", in.Filename)
		return media.Failed(media.ErrMalformedResponse)
	}

	log.Infof("stored %q (%s, %d bytes) in %v", in.Filename, in.MIMEType, in.Size, time.Since(start))
	return media.Succeeded(res)
}

// objectKey is <prefix>/<uuid><ext>; the caller's filename never reaches the key.
func objectKey(prefix string, in media.Input) string {
	name := uuid.NewString() + media.ExtensionFromMIME(in.MIMEType)
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return name
	}
	return path.Join(prefix, name)
}

// joinURL appends key to base with exactly one slash between them.
func joinURL(base, key string) string {
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(key, "/")
}

// uploadName is the filename sent in multipart forms.
func uploadName(in media.Input) string {
	if name := path.Base(strings.ReplaceAll(in.Filename, "\\", "/")); name != "" && name != "." && name != "/" {
		return name
	}
	return "upload" + media.ExtensionFromMIME(in.MIMEType)
}

type field struct {
	name, value string
}

// requireFields fails with media.ErrConfiguration naming every empty field.
func requireFields(kind string, fields ...field) error {
	var missing []string
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s requires %s", media.ErrConfiguration, kind, strings.Join(missing, ", "))
	}
	return nil
}
