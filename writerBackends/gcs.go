package writerbackends

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"hiredesk/config"
	"hiredesk/logger"
	"hiredesk/media"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCSUploader stores the original file in a Google Cloud Storage bucket.
// A client is opened per upload so no connection outlives a call.
type GCSUploader struct {
	cfg           config.GCSConfig
	clientOptions []option.ClientOption
}

// NewGCSUploader checks the bucket and prepares client options. Extra options
// (endpoint overrides, test transports) are appended after the credentials.
func NewGCSUploader(cfg config.GCSConfig, extra ...option.ClientOption) (*GCSUploader, error) {
	if err := requireFields("gcs", field{"bucket", cfg.Bucket}); err != nil {
		return nil, err
	}

	var opts []option.ClientOption
	if cfg.CredentialsJSON != "" {
		opts = append(opts, option.WithCredentialsJSON(credentialsJSON(cfg.CredentialsJSON)))
	}
	opts = append(opts, extra...)
	return &GCSUploader{cfg: cfg, clientOptions: opts}, nil
}

// credentialsJSON accepts a base64-encoded service account key or raw JSON.
func credentialsJSON(value string) []byte {
	trimmed := strings.TrimSpace(value)
	if strings.HasPrefix(trimmed, "{") {
		return []byte(trimmed)
	}
	decoded, err := base64.StdEncoding.DecodeString(trimmed)
	if err != nil {
		return []byte(trimmed)
	}
	return decoded
}

func (u *GCSUploader) Upload(ctx context.Context, in media.Input) (media.UploadResult, error) {
	client, err := storage.NewClient(ctx, u.clientOptions...)
	if err != nil {
		return media.UploadResult{}, fmt.Errorf("%w: storage.NewClient: %v", media.ErrConfiguration, err)
	}
	defer client.Close()

	key := objectKey(u.cfg.KeyPrefix, in)
	wc := client.Bucket(u.cfg.Bucket).Object(key).NewWriter(ctx)
	wc.ContentType = in.MIMEType

	if _, err := wc.Write(in.Data); err != nil {
		wc.Close()
		return media.UploadResult{}, fmt.Errorf("%w: writing %s: %v", media.ErrNetwork, key, err)
	}
	// Close commits the object; errors from the upload surface here.
	if err := wc.Close(); err != nil {
		return media.UploadResult{}, fmt.Errorf("%w: Writer.Close: %v", media.ErrNetwork, err)
	}

	logger.Debugf("Uploaded object '%s' to bucket '%s'", key, u.cfg.Bucket)
	return media.UploadResult{URL: u.objectURL(key), ExternalID: key}, nil
}

func (u *GCSUploader) objectURL(key string) string {
	if u.cfg.PublicURL != "" {
		return joinURL(u.cfg.PublicURL, key)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", u.cfg.Bucket, key)
}
