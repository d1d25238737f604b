package writerbackends

import (
	"fmt"
	"net/http"

	"hiredesk/config"
	"hiredesk/encoder"
	"hiredesk/logger"
)

const (
	KindEmbedded  = "embedded"
	KindEndpoint  = "endpoint"
	KindAssetHost = "assethost"
	KindS3        = "s3"
	KindGCS       = "gcs"
	KindSFTP      = "sftp"
	KindLocal     = "local"
)

// Kinds lists every backend New understands.
var Kinds = []string{KindEmbedded, KindEndpoint, KindAssetHost, KindS3, KindGCS, KindSFTP, KindLocal}

// New builds the store selected by kind from cfg. client is used by the
// HTTP-based uploaders; nil means http.DefaultClient.
func New(cfg config.Config, kind string, client *http.Client) (Store, error) {
	switch kind {
	case KindEmbedded, "":
		return NewEmbeddedStore(encoder.Options{
			MaxWidth:  cfg.Image.MaxWidth,
			MaxHeight: cfg.Image.MaxHeight,
			Quality:   cfg.Image.Quality,
			Format:    cfg.Image.Format,
		}), nil
	case KindEndpoint:
		return NewEndpointUploader(cfg.EndpointURL(), client), nil
	case KindAssetHost:
		// Missing settings are reported per call, before any request.
		if err := cfg.AssetHost.Validate(); err != nil {
			logger.Warnf("asset host backend selected but not configured: %v", err)
		}
		return NewAssetHostUploader(cfg.AssetHost, client), nil
	case KindS3:
		u, err := NewS3Uploader(cfg.S3)
		if err != nil {
			return nil, fmt.Errorf("failed to set up S3: %w", err)
		}
		return Wrap(KindS3, u.Upload), nil
	case KindGCS:
		u, err := NewGCSUploader(cfg.GCS)
		if err != nil {
			return nil, fmt.Errorf("failed to set up GCS: %w", err)
		}
		return Wrap(KindGCS, u.Upload), nil
	case KindSFTP:
		u, err := NewSFTPUploader(cfg.SFTP)
		if err != nil {
			return nil, fmt.Errorf("failed to set up SFTP: %w", err)
		}
		return Wrap(KindSFTP, u.Upload), nil
	case KindLocal:
		u, err := NewDirectServeUploader(cfg.ServeDir, cfg.MediaURL())
		if err != nil {
			return nil, fmt.Errorf("failed to set up direct serve: %w", err)
		}
		return Wrap(KindLocal, u.Upload), nil
	default:
		return nil, fmt.Errorf("unknown backend type: %s", kind)
	}
}
