package writerbackends

// Files land in the serve directory and are returned by this process's own
// /media/ file server.

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"hiredesk/logger"
	"hiredesk/media"
)

type DirectServeUploader struct {
	BaseDir string
	BaseURL string // public prefix for BaseDir, e.g. https://jobs.example.com/media
}

func NewDirectServeUploader(baseDir, baseURL string) (*DirectServeUploader, error) {
	if err := requireFields("local",
		field{"serve dir", baseDir},
		field{"public url", baseURL},
	); err != nil {
		return nil, err
	}
	return &DirectServeUploader{BaseDir: baseDir, BaseURL: baseURL}, nil
}

func (u *DirectServeUploader) Upload(ctx context.Context, in media.Input) (media.UploadResult, error) {
	if err := ctx.Err(); err != nil {
		return media.UploadResult{}, err
	}
	// Files are served from this origin; only bitmaps may land here.
	if !media.IsRaster(in.MIMEType) {
		return media.UploadResult{}, fmt.Errorf("%w: %s cannot be served directly, only raster images are accepted",
			media.ErrInvalidMediaType, in.MIMEType)
	}

	key := objectKey("", in)
	fullPath := filepath.Join(u.BaseDir, filepath.FromSlash(key))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return media.UploadResult{}, fmt.Errorf("failed to create directories: %w", err)
	}
	if err := os.WriteFile(fullPath, in.Data, 0o644); err != nil {
		return media.UploadResult{}, fmt.Errorf("failed to write file %s: %w", fullPath, err)
	}

	logger.Debugf("Saved '%s' to '%s'", in.Filename, fullPath)
	return media.UploadResult{URL: joinURL(u.BaseURL, key), ExternalID: key}, nil
}
