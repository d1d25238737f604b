package writerbackends

import (
	"bytes"
	"context"
	"fmt"

	"hiredesk/config"
	"hiredesk/logger"
	"hiredesk/media"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Uploader stores the original file in an S3 (or S3-compatible) bucket.
type S3Uploader struct {
	cfg      config.S3Config
	uploader *manager.Uploader
}

// NewS3Uploader builds a client from static credentials. No request is made here.
func NewS3Uploader(cfg config.S3Config) (*S3Uploader, error) {
	if err := requireFields("s3",
		field{"bucket", cfg.Bucket},
		field{"region", cfg.Region},
		field{"access key", cfg.AccessKey},
		field{"secret key", cfg.SecretKey},
	); err != nil {
		return nil, err
	}

	opts := s3.Options{
		Region:      cfg.Region,
		Credentials: credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
		opts.UsePathStyle = cfg.ForcePathStyle
	}

	return &S3Uploader{
		cfg:      cfg,
		uploader: manager.NewUploader(s3.New(opts)),
	}, nil
}

// Upload puts the bytes under a fresh key and returns the object's public URL.
func (u *S3Uploader) Upload(ctx context.Context, in media.Input) (media.UploadResult, error) {
	key := objectKey(u.cfg.KeyPrefix, in)

	_, err := u.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.cfg.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(in.Data),
		ContentType: aws.String(in.MIMEType),
	})
	if err != nil {
		return media.UploadResult{}, fmt.Errorf("%w: failed to upload object %s to bucket %s: %v",
			media.ErrNetwork, key, u.cfg.Bucket, err)
	}

	logger.Debugf("Uploaded object '%s' to bucket '%s'", key, u.cfg.Bucket)
	return media.UploadResult{URL: u.objectURL(key), ExternalID: key}, nil
}

func (u *S3Uploader) objectURL(key string) string {
	if u.cfg.PublicURL != "" {
		return joinURL(u.cfg.PublicURL, key)
	}
	if u.cfg.Endpoint != "" && u.cfg.ForcePathStyle {
		return joinURL(joinURL(u.cfg.Endpoint, u.cfg.Bucket), key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.cfg.Bucket, u.cfg.Region, key)
}
