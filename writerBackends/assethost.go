package writerbackends

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"hiredesk/config"
	"hiredesk/media"
)

// AssetHostUploader sends files to a hosted asset service authorized by an
// unsigned upload preset instead of per-request credentials.
type AssetHostUploader struct {
	Config config.AssetHostConfig
	Client *http.Client
}

func NewAssetHostUploader(cfg config.AssetHostConfig, client *http.Client) *AssetHostUploader {
	return &AssetHostUploader{Config: cfg, Client: client}
}

// Upload posts file+upload_preset. Missing cloud name or preset fails with
// media.ErrConfiguration before any request is made. The URL comes from
// secure_url, falling back to url.
func (u *AssetHostUploader) Upload(ctx context.Context, in media.Input) (media.UploadResult, error) {
	if err := u.Config.Validate(); err != nil {
		return media.UploadResult{}, err
	}

	status, body, err := postForm(ctx, u.Client, u.Config.UploadURL(), in,
		formField{name: "upload_preset", value: u.Config.UploadPreset})
	if err != nil {
		return media.UploadResult{}, err
	}
	if !isSuccess(status) {
		return media.UploadResult{}, &media.RemoteRejectionError{StatusCode: status, Body: errorDetail(body)}
	}

	resp, err := decodeObject(body)
	if err != nil {
		return media.UploadResult{}, err
	}
	res := media.UploadResult{
		URL:        firstField(resp, "secure_url", "url"),
		ExternalID: firstField(resp, "public_id", "asset_id"),
	}
	if res.URL == "" {
		return media.UploadResult{}, fmt.Errorf("%w: expected secure_url or url", media.ErrMalformedResponse)
	}
	return res, nil
}

// errorDetail re-serializes a JSON error body compactly; anything else is
// returned verbatim.
func errorDetail(body []byte) string {
	if json.Valid(body) {
		var buf bytes.Buffer
		if err := json.Compact(&buf, body); err == nil {
			return buf.String()
		}
	}
	return string(body)
}

func (u *AssetHostUploader) Kind() string { return KindAssetHost }

func (u *AssetHostUploader) Store(ctx context.Context, in media.Input) media.Result {
	return Wrap(KindAssetHost, u.Upload).Store(ctx, in)
}
