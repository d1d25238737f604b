package writerbackends

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"hiredesk/media"
)

// Response field names, primary first. The application endpoint answers with
// link/fileId; asset-host names are accepted as fallbacks.
var (
	endpointURLFields = []string{"link", "secure_url", "url"}
	endpointIDFields  = []string{"fileId", "public_id", "id"}
)

// EndpointUploader posts the original file to the application's own upload
// route together with the uploading user's id.
type EndpointUploader struct {
	URL    string
	Client *http.Client
}

// NewEndpointUploader targets url; an empty url is a configuration error at call time.
func NewEndpointUploader(url string, client *http.Client) *EndpointUploader {
	return &EndpointUploader{URL: url, Client: client}
}

// Upload sends file+uid and returns the endpoint's JSON body as-is.
// A non-2xx answer fails with *media.RemoteRejectionError carrying the raw body.
func (u *EndpointUploader) Upload(ctx context.Context, in media.Input, uid string) (map[string]any, error) {
	if strings.TrimSpace(u.URL) == "" {
		return nil, fmt.Errorf("%w: upload endpoint url is empty", media.ErrConfiguration)
	}

	status, body, err := postForm(ctx, u.Client, u.URL, in, formField{name: "uid", value: uid})
	if err != nil {
		return nil, err
	}
	if !isSuccess(status) {
		return nil, &media.RemoteRejectionError{StatusCode: status, Body: string(body)}
	}
	return decodeObject(body)
}

// Reference pulls the URL and external id out of an endpoint response.
func (u *EndpointUploader) Reference(resp map[string]any) (media.UploadResult, error) {
	res := media.UploadResult{
		URL:        firstField(resp, endpointURLFields...),
		ExternalID: firstField(resp, endpointIDFields...),
	}
	if res.URL == "" {
		return media.UploadResult{}, fmt.Errorf("%w: expected one of %s",
			media.ErrMalformedResponse, strings.Join(endpointURLFields, ", "))
	}
	return res, nil
}

type uidKey struct{}

// WithUID attaches the uploading user's id to ctx for the endpoint store.
func WithUID(ctx context.Context, uid string) context.Context {
	return context.WithValue(ctx, uidKey{}, uid)
}

// UIDFromContext returns the id set by WithUID, or "".
func UIDFromContext(ctx context.Context) string {
	uid, _ := ctx.Value(uidKey{}).(string)
	return uid
}

func (u *EndpointUploader) Kind() string { return KindEndpoint }

// Store uploads on behalf of the user id carried by ctx.
func (u *EndpointUploader) Store(ctx context.Context, in media.Input) media.Result {
	return Wrap(KindEndpoint, func(ctx context.Context, in media.Input) (media.UploadResult, error) {
		resp, err := u.Upload(ctx, in, UIDFromContext(ctx))
		if err != nil {
			return media.UploadResult{}, err
		}
		return u.Reference(resp)
	}).Store(ctx, in)
}
