package writerbackends

import (
	"context"

	"hiredesk/datauri"
	"hiredesk/encoder"
	"hiredesk/media"
)

// EmbeddedStore shrinks the image and returns it as a data URI meant to be
// written straight into a document field. Nothing leaves the process.
type EmbeddedStore struct {
	Options encoder.Options
}

func NewEmbeddedStore(opts encoder.Options) *EmbeddedStore {
	return &EmbeddedStore{Options: opts}
}

func (s *EmbeddedStore) Kind() string { return KindEmbedded }

// Embed normalizes the input and wraps the compressed bytes as a data URI.
func (s *EmbeddedStore) Embed(ctx context.Context, in media.Input) (string, encoder.Normalized, error) {
	out, err := encoder.Normalize(ctx, in.Data, s.Options)
	if err != nil {
		return "", encoder.Normalized{}, err
	}
	return datauri.Encode(out.Data, out.MIMEType), out, nil
}

// Store never fails loudly: decode and encode errors come back inside the Result.
func (s *EmbeddedStore) Store(ctx context.Context, in media.Input) media.Result {
	return Wrap(KindEmbedded, func(ctx context.Context, in media.Input) (media.UploadResult, error) {
		uri, _, err := s.Embed(ctx, in)
		if err != nil {
			return media.UploadResult{}, err
		}
		return media.UploadResult{URL: uri}, nil
	}).Store(ctx, in)
}
