// Package pipeline runs one media input through validation and the
// configured store, producing a single media.Result.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"hiredesk/logger"
	"hiredesk/media"
	"hiredesk/validator"
	writerbackends "hiredesk/writerBackends"
)

// Recorder receives every finished ingest. Recording errors are logged and
// never change the Result.
type Recorder interface {
	RecordSuccess(backend string, in media.Input, res media.UploadResult) error
	RecordFailure(backend string, in media.Input, err error) error
}

type Pipeline struct {
	store     writerbackends.Store
	validator validator.Validator
	recorder  Recorder
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithRecorder attaches an outcome ledger.
func WithRecorder(r Recorder) Option {
	return func(p *Pipeline) { p.recorder = r }
}

func New(store writerbackends.Store, v validator.Validator, opts ...Option) *Pipeline {
	p := &Pipeline{store: store, validator: v}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Backend names the store behind this pipeline.
func (p *Pipeline) Backend() string {
	if p.store == nil {
		return ""
	}
	return p.store.Kind()
}

// Ingest validates in and hands it to the store. Invalid inputs never reach
// the decoder or the network.
func (p *Pipeline) Ingest(ctx context.Context, in media.Input) (res media.Result) {
	log := logger.With("pipeline")

	defer func() {
		if r := recover(); r != nil {
			log.Errorf("store %s panicked on %q: %v", p.Backend(), in.Filename, r)
			res = media.Failed(fmt.Errorf("internal error while storing media: %v", r))
		}
		p.record(in, res)
	}()

	if err := p.validator.Validate(in); err != nil {
		log.Infof("rejected %q: %v", in.Filename, err)
		return media.Failed(err)
	}
	if p.store == nil {
		return media.Failed(fmt.Errorf("%w: no storage backend configured", media.ErrConfiguration))
	}
	if err := ctx.Err(); err != nil {
		return media.Failed(err)
	}

	res = p.store.Store(ctx, in)
	if res.Success {
		log.Debugf("ingested %q via %s", in.Filename, p.Backend())
	} else if errors.Is(res.Err(), media.ErrConfiguration) {
		log.Errorf("backend %s is misconfigured: %s", p.Backend(), res.Error)
	}
	return res
}

func (p *Pipeline) record(in media.Input, res media.Result) {
	if p.recorder == nil {
		return
	}
	var err error
	if res.Success {
		err = p.recorder.RecordSuccess(p.Backend(), in, *res.Data)
	} else {
		err = p.recorder.RecordFailure(p.Backend(), in, res.Err())
	}
	if err != nil {
		logger.Warnf("failed to record ingest outcome for %q: %v", in.Filename, err)
	}
}
