package pipeline

import (
	"errors"

	"hiredesk/failures"
	"hiredesk/media"
	"hiredesk/success"
)

// Ledger records outcomes in the success and failures stores, keyed by the
// input fingerprint. Both stores must be initialized.
type Ledger struct{}

func (Ledger) RecordSuccess(backend string, in media.Input, res media.UploadResult) error {
	hash := in.Fingerprint()
	if err := success.StoreSuccess(hash, backend, in, res); err != nil {
		return err
	}
	// a later success supersedes an earlier failure of the same bytes
	return failures.DeleteFailure(hash)
}

func (Ledger) RecordFailure(backend string, in media.Input, err error) error {
	if err == nil {
		err = errors.New("unknown failure")
	}
	return failures.StoreFailure(in.Fingerprint(), backend, in, err)
}
