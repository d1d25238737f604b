package validator

import (
	"fmt"

	"hiredesk/media"
)

// MaxBytes is the largest accepted upload, 5 MiB.
const MaxBytes int64 = 5 * 1024 * 1024

// Validator checks declared type and size before any decode or network work.
type Validator struct {
	MaxBytes int64 // may only lower the limit; zero or larger means MaxBytes
}

// Validate runs the default 5 MiB validator.
func Validate(in media.Input) error {
	return Validator{}.Validate(in)
}

// Validate fails with media.ErrInvalidMediaType for non-image declared types
// and media.ErrMediaTooLarge when the input is over the limit.
// The type check runs first.
func (v Validator) Validate(in media.Input) error {
	if !media.IsImage(in.MIMEType) {
		declared := in.MIMEType
		if declared == "" {
			declared = "none"
		}
		return fmt.Errorf("%w: only image files are accepted, got %s", media.ErrInvalidMediaType, declared)
	}

	limit := v.MaxBytes
	if limit <= 0 || limit > MaxBytes {
		limit = MaxBytes
	}

	size := in.Size
	if size == 0 && len(in.Data) > 0 {
		size = int64(len(in.Data))
	}
	if size > limit {
		return fmt.Errorf("%w: file is %d bytes, limit is %d bytes (%s)",
			media.ErrMediaTooLarge, size, limit, humanSize(limit))
	}
	return nil
}

func humanSize(n int64) string {
	const mib = 1024 * 1024
	if n%mib == 0 {
		return fmt.Sprintf("%d MiB", n/mib)
	}
	return fmt.Sprintf("%.1f MiB", float64(n)/mib)
}
