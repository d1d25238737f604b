package media

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidMediaType  = errors.New("invalid media type")
	ErrMediaTooLarge     = errors.New("media too large")
	ErrDecode            = errors.New("image decode failed")
	ErrConfiguration     = errors.New("missing upload configuration")
	ErrNetwork           = errors.New("network error")
	ErrRemoteRejection   = errors.New("remote rejected upload")
	ErrMalformedResponse = errors.New("upload response carried no url")
)

// RemoteRejectionError is returned when the endpoint was reached but answered
// with a non-2xx status. Body holds the response text exactly as received,
// or the compact JSON re-serialization when the body parsed as JSON.
type RemoteRejectionError struct {
	StatusCode int
	Body       string
}

func (e *RemoteRejectionError) Error() string {
	return fmt.Sprintf("%s (status %d): %s", ErrRemoteRejection, e.StatusCode, e.Body)
}

func (e *RemoteRejectionError) Is(target error) bool {
	return target == ErrRemoteRejection
}
