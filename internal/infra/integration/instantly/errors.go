package instantly

import (
	"errors"
	"fmt"
)

// ErrAuth means the platform refused our credentials (401/403).
// Never retried: the next attempt would fail the same way.
var ErrAuth = errors.New("campaign platform refused credentials")

// ErrUnavailable covers 5xx responses, timeouts and transport failures.
// Calls failing with it have already been retried with backoff.
var ErrUnavailable = errors.New("campaign platform unavailable")

// RejectedError is a non-auth 4xx: the platform understood the request and
// said no. Not retried; the caller records it per item and moves on.
type RejectedError struct {
	StatusCode int
	Reason     string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("campaign platform rejected request (status %d): %s", e.StatusCode, e.Reason)
}

// IsRejected unwraps err into a RejectedError, if it is one.
func IsRejected(err error) (*RejectedError, bool) {
	var rejected *RejectedError
	if errors.As(err, &rejected) {
		return rejected, true
	}
	return nil, false
}
