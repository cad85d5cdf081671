package store

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by Get when the store has no document under the
// requested id. It is terminal, never retried.
var ErrNotFound = errors.New("document not found")

// ProtocolError is a request-level failure signalled by the store itself
// (status >= 400). It is transient: the client logs and retries. Every other
// failure from the store boundary is unclassified and also retried, but
// logged distinctly so operators can tell the two apart.
type ProtocolError struct {
	Status int
	Reason string
}

func (e *ProtocolError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("status code is >= 400: %d %s", e.Status, e.Reason)
	}
	return fmt.Sprintf("status code is >= 400: %d", e.Status)
}

// IsProtocol reports whether err is a request-level store failure.
func IsProtocol(err error) bool {
	var pe *ProtocolError
	return errors.As(err, &pe)
}

// IsConflict reports whether err is the store rejecting a stale revision.
func IsConflict(err error) bool {
	var pe *ProtocolError
	return errors.As(err, &pe) && pe.Status == 409
}
