package engine

import "errors"

// ErrInvalidTransition marks a structural violation: a stage index outside
// the legal range or an operation invoked on the wrong stage kind. These are
// programming errors; they abort the operation and are never retried.
var ErrInvalidTransition = errors.New("invalid stage transition")

// DataError marks malformed or insufficient bidder input. It is fatal to the
// triggering call; the auction does not advance.
type DataError struct {
	Reason string
}

func (e *DataError) Error() string {
	return e.Reason
}

// IsDataError reports whether err is a bidder-input failure.
func IsDataError(err error) bool {
	var de *DataError
	return errors.As(err, &de)
}
