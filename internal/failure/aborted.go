package failure

import (
	"errors"
	"fmt"
)

// AbortedError signals that a test gave up without failing, for example
// because an assumption did not hold.
type AbortedError struct {
	Reason string
}

// Abort returns an *AbortedError with a formatted reason.
func Abort(format string, args ...any) error {
	return &AbortedError{Reason: fmt.Sprintf(format, args...)}
}

func (e *AbortedError) Error() string {
	if e == nil {
		return ""
	}
	if e.Reason == "" {
		return "aborted"
	}
	return "aborted: " + e.Reason
}

// IsAborted reports whether err, or the primary failure it wraps, is an abort.
func IsAborted(err error) bool {
	var aborted *AbortedError
	return errors.As(err, &aborted)
}
