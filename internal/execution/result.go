package execution

import (
	"time"

	"github.com/alexisbeaulieu97/probe/internal/failure"
)

// Status is the reported outcome of a descriptor's execution.
type Status string

const (
	StatusSuccessful Status = "successful"
	StatusFailed     Status = "failed"
	StatusAborted    Status = "aborted"
)

// Result captures the outcome reported through ExecutionFinished.
type Result struct {
	Status   Status
	Err      error
	Duration time.Duration
}

// Successful returns a successful result.
func Successful() Result {
	return Result{Status: StatusSuccessful}
}

// Failed returns a failed result carrying err.
func Failed(err error) Result {
	return Result{Status: StatusFailed, Err: err}
}

// Aborted returns an aborted result carrying err.
func Aborted(err error) Result {
	return Result{Status: StatusAborted, Err: err}
}

// ResultOf classifies err: nil is successful, an abort is aborted, anything
// else failed.
func ResultOf(err error) Result {
	switch {
	case err == nil:
		return Successful()
	case failure.IsAborted(err):
		return Aborted(err)
	default:
		return Failed(err)
	}
}

// IsSuccess returns true when the execution completed without failure.
func (r Result) IsSuccess() bool {
	return r.Status == StatusSuccessful
}

// ExecuteSafely runs fn and converts its error or panic into a Result. It
// never panics.
func ExecuteSafely(fn func() error) Result {
	start := time.Now()
	result := ResultOf(failure.Run(fn))
	result.Duration = time.Since(start)
	return result
}
