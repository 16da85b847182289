// Package failure accumulates the failures raised by the stages of a single
// test execution into one reportable outcome.
package failure

import (
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
)

// Collector records at most one primary failure plus any number of
// suppressed failures from later stages. It is append-only and must not be
// shared between sibling invocations.
type Collector struct {
	primary    error
	suppressed []error
}

// NewCollector returns an empty Collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Execute runs fn and records its failure, if any. A panic is recovered and
// recorded as a *PanicError. fn runs even when a failure was already
// recorded.
func (c *Collector) Execute(fn func() error) {
	if err := Run(fn); err != nil {
		c.Add(err)
	}
}

// Add records err as the primary failure, or as suppressed when a primary
// failure already exists.
func (c *Collector) Add(err error) {
	if err == nil {
		return
	}
	if c.primary == nil {
		c.primary = err
		return
	}
	c.suppressed = append(c.suppressed, err)
}

// IsEmpty reports whether no failure has been recorded.
func (c *Collector) IsEmpty() bool {
	return c.primary == nil
}

// IsNotEmpty reports whether a failure has been recorded.
func (c *Collector) IsNotEmpty() bool {
	return c.primary != nil
}

// Failure returns the primary failure, or nil.
func (c *Collector) Failure() error {
	return c.primary
}

// AssertEmpty returns nil when nothing was recorded. Otherwise it returns the
// primary failure, wrapped in an *Error when suppressed failures exist.
func (c *Collector) AssertEmpty() error {
	if c.primary == nil {
		return nil
	}
	if len(c.suppressed) == 0 {
		return c.primary
	}
	return &Error{
		primary:    c.primary,
		suppressed: append([]error(nil), c.suppressed...),
	}
}

// Error is a primary failure with later failures attached as suppressed.
type Error struct {
	primary    error
	suppressed []error
}

func (e *Error) Error() string {
	if e == nil || e.primary == nil {
		return ""
	}
	if len(e.suppressed) == 0 {
		return e.primary.Error()
	}
	parts := make([]string, 0, len(e.suppressed))
	for _, s := range e.suppressed {
		parts = append(parts, s.Error())
	}
	return fmt.Sprintf("%s (suppressed: %s)", e.primary.Error(), strings.Join(parts, "; "))
}

// Unwrap exposes the primary failure. Suppressed failures are not part of
// the chain; use Suppressed.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.primary
}

// Primary returns the first recorded failure.
func (e *Error) Primary() error {
	if e == nil {
		return nil
	}
	return e.primary
}

// Suppressed returns the failures recorded after the primary one.
func (e *Error) Suppressed() []error {
	if e == nil {
		return nil
	}
	return append([]error(nil), e.suppressed...)
}

// Suppressed returns the suppressed failures attached to err, if it carries any.
func Suppressed(err error) []error {
	var collected *Error
	if errors.As(err, &collected) {
		return collected.Suppressed()
	}
	return nil
}

// PanicError is a recovered panic.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// Unwrap exposes the panic value when it was an error.
func (e *PanicError) Unwrap() error {
	if e == nil {
		return nil
	}
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// Run calls fn and converts a panic into a *PanicError.
func Run(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()
	return fn()
}
