package errors

import (
	"fmt"
)

// ParseError represents a YAML parsing failure with optional line metadata.
type ParseError struct {
	Path    string
	Line    int
	Message string
	Err     error
}

// NewParseError constructs a ParseError.
func NewParseError(path string, line int, err error) error {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ParseError{Path: path, Line: line, Message: message, Err: err}
}

func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}

	if e.Line > 0 {
		return fmt.Sprintf("parse error: %s:%d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error: %s: %s", e.Path, e.Message)
}

// Unwrap exposes the underlying error.
func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ValidationError captures suite or configuration validation issues.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError constructs a ValidationError.
func NewValidationError(field, message string, err error) error {
	return &ValidationError{Field: field, Message: message, Err: err}
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// Unwrap exposes the underlying error.
func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ExtensionError reports a failure raised by an extension at a given
// lifecycle stage, e.g. "beforeEach" or "afterTestExecution".
type ExtensionError struct {
	Extension string
	Stage     string
	Err       error
}

// NewExtensionError constructs an ExtensionError.
func NewExtensionError(extension, stage string, err error) error {
	return &ExtensionError{Extension: extension, Stage: stage, Err: err}
}

func (e *ExtensionError) Error() string {
	if e == nil {
		return ""
	}
	if e.Extension != "" {
		return fmt.Sprintf("extension error [%s] during %s: %v", e.Extension, e.Stage, e.Err)
	}
	return fmt.Sprintf("extension error during %s: %v", e.Stage, e.Err)
}

// Unwrap exposes the root error.
func (e *ExtensionError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ProviderContractError indicates that an invocation context provider broke
// its contract for a test, either by failing to provide or by yielding no
// contexts after reporting itself active.
type ProviderContractError struct {
	Provider string
	UniqueID string
	Message  string
	Err      error
}

// NewProviderContractError constructs a ProviderContractError.
func NewProviderContractError(provider, uniqueID, message string, err error) error {
	return &ProviderContractError{Provider: provider, UniqueID: uniqueID, Message: message, Err: err}
}

func (e *ProviderContractError) Error() string {
	if e == nil {
		return ""
	}
	msg := fmt.Sprintf("invocation context provider [%s] for %s: %s", e.Provider, e.UniqueID, e.Message)
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap exposes the underlying error.
func (e *ProviderContractError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ResolutionError indicates a method parameter could not be resolved.
type ResolutionError struct {
	Method    string
	Parameter string
	Message   string
	Err       error
}

// NewResolutionError constructs a ResolutionError.
func NewResolutionError(method, parameter, message string, err error) error {
	return &ResolutionError{Method: method, Parameter: parameter, Message: message, Err: err}
}

func (e *ResolutionError) Error() string {
	if e == nil {
		return ""
	}
	msg := fmt.Sprintf("parameter resolution error: %s(%s): %s", e.Method, e.Parameter, e.Message)
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap exposes the underlying error.
func (e *ResolutionError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ConditionError indicates an execution condition failed to produce a verdict.
type ConditionError struct {
	Condition string
	Err       error
}

// NewConditionError constructs a ConditionError.
func NewConditionError(condition string, err error) error {
	return &ConditionError{Condition: condition, Err: err}
}

func (e *ConditionError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("condition error [%s]: %v", e.Condition, e.Err)
}

// Unwrap exposes the underlying error.
func (e *ConditionError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
