package extension

// ConditionResult is the verdict of an execution condition.
type ConditionResult struct {
	disabled bool
	reason   string
}

// Enabled returns a verdict that lets execution proceed.
func Enabled(reason string) ConditionResult {
	return ConditionResult{reason: reason}
}

// Disabled returns a verdict that skips execution.
func Disabled(reason string) ConditionResult {
	return ConditionResult{disabled: true, reason: reason}
}

// IsDisabled reports whether execution should be skipped.
func (r ConditionResult) IsDisabled() bool {
	return r.disabled
}

// Reason returns the verdict's reason and whether one was given.
func (r ConditionResult) Reason() (string, bool) {
	return r.reason, r.reason != ""
}
