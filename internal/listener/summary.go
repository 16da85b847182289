package listener

import (
	"fmt"
	"sync"

	"github.com/alexisbeaulieu97/probe/internal/descriptor"
	"github.com/alexisbeaulieu97/probe/internal/execution"
)

// Failure records one failed test or container.
type Failure struct {
	UniqueID    string
	DisplayName string
	Err         error
}

// Summary counts test outcomes. A method that fanned out into invocations
// is counted through its invocations, not itself.
type Summary struct {
	execution.NopListener

	mu         sync.Mutex
	registered int
	succeeded  int
	failed     int
	aborted    int
	skipped    int
	containers int
	failures   []Failure
}

// NewSummary returns an empty Summary.
func NewSummary() *Summary {
	return &Summary{}
}

func (s *Summary) DynamicTestRegistered(descriptor.Descriptor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.registered++
}

func (s *Summary) ExecutionSkipped(d descriptor.Descriptor, _ string) {
	if !countsAsTest(d) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.skipped++
}

func (s *Summary) ExecutionFinished(d descriptor.Descriptor, result execution.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if result.Status == execution.StatusFailed {
		s.failures = append(s.failures, Failure{
			UniqueID:    d.UniqueID().String(),
			DisplayName: d.DisplayName(),
			Err:         result.Err,
		})
	}

	if !countsAsTest(d) {
		if result.Status == execution.StatusFailed {
			s.containers++
		}
		return
	}
	switch result.Status {
	case execution.StatusSuccessful:
		s.succeeded++
	case execution.StatusFailed:
		s.failed++
	case execution.StatusAborted:
		s.aborted++
	}
}

func countsAsTest(d descriptor.Descriptor) bool {
	switch d.Type() {
	case descriptor.TypeTest:
		return true
	case descriptor.TypeContainerAndTest:
		return len(d.Children()) == 0
	default:
		return false
	}
}

// Counts is a snapshot of a Summary.
type Counts struct {
	Total            int
	Succeeded        int
	Failed           int
	Aborted          int
	Skipped          int
	ContainersFailed int
	Dynamic          int
}

// Counts returns the current totals.
func (s *Summary) Counts() Counts {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Counts{
		Total:            s.succeeded + s.failed + s.aborted + s.skipped,
		Succeeded:        s.succeeded,
		Failed:           s.failed,
		Aborted:          s.aborted,
		Skipped:          s.skipped,
		ContainersFailed: s.containers,
		Dynamic:          s.registered,
	}
}

// Failures returns every failed descriptor in finish order.
func (s *Summary) Failures() []Failure {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Failure(nil), s.failures...)
}

// HasFailures reports whether any test or container failed.
func (s *Summary) HasFailures() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.failures) > 0
}

func (c Counts) String() string {
	return fmt.Sprintf("%d tests: %d succeeded, %d failed, %d aborted, %d skipped",
		c.Total, c.Succeeded, c.Failed, c.Aborted, c.Skipped)
}
