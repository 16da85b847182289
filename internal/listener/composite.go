package listener

import (
	"github.com/alexisbeaulieu97/probe/internal/descriptor"
	"github.com/alexisbeaulieu97/probe/internal/execution"
)

// Composite forwards every event to each listener in order.
type Composite []execution.Listener

// NewComposite drops nil listeners.
func NewComposite(listeners ...execution.Listener) Composite {
	out := make(Composite, 0, len(listeners))
	for _, l := range listeners {
		if l != nil {
			out = append(out, l)
		}
	}
	return out
}

func (c Composite) DynamicTestRegistered(d descriptor.Descriptor) {
	for _, l := range c {
		l.DynamicTestRegistered(d)
	}
}

func (c Composite) ExecutionStarted(d descriptor.Descriptor) {
	for _, l := range c {
		l.ExecutionStarted(d)
	}
}

func (c Composite) ExecutionSkipped(d descriptor.Descriptor, reason string) {
	for _, l := range c {
		l.ExecutionSkipped(d, reason)
	}
}

func (c Composite) ExecutionFinished(d descriptor.Descriptor, result execution.Result) {
	for _, l := range c {
		l.ExecutionFinished(d, result)
	}
}

func (c Composite) ReportingEntryPublished(d descriptor.Descriptor, entry map[string]string) {
	for _, l := range c {
		l.ReportingEntryPublished(d, entry)
	}
}
