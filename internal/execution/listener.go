package execution

import "github.com/alexisbeaulieu97/probe/internal/descriptor"

// Listener receives execution events. For each descriptor the engine calls,
// in order: DynamicTestRegistered (dynamic descriptors only), then either
// ExecutionSkipped or ExecutionStarted followed by ExecutionFinished.
type Listener interface {
	DynamicTestRegistered(d descriptor.Descriptor)
	ExecutionStarted(d descriptor.Descriptor)
	ExecutionSkipped(d descriptor.Descriptor, reason string)
	ExecutionFinished(d descriptor.Descriptor, result Result)
	ReportingEntryPublished(d descriptor.Descriptor, entry map[string]string)
}

// NopListener ignores every event. Embed it to implement a subset.
type NopListener struct{}

func (NopListener) DynamicTestRegistered(descriptor.Descriptor)                      {}
func (NopListener) ExecutionStarted(descriptor.Descriptor)                           {}
func (NopListener) ExecutionSkipped(descriptor.Descriptor, string)                   {}
func (NopListener) ExecutionFinished(descriptor.Descriptor, Result)                  {}
func (NopListener) ReportingEntryPublished(descriptor.Descriptor, map[string]string) {}
