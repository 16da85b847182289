package execution

import (
	"github.com/alexisbeaulieu97/probe/internal/config"
	"github.com/alexisbeaulieu97/probe/internal/descriptor"
	"github.com/alexisbeaulieu97/probe/internal/extension"
	"github.com/alexisbeaulieu97/probe/internal/failure"
)

type descriptorContext struct {
	parent     extension.Context
	descriptor descriptor.Descriptor
	parameters *config.Parameters
	listener   Listener
	method     *extension.Method
}

func (c *descriptorContext) UniqueID() string          { return c.descriptor.UniqueID().String() }
func (c *descriptorContext) DisplayName() string       { return c.descriptor.DisplayName() }
func (c *descriptorContext) Parent() extension.Context { return c.parent }
func (c *descriptorContext) Method() *extension.Method { return c.method }

func (c *descriptorContext) ConfigurationParameter(key string) (string, bool) {
	return c.parameters.Get(key)
}

func (c *descriptorContext) PublishReportEntry(entry map[string]string) {
	if len(entry) == 0 || c.listener == nil {
		return
	}
	copied := make(map[string]string, len(entry))
	for k, v := range entry {
		copied[k] = v
	}
	c.listener.ReportingEntryPublished(c.descriptor, copied)
}

type containerContext struct {
	extension.ContainerMarker
	descriptorContext
}

func newContainerContext(parent *Context, d descriptor.Descriptor, method *extension.Method) *containerContext {
	return &containerContext{descriptorContext: descriptorContext{
		parent:     parent.ExtensionContext(),
		descriptor: d,
		parameters: parent.Parameters(),
		listener:   parent.Listener(),
		method:     method,
	}}
}

type testContext struct {
	extension.TestMarker
	descriptorContext
	instance  any
	collector *failure.Collector
}

func newTestContext(parent extension.Context, ctx *Context, d descriptor.Descriptor, method *extension.Method, instance any, collector *failure.Collector) *testContext {
	return &testContext{
		descriptorContext: descriptorContext{
			parent:     parent,
			descriptor: d,
			parameters: ctx.Parameters(),
			listener:   ctx.Listener(),
			method:     method,
		},
		instance:  instance,
		collector: collector,
	}
}

func (c *testContext) TestInstance() any { return c.instance }

func (c *testContext) TestFailure() error {
	if c.collector == nil {
		return nil
	}
	return c.collector.Failure()
}
