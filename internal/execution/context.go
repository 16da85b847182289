package execution

import (
	"github.com/alexisbeaulieu97/probe/internal/config"
	"github.com/alexisbeaulieu97/probe/internal/extension"
	"github.com/alexisbeaulieu97/probe/internal/failure"
	"github.com/alexisbeaulieu97/probe/internal/logger"
	"github.com/alexisbeaulieu97/probe/internal/registry"
)

// InstanceFactory creates the test instance handed to a test execution.
type InstanceFactory func() (any, error)

// Context is the immutable state threaded through one node's execution.
// Derive new values with Extend; a built Context is never modified.
type Context struct {
	registry         *registry.Registry
	extensionContext extension.Context
	collector        *failure.Collector
	parameters       *config.Parameters
	listener         Listener
	strategy         Strategy
	instances        InstanceFactory
	testInstance     any
	logger           *logger.Logger
}

// NewRootContext returns the context the engine descriptor is prepared
// from. A nil listener is replaced by NopListener and nil parameters by an
// empty set.
func NewRootContext(params *config.Parameters, listener Listener, log *logger.Logger) *Context {
	if params == nil {
		params = config.Empty()
	}
	if listener == nil {
		listener = NopListener{}
	}
	return &Context{parameters: params, listener: listener, logger: log}
}

func (c *Context) Registry() *registry.Registry        { return c.registry }
func (c *Context) ExtensionContext() extension.Context { return c.extensionContext }
func (c *Context) Collector() *failure.Collector       { return c.collector }
func (c *Context) Parameters() *config.Parameters      { return c.parameters }
func (c *Context) Listener() Listener                  { return c.listener }
func (c *Context) Strategy() Strategy                  { return c.strategy }
func (c *Context) Instances() InstanceFactory          { return c.instances }
func (c *Context) TestInstance() any                   { return c.testInstance }
func (c *Context) Logger() *logger.Logger              { return c.logger }

// Extend returns a builder seeded with every field of c.
func (c *Context) Extend() *Builder {
	return &Builder{ctx: *c}
}

// Builder accumulates overrides for a derived Context.
type Builder struct {
	ctx Context
}

func (b *Builder) WithRegistry(r *registry.Registry) *Builder {
	b.ctx.registry = r
	return b
}

func (b *Builder) WithExtensionContext(ec extension.Context) *Builder {
	b.ctx.extensionContext = ec
	return b
}

func (b *Builder) WithCollector(c *failure.Collector) *Builder {
	b.ctx.collector = c
	return b
}

func (b *Builder) WithParameters(p *config.Parameters) *Builder {
	b.ctx.parameters = p
	return b
}

func (b *Builder) WithListener(l Listener) *Builder {
	b.ctx.listener = l
	return b
}

func (b *Builder) WithStrategy(s Strategy) *Builder {
	b.ctx.strategy = s
	return b
}

func (b *Builder) WithInstances(f InstanceFactory) *Builder {
	b.ctx.instances = f
	return b
}

func (b *Builder) WithTestInstance(instance any) *Builder {
	b.ctx.testInstance = instance
	return b
}

func (b *Builder) WithLogger(l *logger.Logger) *Builder {
	b.ctx.logger = l
	return b
}

// Build returns a new Context. The builder may be reused; later calls do not
// affect contexts already built.
func (b *Builder) Build() *Context {
	built := b.ctx
	return &built
}

// newTestInstance runs the instance factory, if any.
func (c *Context) newTestInstance() (any, error) {
	if c.instances == nil {
		return nil, nil
	}
	return c.instances()
}
