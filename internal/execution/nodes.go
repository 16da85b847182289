package execution

import (
	"fmt"

	"github.com/alexisbeaulieu97/probe/internal/condition"
	"github.com/alexisbeaulieu97/probe/internal/descriptor"
	"github.com/alexisbeaulieu97/probe/internal/extension"
	"github.com/alexisbeaulieu97/probe/internal/failure"
	"github.com/alexisbeaulieu97/probe/internal/registry"
)

// Unique id segment types of the static tree.
const (
	EngineSegmentType = "engine"
	ClassSegmentType  = "class"
	MethodSegmentType = "method"
)

// Node is a descriptor the engine walker knows how to execute.
type Node interface {
	descriptor.Descriptor
	// Prepare derives the context the node executes with.
	Prepare(parent *Context) (*Context, error)
	ShouldBeSkipped(ctx *Context) (condition.Result, error)
	// Before runs before the node's children; a failure skips them.
	Before(ctx *Context) error
	Execute(ctx *Context) error
	// After always runs once Before was attempted.
	After(ctx *Context) error
}

// EngineNode is the root container. Its extensions are visible to every
// descendant.
type EngineNode struct {
	descriptor.Base
	extensions []extension.Extension
}

// NewEngineNode returns a root node with id "[engine:<id>]".
func NewEngineNode(id, displayName string, extensions ...extension.Extension) *EngineNode {
	return &EngineNode{
		Base:       descriptor.NewBase(descriptor.Root(EngineSegmentType, id), displayName, descriptor.TypeContainer),
		extensions: extensions,
	}
}

// AddClass appends a class container.
func (n *EngineNode) AddClass(class *ClassNode) {
	descriptor.AddChild(n, class)
}

func (n *EngineNode) Prepare(parent *Context) (*Context, error) {
	reg, err := registry.NewWithExtensions(parent.Logger(), append(DefaultResolvers(), n.extensions...)...)
	if err != nil {
		return nil, fmt.Errorf("register engine extension: %w", err)
	}
	return parent.Extend().
		WithRegistry(reg).
		WithExtensionContext(newContainerContext(parent, n, nil)).
		Build(), nil
}

func (n *EngineNode) ShouldBeSkipped(*Context) (condition.Result, error) { return condition.Enabled, nil }
func (n *EngineNode) Before(*Context) error                              { return nil }
func (n *EngineNode) Execute(*Context) error                             { return nil }
func (n *EngineNode) After(*Context) error                               { return nil }

// ClassNode is a container grouping test methods that share extensions,
// lifecycle methods and a test instance factory.
type ClassNode struct {
	descriptor.Base
	extensions []extension.Extension
	instances  InstanceFactory
	beforeEach []*extension.Method
	afterEach  []*extension.Method
	evaluator  condition.Evaluator
}

// ClassOption configures a ClassNode.
type ClassOption func(*ClassNode)

// WithClassExtensions registers extensions scoped to the class.
func WithClassExtensions(exts ...extension.Extension) ClassOption {
	return func(n *ClassNode) { n.extensions = append(n.extensions, exts...) }
}

// WithInstanceFactory sets how test instances are created. Each test
// execution receives a fresh instance.
func WithInstanceFactory(f InstanceFactory) ClassOption {
	return func(n *ClassNode) { n.instances = f }
}

// WithBeforeEachMethods adds lifecycle methods run before each test.
func WithBeforeEachMethods(methods ...*extension.Method) ClassOption {
	return func(n *ClassNode) { n.beforeEach = append(n.beforeEach, methods...) }
}

// WithAfterEachMethods adds lifecycle methods run after each test.
func WithAfterEachMethods(methods ...*extension.Method) ClassOption {
	return func(n *ClassNode) { n.afterEach = append(n.afterEach, methods...) }
}

// NewClassNode returns a class container under parent.
func NewClassNode(parent descriptor.Descriptor, name, displayName string, opts ...ClassOption) *ClassNode {
	if displayName == "" {
		displayName = name
	}
	n := &ClassNode{
		Base: descriptor.NewBase(parent.UniqueID().Append(ClassSegmentType, name), displayName, descriptor.TypeContainer),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// AddMethod appends a test method.
func (n *ClassNode) AddMethod(method *MethodNode) {
	descriptor.AddChild(n, method)
}

func (n *ClassNode) Prepare(parent *Context) (*Context, error) {
	scoped := append([]extension.Extension(nil), n.extensions...)
	for _, m := range n.beforeEach {
		scoped = append(scoped, &beforeEachMethodAdapter{method: m})
	}
	for _, m := range n.afterEach {
		scoped = append(scoped, &afterEachMethodAdapter{method: m})
	}
	builder := parent.Extend().
		WithRegistry(parent.Registry().Derive(scoped...)).
		WithExtensionContext(newContainerContext(parent, n, nil))
	if n.instances != nil {
		builder = builder.WithInstances(n.instances)
	}
	return builder.Build(), nil
}

func (n *ClassNode) ShouldBeSkipped(ctx *Context) (condition.Result, error) {
	containerCtx, err := containerContextOf(ctx)
	if err != nil {
		return condition.Enabled, err
	}
	return n.evaluator.EvaluateForContainer(ctx.Registry(), ctx.Parameters(), containerCtx)
}

// Before runs before-all callbacks in registration order, stopping at the
// first failure.
func (n *ClassNode) Before(ctx *Context) error {
	containerCtx, err := containerContextOf(ctx)
	if err != nil {
		return err
	}
	collector := failure.NewCollector()
	runBefore(registry.Lookup[extension.BeforeAllCallback](ctx.Registry()), collector, StageBeforeAll,
		func(cb extension.BeforeAllCallback) error { return cb.BeforeAll(containerCtx) })
	return collector.AssertEmpty()
}

func (n *ClassNode) Execute(*Context) error { return nil }

// After runs every after-all callback in reverse registration order.
func (n *ClassNode) After(ctx *Context) error {
	containerCtx, err := containerContextOf(ctx)
	if err != nil {
		return err
	}
	collector := failure.NewCollector()
	runAfter(registry.ReverseLookup[extension.AfterAllCallback](ctx.Registry()), collector, StageAfterAll,
		func(cb extension.AfterAllCallback) error { return cb.AfterAll(containerCtx) })
	return collector.AssertEmpty()
}

// MethodNode is a test method. With no active invocation context provider it
// runs once; otherwise it fans out into InvocationDescriptor children.
type MethodNode struct {
	descriptor.Base
	method     *extension.Method
	extensions []extension.Extension
	evaluator  condition.Evaluator
}

// NewMethodNode returns a test method under parent. Extensions are scoped to
// this method.
func NewMethodNode(parent descriptor.Descriptor, method *extension.Method, displayName string, extensions ...extension.Extension) *MethodNode {
	if displayName == "" {
		displayName = method.Signature()
	}
	return &MethodNode{
		Base:       descriptor.NewBase(parent.UniqueID().Append(MethodSegmentType, method.Signature()), displayName, descriptor.TypeContainerAndTest),
		method:     method,
		extensions: extensions,
	}
}

// Method returns the test method.
func (n *MethodNode) Method() *extension.Method {
	return n.method
}

// Prepare selects the strategy: the method fans out when at least one
// registered provider supports it.
func (n *MethodNode) Prepare(parent *Context) (*Context, error) {
	reg := parent.Registry().Derive(n.extensions...)
	containerCtx := newContainerContext(parent, n, n.method)

	providers, err := activeProviders(reg, containerCtx)
	if err != nil {
		return nil, err
	}

	log := parent.Logger().With("unique_id", n.UniqueID().String())
	builder := parent.Extend().WithRegistry(reg).WithLogger(log)
	if len(providers) > 0 {
		return builder.
			WithExtensionContext(containerCtx).
			WithStrategy(&MultiStrategy{Parent: n, Method: n.method, Providers: providers, Evaluator: n.evaluator}).
			Build(), nil
	}

	instance, err := parent.newTestInstance()
	if err != nil {
		return nil, fmt.Errorf("create test instance: %w", err)
	}
	collector := failure.NewCollector()
	return builder.
		WithExtensionContext(newTestContext(parent.ExtensionContext(), parent, n, n.method, instance, collector)).
		WithCollector(collector).
		WithTestInstance(instance).
		WithStrategy(SingleStrategy{Evaluator: n.evaluator}).
		Build(), nil
}

func activeProviders(reg *registry.Registry, ctx extension.ContainerContext) ([]extension.InvocationContextProvider, error) {
	var active []extension.InvocationContextProvider
	for _, provider := range registry.Lookup[extension.InvocationContextProvider](reg) {
		var supported bool
		err := failure.Run(func() error {
			supported = provider.Supports(ctx)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("invocation context provider '%s' failed to check support: %w", extension.NameOf(provider), err)
		}
		if supported {
			active = append(active, provider)
		}
	}
	return active, nil
}

func (n *MethodNode) ShouldBeSkipped(ctx *Context) (condition.Result, error) {
	return strategyOf(ctx).ShouldBeSkipped(ctx)
}

func (n *MethodNode) Before(*Context) error { return nil }

func (n *MethodNode) Execute(ctx *Context) error {
	return strategyOf(ctx).Execute(ctx)
}

func (n *MethodNode) After(*Context) error { return nil }

func strategyOf(ctx *Context) Strategy {
	if s := ctx.Strategy(); s != nil {
		return s
	}
	return SingleStrategy{}
}

type beforeEachMethodAdapter struct {
	method *extension.Method
}

func (a *beforeEachMethodAdapter) Name() string {
	return "before-each:" + a.method.Name
}

func (a *beforeEachMethodAdapter) InvokeBeforeEachMethod(ctx extension.TestContext, invoker extension.MethodInvoker) error {
	return invoker.Invoke(a.method, ctx)
}

type afterEachMethodAdapter struct {
	method *extension.Method
}

func (a *afterEachMethodAdapter) Name() string {
	return "after-each:" + a.method.Name
}

func (a *afterEachMethodAdapter) InvokeAfterEachMethod(ctx extension.TestContext, invoker extension.MethodInvoker) error {
	return invoker.Invoke(a.method, ctx)
}
