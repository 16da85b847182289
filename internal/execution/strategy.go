package execution

import (
	"fmt"

	"github.com/alexisbeaulieu97/probe/internal/condition"
	"github.com/alexisbeaulieu97/probe/internal/extension"
	"github.com/alexisbeaulieu97/probe/internal/failure"
	"github.com/alexisbeaulieu97/probe/internal/registry"
	probeerrors "github.com/alexisbeaulieu97/probe/pkg/errors"
)

// Lifecycle stage names used in ExtensionError.
const (
	StageBeforeEach          = "beforeEach"
	StageAfterEach           = "afterEach"
	StageBeforeTestExecution = "beforeTestExecution"
	StageAfterTestExecution  = "afterTestExecution"
	StageBeforeAll           = "beforeAll"
	StageAfterAll            = "afterAll"
)

// Strategy decides whether a test node runs and runs it.
type Strategy interface {
	ShouldBeSkipped(ctx *Context) (condition.Result, error)
	Execute(ctx *Context) error
}

// SingleStrategy runs the test lifecycle exactly once. The context must carry
// a test extension context and a collector.
type SingleStrategy struct {
	Evaluator condition.Evaluator
}

// ShouldBeSkipped evaluates test-level conditions.
func (s SingleStrategy) ShouldBeSkipped(ctx *Context) (condition.Result, error) {
	testCtx, err := testContextOf(ctx)
	if err != nil {
		return condition.Enabled, err
	}
	return s.Evaluator.EvaluateForTest(ctx.Registry(), ctx.Parameters(), testCtx)
}

// Execute runs every lifecycle stage and returns the collected failure.
func (s SingleStrategy) Execute(ctx *Context) error {
	testCtx, err := testContextOf(ctx)
	if err != nil {
		return err
	}
	collector := ctx.Collector()
	if collector == nil {
		return fmt.Errorf("execution context for %s has no failure collector", testCtx.UniqueID())
	}
	reg := ctx.Registry()
	invoker := NewMethodInvoker(reg)

	invokeBeforeEachCallbacks(reg, testCtx, collector)
	if collector.IsEmpty() {
		invokeBeforeEachMethods(reg, testCtx, invoker, collector)
		if collector.IsEmpty() {
			invokeBeforeTestExecutionCallbacks(reg, testCtx, collector)
			if collector.IsEmpty() {
				invokeTestMethod(reg, testCtx, invoker, collector)
			}
			invokeAfterTestExecutionCallbacks(reg, testCtx, collector)
		}
		invokeAfterEachMethods(reg, testCtx, invoker, collector)
	}
	invokeAfterEachCallbacks(reg, testCtx, collector)

	return collector.AssertEmpty()
}

func testContextOf(ctx *Context) (extension.TestContext, error) {
	testCtx, ok := ctx.ExtensionContext().(extension.TestContext)
	if !ok {
		return nil, fmt.Errorf("execution context does not carry a test extension context")
	}
	return testCtx, nil
}

// runBefore calls fn for each extension in order and stops at the first
// recorded failure.
func runBefore[T any](exts []T, collector *failure.Collector, stage string, fn func(T) error) {
	for _, ext := range exts {
		collector.Execute(func() error {
			return wrapExtensionError(ext, stage, failure.Run(func() error { return fn(ext) }))
		})
		if collector.IsNotEmpty() {
			return
		}
	}
}

// runAfter calls fn for every extension regardless of failures.
func runAfter[T any](exts []T, collector *failure.Collector, stage string, fn func(T) error) {
	for _, ext := range exts {
		collector.Execute(func() error {
			return wrapExtensionError(ext, stage, failure.Run(func() error { return fn(ext) }))
		})
	}
}

func wrapExtensionError(ext any, stage string, err error) error {
	if err == nil {
		return nil
	}
	return probeerrors.NewExtensionError(extension.NameOf(ext), stage, err)
}

func invokeBeforeEachCallbacks(reg *registry.Registry, ctx extension.TestContext, collector *failure.Collector) {
	runBefore(registry.Lookup[extension.BeforeEachCallback](reg), collector, StageBeforeEach,
		func(cb extension.BeforeEachCallback) error { return cb.BeforeEach(ctx) })
}

func invokeAfterEachCallbacks(reg *registry.Registry, ctx extension.TestContext, collector *failure.Collector) {
	runAfter(registry.ReverseLookup[extension.AfterEachCallback](reg), collector, StageAfterEach,
		func(cb extension.AfterEachCallback) error { return cb.AfterEach(ctx) })
}

func invokeBeforeTestExecutionCallbacks(reg *registry.Registry, ctx extension.TestContext, collector *failure.Collector) {
	runBefore(registry.Lookup[extension.BeforeTestExecutionCallback](reg), collector, StageBeforeTestExecution,
		func(cb extension.BeforeTestExecutionCallback) error { return cb.BeforeTestExecution(ctx) })
}

func invokeAfterTestExecutionCallbacks(reg *registry.Registry, ctx extension.TestContext, collector *failure.Collector) {
	runAfter(registry.ReverseLookup[extension.AfterTestExecutionCallback](reg), collector, StageAfterTestExecution,
		func(cb extension.AfterTestExecutionCallback) error { return cb.AfterTestExecution(ctx) })
}

// Lifecycle methods report their own failures unwrapped, like the test method.
func invokeBeforeEachMethods(reg *registry.Registry, ctx extension.TestContext, invoker extension.MethodInvoker, collector *failure.Collector) {
	for _, adapter := range registry.Lookup[extension.BeforeEachMethodAdapter](reg) {
		collector.Execute(func() error { return adapter.InvokeBeforeEachMethod(ctx, invoker) })
		if collector.IsNotEmpty() {
			return
		}
	}
}

func invokeAfterEachMethods(reg *registry.Registry, ctx extension.TestContext, invoker extension.MethodInvoker, collector *failure.Collector) {
	for _, adapter := range registry.ReverseLookup[extension.AfterEachMethodAdapter](reg) {
		collector.Execute(func() error { return adapter.InvokeAfterEachMethod(ctx, invoker) })
	}
}

func invokeTestMethod(reg *registry.Registry, ctx extension.TestContext, invoker extension.MethodInvoker, collector *failure.Collector) {
	collector.Execute(func() error {
		err := failure.Run(func() error { return invoker.Invoke(ctx.Method(), ctx) })
		if err == nil {
			return nil
		}
		return handleTestExecutionException(reg, ctx, err)
	})
}

// handleTestExecutionException offers err to each handler in registration
// order. A handler returning nil absorbs the failure; otherwise its result
// is what the next handler receives.
func handleTestExecutionException(reg *registry.Registry, ctx extension.TestContext, err error) error {
	for _, handler := range registry.Lookup[extension.TestExecutionExceptionHandler](reg) {
		current := err
		err = failure.Run(func() error {
			return handler.HandleTestExecutionException(ctx, current)
		})
		if err == nil {
			return nil
		}
	}
	return err
}
