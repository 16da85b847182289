package extension

import "iter"

// ContainerExecutionCondition decides whether a container should run.
type ContainerExecutionCondition interface {
	EvaluateContainerExecutionCondition(ctx ContainerContext) (ConditionResult, error)
}

// TestExecutionCondition decides whether a single test invocation should run.
type TestExecutionCondition interface {
	EvaluateTestExecutionCondition(ctx TestContext) (ConditionResult, error)
}

// BeforeAllCallback runs once before the tests of a container.
type BeforeAllCallback interface {
	BeforeAll(ctx ContainerContext) error
}

// AfterAllCallback runs once after the tests of a container.
type AfterAllCallback interface {
	AfterAll(ctx ContainerContext) error
}

// BeforeEachCallback runs before each test, ahead of before-each methods.
type BeforeEachCallback interface {
	BeforeEach(ctx TestContext) error
}

// AfterEachCallback runs after each test, after after-each methods.
type AfterEachCallback interface {
	AfterEach(ctx TestContext) error
}

// BeforeTestExecutionCallback runs immediately before the test method.
type BeforeTestExecutionCallback interface {
	BeforeTestExecution(ctx TestContext) error
}

// AfterTestExecutionCallback runs immediately after the test method.
type AfterTestExecutionCallback interface {
	AfterTestExecution(ctx TestContext) error
}

// MethodInvoker calls a Method with its parameters resolved from the
// current registry.
type MethodInvoker interface {
	Invoke(method *Method, ctx TestContext) error
}

// BeforeEachMethodAdapter invokes a container's before-each lifecycle method.
type BeforeEachMethodAdapter interface {
	InvokeBeforeEachMethod(ctx TestContext, invoker MethodInvoker) error
}

// AfterEachMethodAdapter invokes a container's after-each lifecycle method.
type AfterEachMethodAdapter interface {
	InvokeAfterEachMethod(ctx TestContext, invoker MethodInvoker) error
}

// TestExecutionExceptionHandler is offered a failure raised by the test
// method. Returning nil swallows it; returning an error (the same one or
// another) hands that error to the next handler.
type TestExecutionExceptionHandler interface {
	HandleTestExecutionException(ctx TestContext, err error) error
}

// ParameterResolver supplies values for method parameters.
type ParameterResolver interface {
	SupportsParameter(param Parameter, ctx TestContext) bool
	ResolveParameter(param Parameter, ctx TestContext) (any, error)
}

// InvocationContextProvider fans a test method out into several invocations.
//
// Supports is consulted once per test method; a provider that returns true
// is active. Provide is then called once and must yield at least one
// invocation context. The sequence is pulled lazily and only once.
type InvocationContextProvider interface {
	Supports(ctx ContainerContext) bool
	Provide(ctx ContainerContext) (iter.Seq[InvocationContext], error)
}

// BeforeEachFunc adapts a function to BeforeEachCallback.
type BeforeEachFunc func(ctx TestContext) error

// BeforeEach calls f.
func (f BeforeEachFunc) BeforeEach(ctx TestContext) error { return f(ctx) }

// AfterEachFunc adapts a function to AfterEachCallback.
type AfterEachFunc func(ctx TestContext) error

// AfterEach calls f.
func (f AfterEachFunc) AfterEach(ctx TestContext) error { return f(ctx) }

// ExceptionHandlerFunc adapts a function to TestExecutionExceptionHandler.
type ExceptionHandlerFunc func(ctx TestContext, err error) error

// HandleTestExecutionException calls f.
func (f ExceptionHandlerFunc) HandleTestExecutionException(ctx TestContext, err error) error {
	return f(ctx, err)
}

// TestConditionFunc adapts a function to TestExecutionCondition.
type TestConditionFunc func(ctx TestContext) (ConditionResult, error)

// EvaluateTestExecutionCondition calls f.
func (f TestConditionFunc) EvaluateTestExecutionCondition(ctx TestContext) (ConditionResult, error) {
	return f(ctx)
}
