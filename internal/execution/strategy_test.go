package execution

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/probe/internal/extension"
	"github.com/alexisbeaulieu97/probe/internal/failure"
	probeerrors "github.com/alexisbeaulieu97/probe/pkg/errors"
)

func lifecycleMethod(trace *tracer, label string, err error) *extension.Method {
	return extension.NewMethod(label, func(extension.TestContext, extension.Arguments) error {
		trace.record("%s", label)
		return err
	})
}

func TestSingleInvocationRunsStagesInOrder(t *testing.T) {
	t.Parallel()

	trace := &tracer{}
	first := &stageRecorder{name: "first", trace: trace}
	second := &stageRecorder{name: "second", trace: trace}
	f := newFixture(tracedMethod(trace, nil), []extension.Extension{first, second},
		WithBeforeEachMethods(lifecycleMethod(trace, "setUp", nil)),
		WithAfterEachMethods(lifecycleMethod(trace, "tearDown", nil)),
	)

	ctx := f.prepare(t)
	require.IsType(t, SingleStrategy{}, ctx.Strategy())
	require.NoError(t, f.method.Execute(ctx))

	require.Equal(t, []string{
		"first.beforeEach",
		"second.beforeEach",
		"setUp",
		"first.beforeTestExecution",
		"second.beforeTestExecution",
		"test",
		"second.afterTestExecution",
		"first.afterTestExecution",
		"tearDown",
		"second.afterEach",
		"first.afterEach",
	}, trace.calls)
	require.Empty(t, f.listener.events)
}

func TestBeforeEachFailureStillRunsAfterEach(t *testing.T) {
	t.Parallel()

	trace := &tracer{}
	boom := errors.New("boom")
	failing := &stageRecorder{name: "failing", trace: trace, failures: map[string]error{StageBeforeEach: boom}}
	later := &stageRecorder{name: "later", trace: trace}
	f := newFixture(tracedMethod(trace, nil), []extension.Extension{failing, later},
		WithAfterEachMethods(lifecycleMethod(trace, "tearDown", nil)),
	)

	err := f.run(t)
	require.ErrorIs(t, err, boom)
	var extErr *probeerrors.ExtensionError
	require.ErrorAs(t, err, &extErr)
	require.Equal(t, "failing", extErr.Extension)
	require.Equal(t, StageBeforeEach, extErr.Stage)

	require.Equal(t, []string{
		"failing.beforeEach",
		"later.afterEach",
		"failing.afterEach",
	}, trace.calls)
	require.NotContains(t, trace.calls, "test")
	require.NotContains(t, trace.calls, "tearDown")
}

func TestBeforeTestExecutionFailureRunsDeeperTeardown(t *testing.T) {
	t.Parallel()

	trace := &tracer{}
	boom := errors.New("boom")
	cb := &stageRecorder{name: "cb", trace: trace, failures: map[string]error{StageBeforeTestExecution: boom}}
	f := newFixture(tracedMethod(trace, nil), []extension.Extension{cb},
		WithBeforeEachMethods(lifecycleMethod(trace, "setUp", nil)),
		WithAfterEachMethods(lifecycleMethod(trace, "tearDown", nil)),
	)

	require.ErrorIs(t, f.run(t), boom)
	require.Equal(t, []string{
		"cb.beforeEach",
		"setUp",
		"cb.beforeTestExecution",
		"cb.afterTestExecution",
		"tearDown",
		"cb.afterEach",
	}, trace.calls)
}

func TestBeforeEachMethodFailureSkipsTestButRunsAfterEachMethods(t *testing.T) {
	t.Parallel()

	trace := &tracer{}
	boom := errors.New("setup failed")
	cb := &stageRecorder{name: "cb", trace: trace}
	f := newFixture(tracedMethod(trace, nil), []extension.Extension{cb},
		WithBeforeEachMethods(lifecycleMethod(trace, "setUp", boom), lifecycleMethod(trace, "setUpMore", nil)),
		WithAfterEachMethods(lifecycleMethod(trace, "tearDown", nil)),
	)

	require.ErrorIs(t, f.run(t), boom)
	require.Equal(t, []string{"cb.beforeEach", "setUp", "tearDown", "cb.afterEach"}, trace.calls)
}

func TestAfterStageFailuresAreSuppressed(t *testing.T) {
	t.Parallel()

	trace := &tracer{}
	testErr := errors.New("test failed")
	cleanupErr := errors.New("cleanup failed")
	cb := &stageRecorder{name: "cb", trace: trace, failures: map[string]error{StageAfterEach: cleanupErr}}
	f := newFixture(tracedMethod(trace, testErr), []extension.Extension{cb})

	err := f.run(t)
	require.ErrorIs(t, err, testErr)
	suppressed := failure.Suppressed(err)
	require.Len(t, suppressed, 1)
	require.ErrorIs(t, suppressed[0], cleanupErr)
}

func TestExceptionHandlersChainInRegistrationOrder(t *testing.T) {
	t.Parallel()

	original := errors.New("original")
	replaced := errors.New("replaced")
	var seen []error
	first := extension.ExceptionHandlerFunc(func(_ extension.TestContext, err error) error {
		seen = append(seen, err)
		return replaced
	})
	second := extension.ExceptionHandlerFunc(func(_ extension.TestContext, err error) error {
		seen = append(seen, err)
		return err
	})

	trace := &tracer{}
	f := newFixture(tracedMethod(trace, original), []extension.Extension{first, second})

	err := f.run(t)
	require.Equal(t, []error{original, replaced}, seen)
	require.ErrorIs(t, err, replaced)
	require.NotErrorIs(t, err, original)
}

func TestExceptionHandlerCanAbsorbFailure(t *testing.T) {
	t.Parallel()

	calls := 0
	absorb := extension.ExceptionHandlerFunc(func(extension.TestContext, error) error {
		calls++
		return nil
	})
	never := extension.ExceptionHandlerFunc(func(_ extension.TestContext, err error) error {
		calls += 100
		return err
	})

	trace := &tracer{}
	f := newFixture(tracedMethod(trace, errors.New("flaky")), []extension.Extension{absorb, never})

	require.NoError(t, f.run(t))
	require.Equal(t, 1, calls)
}

func TestExceptionHandlerPanicIsPassedOn(t *testing.T) {
	t.Parallel()

	var received error
	panicking := extension.ExceptionHandlerFunc(func(extension.TestContext, error) error {
		panic("handler exploded")
	})
	last := extension.ExceptionHandlerFunc(func(_ extension.TestContext, err error) error {
		received = err
		return err
	})

	trace := &tracer{}
	f := newFixture(tracedMethod(trace, errors.New("original")), []extension.Extension{panicking, last})

	err := f.run(t)
	var panicErr *failure.PanicError
	require.ErrorAs(t, received, &panicErr)
	require.ErrorAs(t, err, &panicErr)
	require.Equal(t, "handler exploded", panicErr.Value)
}

func TestTestMethodPanicBecomesFailure(t *testing.T) {
	t.Parallel()

	method := extension.NewMethod("m", func(extension.TestContext, extension.Arguments) error {
		panic("nil map")
	})
	trace := &tracer{}
	after := &stageRecorder{name: "after", trace: trace}
	f := newFixture(method, []extension.Extension{after})

	err := f.run(t)
	var panicErr *failure.PanicError
	require.ErrorAs(t, err, &panicErr)
	require.Contains(t, trace.calls, "after.afterEach")
}

func TestTestFailureIsVisibleToAfterEachCallbacks(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	var observed error
	observer := extension.AfterEachFunc(func(ctx extension.TestContext) error {
		observed = ctx.TestFailure()
		return nil
	})
	trace := &tracer{}
	f := newFixture(tracedMethod(trace, boom), []extension.Extension{observer})

	require.ErrorIs(t, f.run(t), boom)
	require.ErrorIs(t, observed, boom)
}

func TestAbortedTestReportsAborted(t *testing.T) {
	t.Parallel()

	method := extension.NewMethod("m", func(extension.TestContext, extension.Arguments) error {
		return failure.Abort("database %s unavailable", "primary")
	})
	f := newFixture(method, nil)
	ctx := f.prepare(t)

	result := ExecuteSafely(func() error { return f.method.Execute(ctx) })
	require.Equal(t, StatusAborted, result.Status)
	require.EqualError(t, result.Err, "aborted: database primary unavailable")
}

func TestSingleInvocationSkippedByTestCondition(t *testing.T) {
	t.Parallel()

	disabled := extension.TestConditionFunc(func(extension.TestContext) (extension.ConditionResult, error) {
		return extension.Disabled("not on CI"), nil
	})
	f := newFixture(tracedMethod(&tracer{}, nil), []extension.Extension{disabled})
	ctx := f.prepare(t)

	verdict, err := f.method.ShouldBeSkipped(ctx)
	require.NoError(t, err)
	require.True(t, verdict.Disabled)
	require.Equal(t, "not on CI", verdict.Reason)
}

func TestTestInstanceIsFreshPerExecution(t *testing.T) {
	t.Parallel()

	created := 0
	var instances []any
	method := extension.NewMethod("m", func(ctx extension.TestContext, _ extension.Arguments) error {
		instances = append(instances, ctx.TestInstance())
		return nil
	})
	f := newFixture(method, []extension.Extension{&fixedProvider{name: "p", supports: true, contexts: invocations(2)}},
		WithInstanceFactory(func() (any, error) {
			created++
			return created, nil
		}),
	)

	require.NoError(t, f.run(t))
	require.Equal(t, []any{1, 2}, instances)
}

func TestInstanceFactoryFailureFailsPrepare(t *testing.T) {
	t.Parallel()

	boom := errors.New("constructor failed")
	f := newFixture(tracedMethod(&tracer{}, nil), nil, WithInstanceFactory(func() (any, error) {
		return nil, boom
	}))

	root := NewRootContext(f.params, f.listener, nil)
	engineCtx, err := f.engine.Prepare(root)
	require.NoError(t, err)
	classCtx, err := f.class.Prepare(engineCtx)
	require.NoError(t, err)
	_, err = f.method.Prepare(classCtx)
	require.ErrorIs(t, err, boom)
}
