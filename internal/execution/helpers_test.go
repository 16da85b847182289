package execution

import (
	"fmt"
	"iter"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/probe/internal/config"
	"github.com/alexisbeaulieu97/probe/internal/descriptor"
	"github.com/alexisbeaulieu97/probe/internal/extension"
)

type recordingListener struct {
	events  []string
	results map[string]Result
	entries []map[string]string
}

func newRecordingListener() *recordingListener {
	return &recordingListener{results: make(map[string]Result)}
}

func (l *recordingListener) DynamicTestRegistered(d descriptor.Descriptor) {
	l.events = append(l.events, "registered "+d.UniqueID().Last().Value)
}

func (l *recordingListener) ExecutionStarted(d descriptor.Descriptor) {
	l.events = append(l.events, "started "+d.UniqueID().Last().Value)
}

func (l *recordingListener) ExecutionSkipped(d descriptor.Descriptor, reason string) {
	l.events = append(l.events, fmt.Sprintf("skipped %s: %s", d.UniqueID().Last().Value, reason))
}

func (l *recordingListener) ExecutionFinished(d descriptor.Descriptor, result Result) {
	l.events = append(l.events, fmt.Sprintf("finished %s: %s", d.UniqueID().Last().Value, result.Status))
	l.results[d.UniqueID().Last().Value] = result
}

func (l *recordingListener) ReportingEntryPublished(_ descriptor.Descriptor, entry map[string]string) {
	l.entries = append(l.entries, entry)
}

// tracer records lifecycle activity in call order.
type tracer struct {
	calls []string
}

func (t *tracer) record(format string, args ...any) {
	t.calls = append(t.calls, fmt.Sprintf(format, args...))
}

// stageRecorder implements every per-test callback and fails the stages
// listed in failures.
type stageRecorder struct {
	name     string
	trace    *tracer
	failures map[string]error
}

func (r *stageRecorder) Name() string { return r.name }

func (r *stageRecorder) call(stage string) error {
	r.trace.record("%s.%s", r.name, stage)
	return r.failures[stage]
}

func (r *stageRecorder) BeforeEach(extension.TestContext) error {
	return r.call(StageBeforeEach)
}

func (r *stageRecorder) AfterEach(extension.TestContext) error {
	return r.call(StageAfterEach)
}

func (r *stageRecorder) BeforeTestExecution(extension.TestContext) error {
	return r.call(StageBeforeTestExecution)
}

func (r *stageRecorder) AfterTestExecution(extension.TestContext) error {
	return r.call(StageAfterTestExecution)
}

type fixedProvider struct {
	name     string
	supports bool
	contexts []extension.InvocationContext
	err      error
	provided int
}

func (p *fixedProvider) Name() string { return p.name }

func (p *fixedProvider) Supports(extension.ContainerContext) bool { return p.supports }

func (p *fixedProvider) Provide(extension.ContainerContext) (iter.Seq[extension.InvocationContext], error) {
	p.provided++
	if p.err != nil {
		return nil, p.err
	}
	return extension.Invocations(p.contexts...), nil
}

func invocations(n int, scoped ...extension.Extension) []extension.InvocationContext {
	out := make([]extension.InvocationContext, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, extension.Invocation{Scoped: scoped})
	}
	return out
}

type fixture struct {
	listener *recordingListener
	params   *config.Parameters
	engine   *EngineNode
	class    *ClassNode
	method   *MethodNode
}

func newFixture(method *extension.Method, methodExts []extension.Extension, classOpts ...ClassOption) *fixture {
	engine := NewEngineNode("probe", "probe")
	class := NewClassNode(engine, "Sample", "", classOpts...)
	engine.AddClass(class)
	node := NewMethodNode(class, method, "", methodExts...)
	class.AddMethod(node)
	return &fixture{
		listener: newRecordingListener(),
		params:   config.Empty(),
		engine:   engine,
		class:    class,
		method:   node,
	}
}

func (f *fixture) prepare(t *testing.T) *Context {
	t.Helper()
	root := NewRootContext(f.params, f.listener, nil)
	engineCtx, err := f.engine.Prepare(root)
	require.NoError(t, err)
	classCtx, err := f.class.Prepare(engineCtx)
	require.NoError(t, err)
	methodCtx, err := f.method.Prepare(classCtx)
	require.NoError(t, err)
	return methodCtx
}

// run prepares the method node and executes its strategy.
func (f *fixture) run(t *testing.T) error {
	t.Helper()
	ctx := f.prepare(t)
	return f.method.Execute(ctx)
}

func tracedMethod(trace *tracer, err error, params ...string) *extension.Method {
	return extension.NewMethod("m", func(extension.TestContext, extension.Arguments) error {
		trace.record("test")
		return err
	}, params...)
}
