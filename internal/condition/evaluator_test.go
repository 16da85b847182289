package condition

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/probe/internal/config"
	"github.com/alexisbeaulieu97/probe/internal/extension"
	"github.com/alexisbeaulieu97/probe/internal/registry"
	probeerrors "github.com/alexisbeaulieu97/probe/pkg/errors"
)

type stubContext struct {
	extension.ContainerMarker
	extension.TestMarker
}

func (stubContext) UniqueID() string                             { return "[engine:probe]" }
func (stubContext) DisplayName() string                          { return "stub" }
func (stubContext) Parent() extension.Context                    { return nil }
func (stubContext) Method() *extension.Method                    { return nil }
func (stubContext) ConfigurationParameter(string) (string, bool) { return "", false }
func (stubContext) PublishReportEntry(map[string]string)         {}
func (stubContext) TestInstance() any                            { return nil }
func (stubContext) TestFailure() error                           { return nil }

type recordingCondition struct {
	name    string
	verdict extension.ConditionResult
	err     error
	calls   *[]string
}

func (c recordingCondition) Name() string { return c.name }

func (c recordingCondition) EvaluateTestExecutionCondition(extension.TestContext) (extension.ConditionResult, error) {
	*c.calls = append(*c.calls, c.name)
	return c.verdict, c.err
}

func (c recordingCondition) EvaluateContainerExecutionCondition(extension.ContainerContext) (extension.ConditionResult, error) {
	*c.calls = append(*c.calls, c.name)
	return c.verdict, c.err
}

func newRegistry(t *testing.T, exts ...extension.Extension) *registry.Registry {
	t.Helper()
	r, err := registry.NewWithExtensions(nil, exts...)
	require.NoError(t, err)
	return r
}

func TestFirstDisablingConditionWins(t *testing.T) {
	t.Parallel()

	var calls []string
	reg := newRegistry(t,
		recordingCondition{name: "a", verdict: extension.Enabled("fine"), calls: &calls},
		recordingCondition{name: "b", verdict: extension.Disabled("flaky on linux"), calls: &calls},
		recordingCondition{name: "c", verdict: extension.Disabled("never consulted"), calls: &calls},
	)

	result, err := Evaluator{}.EvaluateForTest(reg, config.Empty(), stubContext{})
	require.NoError(t, err)
	require.True(t, result.Disabled)
	require.Equal(t, "flaky on linux", result.Reason)
	require.Equal(t, []string{"a", "b"}, calls)
}

func TestDisabledWithoutReasonReportsUnknown(t *testing.T) {
	t.Parallel()

	var calls []string
	reg := newRegistry(t, recordingCondition{name: "a", verdict: extension.Disabled(""), calls: &calls})

	result, err := Evaluator{}.EvaluateForContainer(reg, config.Empty(), stubContext{})
	require.NoError(t, err)
	require.Equal(t, Result{Disabled: true, Reason: UnknownReason}, result)
	require.Equal(t, "disabled: <unknown>", result.String())
}

func TestNoConditionsMeansEnabled(t *testing.T) {
	t.Parallel()

	result, err := Evaluator{}.EvaluateForTest(newRegistry(t), config.Empty(), stubContext{})
	require.NoError(t, err)
	require.False(t, result.Disabled)
	require.Equal(t, "enabled", result.String())
}

func TestDeactivatedConditionsAreSkipped(t *testing.T) {
	t.Parallel()

	var calls []string
	reg := newRegistry(t,
		recordingCondition{name: "os-linux", verdict: extension.Disabled("linux"), calls: &calls},
		recordingCondition{name: "env", verdict: extension.Enabled(""), calls: &calls},
	)
	params := config.FromMap(map[string]string{config.DeactivateConditionsKey: "os-*"})

	result, err := Evaluator{}.EvaluateForTest(reg, params, stubContext{})
	require.NoError(t, err)
	require.False(t, result.Disabled)
	require.Equal(t, []string{"env"}, calls)
}

func TestConditionFailureIsReported(t *testing.T) {
	t.Parallel()

	var calls []string
	boom := errors.New("boom")
	reg := newRegistry(t, recordingCondition{name: "broken", err: boom, calls: &calls})

	_, err := Evaluator{}.EvaluateForTest(reg, config.Empty(), stubContext{})
	var condErr *probeerrors.ConditionError
	require.ErrorAs(t, err, &condErr)
	require.Equal(t, "broken", condErr.Condition)
	require.ErrorIs(t, err, boom)
}

func TestConditionPanicIsReported(t *testing.T) {
	t.Parallel()

	reg := newRegistry(t, extension.TestConditionFunc(func(extension.TestContext) (extension.ConditionResult, error) {
		panic("unreachable host")
	}))

	_, err := Evaluator{}.EvaluateForTest(reg, config.Empty(), stubContext{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "unreachable host")
}
