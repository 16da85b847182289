package condition

import (
	"fmt"
	"path"
	"strings"

	"github.com/alexisbeaulieu97/probe/internal/config"
	"github.com/alexisbeaulieu97/probe/internal/extension"
	"github.com/alexisbeaulieu97/probe/internal/failure"
	"github.com/alexisbeaulieu97/probe/internal/registry"
	probeerrors "github.com/alexisbeaulieu97/probe/pkg/errors"
)

// UnknownReason is reported when a disabling condition gives no reason.
const UnknownReason = "<unknown>"

// Result is the outcome of consulting every applicable condition.
type Result struct {
	Disabled bool
	Reason   string
}

// Enabled is the result of a gate with no disabling verdict.
var Enabled = Result{}

// Evaluator queries condition extensions. It keeps no state.
type Evaluator struct{}

// EvaluateForContainer consults container-level conditions in registration
// order. The first disabling verdict wins and stops evaluation.
func (Evaluator) EvaluateForContainer(reg *registry.Registry, params *config.Parameters, ctx extension.ContainerContext) (Result, error) {
	deactivated := deactivationFilter(params)
	for _, cond := range registry.Lookup[extension.ContainerExecutionCondition](reg) {
		if deactivated(cond) {
			continue
		}
		var verdict extension.ConditionResult
		err := failure.Run(func() error {
			var evalErr error
			verdict, evalErr = cond.EvaluateContainerExecutionCondition(ctx)
			return evalErr
		})
		if err != nil {
			return Enabled, probeerrors.NewConditionError(extension.NameOf(cond), err)
		}
		if verdict.IsDisabled() {
			return disabledResult(verdict), nil
		}
	}
	return Enabled, nil
}

// EvaluateForTest consults test-level conditions in registration order.
// The first disabling verdict wins and stops evaluation.
func (Evaluator) EvaluateForTest(reg *registry.Registry, params *config.Parameters, ctx extension.TestContext) (Result, error) {
	deactivated := deactivationFilter(params)
	for _, cond := range registry.Lookup[extension.TestExecutionCondition](reg) {
		if deactivated(cond) {
			continue
		}
		var verdict extension.ConditionResult
		err := failure.Run(func() error {
			var evalErr error
			verdict, evalErr = cond.EvaluateTestExecutionCondition(ctx)
			return evalErr
		})
		if err != nil {
			return Enabled, probeerrors.NewConditionError(extension.NameOf(cond), err)
		}
		if verdict.IsDisabled() {
			return disabledResult(verdict), nil
		}
	}
	return Enabled, nil
}

func disabledResult(verdict extension.ConditionResult) Result {
	reason, ok := verdict.Reason()
	if !ok {
		reason = UnknownReason
	}
	return Result{Disabled: true, Reason: reason}
}

// deactivationFilter matches condition names against the configured glob.
func deactivationFilter(params *config.Parameters) func(extension.Extension) bool {
	pattern, ok := params.Get(config.DeactivateConditionsKey)
	pattern = strings.TrimSpace(pattern)
	if !ok || pattern == "" {
		return func(extension.Extension) bool { return false }
	}
	return func(ext extension.Extension) bool {
		matched, err := path.Match(pattern, extension.NameOf(ext))
		return err == nil && matched
	}
}

func (r Result) String() string {
	if !r.Disabled {
		return "enabled"
	}
	return fmt.Sprintf("disabled: %s", r.Reason)
}
