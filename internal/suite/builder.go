package suite

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/alexisbeaulieu97/probe/internal/execution"
	"github.com/alexisbeaulieu97/probe/internal/extension"
	"github.com/alexisbeaulieu97/probe/internal/failure"
	"github.com/alexisbeaulieu97/probe/internal/params"
)

// EngineID is the id of the engine segment of every built tree.
const EngineID = "probe"

// Build turns a validated suite into an executable tree. Extensions are
// registered on the engine node and apply to every test.
func Build(s *Suite, extensions ...extension.Extension) (*execution.EngineNode, error) {
	if s == nil {
		return nil, fmt.Errorf("suite is nil")
	}

	root := execution.NewEngineNode(EngineID, s.Name, extensions...)
	for _, c := range s.Classes {
		opts := []execution.ClassOption{}
		if c.Disabled != "" {
			opts = append(opts, execution.WithClassExtensions(disabledCondition{reason: c.Disabled}))
		}
		for _, hook := range c.BeforeEach {
			opts = append(opts, execution.WithBeforeEachMethods(scriptedMethod(hook.Name, nil, hook.Action)))
		}
		for _, hook := range c.AfterEach {
			opts = append(opts, execution.WithAfterEachMethods(scriptedMethod(hook.Name, nil, hook.Action)))
		}

		class := execution.NewClassNode(root, c.Name, c.DisplayName, opts...)
		root.AddClass(class)

		for _, m := range c.Methods {
			var exts []extension.Extension
			if m.Disabled != "" {
				exts = append(exts, disabledCondition{reason: m.Disabled})
			}
			if len(m.Values) > 0 {
				exts = append(exts, params.NewProvider(params.Values(m.Values)))
			}
			method := scriptedMethod(m.Name, m.Params, m.Action)
			class.AddMethod(execution.NewMethodNode(class, method, m.DisplayName, exts...))
		}
	}
	return root, nil
}

func scriptedMethod(name string, declared []string, action Action) *extension.Method {
	return extension.NewMethod(name, func(ctx extension.TestContext, args extension.Arguments) error {
		return perform(ctx, action, args)
	}, declared...)
}

func perform(ctx extension.TestContext, action Action, args extension.Arguments) error {
	for key, want := range action.When {
		if args.String(key) != want {
			return nil
		}
	}

	expand := placeholders(args)
	if len(action.Report) > 0 {
		entry := make(map[string]string, len(action.Report))
		for key, value := range action.Report {
			entry[key] = expand.Replace(value)
		}
		ctx.PublishReportEntry(entry)
	}

	message := expand.Replace(action.Message)
	switch action.Kind() {
	case ActionFail:
		if message == "" {
			message = "scripted failure"
		}
		return errors.New(message)
	case ActionAbort:
		return failure.Abort("%s", message)
	case ActionPanic:
		panic(message)
	default:
		return nil
	}
}

// placeholders replaces {name} with the argument bound to name.
func placeholders(args extension.Arguments) *strings.Replacer {
	var names []string
	for i := 0; i < args.Len(); i++ {
		names = append(names, args.Name(i))
	}
	sort.Strings(names)

	pairs := make([]string, 0, 2*len(names))
	for _, name := range names {
		pairs = append(pairs, "{"+name+"}", args.String(name))
	}
	return strings.NewReplacer(pairs...)
}

// disabledCondition disables a class or method unconditionally. It is named
// "disabled" so it can be switched off through condition deactivation.
type disabledCondition struct {
	reason string
}

func (disabledCondition) Name() string { return "disabled" }

func (d disabledCondition) EvaluateContainerExecutionCondition(extension.ContainerContext) (extension.ConditionResult, error) {
	return extension.Disabled(d.reason), nil
}

func (d disabledCondition) EvaluateTestExecutionCondition(extension.TestContext) (extension.ConditionResult, error) {
	return extension.Disabled(d.reason), nil
}
