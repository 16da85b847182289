package execution

import (
	"fmt"
	"strings"

	"github.com/alexisbeaulieu97/probe/internal/extension"
	"github.com/alexisbeaulieu97/probe/internal/failure"
	"github.com/alexisbeaulieu97/probe/internal/registry"
	probeerrors "github.com/alexisbeaulieu97/probe/pkg/errors"
)

// methodInvoker resolves method parameters against a registry and calls the
// method body.
type methodInvoker struct {
	registry *registry.Registry
}

// NewMethodInvoker returns an invoker resolving parameters from reg.
func NewMethodInvoker(reg *registry.Registry) extension.MethodInvoker {
	return methodInvoker{registry: reg}
}

func (m methodInvoker) Invoke(method *extension.Method, ctx extension.TestContext) error {
	if method == nil || method.Body == nil {
		return nil
	}
	args, err := m.resolveArguments(method, ctx)
	if err != nil {
		return err
	}
	return method.Body(ctx, args)
}

func (m methodInvoker) resolveArguments(method *extension.Method, ctx extension.TestContext) (extension.Arguments, error) {
	values := make([]any, len(method.Parameters))
	resolvers := registry.Lookup[extension.ParameterResolver](m.registry)
	for i, param := range method.Parameters {
		value, err := resolveParameter(method, param, resolvers, ctx)
		if err != nil {
			return extension.Arguments{}, err
		}
		values[i] = value
	}
	return extension.NewArguments(method.Parameters, values), nil
}

// resolveParameter requires exactly one supporting resolver.
func resolveParameter(method *extension.Method, param extension.Parameter, resolvers []extension.ParameterResolver, ctx extension.TestContext) (any, error) {
	var matching []extension.ParameterResolver
	for _, resolver := range resolvers {
		var supported bool
		err := failure.Run(func() error {
			supported = resolver.SupportsParameter(param, ctx)
			return nil
		})
		if err != nil {
			return nil, probeerrors.NewResolutionError(method.Name, param.Name,
				fmt.Sprintf("ParameterResolver [%s] failed to check support", extension.NameOf(resolver)), err)
		}
		if supported {
			matching = append(matching, resolver)
		}
	}

	switch len(matching) {
	case 0:
		return nil, probeerrors.NewResolutionError(method.Name, param.Name, "no ParameterResolver registered", nil)
	case 1:
	default:
		names := make([]string, 0, len(matching))
		for _, r := range matching {
			names = append(names, extension.NameOf(r))
		}
		return nil, probeerrors.NewResolutionError(method.Name, param.Name,
			fmt.Sprintf("competing ParameterResolvers [%s]", strings.Join(names, ", ")), nil)
	}

	resolver := matching[0]
	var value any
	err := failure.Run(func() error {
		var resolveErr error
		value, resolveErr = resolver.ResolveParameter(param, ctx)
		return resolveErr
	})
	if err != nil {
		return nil, probeerrors.NewResolutionError(method.Name, param.Name,
			fmt.Sprintf("ParameterResolver [%s] failed", extension.NameOf(resolver)), err)
	}
	return value, nil
}
