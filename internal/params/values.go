// Package params fans a test method out over declared parameter values.
package params

import (
	"fmt"
	"iter"
	"strings"

	"github.com/alexisbeaulieu97/probe/internal/extension"
)

// Values maps parameter names to one value per invocation.
type Values map[string][]string

// Provider is an invocation context provider yielding one invocation per
// value row. Every valued parameter must have the same number of values.
type Provider struct {
	values Values
}

// NewProvider returns a Provider over values.
func NewProvider(values Values) *Provider {
	return &Provider{values: values}
}

func (p *Provider) Name() string { return "values" }

// Supports reports whether the method declares a parameter with values.
func (p *Provider) Supports(ctx extension.ContainerContext) bool {
	return len(p.valuedParameters(ctx.Method())) > 0
}

// Provide yields one invocation per row. Ragged value lists are rejected
// before anything is yielded.
func (p *Provider) Provide(ctx extension.ContainerContext) (iter.Seq[extension.InvocationContext], error) {
	params := p.valuedParameters(ctx.Method())
	if len(params) == 0 {
		return nil, fmt.Errorf("method %s declares no parameter with values", ctx.Method().Signature())
	}

	rows := len(p.values[params[0].Name])
	for _, param := range params[1:] {
		if n := len(p.values[param.Name]); n != rows {
			return nil, fmt.Errorf("parameter %q has %d values but %q has %d", param.Name, n, params[0].Name, rows)
		}
	}

	return func(yield func(extension.InvocationContext) bool) {
		for row := 0; row < rows; row++ {
			bound := make(map[string]string, len(params))
			labels := make([]string, 0, len(params))
			for _, param := range params {
				value := p.values[param.Name][row]
				bound[param.Name] = value
				labels = append(labels, fmt.Sprintf("%s=%s", param.Name, value))
			}
			inv := extension.Invocation{
				Display: strings.Join(labels, ", "),
				Scoped:  []extension.Extension{&resolver{values: bound}},
			}
			if !yield(inv) {
				return
			}
		}
	}, nil
}

func (p *Provider) valuedParameters(method *extension.Method) []extension.Parameter {
	if method == nil {
		return nil
	}
	var out []extension.Parameter
	for _, param := range method.Parameters {
		if _, ok := p.values[param.Name]; ok {
			out = append(out, param)
		}
	}
	return out
}

// resolver supplies the values bound to one invocation.
type resolver struct {
	values map[string]string
}

func (r *resolver) Name() string { return "values-resolver" }

func (r *resolver) SupportsParameter(param extension.Parameter, _ extension.TestContext) bool {
	_, ok := r.values[param.Name]
	return ok
}

func (r *resolver) ResolveParameter(param extension.Parameter, _ extension.TestContext) (any, error) {
	value, ok := r.values[param.Name]
	if !ok {
		return nil, fmt.Errorf("no value bound to parameter %q", param.Name)
	}
	return value, nil
}
