package extension

import "fmt"

// Parameter is one declared input of a Method.
type Parameter struct {
	Index int
	Name  string
}

func (p Parameter) String() string {
	return fmt.Sprintf("%s#%d", p.Name, p.Index)
}

// Method is an invocable test or lifecycle method with declared parameters.
type Method struct {
	Name       string
	Parameters []Parameter
	Body       func(ctx TestContext, args Arguments) error
}

// NewMethod builds a Method whose parameters are named in declaration order.
func NewMethod(name string, body func(ctx TestContext, args Arguments) error, params ...string) *Method {
	declared := make([]Parameter, 0, len(params))
	for i, p := range params {
		declared = append(declared, Parameter{Index: i, Name: p})
	}
	return &Method{Name: name, Parameters: declared, Body: body}
}

// Signature renders "name(a, b)".
func (m *Method) Signature() string {
	if m == nil {
		return ""
	}
	out := m.Name + "("
	for i, p := range m.Parameters {
		if i > 0 {
			out += ", "
		}
		out += p.Name
	}
	return out + ")"
}

// Arguments are the resolved values passed to a Method body.
type Arguments struct {
	params []Parameter
	values []any
}

// NewArguments pairs parameters with resolved values.
func NewArguments(params []Parameter, values []any) Arguments {
	return Arguments{params: params, values: values}
}

// Len returns the number of arguments.
func (a Arguments) Len() int {
	return len(a.values)
}

// At returns the argument at index i.
func (a Arguments) At(i int) any {
	if i < 0 || i >= len(a.values) {
		return nil
	}
	return a.values[i]
}

// Name returns the name of the parameter at index i.
func (a Arguments) Name(i int) string {
	if i < 0 || i >= len(a.params) {
		return ""
	}
	return a.params[i].Name
}

// Get returns the argument bound to the named parameter.
func (a Arguments) Get(name string) (any, bool) {
	for i, p := range a.params {
		if p.Name == name && i < len(a.values) {
			return a.values[i], true
		}
	}
	return nil, false
}

// String returns the named argument formatted with %v, or "".
func (a Arguments) String(name string) string {
	v, ok := a.Get(name)
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
