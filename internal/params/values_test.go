package params

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/probe/internal/extension"
)

type methodContext struct {
	extension.ContainerMarker
	method *extension.Method
}

func (c methodContext) UniqueID() string                             { return "[engine:probe]/[method:m]" }
func (c methodContext) DisplayName() string                          { return "m" }
func (c methodContext) Parent() extension.Context                    { return nil }
func (c methodContext) Method() *extension.Method                    { return c.method }
func (c methodContext) ConfigurationParameter(string) (string, bool) { return "", false }
func (c methodContext) PublishReportEntry(map[string]string)         {}

func method(params ...string) *extension.Method {
	return extension.NewMethod("m", nil, params...)
}

func TestSupportsRequiresValuedParameter(t *testing.T) {
	t.Parallel()

	p := NewProvider(Values{"a": {"1"}})
	require.True(t, p.Supports(methodContext{method: method("a", "testInfo")}))
	require.False(t, p.Supports(methodContext{method: method("b")}))
	require.False(t, p.Supports(methodContext{}))
}

func TestProvideYieldsRowsInDeclarationOrder(t *testing.T) {
	t.Parallel()

	p := NewProvider(Values{"b": {"3", "4"}, "a": {"1", "2"}})
	ctx := methodContext{method: method("a", "b")}

	seq, err := p.Provide(ctx)
	require.NoError(t, err)

	var names []string
	var resolved []string
	for inv := range seq {
		names = append(names, inv.DisplayName(ctx, 0))
		exts := inv.Extensions()
		require.Len(t, exts, 1)
		r := exts[0].(extension.ParameterResolver)
		require.True(t, r.SupportsParameter(extension.Parameter{Name: "b"}, nil))
		require.False(t, r.SupportsParameter(extension.Parameter{Name: "c"}, nil))
		v, err := r.ResolveParameter(extension.Parameter{Name: "b"}, nil)
		require.NoError(t, err)
		resolved = append(resolved, v.(string))
	}
	require.Equal(t, []string{"a=1, b=3", "a=2, b=4"}, names)
	require.Equal(t, []string{"3", "4"}, resolved)
}

func TestProvideRejectsRaggedValues(t *testing.T) {
	t.Parallel()

	p := NewProvider(Values{"a": {"1", "2"}, "b": {"3"}})
	_, err := p.Provide(methodContext{method: method("a", "b")})
	require.EqualError(t, err, `parameter "b" has 1 values but "a" has 2`)
}

func TestProvideStopsWhenConsumerStops(t *testing.T) {
	t.Parallel()

	p := NewProvider(Values{"a": {"1", "2", "3"}})
	seq, err := p.Provide(methodContext{method: method("a")})
	require.NoError(t, err)

	count := 0
	for range seq {
		count++
		break
	}
	require.Equal(t, 1, count)
}

func TestEmptyValuesYieldNothing(t *testing.T) {
	t.Parallel()

	p := NewProvider(Values{"a": {}})
	ctx := methodContext{method: method("a")}
	require.True(t, p.Supports(ctx))

	seq, err := p.Provide(ctx)
	require.NoError(t, err)
	for range seq {
		t.Fatal("no invocation expected")
	}
}
