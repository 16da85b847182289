package execution

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/probe/internal/extension"
	probeerrors "github.com/alexisbeaulieu97/probe/pkg/errors"
)

func TestParameterResolution(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		resolved []extension.Extension
		wantMsg  string
		wantErr  error
	}{
		{
			name:    "no resolver",
			wantMsg: "no ParameterResolver registered",
		},
		{
			name: "competing resolvers",
			resolved: []extension.Extension{
				&argumentResolver{values: map[string]any{"word": "a"}},
				&argumentResolver{values: map[string]any{"word": "b"}},
			},
			wantMsg: "competing ParameterResolvers",
		},
		{
			name:     "resolver error",
			resolved: []extension.Extension{failingResolver{err: errors.New("db down")}},
			wantMsg:  "failed",
			wantErr:  errors.New("db down"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			called := false
			method := extension.NewMethod("m", func(extension.TestContext, extension.Arguments) error {
				called = true
				return nil
			}, "word")
			f := newFixture(method, tt.resolved)

			err := f.run(t)
			var resErr *probeerrors.ResolutionError
			require.ErrorAs(t, err, &resErr)
			require.Equal(t, "m", resErr.Method)
			require.Equal(t, "word", resErr.Parameter)
			require.Contains(t, resErr.Message, tt.wantMsg)
			if tt.wantErr != nil {
				require.EqualError(t, resErr.Err, tt.wantErr.Error())
			}
			require.False(t, called)
		})
	}
}

type failingResolver struct {
	err error
}

func (failingResolver) SupportsParameter(extension.Parameter, extension.TestContext) bool { return true }

func (r failingResolver) ResolveParameter(extension.Parameter, extension.TestContext) (any, error) {
	return nil, r.err
}

func TestBuiltinTestInfoResolver(t *testing.T) {
	t.Parallel()

	var info TestInfo
	method := extension.NewMethod("m", func(_ extension.TestContext, args extension.Arguments) error {
		v, _ := args.Get(TestInfoParameter)
		info = v.(TestInfo)
		return nil
	}, TestInfoParameter)
	f := newFixture(method, nil)

	require.NoError(t, f.run(t))
	require.Equal(t, TestInfo{
		UniqueID:    "[engine:probe]/[class:Sample]/[method:m(testInfo)]",
		DisplayName: "m(testInfo)",
		Method:      "m",
	}, info)
}

func TestLifecycleMethodsResolveParameters(t *testing.T) {
	t.Parallel()

	var setUpFor string
	setUp := extension.NewMethod("setUp", func(_ extension.TestContext, args extension.Arguments) error {
		v, _ := args.Get(TestInfoParameter)
		setUpFor = v.(TestInfo).DisplayName
		return nil
	}, TestInfoParameter)
	f := newFixture(tracedMethod(&tracer{}, nil), nil, WithBeforeEachMethods(setUp))

	require.NoError(t, f.run(t))
	require.Equal(t, "m()", setUpFor)
}
