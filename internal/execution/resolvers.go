package execution

import (
	"github.com/alexisbeaulieu97/probe/internal/extension"
)

const (
	// TestInfoParameter resolves to a TestInfo for the running test.
	TestInfoParameter = "testInfo"
	// ReporterParameter resolves to a Reporter bound to the running test.
	ReporterParameter = "reporter"
)

// TestInfo describes the running test to a test or lifecycle method.
type TestInfo struct {
	UniqueID    string
	DisplayName string
	Method      string
}

// Reporter publishes a report entry for the running test.
type Reporter func(entry map[string]string)

type builtinResolver struct {
	name    string
	param   string
	resolve func(ctx extension.TestContext) any
}

func (r builtinResolver) Name() string { return r.name }

func (r builtinResolver) SupportsParameter(param extension.Parameter, _ extension.TestContext) bool {
	return param.Name == r.param
}

func (r builtinResolver) ResolveParameter(_ extension.Parameter, ctx extension.TestContext) (any, error) {
	return r.resolve(ctx), nil
}

// DefaultResolvers returns the resolvers every engine registers first.
func DefaultResolvers() []extension.Extension {
	return []extension.Extension{
		&builtinResolver{
			name:  "test-info-resolver",
			param: TestInfoParameter,
			resolve: func(ctx extension.TestContext) any {
				info := TestInfo{UniqueID: ctx.UniqueID(), DisplayName: ctx.DisplayName()}
				if m := ctx.Method(); m != nil {
					info.Method = m.Name
				}
				return info
			},
		},
		&builtinResolver{
			name:  "reporter-resolver",
			param: ReporterParameter,
			resolve: func(ctx extension.TestContext) any {
				return Reporter(ctx.PublishReportEntry)
			},
		},
	}
}
