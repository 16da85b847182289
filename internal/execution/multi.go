package execution

import (
	"fmt"
	"iter"

	"github.com/alexisbeaulieu97/probe/internal/condition"
	"github.com/alexisbeaulieu97/probe/internal/config"
	"github.com/alexisbeaulieu97/probe/internal/descriptor"
	"github.com/alexisbeaulieu97/probe/internal/extension"
	"github.com/alexisbeaulieu97/probe/internal/failure"
	probeerrors "github.com/alexisbeaulieu97/probe/pkg/errors"
)

// InvocationSegmentType is the unique id segment type of dynamic invocations.
const InvocationSegmentType = "test-invocation"

// InvocationDescriptor is the dynamic test produced for one invocation
// context of a fanned-out method.
type InvocationDescriptor struct {
	descriptor.Base
	Index   int
	Context extension.InvocationContext
}

func newInvocationDescriptor(parent descriptor.Descriptor, index int, displayName string, ic extension.InvocationContext) *InvocationDescriptor {
	id := parent.UniqueID().Append(InvocationSegmentType, fmt.Sprintf("#%d", index))
	return &InvocationDescriptor{
		Base:    descriptor.NewBase(id, displayName, descriptor.TypeTest),
		Index:   index,
		Context: ic,
	}
}

// MultiStrategy fans a test method out over its active invocation context
// providers. The context must carry a container extension context.
type MultiStrategy struct {
	Parent    descriptor.Descriptor
	Method    *extension.Method
	Providers []extension.InvocationContextProvider
	Evaluator condition.Evaluator
}

// ShouldBeSkipped evaluates container-level conditions before fan-out.
func (s *MultiStrategy) ShouldBeSkipped(ctx *Context) (condition.Result, error) {
	containerCtx, err := containerContextOf(ctx)
	if err != nil {
		return condition.Enabled, err
	}
	return s.Evaluator.EvaluateForContainer(ctx.Registry(), ctx.Parameters(), containerCtx)
}

// Execute runs one child execution per yielded invocation context. Child
// failures are reported against the child. The returned error covers
// provider contract violations and listener panics raised while reporting an
// invocation. MethodNode selects SingleStrategy instead
// when no provider is active.
func (s *MultiStrategy) Execute(ctx *Context) error {
	containerCtx, err := containerContextOf(ctx)
	if err != nil {
		return err
	}

	policy, err := ctx.Parameters().EmptyProviderPolicy()
	if err != nil {
		return err
	}

	violations := failure.NewCollector()
	index := 0
	for _, provider := range s.Providers {
		name := extension.NameOf(provider)
		contexts, err := provide(provider, containerCtx)
		if err != nil {
			violations.Add(probeerrors.NewProviderContractError(name, containerCtx.UniqueID(), "failed to provide invocation contexts", err))
			continue
		}

		yielded, err := s.drain(ctx, containerCtx, contexts, &index, violations)
		if err != nil {
			violations.Add(probeerrors.NewProviderContractError(name, containerCtx.UniqueID(), "failed while yielding invocation contexts", err))
			continue
		}

		if yielded == 0 {
			if policy == config.PolicyIgnore {
				ctx.Logger().Debug(fmt.Sprintf("provider '%s' yielded no invocation contexts for %s; ignoring", name, containerCtx.UniqueID()))
				continue
			}
			violations.Add(probeerrors.NewProviderContractError(name, containerCtx.UniqueID(),
				"active provider yielded no invocation contexts", nil))
		}
	}
	return violations.AssertEmpty()
}

// drain pulls contexts one at a time. Only the provider's own sequence runs
// under the recovery that yields contract errors; a panic while running an
// invocation is recorded in failures and the next context is still pulled.
func (s *MultiStrategy) drain(ctx *Context, container extension.ContainerContext, contexts iter.Seq[extension.InvocationContext], index *int, failures *failure.Collector) (int, error) {
	next, stop := iter.Pull(contexts)
	defer stop()

	yielded := 0
	for {
		var ic extension.InvocationContext
		var ok bool
		err := failure.Run(func() error {
			ic, ok = next()
			return nil
		})
		if err != nil {
			return yielded, err
		}
		if !ok {
			return yielded, nil
		}
		if ic == nil {
			return yielded, fmt.Errorf("yielded a nil invocation context")
		}

		current := *index
		if err := failure.Run(func() error {
			s.executeInvocation(ctx, container, ic, current)
			return nil
		}); err != nil {
			failures.Add(fmt.Errorf("report invocation #%d: %w", current, err))
		}
		*index++
		yielded++
	}
}

func containerContextOf(ctx *Context) (extension.ContainerContext, error) {
	containerCtx, ok := ctx.ExtensionContext().(extension.ContainerContext)
	if !ok {
		return nil, fmt.Errorf("execution context does not carry a container extension context")
	}
	return containerCtx, nil
}

func provide(provider extension.InvocationContextProvider, ctx extension.ContainerContext) (iter.Seq[extension.InvocationContext], error) {
	var contexts iter.Seq[extension.InvocationContext]
	err := failure.Run(func() error {
		var provideErr error
		contexts, provideErr = provider.Provide(ctx)
		return provideErr
	})
	if err != nil {
		return nil, err
	}
	if contexts == nil {
		contexts = func(func(extension.InvocationContext) bool) {}
	}
	return contexts, nil
}

// executeInvocation registers, gates and runs one dynamic invocation. It
// never returns a failure; everything is reported against the invocation.
func (s *MultiStrategy) executeInvocation(ctx *Context, container extension.ContainerContext, ic extension.InvocationContext, index int) {
	listener := ctx.Listener()

	inv := newInvocationDescriptor(s.Parent, index, invocationDisplayName(ic, container, index), ic)
	descriptor.AddChild(s.Parent, inv)
	listener.DynamicTestRegistered(inv)

	single := SingleStrategy{Evaluator: s.Evaluator}
	var invocationCtx *Context
	var verdict condition.Result
	gate := ExecuteSafely(func() error {
		var err error
		invocationCtx, err = s.prepareInvocation(ctx, container, inv)
		if err != nil {
			return err
		}
		verdict, err = single.ShouldBeSkipped(invocationCtx)
		return err
	})
	if !gate.IsSuccess() {
		listener.ExecutionStarted(inv)
		listener.ExecutionFinished(inv, gate)
		return
	}
	if verdict.Disabled {
		listener.ExecutionSkipped(inv, verdict.Reason)
		return
	}

	listener.ExecutionStarted(inv)
	result := ExecuteSafely(func() error { return single.Execute(invocationCtx) })
	listener.ExecutionFinished(inv, result)
}

func (s *MultiStrategy) prepareInvocation(ctx *Context, container extension.ContainerContext, inv *InvocationDescriptor) (*Context, error) {
	reg := ctx.Registry().Derive(inv.Context.Extensions()...)
	instance, err := ctx.newTestInstance()
	if err != nil {
		return nil, fmt.Errorf("create test instance: %w", err)
	}
	collector := failure.NewCollector()
	testCtx := newTestContext(container, ctx, inv, s.Method, instance, collector)
	return ctx.Extend().
		WithRegistry(reg).
		WithCollector(collector).
		WithExtensionContext(testCtx).
		WithTestInstance(instance).
		WithStrategy(SingleStrategy{Evaluator: s.Evaluator}).
		WithLogger(ctx.Logger().With("unique_id", inv.UniqueID().String())).
		Build(), nil
}

func invocationDisplayName(ic extension.InvocationContext, container extension.ContainerContext, index int) string {
	var name string
	err := failure.Run(func() error {
		name = ic.DisplayName(container, index)
		return nil
	})
	if err != nil || name == "" {
		return extension.DefaultDisplayName(container, index)
	}
	return name
}
