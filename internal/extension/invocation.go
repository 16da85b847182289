package extension

import (
	"fmt"
	"iter"
)

// InvocationContext describes one invocation of a fanned-out test method.
type InvocationContext interface {
	// DisplayName names the invocation. index is zero based and counts
	// across all active providers of the test method.
	DisplayName(container ContainerContext, index int) string
	// Extensions are registered for this invocation only.
	Extensions() []Extension
}

// DefaultDisplayName renders "<container display name>[<index>]".
func DefaultDisplayName(container ContainerContext, index int) string {
	return fmt.Sprintf("%s[%d]", container.DisplayName(), index)
}

// Invocation is a ready-made InvocationContext. An empty Display falls back
// to DefaultDisplayName.
type Invocation struct {
	Display string
	Scoped  []Extension
}

// DisplayName implements InvocationContext.
func (i Invocation) DisplayName(container ContainerContext, index int) string {
	if i.Display != "" {
		return i.Display
	}
	return DefaultDisplayName(container, index)
}

// Extensions implements InvocationContext.
func (i Invocation) Extensions() []Extension {
	return i.Scoped
}

// Invocations returns a sequence over the supplied contexts.
func Invocations(contexts ...InvocationContext) iter.Seq[InvocationContext] {
	return func(yield func(InvocationContext) bool) {
		for _, c := range contexts {
			if !yield(c) {
				return
			}
		}
	}
}
