package registry

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/alexisbeaulieu97/probe/internal/extension"
	"github.com/alexisbeaulieu97/probe/internal/logger"
)

// Registry is an ordered, identity-unique set of extensions. A registry
// derived from a parent sees the parent's extensions first, followed by its
// own in registration order. Deriving never mutates the parent.
type Registry struct {
	mu     sync.RWMutex
	parent *Registry
	local  []extension.Extension
	logger *logger.Logger

	// generation counts local registrations. The kind cache is valid only
	// for the chain generation it was built against.
	generation uint64
	cache      map[reflect.Type][]extension.Extension
	cacheGen   uint64
}

// New returns an empty root registry.
func New(log *logger.Logger) *Registry {
	return &Registry{logger: log}
}

// NewWithExtensions returns a root registry populated with exts.
func NewWithExtensions(log *logger.Logger, exts ...extension.Extension) (*Registry, error) {
	r := New(log)
	for _, ext := range exts {
		if err := r.Register(ext); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register appends ext to this registry. Registering an instance that is
// already visible through this registry or its ancestors is a no-op.
//
// Registering into a parent after children were derived is visible to those
// children on their next lookup.
func (r *Registry) Register(ext extension.Extension) error {
	if ext == nil {
		return fmt.Errorf("extension is nil")
	}

	if r.contains(ext) {
		r.logDebug(fmt.Sprintf("extension '%s' already registered; ignoring duplicate", extension.NameOf(ext)))
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.local = append(r.local, ext)
	r.generation++
	return nil
}

// Derive returns a child registry holding extra in addition to everything
// visible through r. Nil entries are ignored.
func (r *Registry) Derive(extra ...extension.Extension) *Registry {
	child := &Registry{parent: r}
	if r != nil {
		child.logger = r.logger
	}
	for _, ext := range extra {
		if ext == nil {
			continue
		}
		// Registering into a fresh child cannot fail for non-nil values.
		_ = child.Register(ext)
	}
	return child
}

// Parent returns the registry r was derived from, or nil.
func (r *Registry) Parent() *Registry {
	return r.parent
}

// All returns every visible extension in registration order.
func (r *Registry) All() []extension.Extension {
	var chain []*Registry
	for cur := r; cur != nil; cur = cur.parent {
		chain = append(chain, cur)
	}

	var out []extension.Extension
	for i := len(chain) - 1; i >= 0; i-- {
		chain[i].mu.RLock()
		out = append(out, chain[i].local...)
		chain[i].mu.RUnlock()
	}
	return out
}

// Len returns the number of visible extensions.
func (r *Registry) Len() int {
	return len(r.All())
}

func (r *Registry) contains(ext extension.Extension) bool {
	for _, existing := range r.All() {
		if sameInstance(existing, ext) {
			return true
		}
	}
	return false
}

// chainGeneration sums the generations of r and its ancestors. It grows
// whenever anything visible through r is registered.
func (r *Registry) chainGeneration() uint64 {
	var total uint64
	for cur := r; cur != nil; cur = cur.parent {
		cur.mu.RLock()
		total += cur.generation
		cur.mu.RUnlock()
	}
	return total
}

func (r *Registry) byKind(kind reflect.Type) []extension.Extension {
	gen := r.chainGeneration()
	r.mu.RLock()
	cached, ok := r.cache[kind]
	fresh := r.cacheGen == gen
	r.mu.RUnlock()
	if ok && fresh {
		return cached
	}

	var matches []extension.Extension
	for _, ext := range r.All() {
		if reflect.TypeOf(ext).Implements(kind) {
			matches = append(matches, ext)
		}
	}

	r.mu.Lock()
	if r.cache == nil || r.cacheGen != gen {
		r.cache = make(map[reflect.Type][]extension.Extension)
		r.cacheGen = gen
	}
	r.cache[kind] = matches
	r.mu.Unlock()
	return matches
}

func (r *Registry) logDebug(msg string) {
	if r.logger == nil {
		return
	}
	r.logger.Debug(msg)
}

// sameInstance compares by identity: pointers by address, comparable values
// by ==. Values of non-comparable types are never considered the same.
func sameInstance(a, b extension.Extension) (same bool) {
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	defer func() {
		// Comparable struct types can still hold non-comparable interface values.
		if recover() != nil {
			same = false
		}
	}()
	return a == b
}
