// Package descriptor models the test tree: containers, tests, and the
// invocation leaves produced at run time.
package descriptor

// Type classifies a descriptor.
type Type int

const (
	// TypeContainer groups other descriptors and is never itself a test.
	TypeContainer Type = iota
	// TypeTest is an executable test.
	TypeTest
	// TypeContainerAndTest is a test that may also gain dynamic children.
	TypeContainerAndTest
)

func (t Type) String() string {
	switch t {
	case TypeContainer:
		return "container"
	case TypeTest:
		return "test"
	case TypeContainerAndTest:
		return "container_and_test"
	default:
		return "unknown"
	}
}

// IsTest reports whether descriptors of this type are counted as tests.
func (t Type) IsTest() bool {
	return t == TypeTest || t == TypeContainerAndTest
}

// Descriptor is a node of the test tree. Implementations embed Base.
type Descriptor interface {
	UniqueID() UniqueID
	DisplayName() string
	Type() Type
	Parent() Descriptor
	Children() []Descriptor
	base() *Base
}

// Base carries the state shared by every descriptor. Children are append
// only.
type Base struct {
	id          UniqueID
	displayName string
	kind        Type
	parent      Descriptor
	children    []Descriptor
}

// NewBase returns a detached Base.
func NewBase(id UniqueID, displayName string, kind Type) Base {
	return Base{id: id, displayName: displayName, kind: kind}
}

// UniqueID implements Descriptor.
func (b *Base) UniqueID() UniqueID { return b.id }

// DisplayName implements Descriptor.
func (b *Base) DisplayName() string { return b.displayName }

// Type implements Descriptor.
func (b *Base) Type() Type { return b.kind }

// Parent implements Descriptor.
func (b *Base) Parent() Descriptor { return b.parent }

// Children returns a snapshot of the current children.
func (b *Base) Children() []Descriptor {
	return append([]Descriptor(nil), b.children...)
}

func (b *Base) base() *Base { return b }

// AddChild appends child to parent and links child back to parent.
func AddChild(parent, child Descriptor) {
	if parent == nil || child == nil {
		return
	}
	child.base().parent = parent
	p := parent.base()
	p.children = append(p.children, child)
}

// Walk visits d and its descendants depth first, parents before children.
// Returning false from fn skips the descendants of that descriptor.
func Walk(d Descriptor, fn func(Descriptor) bool) {
	if d == nil {
		return
	}
	if !fn(d) {
		return
	}
	for _, child := range d.Children() {
		Walk(child, fn)
	}
}

// CountTests returns the number of tests currently in the tree rooted at d.
// A container-and-test with children counts through its children only.
func CountTests(d Descriptor) int {
	count := 0
	Walk(d, func(cur Descriptor) bool {
		switch cur.Type() {
		case TypeTest:
			count++
		case TypeContainerAndTest:
			if len(cur.base().children) == 0 {
				count++
			}
		}
		return true
	})
	return count
}
