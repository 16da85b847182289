package registry

import (
	"reflect"
	"slices"
)

// Lookup returns the visible extensions implementing capability T, in
// registration order. T must be an interface type.
func Lookup[T any](r *Registry) []T {
	if r == nil {
		return nil
	}
	kind := reflect.TypeFor[T]()
	if kind.Kind() != reflect.Interface {
		return nil
	}

	matches := r.byKind(kind)
	out := make([]T, 0, len(matches))
	for _, ext := range matches {
		out = append(out, ext.(T))
	}
	return out
}

// ReverseLookup returns the same extensions as Lookup in exactly the reverse
// order, for teardown stages.
func ReverseLookup[T any](r *Registry) []T {
	out := Lookup[T](r)
	slices.Reverse(out)
	return out
}
