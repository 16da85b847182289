// Package extension defines the capability interfaces through which
// pluggable behavior hooks into test execution, together with the context
// values handed to those hooks.
//
// An extension is any value; its capabilities are the interfaces from this
// package that it implements. A single value may implement several of them,
// in which case it participates in each matching lifecycle stage.
package extension

import (
	"fmt"
	"reflect"
)

// Extension is a pluggable unit of behavior registered against a scope.
type Extension any

// Named lets an extension report a stable name used in logs, errors and
// condition deactivation patterns.
type Named interface {
	Name() string
}

// NameOf returns the name of ext: its Name() when it implements Named,
// otherwise its dereferenced Go type name.
func NameOf(ext Extension) string {
	if named, ok := ext.(Named); ok && named.Name() != "" {
		return named.Name()
	}
	t := reflect.TypeOf(ext)
	if t == nil {
		return "<nil>"
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() != "" {
		return t.Name()
	}
	return fmt.Sprintf("%T", ext)
}
