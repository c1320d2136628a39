// Package util holds small stateless helpers shared by the data-access
// packages: emptiness checks, encodings, streams, comparisons and text
// clean-up.
package util

import (
	"reflect"
	"strings"
)

// IsBlank reports whether s is empty or only whitespace.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// IsNilOrEmpty reports whether a slice is nil or has no elements.
func IsNilOrEmpty[S ~[]E, E any](s S) bool {
	return len(s) == 0
}

// IsEmptyMap reports whether a map is nil or has no entries.
func IsEmptyMap[M ~map[K]V, K comparable, V any](m M) bool {
	return len(m) == 0
}

// IsNil reports whether v is nil, including typed nils stored in an interface.
func IsNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// Compact returns the non-nil pointers of s, preserving order. A nil input
// yields an empty, non-nil slice.
func Compact[T any](s []*T) []*T {
	out := make([]*T, 0, len(s))
	for _, v := range s {
		if v != nil {
			out = append(out, v)
		}
	}
	return out
}
