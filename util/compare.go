package util

import "cmp"

func Equal[T comparable](a, b T) bool { return a == b }

func Less[T cmp.Ordered](a, b T) bool { return cmp.Less(a, b) }

func Greater[T cmp.Ordered](a, b T) bool { return cmp.Compare(a, b) > 0 }
