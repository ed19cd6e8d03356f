// Copyright (c) 2026 Artistphere. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package pointer provides generic helpers for optional fields.

Artist payloads and patches use nil pointers to mean "absent", so these
helpers keep the call sites short.
*/
package pointer

// To returns a pointer to the provided value (e.g. pointer.To("Aria")).
func To[T any](v T) *T {
	return &v
}

// Val safely dereferences a pointer.
// If the pointer is nil, it returns the zero value of the underlying type.
func Val[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}
