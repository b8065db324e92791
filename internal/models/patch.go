package models

import (
	"encoding/json"
	"fmt"
)

// Patch is one field of a partial update. An unset Patch is left out of the
// payload by the omitzero tag option, a set one carries a value or an
// explicit null that clears the field on the server.
type Patch[T any] struct {
	value *T
	set   bool
}

// Set returns a Patch carrying v.
func Set[T any](v T) Patch[T] {
	return Patch[T]{value: &v, set: true}
}

// Null returns a Patch that clears the field.
func Null[T any]() Patch[T] {
	return Patch[T]{set: true}
}

// SetOrNull returns Set(*v), or Null when v is nil.
func SetOrNull[T any](v *T) Patch[T] {
	if v == nil {
		return Null[T]()
	}
	return Set(*v)
}

// IsZero reports whether the field is unset.
func (p Patch[T]) IsZero() bool {
	return !p.set
}

// Value returns the carried value; ok is false for unset and null patches.
func (p Patch[T]) Value() (T, bool) {
	if p.value == nil {
		var zero T
		return zero, false
	}
	return *p.value, true
}

// MarshalJSON encodes the value or null.
func (p Patch[T]) MarshalJSON() ([]byte, error) {
	if p.value == nil {
		return []byte("null"), nil
	}
	data, err := json.Marshal(*p.value)
	if err != nil {
		return nil, fmt.Errorf("failed to encode patch value: %w", err)
	}
	return data, nil
}
