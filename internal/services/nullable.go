package services

import (
	"bytes"
	"encoding/json"
)

// Nullable carries a field that may be left unchanged, cleared, or set.
// Set is false when the field was absent; Value is nil when it was null.
type Nullable[T any] struct {
	Set   bool
	Value *T
}

// NewNullable returns a Nullable that sets the field to v.
func NewNullable[T any](v T) Nullable[T] {
	return Nullable[T]{Set: true, Value: &v}
}

// Null returns a Nullable that clears the field.
func Null[T any]() Nullable[T] {
	return Nullable[T]{Set: true}
}

func (n *Nullable[T]) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(data, []byte("null")) {
		n.Value = nil
		return nil
	}

	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	n.Value = &value
	return nil
}

// normalizeID treats an empty id as null.
func normalizeID(n Nullable[string]) Nullable[string] {
	if n.Value != nil && *n.Value == "" {
		n.Value = nil
	}
	return n
}

func sameString(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
