// Package relation models a to-many relationship field in a partial update.
//
// A request either omits the field (leave the association untouched), sends
// null or an empty list (clear it), or sends a list (replace it entirely).
package relation

import (
	"bytes"
	"encoding/json"
)

// Kind is the intent carried by a Field.
type Kind int

const (
	// Unset means the field was absent from the request.
	Unset Kind = iota
	// Clear removes every association.
	Clear
	// Replace sets the association to exactly the given items.
	Replace
)

func (k Kind) String() string {
	switch k {
	case Clear:
		return "clear"
	case Replace:
		return "replace"
	default:
		return "unset"
	}
}

// Field is a tri-state relationship list.
type Field[T any] struct {
	kind  Kind
	items []T
}

// Keep returns a field that leaves the association untouched.
func Keep[T any]() Field[T] {
	return Field[T]{kind: Unset}
}

// Cleared returns a field that empties the association.
func Cleared[T any]() Field[T] {
	return Field[T]{kind: Clear}
}

// ReplaceWith returns a field that sets the association to items.
// An empty item list is equivalent to Cleared.
func ReplaceWith[T any](items ...T) Field[T] {
	if len(items) == 0 {
		return Cleared[T]()
	}
	return Field[T]{kind: Replace, items: items}
}

// Kind reports the intent of the field.
func (f Field[T]) Kind() Kind { return f.kind }

// IsSet reports whether the request supplied the field at all.
func (f Field[T]) IsSet() bool { return f.kind != Unset }

// Items returns the target association. It is empty for Unset and Clear.
func (f Field[T]) Items() []T {
	if f.kind != Replace {
		return nil
	}
	return f.items
}

// Map converts the items of f, preserving its intent.
func Map[T, U any](f Field[T], fn func([]T) ([]U, error)) (Field[U], error) {
	switch f.kind {
	case Unset:
		return Keep[U](), nil
	case Clear:
		return Cleared[U](), nil
	}
	items, err := fn(f.items)
	if err != nil {
		return Field[U]{}, err
	}
	return ReplaceWith(items...), nil
}

// UnmarshalJSON decodes null as Clear and a list as Replace (or Clear when empty).
// An absent key never reaches this method and stays Unset.
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*f = Cleared[T]()
		return nil
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	*f = ReplaceWith(items...)
	return nil
}

// MarshalJSON encodes the target association; Unset encodes as null.
func (f Field[T]) MarshalJSON() ([]byte, error) {
	switch f.kind {
	case Unset:
		return []byte("null"), nil
	case Clear:
		return []byte("[]"), nil
	}
	return json.Marshal(f.items)
}
