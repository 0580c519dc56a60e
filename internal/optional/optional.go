// Package optional holds request fields that remember whether the client sent them.
//
// A Value is "set" when its key appears in the JSON object with a non-null value.
// Omitted keys and explicit nulls both leave it unset, so a partial update only
// touches what the client actually supplied. Empty strings and zero numbers are set.
package optional

import (
	"bytes"
	"encoding/json"
)

type Value[T any] struct {
	value T
	set   bool
}

// Of returns a set Value holding v.
func Of[T any](v T) Value[T] {
	return Value[T]{value: v, set: true}
}

func (o Value[T]) IsSet() bool {
	return o.set
}

// Get returns the held value and whether it was set.
func (o Value[T]) Get() (T, bool) {
	return o.value, o.set
}

// Apply writes the held value into dst when set.
func (o Value[T]) Apply(dst *T) {
	if o.set {
		*dst = o.value
	}
}

func (o *Value[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		var zero T
		o.value, o.set = zero, false
		return nil
	}
	if err := json.Unmarshal(data, &o.value); err != nil {
		return err
	}
	o.set = true
	return nil
}

func (o Value[T]) MarshalJSON() ([]byte, error) {
	if !o.set {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}
