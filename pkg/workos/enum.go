package workos

import (
	"encoding/json"
	"fmt"
)

// Enum is a server-sent string enumeration that knows its declared values.
type Enum interface {
	~string
	IsKnown() bool
}

// KnownOrUnknown holds an enum value that decodes even when the server sends a value
// this version does not declare.
type KnownOrUnknown[T Enum] struct {
	raw string
}

// Known wraps a declared enum value.
func Known[T Enum](v T) KnownOrUnknown[T] {
	return KnownOrUnknown[T]{raw: string(v)}
}

// Unknown wraps an undeclared value.
func Unknown[T Enum](s string) KnownOrUnknown[T] {
	return KnownOrUnknown[T]{raw: s}
}

// Known returns the declared value and true, or the zero value and false.
func (k KnownOrUnknown[T]) Known() (T, bool) {
	v := T(k.raw)
	if !v.IsKnown() {
		var zero T

		return zero, false
	}

	return v, true
}

// IsKnown reports whether the value is declared.
func (k KnownOrUnknown[T]) IsKnown() bool {
	return T(k.raw).IsKnown()
}

// Is reports whether the value equals v.
func (k KnownOrUnknown[T]) Is(v T) bool {
	return k.raw == string(v)
}

// String returns the wire value.
func (k KnownOrUnknown[T]) String() string {
	return k.raw
}

// MarshalJSON implements json.Marshaler.
func (k KnownOrUnknown[T]) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(k.raw)
	if err != nil {
		return nil, fmt.Errorf("encoding enum: %w", err)
	}

	return data, nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (k *KnownOrUnknown[T]) UnmarshalJSON(data []byte) error {
	var s string

	err := json.Unmarshal(data, &s)
	if err != nil {
		return fmt.Errorf("decoding enum: %w", err)
	}

	k.raw = s

	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (k KnownOrUnknown[T]) MarshalYAML() (interface{}, error) {
	return k.raw, nil
}
