package ty

import (
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// Opt is a value that may be absent. Set tells whether a value was ever
// assigned, Valid whether the assigned value is usable (false for an explicit
// JSON null).
type Opt[T any] struct {
	Value T // inner value
	Set   bool
	Valid bool
}

// Some wraps a present value.
func Some[T any](value T) Opt[T] {
	return Opt[T]{
		Value: value,
		Set:   true,
		Valid: true,
	}
}

// None returns an absent value.
func None[T any]() Opt[T] {
	return Opt[T]{}
}

// Present reports whether the option holds a usable value.
func (i Opt[T]) Present() bool {
	return i.Set && i.Valid
}

// Get returns the inner value and whether it is present.
func (i Opt[T]) Get() (T, bool) {
	return i.Value, i.Present()
}

// OrElse returns the inner value, or def when absent.
func (i Opt[T]) OrElse(def T) T {
	if i.Present() {
		return i.Value
	}
	return def
}

// Merge overrides i with or when or was set.
func (i *Opt[T]) Merge(or *Opt[T]) {
	if or.Set {
		i.Value = or.Value
		i.Set = or.Set
		i.Valid = or.Valid
	}
}

func (i *Opt[T]) S(v T) {
	i.Value = v
	i.Set = true
	i.Valid = true
}

// U unsets the option.
func (i *Opt[T]) U() {
	var zero T
	i.Value = zero
	i.Set = false
	i.Valid = false
}

func (i *Opt[T]) UnmarshalJSON(data []byte) error {
	i.Set = true

	if string(data) == "null" {
		i.Valid = false
		return nil
	}

	if err := json.Unmarshal(data, &i.Value); err != nil {
		return err
	}

	i.Valid = true

	return nil
}

func (i Opt[T]) MarshalJSON() ([]byte, error) {
	if !i.Present() {
		return []byte("null"), nil
	}
	return json.Marshal(i.Value)
}

// UnmarshalYAML implements yaml.Unmarshaler for Opt[T]. yaml.v3 zeroes a
// field holding an explicit null without calling this method, so in YAML a
// null option is the same as an absent one.
func (i *Opt[T]) UnmarshalYAML(value *yaml.Node) error {
	var v T
	if err := value.Decode(&v); err != nil {
		return err
	}
	i.Value = v
	i.Set = true
	i.Valid = true
	return nil
}

// MarshalYAML implements yaml.Marshaler for Opt[T]
func (i Opt[T]) MarshalYAML() (interface{}, error) {
	if !i.Present() {
		return nil, nil
	}
	return i.Value, nil
}

// IsZero lets yaml omitempty skip unset options.
func (i Opt[T]) IsZero() bool {
	return !i.Set
}
