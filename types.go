// types.go: scalar value model and immutable property snapshots
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package properties

import (
	"sort"
	"strconv"
)

// ValueKind identifies which scalar variant a Value holds.
//
// A property value is always exactly one of the five variants below.
// Typed accessors match on the kind and fall back to the caller-supplied
// default on mismatch instead of returning an error.
type ValueKind int

const (
	// KindNull represents an explicit null in the source document
	KindNull ValueKind = iota

	// KindString represents a textual value
	KindString

	// KindInt represents a 64-bit signed integer value
	KindInt

	// KindFloat represents a 64-bit floating point value
	KindFloat

	// KindBool represents a boolean value
	KindBool
)

// String returns the human-readable name of the value kind.
func (k ValueKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	default:
		return "unknown"
	}
}

// Value is a closed tagged variant over the scalar types a property may
// hold: string, 64-bit integer, 64-bit float, boolean, or null.
//
// Values are small immutable value types and are safe to copy and compare.
// Construct them with NullValue, StringValue, IntValue, FloatValue, or
// BoolValue.
type Value struct {
	kind ValueKind
	str  string
	num  int64
	flt  float64
	b    bool
}

// NullValue returns the explicit null value.
func NullValue() Value {
	return Value{kind: KindNull}
}

// StringValue returns a Value holding the given string.
func StringValue(s string) Value {
	return Value{kind: KindString, str: s}
}

// IntValue returns a Value holding the given 64-bit integer.
func IntValue(i int64) Value {
	return Value{kind: KindInt, num: i}
}

// FloatValue returns a Value holding the given 64-bit float.
func FloatValue(f float64) Value {
	return Value{kind: KindFloat, flt: f}
}

// BoolValue returns a Value holding the given boolean.
func BoolValue(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// Kind returns the scalar variant this value holds.
func (v Value) Kind() ValueKind {
	return v.kind
}

// IsNull reports whether the value is the explicit null variant.
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// Text converts any scalar variant to its textual form.
//
// Integers and floats use their canonical decimal representation, booleans
// render as "true"/"false", and null renders as the empty string.
func (v Value) Text() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindInt:
		return strconv.FormatInt(v.num, 10)
	case KindFloat:
		return strconv.FormatFloat(v.flt, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	default:
		return ""
	}
}

// Int64 returns the value as a 64-bit integer if the stored variant is
// numeric. Floats are truncated toward zero.
func (v Value) Int64() (int64, bool) {
	switch v.kind {
	case KindInt:
		return v.num, true
	case KindFloat:
		return int64(v.flt), true
	default:
		return 0, false
	}
}

// Float64 returns the value as a 64-bit float if the stored variant is
// numeric. Integers are widened.
func (v Value) Float64() (float64, bool) {
	switch v.kind {
	case KindInt:
		return float64(v.num), true
	case KindFloat:
		return v.flt, true
	default:
		return 0, false
	}
}

// Bool returns the value if the stored variant is boolean.
func (v Value) Bool() (bool, bool) {
	if v.kind == KindBool {
		return v.b, true
	}
	return false, false
}

// Equal reports whether two values hold the same variant and payload.
//
// An integer and a float are never equal, even when numerically identical:
// equality is defined over the tagged representation, not over a numeric
// coercion.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.str == other.str
	case KindInt:
		return v.num == other.num
	case KindFloat:
		return v.flt == other.flt
	case KindBool:
		return v.b == other.b
	default:
		return true // both null
	}
}

// Snapshot is an immutable, complete mapping of flattened dot-separated
// keys to scalar values representing one generation of configuration.
//
// A snapshot is never mutated after construction - reloads build a new
// snapshot and replace the current one wholesale. This makes snapshots safe
// to read from any goroutine without synchronization and guarantees that a
// reader never observes a mixture of two generations.
type Snapshot struct {
	values map[string]Value
}

// newSnapshot wraps the given map. The caller must not retain or mutate
// the map after handing it over.
func newSnapshot(values map[string]Value) *Snapshot {
	if values == nil {
		values = make(map[string]Value)
	}
	return &Snapshot{values: values}
}

// Len returns the number of keys in the snapshot.
func (s *Snapshot) Len() int {
	return len(s.values)
}

// Has reports whether the snapshot contains the given key.
func (s *Snapshot) Has(key string) bool {
	_, ok := s.values[key]
	return ok
}

// Lookup returns the value for key and whether it is present.
func (s *Snapshot) Lookup(key string) (Value, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Get returns the value for key, or def when the key is absent.
func (s *Snapshot) Get(key string, def Value) Value {
	if v, ok := s.values[key]; ok {
		return v
	}
	return def
}

// Keys returns the snapshot's keys in sorted order.
func (s *Snapshot) Keys() []string {
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Properties returns a defensive copy of the full key-value mapping.
func (s *Snapshot) Properties() map[string]Value {
	out := make(map[string]Value, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// Equal reports whether two snapshots contain exactly the same keys with
// equal values. Added, removed, and changed keys all count as differences.
func (s *Snapshot) Equal(other *Snapshot) bool {
	if s == other {
		return true
	}
	if s == nil || other == nil {
		return false
	}
	if len(s.values) != len(other.values) {
		return false
	}
	for k, v := range s.values {
		ov, ok := other.values[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}
