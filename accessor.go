// accessor.go: typed property reads with default fallbacks
//
// Type mismatch is not an error: an accessor that finds a value of the
// wrong variant returns the caller-supplied default, mirroring the
// absent-key case.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package properties

// GetString returns the value for key converted to its textual form, or
// def when the key is absent or null. Any scalar variant stringifies.
func (s *Store) GetString(key, def string) string {
	v, ok := s.Lookup(key)
	if !ok || v.IsNull() {
		return def
	}
	return v.Text()
}

// GetInt returns the value for key as an int when the stored variant is
// numeric, else def. Floats are truncated toward zero.
func (s *Store) GetInt(key string, def int) int {
	if i, ok := s.lookupInt64(key); ok {
		return int(i)
	}
	return def
}

// GetInt64 returns the value for key as an int64 when the stored variant
// is numeric, else def.
func (s *Store) GetInt64(key string, def int64) int64 {
	if i, ok := s.lookupInt64(key); ok {
		return i
	}
	return def
}

// GetFloat64 returns the value for key as a float64 when the stored
// variant is numeric, else def.
func (s *Store) GetFloat64(key string, def float64) float64 {
	v, ok := s.Lookup(key)
	if !ok {
		return def
	}
	if f, ok := v.Float64(); ok {
		return f
	}
	return def
}

// GetBool returns the value for key when the stored variant is boolean,
// else def.
func (s *Store) GetBool(key string, def bool) bool {
	v, ok := s.Lookup(key)
	if !ok {
		return def
	}
	if b, ok := v.Bool(); ok {
		return b
	}
	return def
}

func (s *Store) lookupInt64(key string) (int64, bool) {
	v, ok := s.Lookup(key)
	if !ok {
		return 0, false
	}
	return v.Int64()
}
