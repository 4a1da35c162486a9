// flatten_test.go: tests for nested document flattening
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package properties

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlatten_NestedMaps(t *testing.T) {
	fl := flattener{}
	out, err := fl.flatten(map[string]any{
		"database": map[string]any{
			"host": "localhost",
			"pool": map[string]any{
				"max": 10,
			},
		},
		"debug": true,
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]Value{
		"database.host":     StringValue("localhost"),
		"database.pool.max": IntValue(10),
		"debug":             BoolValue(true),
	}, out)
}

func TestFlatten_Sequences(t *testing.T) {
	fl := flattener{}
	out, err := fl.flatten(map[string]any{
		"servers": []any{
			map[string]any{"host": "a"},
			map[string]any{"host": "b"},
		},
		"weights": []any{1.5, 2.5},
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]Value{
		"servers.0.host": StringValue("a"),
		"servers.1.host": StringValue("b"),
		"weights.0":      FloatValue(1.5),
		"weights.1":      FloatValue(2.5),
	}, out)
}

func TestFlatten_ScalarVariants(t *testing.T) {
	fl := flattener{}
	out, err := fl.flatten(map[string]any{
		"s":  "text",
		"i":  int64(7),
		"f":  3.14,
		"b":  false,
		"n":  nil,
		"jn": json.Number("42"),
		"jf": json.Number("4.2"),
	})
	require.NoError(t, err)

	assert.Equal(t, StringValue("text"), out["s"])
	assert.Equal(t, IntValue(7), out["i"])
	assert.Equal(t, FloatValue(3.14), out["f"])
	assert.Equal(t, BoolValue(false), out["b"])
	assert.Equal(t, NullValue(), out["n"])
	assert.Equal(t, IntValue(42), out["jn"], "integral JSON numbers stay integers")
	assert.Equal(t, FloatValue(4.2), out["jf"])
}

func TestFlatten_EmptyKeyRejected(t *testing.T) {
	fl := flattener{}
	_, err := fl.flatten(map[string]any{"": "value"})
	require.Error(t, err)
	assert.True(t, IsParseError(err))
}

func TestFlatten_UnsupportedValueRejected(t *testing.T) {
	fl := flattener{}
	_, err := fl.flatten(map[string]any{"ch": make(chan int)})
	require.Error(t, err)
	assert.True(t, IsParseError(err))
}

func TestFlatten_EnvExpansion(t *testing.T) {
	t.Setenv("GO_PROPERTIES_FLATTEN_HOST", "db.internal")

	fl := flattener{
		expandEnv:  true,
		envOptions: DefaultEnvExpansionOptions(),
	}
	out, err := fl.flatten(map[string]any{
		"host": "${FLATTEN_HOST}",
		"port": "${FLATTEN_PORT:-5432}",
	})
	require.NoError(t, err)

	assert.Equal(t, StringValue("db.internal"), out["host"])
	assert.Equal(t, StringValue("5432"), out["port"])
}

func TestNumberToValue_Overflow(t *testing.T) {
	// Numbers beyond int64 fall back to the float variant
	v := numberToValue(json.Number("92233720368547758080"))
	assert.Equal(t, KindFloat, v.Kind())
}
