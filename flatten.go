// flatten.go: nested document flattening into dot-separated keys
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package properties

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// flattener converts a parsed nested document into a flat map of
// dot-separated keys to scalar values. Sequence elements are addressed by
// their index segment, e.g. servers.0.host.
type flattener struct {
	expandEnv  bool
	envOptions EnvExpansionOptions
}

func (fl flattener) flatten(nested map[string]any) (map[string]Value, error) {
	out := make(map[string]Value, len(nested))
	if err := fl.flattenMap("", nested, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (fl flattener) flattenMap(prefix string, m map[string]any, out map[string]Value) error {
	for key, raw := range m {
		if strings.TrimSpace(key) == "" {
			return NewInvalidKeyError(prefix + key)
		}
		full := key
		if prefix != "" {
			full = prefix + "." + key
		}
		if err := fl.flattenNode(full, raw, out); err != nil {
			return err
		}
	}
	return nil
}

func (fl flattener) flattenNode(key string, raw any, out map[string]Value) error {
	switch node := raw.(type) {
	case map[string]any:
		return fl.flattenMap(key, node, out)
	case []any:
		for i, elem := range node {
			if err := fl.flattenNode(key+"."+strconv.Itoa(i), elem, out); err != nil {
				return err
			}
		}
		return nil
	default:
		value, err := fl.toValue(key, raw)
		if err != nil {
			return err
		}
		out[key] = value
		return nil
	}
}

// toValue converts a parsed scalar into its tagged variant.
func (fl flattener) toValue(key string, raw any) (Value, error) {
	switch v := raw.(type) {
	case nil:
		return NullValue(), nil
	case string:
		if fl.expandEnv {
			expanded, err := ExpandEnvironmentVariables(v, fl.envOptions)
			if err != nil {
				return Value{}, err
			}
			return StringValue(expanded), nil
		}
		return StringValue(v), nil
	case bool:
		return BoolValue(v), nil
	case int:
		return IntValue(int64(v)), nil
	case int64:
		return IntValue(v), nil
	case uint64:
		return IntValue(int64(v)), nil
	case float64:
		return FloatValue(v), nil
	case json.Number:
		return numberToValue(v), nil
	case time.Time:
		// YAML timestamps carry no scalar variant of their own
		return StringValue(v.Format(time.RFC3339)), nil
	default:
		return Value{}, NewUnsupportedValueError(key, raw)
	}
}

// numberToValue keeps integral JSON numbers as the integer variant.
func numberToValue(n json.Number) Value {
	if !strings.ContainsAny(n.String(), ".eE") {
		if i, err := n.Int64(); err == nil {
			return IntValue(i)
		}
	}
	if f, err := n.Float64(); err == nil {
		return FloatValue(f)
	}
	return StringValue(n.String())
}
