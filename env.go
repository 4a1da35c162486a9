// env.go: environment variable expansion for property values
//
// This module provides ${VAR} expansion for string properties, supporting
// inline defaults with ${VAR:-default} syntax, configurable prefixes, and
// override/default maps. Expansion runs during source loading so that the
// published snapshot always contains fully resolved values.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package properties

import (
	"fmt"
	"os"
	"regexp"
)

// envVariablePattern matches ${VAR} and ${VAR:-default} placeholders.
var envVariablePattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(:-([^}]*))?\}`)

// EnvExpansionOptions configures environment variable expansion behavior.
//
// Variable resolution priority:
//  1. Environment variable (with prefix if configured)
//  2. Unprefixed environment variable
//  3. Configured override value
//  4. Inline default value (from ${VAR:-default} syntax)
//  5. Global default value
//  6. Empty string, or an error when FailOnMissing is set
type EnvExpansionOptions struct {
	// Prefix for environment variables (e.g., "GO_PROPERTIES_", "MYAPP_")
	Prefix string `json:"prefix" yaml:"prefix"`

	// Whether to fail when referenced variables cannot be resolved
	FailOnMissing bool `json:"fail_on_missing" yaml:"fail_on_missing"`

	// Default values for undefined environment variables
	Defaults map[string]string `json:"defaults,omitempty" yaml:"defaults,omitempty"`

	// Environment-specific override values
	Overrides map[string]string `json:"overrides,omitempty" yaml:"overrides,omitempty"`
}

// DefaultEnvExpansionOptions returns production-ready defaults for
// environment variable expansion.
func DefaultEnvExpansionOptions() EnvExpansionOptions {
	return EnvExpansionOptions{
		Prefix:        "GO_PROPERTIES_",
		FailOnMissing: false,
		Defaults:      make(map[string]string),
		Overrides:     make(map[string]string),
	}
}

// ExpandEnvironmentVariables expands ${VAR} placeholders in a property value.
//
// Example:
//
//	expanded, err := ExpandEnvironmentVariables("${DB_HOST:-localhost}:${DB_PORT:-5432}", options)
func ExpandEnvironmentVariables(input string, options EnvExpansionOptions) (string, error) {
	if input == "" {
		return input, nil
	}

	var expansionErr error
	result := envVariablePattern.ReplaceAllStringFunc(input, func(match string) string {
		submatches := envVariablePattern.FindStringSubmatch(match)
		if len(submatches) < 2 {
			return match
		}

		varName := submatches[1]
		inlineDefault := ""
		if len(submatches) >= 4 {
			inlineDefault = submatches[3]
		}

		expanded, err := expandSingleEnvironmentVariable(varName, inlineDefault, options)
		if err != nil {
			if expansionErr == nil {
				expansionErr = err
			}
			return match
		}
		return expanded
	})

	if expansionErr != nil {
		return input, expansionErr
	}
	return result, nil
}

func expandSingleEnvironmentVariable(varName, inlineDefault string, options EnvExpansionOptions) (string, error) {
	// Prefixed environment variable wins
	prefixedName := options.Prefix + varName
	if value := os.Getenv(prefixedName); value != "" {
		return value, nil
	}

	if value := os.Getenv(varName); value != "" {
		return value, nil
	}

	if value, exists := options.Overrides[varName]; exists {
		return value, nil
	}

	if inlineDefault != "" {
		return inlineDefault, nil
	}

	if value, exists := options.Defaults[varName]; exists {
		return value, nil
	}

	if options.FailOnMissing {
		return "", NewEnvExpansionError(varName,
			fmt.Errorf("environment variable not found (also tried %s)", prefixedName))
	}

	return "", nil
}
