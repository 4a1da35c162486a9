// source.go: property source contract and file-based implementation
//
// This module defines the Source boundary the store loads through, plus the
// default file-backed implementation with automatic format detection via
// Argus, JSON/YAML parsing, and optional environment variable expansion.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package properties

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/agilira/argus"
	"gopkg.in/yaml.v3"
)

// Source produces a flattened key-value mapping from a property file.
//
// Implementations must be deterministic for fixed file content: loading the
// same bytes twice yields the same mapping. The store does not care how
// nesting becomes dot-separated keys or what syntax the file uses - only
// that keys are non-empty strings and values are scalar variants.
type Source interface {
	// Load reads and parses the file at path into a flattened mapping.
	Load(path string) (map[string]Value, error)
}

// FileSourceOptions configures the default file-backed source.
type FileSourceOptions struct {
	// MaxFileSize caps the property file size in bytes (default 10MB)
	MaxFileSize int64 `json:"max_file_size" yaml:"max_file_size"`

	// ExpandEnv enables ${VAR} expansion over string values
	ExpandEnv bool `json:"expand_env" yaml:"expand_env"`

	// EnvOptions controls expansion behavior when ExpandEnv is set
	EnvOptions EnvExpansionOptions `json:"env_options" yaml:"env_options"`
}

// DefaultFileSourceOptions returns production-ready defaults for file loading.
func DefaultFileSourceOptions() FileSourceOptions {
	return FileSourceOptions{
		MaxFileSize: 10 * 1024 * 1024,
		ExpandEnv:   false,
		EnvOptions:  DefaultEnvExpansionOptions(),
	}
}

// FileSource loads properties from a JSON or YAML file on the local
// filesystem, flattening nested structures into dot-separated keys.
//
// Format detection is automatic based on the file extension (via Argus),
// so the same source serves .json, .yml, and .yaml files transparently.
type FileSource struct {
	options FileSourceOptions
}

// NewFileSource creates a file-backed source with the given options.
func NewFileSource(options FileSourceOptions) *FileSource {
	if options.MaxFileSize <= 0 {
		options.MaxFileSize = DefaultFileSourceOptions().MaxFileSize
	}
	return &FileSource{options: options}
}

// Load implements the Source interface.
//
// The file is validated (regular file, non-empty, within the size cap),
// parsed according to its detected format, and flattened. Any failure
// returns a coded error and never a partial mapping.
func (fs *FileSource) Load(path string) (map[string]Value, error) {
	content, err := fs.readFile(path)
	if err != nil {
		return nil, err
	}

	nested, err := fs.parse(path, content)
	if err != nil {
		return nil, err
	}

	fl := flattener{
		expandEnv:  fs.options.ExpandEnv,
		envOptions: fs.options.EnvOptions,
	}
	return fl.flatten(nested)
}

func (fs *FileSource) readFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, NewSourceNotFoundError(path, err)
	}
	if !info.Mode().IsRegular() {
		return nil, NewSourceNotRegularError(path)
	}
	if info.Size() > fs.options.MaxFileSize {
		return nil, NewSourceTooLargeError(path, info.Size(), fs.options.MaxFileSize)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, NewSourceNotFoundError(path, err)
	}
	if len(bytes.TrimSpace(content)) == 0 {
		return nil, NewSourceEmptyError(path)
	}
	return content, nil
}

func (fs *FileSource) parse(path string, content []byte) (map[string]any, error) {
	var nested map[string]any

	format := argus.DetectFormat(path)
	switch format {
	case argus.FormatJSON:
		// json.Number preserves the int/float distinction
		dec := json.NewDecoder(bytes.NewReader(content))
		dec.UseNumber()
		if err := dec.Decode(&nested); err != nil {
			return nil, NewParseError(path, err)
		}
	case argus.FormatYAML:
		if err := yaml.Unmarshal(content, &nested); err != nil {
			return nil, NewParseError(path, err)
		}
	default:
		return nil, NewUnsupportedFormatError(path, fmt.Sprintf("%v", format))
	}

	if nested == nil {
		return nil, NewSourceEmptyError(path)
	}
	return nested, nil
}
