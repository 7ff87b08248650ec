package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FromFile loads a bundle from a file, choosing the format by extension.
// Supported extensions: .yaml, .yml, .json
func FromFile(path string) (Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Bundle{}, fmt.Errorf("read run file: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return FromYAML(data)
	case ".json":
		return FromJSON(data)
	default:
		return Bundle{}, fmt.Errorf("unsupported run file extension: %s", ext)
	}
}

// FromYAML parses a YAML mapping into a Bundle.
//
// YAML's ".inf" is decoded by yaml.v3 as a float64 infinity, so
// `beta: .inf` selects the zero-temperature branch directly.
func FromYAML(data []byte) (Bundle, error) {
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Bundle{}, fmt.Errorf("parse yaml: %w", err)
	}
	return New(m), nil
}

// FromJSON parses a JSON object into a Bundle. JSON has no infinity literal;
// use the strings "inf" or "+Inf" for infinite float parameters.
func FromJSON(data []byte) (Bundle, error) {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return Bundle{}, fmt.Errorf("parse json: %w", err)
	}
	return New(m), nil
}

// FromAssignments builds a Bundle from key=value pairs, as given on a
// command line. Each value is parsed as a YAML flow value, so "beta=.inf"
// yields +Inf and "block_list=[0, 1]" a list.
func FromAssignments(pairs []string) (Bundle, error) {
	m := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, raw, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return Bundle{}, fmt.Errorf("assignment %q: want key=value", pair)
		}
		var v any
		if err := yaml.Unmarshal([]byte(raw), &v); err != nil {
			return Bundle{}, fmt.Errorf("assignment %q: %w", pair, err)
		}
		m[key] = v
	}
	return New(m), nil
}
