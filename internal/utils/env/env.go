package env

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/slok/bopbridge/internal/model"
)

var envKeyRegexp = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ParseSpecs parses `KEY=VALUE` specs, a bare `KEY` takes its value from the host.
func ParseSpecs(specs []string) (map[string]string, error) {
	vars := make(map[string]string, len(specs))

	for _, spec := range specs {
		if spec == "" {
			return nil, fmt.Errorf("environment variable spec cannot be empty: %w", model.ErrNotValid)
		}

		key, value, ok := strings.Cut(spec, "=")
		if !isValidKey(key) {
			return nil, fmt.Errorf("invalid environment variable key %q: %w", key, model.ErrNotValid)
		}

		if !ok {
			value, ok = os.LookupEnv(key)
			if !ok {
				return nil, fmt.Errorf("environment variable %q is not set: %w", key, model.ErrNotValid)
			}
		}

		vars[key] = value
	}

	return vars, nil
}

// ValidateMap checks every key of the map is a valid variable name.
func ValidateMap(vars map[string]string) error {
	for _, k := range SortedKeys(vars) {
		if !isValidKey(k) {
			return fmt.Errorf("invalid environment variable key %q: %w", k, model.ErrNotValid)
		}
	}
	return nil
}

// MergeMaps returns a new map with override applied on top of base.
func MergeMaps(base map[string]string, override map[string]string) map[string]string {
	merged := make(map[string]string, len(base)+len(override))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range override {
		merged[k] = v
	}

	return merged
}

// SortedKeys returns the keys of the map sorted.
func SortedKeys(vars map[string]string) []string {
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func isValidKey(k string) bool {
	return envKeyRegexp.MatchString(k)
}
