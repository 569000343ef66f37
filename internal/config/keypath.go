package config

import (
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/davetashner/nitroviz/internal/style"
)

// GetValue retrieves a value from a Config by dot-notation key path.
// It returns scalar values as-is, and maps/slices for intermediate nodes.
func GetValue(cfg *Config, keyPath string) (any, error) {
	m, err := configToMap(cfg)
	if err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	return navigateMap(m, keyPath)
}

// SetValue sets a value in a raw YAML map by dot-notation key path,
// creating intermediate maps as needed. A visualizations value is a
// comma-separated list.
func SetValue(data map[string]any, keyPath string, rawValue string) error {
	parts := strings.Split(keyPath, ".")
	if keyPath == "" {
		return fmt.Errorf("empty key path")
	}

	// Navigate to the parent, creating intermediate maps.
	current := data
	for _, part := range parts[:len(parts)-1] {
		child, ok := current[part]
		if !ok {
			next := make(map[string]any)
			current[part] = next
			current = next
			continue
		}
		next, ok := child.(map[string]any)
		if !ok {
			return fmt.Errorf("key %q is not a map", part)
		}
		current = next
	}

	leaf := parts[len(parts)-1]
	if keyPath == "visualizations" {
		var names []any
		for _, n := range strings.Split(rawValue, ",") {
			if n = strings.TrimSpace(n); n != "" {
				names = append(names, n)
			}
		}
		current[leaf] = names
		return nil
	}
	if parts[0] == "theme" {
		// Colors stay strings even when they look numeric.
		current[leaf] = rawValue
		return nil
	}
	current[leaf] = coerceValue(rawValue)
	return nil
}

// FlattenMap recursively flattens a nested map to dot-notation keys.
func FlattenMap(m map[string]any, prefix string) map[string]any {
	result := make(map[string]any)
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if sub, ok := v.(map[string]any); ok {
			for sk, sv := range FlattenMap(sub, key) {
				result[sk] = sv
			}
		} else {
			result[key] = v
		}
	}
	return result
}

// ValidateKeyPath checks that a dot-notation key path corresponds to a valid
// Config field. It uses yaml struct tags to build the valid key set.
func ValidateKeyPath(keyPath string) error {
	if keyPath == "" {
		return fmt.Errorf("empty key path")
	}
	parts := strings.Split(keyPath, ".")

	topKeys := yamlKeys(reflect.TypeOf(Config{}))
	first := parts[0]

	if _, ok := topKeys[first]; !ok {
		return fmt.Errorf("unknown key %q; valid top-level keys: %s", first, sortedKeys(topKeys))
	}

	if first != "theme" {
		if len(parts) > 1 {
			return fmt.Errorf("key %q is a scalar; cannot use sub-keys", first)
		}
		return nil
	}

	// theme.<palette>.<name>
	themeKeys := yamlKeys(reflect.TypeOf(ThemeConfig{}))
	if len(parts) < 3 {
		return fmt.Errorf("theme requires a palette and a name (e.g. theme.crop_colors.%s)", style.Citrus)
	}
	if len(parts) > 3 {
		return fmt.Errorf("key path too deep: %q", keyPath)
	}
	if _, ok := themeKeys[parts[1]]; !ok {
		return fmt.Errorf("unknown theme palette %q; valid palettes: %s", parts[1], sortedKeys(themeKeys))
	}

	name := parts[2]
	switch parts[1] {
	case "crop_colors":
		if !slices.Contains(style.CropOrder, name) {
			return fmt.Errorf("unknown crop %q; valid crops: %s", name, strings.Join(style.CropOrder, ", "))
		}
	case "treatment_colors":
		if _, ok := style.TreatmentByLabel(name); !ok {
			labels := make([]string, len(style.Treatments))
			for i, t := range style.Treatments {
				labels[i] = t.Label
			}
			return fmt.Errorf("unknown treatment %q; valid treatments: %s", name, strings.Join(labels, ", "))
		}
	}
	return nil
}

// configToMap marshals a Config to a map via YAML round-trip.
func configToMap(cfg *Config) (map[string]any, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	if m == nil {
		m = make(map[string]any)
	}
	return m, nil
}

// navigateMap traverses a nested map using a dot-notation key path.
func navigateMap(m map[string]any, keyPath string) (any, error) {
	parts := strings.Split(keyPath, ".")
	var current any = m
	for _, part := range parts {
		cm, ok := current.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("key %q: parent is not a map", part)
		}
		val, exists := cm[part]
		if !exists {
			return nil, fmt.Errorf("key %q not found", keyPath)
		}
		current = val
	}
	return current, nil
}

// coerceValue parses a string into bool, int, float64, or keeps it as string.
func coerceValue(s string) any {
	if s == "true" {
		return true
	}
	if s == "false" {
		return false
	}
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		// Only use float if it has a decimal point (avoid converting "3" to 3.0).
		if strings.Contains(s, ".") {
			return f
		}
	}
	return s
}

// yamlKeys extracts yaml tag names from a struct type.
func yamlKeys(t reflect.Type) map[string]bool {
	keys := make(map[string]bool)
	for i := range t.NumField() {
		tag := t.Field(i).Tag.Get("yaml")
		if tag == "" || tag == "-" {
			continue
		}
		name := strings.Split(tag, ",")[0]
		if name != "" {
			keys[name] = true
		}
	}
	return keys
}

// sortedKeys returns a comma-separated sorted list of map keys.
func sortedKeys(m map[string]bool) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return strings.Join(keys, ", ")
}
