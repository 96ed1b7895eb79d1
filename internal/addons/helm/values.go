package helm

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
	sigsyaml "sigs.k8s.io/yaml"
)

// Values represents helm chart values as a map.
type Values map[string]any

// Merge deep-merges value maps, later maps taking precedence.
func Merge(valueMaps ...Values) Values {
	result := make(Values)
	for _, m := range valueMaps {
		result = deepMerge(result, m)
	}
	return result
}

// deepMerge returns base overlaid with override. Nested maps are merged
// recursively; any other override value replaces the base value.
func deepMerge(base, override Values) Values {
	out := make(Values, len(base)+len(override))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range override {
		overrideMap, ok := asValues(v)
		if !ok {
			out[k] = v
			continue
		}
		if baseMap, ok := asValues(out[k]); ok {
			out[k] = deepMerge(baseMap, overrideMap)
			continue
		}
		out[k] = deepMerge(nil, overrideMap)
	}
	return out
}

func asValues(v any) (Values, bool) {
	switch m := v.(type) {
	case Values:
		return m, true
	case map[string]any:
		return Values(m), true
	}
	return nil, false
}

// ToMap converts Values, including nested Values, to plain maps as the Helm
// engine expects.
func (v Values) ToMap() map[string]any {
	out := make(map[string]any, len(v))
	for k, val := range v {
		out[k] = toPlain(val)
	}
	return out
}

func toPlain(v any) any {
	switch t := v.(type) {
	case Values:
		return t.ToMap()
	case map[string]any:
		return Values(t).ToMap()
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = toPlain(item)
		}
		return out
	}
	return v
}

// ToYAML converts values to YAML bytes.
func (v Values) ToYAML() ([]byte, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)

	if err := encoder.Encode(v.ToMap()); err != nil {
		return nil, fmt.Errorf("failed to encode values to YAML: %w", err)
	}
	return buf.Bytes(), nil
}

// FromYAML parses YAML bytes into Values. Values are decoded through JSON so
// numbers and maps have the types Helm templates see.
func FromYAML(data []byte) (Values, error) {
	var values Values
	if err := sigsyaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("failed to parse YAML values: %w", err)
	}
	if values == nil {
		values = make(Values)
	}
	return values, nil
}

// LoadValuesFiles reads and merges values files in order.
func LoadValuesFiles(paths ...string) (Values, error) {
	merged := make(Values)
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read values file: %w", err)
		}
		values, err := FromYAML(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		merged = deepMerge(merged, values)
	}
	return merged, nil
}
