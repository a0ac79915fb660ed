package helm

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Values represents helm chart values as a map.
type Values map[string]any

// Merge combines multiple Values maps with later maps taking precedence.
// Nested Values are merged recursively.
func Merge(valueMaps ...Values) Values {
	result := make(Values)
	for _, m := range valueMaps {
		result = deepMerge(result, m)
	}
	return result
}

// deepMerge recursively merges src into a copy of dst. Scalar and slice
// values in src replace those in dst; nested maps are merged.
func deepMerge(dst, src Values) Values {
	result := make(Values, len(dst)+len(src))
	for k, v := range dst {
		result[k] = v
	}
	for k, srcVal := range src {
		dstVal, exists := result[k]
		if !exists {
			result[k] = srcVal
			continue
		}
		srcMap, srcIsMap := asValues(srcVal)
		dstMap, dstIsMap := asValues(dstVal)
		if srcIsMap && dstIsMap {
			result[k] = deepMerge(dstMap, srcMap)
		} else {
			result[k] = srcVal
		}
	}
	return result
}

func asValues(v any) (Values, bool) {
	switch m := v.(type) {
	case Values:
		return m, true
	case map[string]any:
		return Values(m), true
	default:
		return nil, false
	}
}

// ToMap converts Values to a plain map[string]interface{} recursively,
// so nested Values types do not confuse the Helm engine.
func (v Values) ToMap() map[string]any {
	result := make(map[string]any, len(v))
	for k, val := range v {
		result[k] = toPlain(val)
	}
	return result
}

func toPlain(v any) any {
	switch val := v.(type) {
	case Values:
		return val.ToMap()
	case map[string]any:
		return Values(val).ToMap()
	case []Values:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = item.ToMap()
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = toPlain(item)
		}
		return out
	default:
		return v
	}
}

// ToYAML converts values to YAML bytes.
func (v Values) ToYAML() ([]byte, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)

	if err := encoder.Encode(v); err != nil {
		return nil, fmt.Errorf("failed to encode values to YAML: %w", err)
	}

	return buf.Bytes(), nil
}

// FromYAML parses YAML bytes into Values.
func FromYAML(data []byte) (Values, error) {
	var values Values
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("failed to parse YAML values: %w", err)
	}
	return values, nil
}
