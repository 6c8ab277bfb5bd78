package goshape

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// LoadYAML decodes a single YAML document and loads the result. YAML maps
// with non-string keys are rejected before validation since the shape
// model only knows string-keyed objects.
func (s *Serializer[T]) LoadYAML(data []byte) (T, error) {
	var zero T
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return zero, parseError(err)
	}
	nv, err := yamlNormalize(v)
	if err != nil {
		return zero, parseError(err)
	}
	return s.Load(nv)
}

// yamlNormalize rewrites YAML-decoded values into the JSON-like shape the
// validator consumes.
func yamlNormalize(v any) (any, error) {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			nv, err := yamlNormalize(vv)
			if err != nil {
				return nil, err
			}
			out[k] = nv
		}
		return out, nil
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			ks, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("YAML mapping key %v is not a string", k)
			}
			nv, err := yamlNormalize(vv)
			if err != nil {
				return nil, err
			}
			out[ks] = nv
		}
		return out, nil
	case []any:
		out := make([]any, len(t))
		for i, vv := range t {
			nv, err := yamlNormalize(vv)
			if err != nil {
				return nil, err
			}
			out[i] = nv
		}
		return out, nil
	default:
		return v, nil
	}
}
