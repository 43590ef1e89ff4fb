package rules

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/Mindburn-Labs/helm-decide/pkg/decideerr"
)

// ParseYAML accepts a ruleset authored in YAML, normalizes it to the
// canonical JSON form, and validates/parses it exactly as Parse does.
// Authoring in YAML is a convenience only — the stored and hashed
// representation downstream is always the canonical JSON from Parse.
func ParseYAML(data []byte) (*Document, []*decideerr.Error) {
	var raw interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, []*decideerr.Error{decideerr.Validation("", fmt.Sprintf("yaml decode: %v", err))}
	}

	jsonCompatible := convertYAMLMaps(raw)
	jsonData, err := json.Marshal(jsonCompatible)
	if err != nil {
		return nil, []*decideerr.Error{decideerr.Validation("", fmt.Sprintf("yaml->json: %v", err))}
	}

	return Parse(jsonData)
}

// convertYAMLMaps recursively rewrites map[string]interface{} (yaml.v3's
// default map decoding target, already string-keyed) so nested structures
// survive json.Marshal unchanged; yaml.v3 can also surface
// map[interface{}]interface{} in some decode paths, which json.Marshal
// rejects outright.
func convertYAMLMaps(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, val := range t {
			out[k] = convertYAMLMaps(val)
		}
		return out
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = convertYAMLMaps(val)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, val := range t {
			out[i] = convertYAMLMaps(val)
		}
		return out
	default:
		return t
	}
}
