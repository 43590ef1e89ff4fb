package condition

import (
	"encoding/json"
	"regexp"
)

var templatePlaceholder = regexp.MustCompile(`\{\{\s*([a-zA-Z0-9_.]+)\s*\}\}`)

func init() {
	registerFunc("fetch_from_api", func(ectx *EvalContext, field string, value interface{}) bool {
		if ectx.Enricher == nil {
			return false
		}
		endpoint, ok := stringField(value, "endpoint")
		if !ok {
			return false
		}
		rawParams, _ := value.(map[string]interface{})
		params := expandParams(ectx, rawParams["params"])

		ok, fields, err := ectx.Enricher.Fetch(ectx.Std, endpoint, params)
		if err != nil || !ok {
			return false
		}
		ectx.Merge(fields)

		then, hasThen := rawParams["then"]
		if !hasThen {
			return true
		}
		node, nerr := nodeFromRaw(then)
		if nerr != nil {
			return false
		}
		pass, _ := node.Evaluate(ectx)
		return pass
	})
}

// nodeFromRaw builds a Node from an already-decoded JSON value (the
// "then" sub-condition nested under a fetch_from_api leaf) by
// round-tripping it through the encoding used for top-level rule
// documents, so it shares all of Node's validation.
func nodeFromRaw(raw interface{}) (*Node, error) {
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	var node Node
	if err := json.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	return &node, nil
}

// expandParams substitutes {{dotted.path}} placeholders in every string
// leaf of the params template against the effective context, producing
// the literal parameter map sent to the enrichment endpoint (§4.13).
func expandParams(ectx *EvalContext, raw interface{}) map[string]interface{} {
	m, ok := raw.(map[string]interface{})
	if !ok {
		return map[string]interface{}{}
	}
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = expandValue(ectx, v)
	}
	return out
}

func expandValue(ectx *EvalContext, v interface{}) interface{} {
	switch t := v.(type) {
	case string:
		if !templatePlaceholder.MatchString(t) {
			return t
		}
		return templatePlaceholder.ReplaceAllStringFunc(t, func(match string) string {
			sub := templatePlaceholder.FindStringSubmatch(match)
			resolved := ectx.Get(sub[1])
			s, ok := asString(resolved)
			if !ok {
				return ""
			}
			return s
		})
	case map[string]interface{}:
		return expandParams(ectx, t)
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, e := range t {
			out[i] = expandValue(ectx, e)
		}
		return out
	default:
		return v
	}
}
