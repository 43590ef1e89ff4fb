package condition

import (
	"encoding/json"
	"time"

	dctx "github.com/Mindburn-Labs/helm-decide/pkg/context"
)

// asFloat attempts a strict numeric coercion. Only true numeric kinds
// (float64, int-likes normalized by context.freeze to float64) convert;
// anything else (including numeric strings) fails, matching the "never
// coerces" rule for comparison operators.
func asFloat(v dctx.Value) (float64, bool) {
	f, ok := v.(float64)
	return f, ok
}

// asString returns v as a string and whether v was actually a string.
func asString(v dctx.Value) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// asList returns v as a slice of context values, or nil/false if v is
// not a list.
func asList(v dctx.Value) ([]dctx.Value, bool) {
	l, ok := v.([]dctx.Value)
	return l, ok
}

// asMap returns v as a context map, or nil/false if v is not a map.
func asMap(v dctx.Value) (map[string]dctx.Value, bool) {
	m, ok := v.(map[string]dctx.Value)
	return m, ok
}

// asFloatList converts a list field to []float64; non-numeric elements
// are dropped silently per the non-fatality contract — the aggregation
// operators then operate on whatever numeric elements remain.
func asFloatList(v dctx.Value) ([]float64, bool) {
	list, ok := asList(v)
	if !ok {
		return nil, false
	}
	out := make([]float64, 0, len(list))
	for _, elem := range list {
		if f, ok := asFloat(elem); ok {
			out = append(out, f)
		}
	}
	return out, true
}

// parseTime accepts an ISO-8601 string (or a float64 unix-seconds
// timestamp) and returns the corresponding time.Time at second
// resolution, per §4.2's temporal operator contract.
func parseTime(v dctx.Value) (time.Time, bool) {
	switch t := v.(type) {
	case string:
		for _, layout := range []string{
			time.RFC3339,
			"2006-01-02T15:04:05",
			"2006-01-02",
		} {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed.UTC().Truncate(time.Second), true
			}
		}
		return time.Time{}, false
	case float64:
		return time.Unix(int64(t), 0).UTC(), true
	default:
		return time.Time{}, false
	}
}

// resolveTarget resolves a temporal-arithmetic "target": a literal
// time string, the literal "now", or a dotted path into the effective
// context (§4.2 temporal arithmetic).
func resolveTarget(ectx *EvalContext, target interface{}, now time.Time) (time.Time, bool) {
	s, ok := target.(string)
	if !ok {
		return time.Time{}, false
	}
	if s == "now" {
		return now, true
	}
	if t, ok := parseTime(s); ok {
		return t, true
	}
	return parseTime(ectx.Get(s))
}

// mapValue reads a key out of a JSON-decoded value map (operator
// `value` payloads use map[string]interface{}, not context.Value,
// since they come straight off the rule document).
func mapValue(value interface{}, key string) (interface{}, bool) {
	m, ok := value.(map[string]interface{})
	if !ok {
		return nil, false
	}
	v, ok := m[key]
	return v, ok
}

func numericField(value interface{}, key string) (float64, bool) {
	v, ok := mapValue(value, key)
	if !ok {
		return 0, false
	}
	return toFloat(v)
}

func toFloat(v interface{}) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func stringField(value interface{}, key string) (string, bool) {
	v, ok := mapValue(value, key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}
