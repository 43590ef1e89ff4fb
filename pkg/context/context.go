// Package context implements the engine's immutable attribute map
// (spec §4.1): an ordered mapping from dotted attribute paths to
// values, deep-frozen after construction and safe for concurrent
// lookups from any number of decision goroutines.
package context

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Value is the sum type of everything a Context may hold: nil, bool,
// a number (float64 — JSON's own numeric type), string, an ordered
// list, or a nested map. Functions, channels and other opaque handles
// are rejected at construction time, never lazily.
type Value = interface{}

// Absent is the sentinel returned by Get/Lookup when a dotted path
// does not resolve to anything — distinct from an explicit nil/null
// value stored in the context.
var Absent = absentSentinel{}

type absentSentinel struct{}

func (absentSentinel) String() string { return "<absent>" }

// IsAbsent reports whether v is the Absent sentinel.
func IsAbsent(v Value) bool {
	_, ok := v.(absentSentinel)
	return ok
}

// Context is an immutable, deep-frozen attribute map. The zero value
// is not usable; construct with New.
type Context struct {
	root map[string]Value
}

// New validates and deep-freezes raw into an immutable Context.
// Unsupported value kinds (funcs, chans, pointers to non-struct data,
// anything that cannot be represented as a JSON-like value) are
// rejected here rather than discovered lazily during evaluation.
func New(raw map[string]interface{}) (*Context, error) {
	frozen, err := freeze(raw)
	if err != nil {
		return nil, err
	}
	m, ok := frozen.(map[string]Value)
	if !ok {
		return nil, fmt.Errorf("context: root must be a map, got %T", frozen)
	}
	return &Context{root: m}, nil
}

// MustNew panics on invalid input. Intended for tests and static
// evaluator fixtures, never for caller-supplied data.
func MustNew(raw map[string]interface{}) *Context {
	c, err := New(raw)
	if err != nil {
		panic(err)
	}
	return c
}

// freeze recursively validates and deep-copies a raw value tree,
// rejecting any value kind that is not a scalar, list, or map.
func freeze(v interface{}) (Value, error) {
	switch t := v.(type) {
	case nil, bool, string:
		return t, nil
	case int:
		return float64(t), nil
	case int32:
		return float64(t), nil
	case int64:
		return float64(t), nil
	case float32:
		return float64(t), nil
	case float64:
		return t, nil
	case []interface{}:
		out := make([]Value, len(t))
		for i, elem := range t {
			frozen, err := freeze(elem)
			if err != nil {
				return nil, err
			}
			out[i] = frozen
		}
		return out, nil
	case map[string]interface{}:
		out := make(map[string]Value, len(t))
		for k, elem := range t {
			frozen, err := freeze(elem)
			if err != nil {
				return nil, fmt.Errorf("context: field %q: %w", k, err)
			}
			out[k] = frozen
		}
		return out, nil
	default:
		return nil, fmt.Errorf("context: unsupported value kind %T", v)
	}
}

// Get resolves a dotted path against the context. Numeric segments
// index into lists (zero-based); any other segment keys into a map.
// A missing segment anywhere along the path yields Absent, never an
// error — presence/absence is a first-class evaluation outcome, not
// a failure mode.
func (c *Context) Get(path string) Value {
	if c == nil || path == "" {
		return Absent
	}
	segments := strings.Split(path, ".")
	var cur Value = c.root
	for _, seg := range segments {
		switch node := cur.(type) {
		case map[string]Value:
			v, ok := node[seg]
			if !ok {
				return Absent
			}
			cur = v
		case []Value:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(node) {
				return Absent
			}
			cur = node[idx]
		default:
			return Absent
		}
	}
	return cur
}

// With returns a new Context equal to c but with the side-context
// fields overlaid at the top level — used by the enrichment operator
// (§4.13) to populate derived fields for subsequent conditions in the
// same rule without mutating the original context.
func (c *Context) With(overlay map[string]Value) *Context {
	merged := make(map[string]Value, len(c.root)+len(overlay))
	for k, v := range c.root {
		merged[k] = v
	}
	for k, v := range overlay {
		merged[k] = v
	}
	return &Context{root: merged}
}

// Raw returns a deep-read-only projection of the full attribute map,
// suitable for hashing (canonicalize.ContextBytes/ContextHash) or for
// handing to a custom/CEL evaluator. Callers must not mutate the
// returned structure.
func (c *Context) Raw() map[string]Value {
	return c.root
}

// Keys returns the top-level attribute names in sorted order, for
// deterministic iteration (e.g. when building context_hash inputs).
func (c *Context) Keys() []string {
	keys := make([]string, 0, len(c.root))
	for k := range c.root {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
