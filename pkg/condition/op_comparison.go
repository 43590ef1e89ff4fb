package condition

import (
	dctx "github.com/Mindburn-Labs/helm-decide/pkg/context"
)

func init() {
	registerFunc("eq", func(ectx *EvalContext, field string, value interface{}) bool {
		return compareTyped(ectx.Get(field), value) == 0
	})
	registerFunc("ne", func(ectx *EvalContext, field string, value interface{}) bool {
		return compareTyped(ectx.Get(field), value) != 0
	})
	registerFunc("lt", func(ectx *EvalContext, field string, value interface{}) bool {
		return compareTyped(ectx.Get(field), value) == -2
	})
	registerFunc("lte", func(ectx *EvalContext, field string, value interface{}) bool {
		c := compareTyped(ectx.Get(field), value)
		return c == -2 || c == 0
	})
	registerFunc("gt", func(ectx *EvalContext, field string, value interface{}) bool {
		return compareTyped(ectx.Get(field), value) == 2
	})
	registerFunc("gte", func(ectx *EvalContext, field string, value interface{}) bool {
		c := compareTyped(ectx.Get(field), value)
		return c == 2 || c == 0
	})
}

// compareTyped performs the §4.2 "strict typed comparison": if both
// sides are numeric, compare numerically; if both are strings, compare
// lexicographically; if both are bool, only equality is meaningful.
// Mismatched, non-numeric types never coerce and compare unequal.
// Returns -2/0/2 for less/equal/greater, or 1 as a sentinel "unequal,
// unordered" result (used only by eq/ne).
func compareTyped(a dctx.Value, b interface{}) int {
	if dctx.IsAbsent(a) {
		return 1
	}
	if af, aok := asFloat(a); aok {
		if bf, bok := toFloat(b); bok {
			switch {
			case af < bf:
				return -2
			case af > bf:
				return 2
			default:
				return 0
			}
		}
		return 1
	}
	if as, aok := asString(a); aok {
		if bs, bok := b.(string); bok {
			switch {
			case as < bs:
				return -2
			case as > bs:
				return 2
			default:
				return 0
			}
		}
		return 1
	}
	if ab, aok := a.(bool); aok {
		if bb, bok := b.(bool); bok {
			if ab == bb {
				return 0
			}
		}
		return 1
	}
	// Both-null case and any other structurally-equal comparison
	// (lists/maps) fall back to deep equality for eq/ne only.
	if deepEqual(a, b) {
		return 0
	}
	return 1
}

func deepEqual(a dctx.Value, b interface{}) bool {
	switch at := a.(type) {
	case nil:
		return b == nil
	case []dctx.Value:
		bl, ok := b.([]interface{})
		if !ok || len(bl) != len(at) {
			return false
		}
		for i := range at {
			if !deepEqual(at[i], bl[i]) {
				return false
			}
		}
		return true
	case map[string]dctx.Value:
		bm, ok := b.(map[string]interface{})
		if !ok || len(bm) != len(at) {
			return false
		}
		for k, v := range at {
			bv, ok := bm[k]
			if !ok || !deepEqual(v, bv) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}
