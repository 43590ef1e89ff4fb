package condition

import (
	"fmt"

	dctx "github.com/Mindburn-Labs/helm-decide/pkg/context"
)

func init() {
	registerFunc("contains_all", func(ectx *EvalContext, field string, value interface{}) bool {
		set, ok := toSet(ectx.Get(field))
		if !ok {
			return false
		}
		want, ok := toInterfaceSlice(value)
		if !ok {
			return false
		}
		for _, w := range want {
			if !setContains(set, w) {
				return false
			}
		}
		return true
	})
	registerFunc("contains_any", func(ectx *EvalContext, field string, value interface{}) bool {
		set, ok := toSet(ectx.Get(field))
		if !ok {
			return false
		}
		want, ok := toInterfaceSlice(value)
		if !ok {
			return false
		}
		for _, w := range want {
			if setContains(set, w) {
				return true
			}
		}
		return false
	})
	registerFunc("intersects", func(ectx *EvalContext, field string, value interface{}) bool {
		set, ok := toSet(ectx.Get(field))
		if !ok {
			return false
		}
		other, ok := toInterfaceSlice(value)
		if !ok {
			return false
		}
		for _, o := range other {
			if setContains(set, o) {
				return true
			}
		}
		return false
	})
	registerFunc("subset_of", func(ectx *EvalContext, field string, value interface{}) bool {
		fieldSet, ok := toSet(ectx.Get(field))
		if !ok {
			return false
		}
		superset, ok := toInterfaceSlice(value)
		if !ok {
			return false
		}
		superSet, _ := toSet(toDctxList(superset))
		for elem := range fieldSet {
			if _, ok := superSet[elem]; !ok {
				return false
			}
		}
		return true
	})
}

// toSet deduplicates a list-valued context field into a set keyed by a
// stable scalar representation, implementing "set semantics on ordered
// lists; duplicates ignored" (§4.2).
func toSet(v dctx.Value) (map[interface{}]struct{}, bool) {
	list, ok := asList(v)
	if !ok {
		return nil, false
	}
	set := make(map[interface{}]struct{}, len(list))
	for _, elem := range list {
		set[setKey(elem)] = struct{}{}
	}
	return set, true
}

// setKey is an element's set key: scalars key as themselves, lists and
// maps (which cannot be map keys) by their type-tagged printed form.
func setKey(v interface{}) interface{} {
	switch v.(type) {
	case []interface{}, map[string]interface{}:
		return fmt.Sprintf("%T%v", v, v)
	}
	return v
}

func toInterfaceSlice(value interface{}) ([]interface{}, bool) {
	list, ok := value.([]interface{})
	return list, ok
}

func toDctxList(in []interface{}) dctx.Value {
	out := make([]dctx.Value, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}

func setContains(set map[interface{}]struct{}, v interface{}) bool {
	_, ok := set[setKey(v)]
	return ok
}
