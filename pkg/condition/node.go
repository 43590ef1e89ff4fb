package condition

import (
	"encoding/json"
	"fmt"
)

// Node is a ConditionNode (§3): either a leaf {field, op, value} or a
// combinator {all:[...]} / {any:[...]}. Exactly one form is populated
// after UnmarshalJSON succeeds.
type Node struct {
	Field string      `json:"field,omitempty"`
	Op    string      `json:"op,omitempty"`
	Value interface{} `json:"value,omitempty"`

	All []*Node `json:"all,omitempty"`
	Any []*Node `json:"any,omitempty"`
}

// IsLeaf reports whether n is a leaf condition rather than a combinator.
func (n *Node) IsLeaf() bool {
	return n.All == nil && n.Any == nil
}

// UnmarshalJSON enforces that a node is exactly one of leaf/all/any —
// ambiguous or empty documents are a ValidationFailure at parse time,
// not a runtime surprise.
func (n *Node) UnmarshalJSON(data []byte) error {
	var raw struct {
		Field string          `json:"field"`
		Op    string          `json:"op"`
		Value json.RawMessage `json:"value"`
		All   json.RawMessage `json:"all"`
		Any   json.RawMessage `json:"any"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	formsPresent := 0
	if raw.All != nil {
		formsPresent++
	}
	if raw.Any != nil {
		formsPresent++
	}
	if raw.Op != "" {
		formsPresent++
	}
	if formsPresent != 1 {
		return fmt.Errorf("condition node must be exactly one of leaf/all/any, got %d forms", formsPresent)
	}

	switch {
	case raw.All != nil:
		var children []*Node
		if err := json.Unmarshal(raw.All, &children); err != nil {
			return fmt.Errorf("all: %w", err)
		}
		n.All = children
	case raw.Any != nil:
		var children []*Node
		if err := json.Unmarshal(raw.Any, &children); err != nil {
			return fmt.Errorf("any: %w", err)
		}
		n.Any = children
	default:
		n.Field = raw.Field
		n.Op = raw.Op
		if raw.Value != nil {
			if err := json.Unmarshal(raw.Value, &n.Value); err != nil {
				return fmt.Errorf("value: %w", err)
			}
		}
	}
	return nil
}

// Evaluate walks the condition tree against ectx. all is a
// short-circuit conjunction (vacuously true when empty); any is a
// short-circuit disjunction (vacuously false when empty); a leaf
// dispatches to its named operator. No node form ever raises — the
// non-fatality contract (§4.2) is enforced at the operator layer.
func (n *Node) Evaluate(ectx *EvalContext) (bool, Descriptor) {
	switch {
	case n.All != nil:
		return evalAll(n.All, ectx)
	case n.Any != nil:
		return evalAny(n.Any, ectx)
	default:
		return evalLeaf(n, ectx)
	}
}

func evalAll(children []*Node, ectx *EvalContext) (bool, Descriptor) {
	if len(children) == 0 {
		return true, combinatorDescriptor("all", true, nil)
	}
	descriptors := make([]Descriptor, 0, len(children))
	result := true
	for _, child := range children {
		pass, desc := child.Evaluate(ectx)
		descriptors = append(descriptors, desc)
		if !pass {
			result = false
			break // short-circuit: remaining children are not evaluated
		}
	}
	return result, combinatorDescriptor("all", result, descriptors)
}

func evalAny(children []*Node, ectx *EvalContext) (bool, Descriptor) {
	if len(children) == 0 {
		return false, combinatorDescriptor("any", false, nil)
	}
	descriptors := make([]Descriptor, 0, len(children))
	result := false
	for _, child := range children {
		pass, desc := child.Evaluate(ectx)
		descriptors = append(descriptors, desc)
		if pass {
			result = true
			break
		}
	}
	return result, combinatorDescriptor("any", result, descriptors)
}

func evalLeaf(n *Node, ectx *EvalContext) (bool, Descriptor) {
	op, ok := Lookup(n.Op)
	if !ok {
		// An unrecognized operator at evaluation time (as opposed to
		// validation time) fails closed: the leaf is false and its
		// descriptor is marked failing; nothing is raised.
		return false, leafDescriptor(n.Field, n.Op, n.Value, false)
	}
	pass := op.Evaluate(ectx, n.Field, n.Value)
	return pass, leafDescriptor(n.Field, n.Op, n.Value, pass)
}
