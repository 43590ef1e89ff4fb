// Package schema implements the rule document's structural validation
// pass (§4.3): required keys, rule id uniqueness, operator recognition,
// and all/any payload shape — each failure carrying a JSON-path-like
// pointer (e.g. "rules[3].if.all[1].op") and a reason.
package schema

import (
	"encoding/json"
	"fmt"

	"github.com/Mindburn-Labs/helm-decide/pkg/condition"
	"github.com/Mindburn-Labs/helm-decide/pkg/decideerr"
)

// Validate runs the structural checks over a raw rule document and
// returns every violation found (not just the first), so a caller can
// report them all at once.
func Validate(data []byte) []*decideerr.Error {
	var doc map[string]interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return []*decideerr.Error{decideerr.Validation("", fmt.Sprintf("invalid JSON: %v", err))}
	}

	var errs []*decideerr.Error

	if err := ValidateEnvelope(doc); err != nil {
		errs = append(errs, decideerr.Validation("", fmt.Sprintf("envelope schema: %v", err)))
	}

	for _, key := range []string{"version", "ruleset", "rules"} {
		if _, ok := doc[key]; !ok {
			errs = append(errs, decideerr.Validation(key, "required key missing"))
		}
	}

	rawRules, ok := doc["rules"].([]interface{})
	if !ok {
		if _, present := doc["rules"]; present {
			errs = append(errs, decideerr.Validation("rules", "must be a list"))
		}
		return errs
	}
	if len(rawRules) == 0 {
		errs = append(errs, decideerr.Validation("rules", "must contain at least one rule"))
	}

	seenIDs := make(map[string]bool, len(rawRules))
	for i, rr := range rawRules {
		path := fmt.Sprintf("rules[%d]", i)
		rule, ok := rr.(map[string]interface{})
		if !ok {
			errs = append(errs, decideerr.Validation(path, "rule must be an object"))
			continue
		}

		id, _ := rule["id"].(string)
		if id == "" {
			errs = append(errs, decideerr.Validation(path+".id", "rule id must be a non-empty string"))
		} else if seenIDs[id] {
			errs = append(errs, decideerr.Validation(path+".id", fmt.Sprintf("duplicate rule id %q", id)))
		} else {
			seenIDs[id] = true
		}

		ifNode, ok := rule["if"]
		if !ok {
			errs = append(errs, decideerr.Validation(path+".if", "rule must have an if condition"))
		} else {
			errs = append(errs, validateNode(path+".if", ifNode)...)
		}

		then, ok := rule["then"].(map[string]interface{})
		if !ok {
			errs = append(errs, decideerr.Validation(path+".then", "rule must have a then object"))
		} else {
			if _, ok := then["decision"].(string); !ok {
				errs = append(errs, decideerr.Validation(path+".then.decision", "decision must be a string"))
			}
			if w, ok := then["weight"]; ok {
				if f, ok := w.(float64); !ok || f < 0 || f > 1 {
					errs = append(errs, decideerr.Validation(path+".then.weight", "weight must be a number in [0,1]"))
				}
			}
		}
	}

	return errs
}

// validateNode recursively checks one ConditionNode payload: exactly
// one of all/any/op, all/any payloads must be lists, and a leaf's op
// must be a registered operator name.
func validateNode(path string, raw interface{}) []*decideerr.Error {
	node, ok := raw.(map[string]interface{})
	if !ok {
		return []*decideerr.Error{decideerr.Validation(path, "condition node must be an object")}
	}

	_, hasAll := node["all"]
	_, hasAny := node["any"]
	_, hasOp := node["op"]

	formsPresent := 0
	for _, present := range []bool{hasAll, hasAny, hasOp} {
		if present {
			formsPresent++
		}
	}
	if formsPresent != 1 {
		return []*decideerr.Error{decideerr.Validation(path, fmt.Sprintf("condition node must be exactly one of leaf/all/any, got %d forms", formsPresent))}
	}

	var errs []*decideerr.Error

	switch {
	case hasAll:
		errs = append(errs, validateChildren(path+".all", node["all"])...)
	case hasAny:
		errs = append(errs, validateChildren(path+".any", node["any"])...)
	default:
		op, _ := node["op"].(string)
		if op == "" {
			errs = append(errs, decideerr.Validation(path+".op", "op must be a non-empty string"))
		} else if _, known := condition.Lookup(op); !known {
			errs = append(errs, decideerr.Validation(path+".op", fmt.Sprintf("unrecognized operator %q", op)))
		}
		if _, hasField := node["field"]; !hasField {
			errs = append(errs, decideerr.Validation(path+".field", "leaf condition must declare field"))
		}
		if _, hasValue := node["value"]; !hasValue {
			errs = append(errs, decideerr.Validation(path+".value", "leaf condition must declare value"))
		}
	}

	return errs
}

func validateChildren(path string, raw interface{}) []*decideerr.Error {
	list, ok := raw.([]interface{})
	if !ok {
		return []*decideerr.Error{decideerr.Validation(path, "all/any payload must be a list")}
	}
	var errs []*decideerr.Error
	for i, child := range list {
		errs = append(errs, validateNode(fmt.Sprintf("%s[%d]", path, i), child)...)
	}
	return errs
}
