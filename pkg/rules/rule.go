// Package rules implements the rule DSL's document model, schema
// validation, canonicalization, and the JSON rule evaluator (§4.3, §4.4).
package rules

import "github.com/Mindburn-Labs/helm-decide/pkg/condition"

// Then is the outcome a matched rule contributes (§3).
type Then struct {
	Decision string                 `json:"decision"`
	Weight   float64                `json:"weight"`
	Reason   string                 `json:"reason"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// Rule is one entry in a Ruleset: an id, a condition tree, and the
// outcome to contribute when the tree evaluates true (§3).
type Rule struct {
	ID   string          `json:"id"`
	If   *condition.Node `json:"if"`
	Then Then            `json:"then"`
}

// Ruleset is a named, versioned, ordered collection of rules (§3).
// Rule evaluation order is document order.
type Ruleset struct {
	Version string `json:"version"`
	Ruleset string `json:"ruleset"`
	Rules   []Rule `json:"rules"`
}
