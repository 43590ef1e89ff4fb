// Package evaluator defines the Evaluator abstraction (§4.5): anything
// that, given a context, produces zero-or-one Evaluation. Static,
// JSON-rule, DMN, and custom (CEL-backed) implementations all satisfy
// this one interface so the agent can run them uniformly.
package evaluator

import (
	stdctx "context"

	"github.com/Mindburn-Labs/helm-decide/pkg/condition"
	dctx "github.com/Mindburn-Labs/helm-decide/pkg/context"
)

// Evaluation is the verdict of a single evaluator for one context
// (§3). Immutable once produced.
type Evaluation struct {
	Decision      string                 `json:"decision"`
	Weight        float64                `json:"weight"`
	Reason        string                 `json:"reason"`
	EvaluatorName string                 `json:"evaluator_name"`
	Metadata      map[string]interface{} `json:"metadata,omitempty"`
}

// Evaluator is anything that can produce zero-or-one Evaluation for a
// context, along with the condition descriptors that explain why it
// matched (or didn't). ok is false when the evaluator has nothing to
// say about this context — not an error.
type Evaluator interface {
	// Name is the evaluator's stable identity, carried into the
	// Evaluation and the AuditRecord's evaluator_signatures.
	Name() string

	// ContentHash is a stable hash of the evaluator's source (JSON/DMN:
	// hash of canonical source; custom: a declared version string),
	// participating in the AuditRecord (§4.5).
	ContentHash() string

	// Evaluate runs the evaluator against ectx. matched is the
	// condition descriptor tree that produced eval when ok is true;
	// attempted carries the descriptors of any rules tried before a
	// match (or all of them, if none matched) for failed_conditions.
	Evaluate(std stdctx.Context, c *dctx.Context, enricher condition.Enricher) (eval *Evaluation, ok bool, matched *condition.Descriptor, attempted []condition.Descriptor, err error)
}
