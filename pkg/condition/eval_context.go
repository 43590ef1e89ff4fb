package condition

import (
	stdctx "context"

	dctx "github.com/Mindburn-Labs/helm-decide/pkg/context"
)

// Enricher is the capability the fetch_from_api operator (§4.13) needs
// from its host. Implementations live in pkg/enrich; this package only
// depends on the narrow interface, never the concrete HTTP client, cache,
// or circuit breaker.
type Enricher interface {
	// Fetch resolves a named endpoint with the given (already
	// template-expanded) parameters. ok reports whether the call
	// succeeded and every mapped field was populated; fields are the
	// derived values to merge into the effective context.
	Fetch(std stdctx.Context, endpoint string, params map[string]interface{}) (ok bool, fields map[string]dctx.Value, err error)
}

// EvalContext threads the standard-library context (for enrichment
// timeouts), the optional enricher, and the accumulating side-context
// produced by fetch_from_api through one rule's condition-tree
// evaluation. Fields populated by an earlier sibling leaf are visible to
// later ones, per §4.13.
type EvalContext struct {
	Std      stdctx.Context
	Enricher Enricher

	effective *dctx.Context
}

// NewEvalContext builds an EvalContext rooted at base.
func NewEvalContext(std stdctx.Context, base *dctx.Context, enricher Enricher) *EvalContext {
	if std == nil {
		std = stdctx.Background()
	}
	return &EvalContext{Std: std, Enricher: enricher, effective: base}
}

// Get resolves a dotted path against the effective context (base plus
// any fields enrichment has populated so far).
func (e *EvalContext) Get(path string) dctx.Value {
	return e.effective.Get(path)
}

// Merge overlays newly-derived fields onto the effective context so
// subsequent leaves in the same rule observe them.
func (e *EvalContext) Merge(fields map[string]dctx.Value) {
	if len(fields) == 0 {
		return
	}
	e.effective = e.effective.With(fields)
}

// Effective returns the context as of this point in evaluation,
// including every field enrichment has populated so far — this is what
// participates in the audit record's context_hash (§4.13).
func (e *EvalContext) Effective() *dctx.Context {
	return e.effective
}
