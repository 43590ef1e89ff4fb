// Package cel implements a Custom evaluator (§4.5) backed by a CEL
// expression: the expression is handed the effective context as the
// `context` variable and must evaluate to either `null` (no
// evaluation for this context) or a map with `decision`, `weight`, and
// optionally `reason`/`metadata`.
//
// Grounded on the teacher's validate→compile→eval pipeline
// (pkg/kernel/celdp.CELDPEvaluator): this package keeps that same
// three-stage shape, generalized from a raw CEL-expression evaluator
// to one that produces a condition-engine Evaluation.
package cel

import (
	stdctx "context"
	"fmt"

	celgo "github.com/google/cel-go/cel"

	"github.com/Mindburn-Labs/helm-decide/pkg/condition"
	dctx "github.com/Mindburn-Labs/helm-decide/pkg/context"
	"github.com/Mindburn-Labs/helm-decide/pkg/decideerr"
	"github.com/Mindburn-Labs/helm-decide/pkg/evaluator"
)

// Evaluator wraps a single compiled CEL program as an
// evaluator.Evaluator. Per §4.5's Custom contract, it must be pure
// with respect to its inputs for replay to hold — it may not read
// wall-clock time, randomness, or external state.
type Evaluator struct {
	name       string
	version    string
	expression string
	program    celgo.Program
}

// New validates and compiles expr, returning an Evaluator ready to run
// against any context. version is the declared content-hash surrogate
// for a custom evaluator (§4.5: "for custom: a declared version string").
func New(name, version, expr string) (*Evaluator, error) {
	env, err := celgo.NewEnv(
		celgo.Variable("context", celgo.MapType(celgo.StringType, celgo.DynType)),
	)
	if err != nil {
		return nil, decideerr.Validation("", fmt.Sprintf("cel: env construction failed: %v", err))
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, decideerr.Validation("", fmt.Sprintf("cel: compile failed: %v", issues.Err()))
	}

	program, err := env.Program(ast)
	if err != nil {
		return nil, decideerr.Validation("", fmt.Sprintf("cel: program construction failed: %v", err))
	}

	return &Evaluator{name: name, version: version, expression: expr, program: program}, nil
}

func (e *Evaluator) Name() string        { return e.name }
func (e *Evaluator) ContentHash() string { return e.version }

func (e *Evaluator) Evaluate(_ stdctx.Context, c *dctx.Context, _ condition.Enricher) (*evaluator.Evaluation, bool, *condition.Descriptor, []condition.Descriptor, error) {
	val, _, err := e.program.Eval(map[string]interface{}{
		"context": c.Raw(),
	})
	if err != nil {
		// A runtime CEL error degrades to "no evaluation" rather than
		// propagating — the non-fatality posture extends to the custom
		// evaluator boundary even though it isn't a condition operator.
		return nil, false, nil, nil, nil
	}

	native := val.Value()
	if native == nil {
		return nil, false, nil, nil, nil
	}

	m, ok := native.(map[string]interface{})
	if !ok {
		return nil, false, nil, nil, decideerr.Validation("", "cel: expression must evaluate to null or a map")
	}

	decision, _ := m["decision"].(string)
	if decision == "" {
		return nil, false, nil, nil, nil
	}
	weight, _ := m["weight"].(float64)
	reason, _ := m["reason"].(string)
	metadata, _ := m["metadata"].(map[string]interface{})

	eval := &evaluator.Evaluation{
		Decision:      decision,
		Weight:        weight,
		Reason:        reason,
		EvaluatorName: e.name,
		Metadata:      metadata,
	}
	desc := condition.Descriptor{Text: fmt.Sprintf("cel(%s) -> %s", e.name, decision), Pass: true}
	return eval, true, &desc, nil, nil
}
