package rules

import (
	stdctx "context"

	"github.com/Mindburn-Labs/helm-decide/pkg/condition"
	dctx "github.com/Mindburn-Labs/helm-decide/pkg/context"
	"github.com/Mindburn-Labs/helm-decide/pkg/evaluator"
)

// JSONEvaluator holds one validated, canonicalized Ruleset and
// implements evaluator.Evaluator per §4.4: it scans rules in document
// order and stops at the first match, producing at most one
// Evaluation.
type JSONEvaluator struct {
	doc *Document
}

// NewJSONEvaluator wraps a parsed Document as an Evaluator. The
// evaluator's Name() is the ruleset's namespace, ContentHash() is the
// document's canonical-source hash.
func NewJSONEvaluator(doc *Document) *JSONEvaluator {
	return &JSONEvaluator{doc: doc}
}

func (j *JSONEvaluator) Name() string        { return j.doc.Ruleset.Ruleset }
func (j *JSONEvaluator) ContentHash() string { return j.doc.ContentHash }

func (j *JSONEvaluator) Evaluate(std stdctx.Context, c *dctx.Context, enricher condition.Enricher) (*evaluator.Evaluation, bool, *condition.Descriptor, []condition.Descriptor, error) {
	ectx := condition.NewEvalContext(std, c, enricher)

	attempted := make([]condition.Descriptor, 0, len(j.doc.Ruleset.Rules))
	for _, rule := range j.doc.Ruleset.Rules {
		pass, desc := rule.If.Evaluate(ectx)
		attempted = append(attempted, desc)
		if !pass {
			continue
		}

		eval := &evaluator.Evaluation{
			Decision:      rule.Then.Decision,
			Weight:        rule.Then.Weight,
			Reason:        rule.Then.Reason,
			EvaluatorName: j.Name(),
			Metadata:      rule.Then.Metadata,
		}
		matched := desc
		// attempted excludes the matched rule's own descriptor per
		// §4.4's failed_conditions contract (it is returned separately
		// as matched).
		return eval, true, &matched, attempted[:len(attempted)-1], nil
	}

	return nil, false, nil, attempted, nil
}
