package agent

import (
	stdctx "context"
	"fmt"
	"time"

	"github.com/Mindburn-Labs/helm-decide/pkg/audit"
	"github.com/Mindburn-Labs/helm-decide/pkg/condition"
	dctx "github.com/Mindburn-Labs/helm-decide/pkg/context"
	"github.com/Mindburn-Labs/helm-decide/pkg/decideerr"
	"github.com/Mindburn-Labs/helm-decide/pkg/evaluator"
	"github.com/Mindburn-Labs/helm-decide/pkg/scoring"
)

// Agent holds an ordered list of Evaluators, a scoring strategy, an
// optional audit sink, and the two optional behaviors described in
// §4.7/§4.8. It holds no per-call mutable state: Evaluators are
// required to be re-entrant, so an Agent is safe to share across
// concurrent callers.
type Agent struct {
	Evaluators          []evaluator.Evaluator
	Strategy            scoring.Strategy
	Sink                audit.Sink
	Strict              bool
	ValidateEvaluations bool
	Enricher            condition.Enricher

	// StampTimestamp controls whether decide() attaches a wall-clock
	// timestamp to the AuditRecord. Off by default: a stamped record's
	// deterministic_hash can never reproduce under strict replay.
	StampTimestamp bool
}

// New builds an Agent. A nil sink is treated as audit.NullSink{}.
func New(evaluators []evaluator.Evaluator, strategy scoring.Strategy, sink audit.Sink) *Agent {
	if sink == nil {
		sink = audit.NullSink{}
	}
	return &Agent{Evaluators: evaluators, Strategy: strategy, Sink: sink}
}

// Decide runs the full pipeline described in §4.7: invoke each
// evaluator in order, score the results, assemble explanations and the
// audit record, freeze and return the Decision, and push it to the
// audit sink.
func (a *Agent) Decide(std stdctx.Context, c *dctx.Context) (*Decision, error) {
	if std == nil {
		std = stdctx.Background()
	}

	var evals []*evaluator.Evaluation
	var because []condition.Descriptor
	var failedConditions []condition.Descriptor
	signatures := make([]audit.Signature, 0, len(a.Evaluators))

	for _, ev := range a.Evaluators {
		signatures = append(signatures, audit.Signature{Name: ev.Name(), ContentHash: ev.ContentHash()})

		eval, matched, attempted, failDesc := a.safeEvaluate(std, c, ev)
		failedConditions = append(failedConditions, attempted...)
		if failDesc != nil {
			failedConditions = append(failedConditions, *failDesc)
			continue
		}
		if eval == nil {
			continue
		}
		if a.ValidateEvaluations && !validEvaluation(eval) {
			failedConditions = append(failedConditions, condition.Descriptor{
				Text: fmt.Sprintf("%s produced an invalid evaluation, dropped", ev.Name()),
				Pass: false,
			})
			continue
		}
		evals = append(evals, eval)
		if matched != nil {
			because = append(because, *matched)
		}
	}

	if len(evals) == 0 && a.Strict {
		return nil, decideerr.NoEvaluations(len(a.Evaluators))
	}

	result := a.Strategy.Score(evals)

	explanations := make([]string, 0, len(evals))
	for _, e := range evals {
		explanations = append(explanations, fmt.Sprintf("[%s] %s", e.EvaluatorName, e.Reason))
	}

	contextHash, err := audit.ContextHash(c.Raw())
	if err != nil {
		return nil, err
	}
	rulesetHash, err := audit.RulesetHash(signatures)
	if err != nil {
		return nil, err
	}

	var timestamp *time.Time
	if a.StampTimestamp {
		now := time.Now().UTC()
		timestamp = &now
	}

	record, err := audit.Build(result.Decision, result.Confidence, explanations, signatures, contextHash, rulesetHash, timestamp)
	if err != nil {
		return nil, err
	}

	decision := &Decision{
		Decision:         result.Decision,
		Confidence:       result.Confidence,
		Explanations:     explanations,
		Evaluations:      evals,
		AuditPayload:     record,
		Because:          because,
		FailedConditions: failedConditions,
	}

	// A sink failure is recorded on the decision, not propagated as
	// Decide's own error: the decision already computed above is the
	// authoritative answer and must reach the caller regardless of
	// whether it could be persisted for audit (§6/§7).
	if err := a.Sink.Record(record); err != nil {
		decision.SinkWarning = decideerr.AuditSink("failed to persist audit record", err)
	}

	return decision, nil
}

// safeEvaluate invokes one evaluator, converting a panic into the
// "<evaluator> failed: <error>" descriptor the agent attaches instead
// of raising (§4.7 step 2).
func (a *Agent) safeEvaluate(std stdctx.Context, c *dctx.Context, ev evaluator.Evaluator) (eval *evaluator.Evaluation, matched *condition.Descriptor, attempted []condition.Descriptor, failure *condition.Descriptor) {
	defer func() {
		if r := recover(); r != nil {
			failure = &condition.Descriptor{
				Text: fmt.Sprintf("%s failed: %v", ev.Name(), r),
				Pass: false,
			}
			eval = nil
		}
	}()

	e, ok, m, att, err := ev.Evaluate(std, c, a.Enricher)
	if err != nil {
		return nil, nil, att, &condition.Descriptor{
			Text: fmt.Sprintf("%s failed: %v", ev.Name(), err),
			Pass: false,
		}
	}
	if !ok {
		return nil, nil, att, nil
	}
	return e, m, att, nil
}

// validEvaluation implements §4.8's optional per-evaluation check.
func validEvaluation(e *evaluator.Evaluation) bool {
	return e.Weight >= 0 && e.Weight <= 1 && e.Decision != "" && e.Reason != "" && e.EvaluatorName != ""
}
