package scoring

import "github.com/Mindburn-Labs/helm-decide/pkg/evaluator"

// MaxWeight picks the single evaluation with the greatest weight;
// confidence is that evaluation's weight. Ties resolve by first-seen
// order.
type MaxWeight struct{}

func (MaxWeight) Score(evals []*evaluator.Evaluation) Result {
	if len(evals) == 0 {
		return Result{Decision: "", Confidence: 0}
	}

	best := evals[0]
	for _, e := range evals[1:] {
		if e.Weight > best.Weight {
			best = e
		}
	}
	return Result{Decision: best.Decision, Confidence: clamp01(round4(best.Weight))}
}
