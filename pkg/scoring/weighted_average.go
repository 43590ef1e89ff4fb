package scoring

import "github.com/Mindburn-Labs/helm-decide/pkg/evaluator"

// WeightedAverage groups by decision; the decision whose summed weight
// is largest wins. Confidence is winning_weight / total_weight,
// clamped to [0,1] and rounded to 4 decimals.
type WeightedAverage struct{}

func (WeightedAverage) Score(evals []*evaluator.Evaluation) Result {
	if len(evals) == 0 {
		return Result{Decision: "", Confidence: 0}
	}

	order, byDecision := group(evals)
	total := sumWeight(evals)

	bestDecision := order[0]
	bestWeight := sumWeight(byDecision[order[0]])
	for _, d := range order[1:] {
		w := sumWeight(byDecision[d])
		if w > bestWeight {
			bestDecision = d
			bestWeight = w
		}
	}

	confidence := 0.0
	if total > 0 {
		confidence = round4(clamp01(bestWeight / total))
	}
	return Result{Decision: bestDecision, Confidence: confidence}
}
