package scoring

import "github.com/Mindburn-Labs/helm-decide/pkg/evaluator"

// Threshold picks the decision with the highest average weight; if
// that weight is at least Tau, it wins outright. Otherwise the
// configured Fallback decision is output with half that weight.
// Unlike the other strategies, an empty evaluation list still yields
// Fallback (confidence 0), never a null decision.
type Threshold struct {
	Tau      float64
	Fallback string
}

func (t Threshold) Score(evals []*evaluator.Evaluation) Result {
	if len(evals) == 0 {
		return Result{Decision: t.Fallback, Confidence: 0}
	}

	order, byDecision := group(evals)
	bestDecision := order[0]
	bestAvgWeight := avgWeight(byDecision[order[0]])
	for _, d := range order[1:] {
		avg := avgWeight(byDecision[d])
		if avg > bestAvgWeight {
			bestDecision = d
			bestAvgWeight = avg
		}
	}

	if bestAvgWeight >= t.Tau {
		return Result{Decision: bestDecision, Confidence: round4(clamp01(bestAvgWeight))}
	}
	return Result{Decision: t.Fallback, Confidence: round4(clamp01(bestAvgWeight / 2))}
}
