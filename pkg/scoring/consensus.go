package scoring

import "github.com/Mindburn-Labs/helm-decide/pkg/evaluator"

// Consensus groups by decision; the decision with the highest
// agreement (count/total) wins, ties broken by highest average
// weight. If the winning agreement is below MinAgreement, confidence
// is halved.
type Consensus struct {
	MinAgreement float64
}

func (c Consensus) Score(evals []*evaluator.Evaluation) Result {
	if len(evals) == 0 {
		return Result{Decision: "", Confidence: 0}
	}

	order, byDecision := group(evals)
	total := float64(len(evals))

	bestDecision := order[0]
	bestAgreement := float64(len(byDecision[order[0]])) / total
	bestAvgWeight := avgWeight(byDecision[order[0]])

	for _, d := range order[1:] {
		agreement := float64(len(byDecision[d])) / total
		avg := avgWeight(byDecision[d])
		if agreement > bestAgreement || (agreement == bestAgreement && avg > bestAvgWeight) {
			bestDecision = d
			bestAgreement = agreement
			bestAvgWeight = avg
		}
	}

	confidence := clamp01(bestAgreement * bestAvgWeight)
	if bestAgreement < c.MinAgreement {
		confidence /= 2
	}
	return Result{Decision: bestDecision, Confidence: round4(confidence)}
}
