// Package scoring implements the strategies that combine a list of
// Evaluations into a single (decision, confidence) pair (§4.6).
package scoring

import (
	"math"

	"github.com/Mindburn-Labs/helm-decide/pkg/evaluator"
)

// Result is the scoring strategy's output.
type Result struct {
	Decision   string
	Confidence float64
}

// Strategy combines a (possibly empty) ordered list of Evaluations
// into a Result. Ties are resolved by first-seen order in evals.
type Strategy interface {
	Score(evals []*evaluator.Evaluation) Result
}

func round4(f float64) float64 {
	return math.Round(f*10000) / 10000
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// group buckets evals by decision, preserving first-seen order of the
// decision keys so ties resolve deterministically.
func group(evals []*evaluator.Evaluation) (order []string, byDecision map[string][]*evaluator.Evaluation) {
	byDecision = make(map[string][]*evaluator.Evaluation)
	for _, e := range evals {
		if _, ok := byDecision[e.Decision]; !ok {
			order = append(order, e.Decision)
		}
		byDecision[e.Decision] = append(byDecision[e.Decision], e)
	}
	return order, byDecision
}

func sumWeight(evals []*evaluator.Evaluation) float64 {
	total := 0.0
	for _, e := range evals {
		total += e.Weight
	}
	return total
}

func avgWeight(evals []*evaluator.Evaluation) float64 {
	if len(evals) == 0 {
		return 0
	}
	return sumWeight(evals) / float64(len(evals))
}
