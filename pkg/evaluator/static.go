package evaluator

import (
	stdctx "context"

	"github.com/Mindburn-Labs/helm-decide/pkg/condition"
	dctx "github.com/Mindburn-Labs/helm-decide/pkg/context"
)

// Static always returns the same Evaluation regardless of context — a
// test double or a default/fallback policy (§4.5).
type Static struct {
	name        string
	contentHash string
	eval        Evaluation
}

// NewStatic builds a Static evaluator. contentHash is a declared
// version string since there is no source document to hash.
func NewStatic(name, contentHash string, eval Evaluation) *Static {
	eval.EvaluatorName = name
	return &Static{name: name, contentHash: contentHash, eval: eval}
}

func (s *Static) Name() string        { return s.name }
func (s *Static) ContentHash() string { return s.contentHash }

func (s *Static) Evaluate(_ stdctx.Context, _ *dctx.Context, _ condition.Enricher) (*Evaluation, bool, *condition.Descriptor, []condition.Descriptor, error) {
	eval := s.eval
	return &eval, true, nil, nil, nil
}
