package evaluator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dctx "github.com/Mindburn-Labs/helm-decide/pkg/context"
	"github.com/Mindburn-Labs/helm-decide/pkg/evaluator"
)

func TestStatic_NameAndContentHash(t *testing.T) {
	s := evaluator.NewStatic("policy", "v1", evaluator.Evaluation{Decision: "approve", Weight: 1, Reason: "default"})
	assert.Equal(t, "policy", s.Name())
	assert.Equal(t, "v1", s.ContentHash())
}

func TestStatic_EvaluateAlwaysMatchesRegardlessOfContext(t *testing.T) {
	s := evaluator.NewStatic("policy", "v1", evaluator.Evaluation{Decision: "approve", Weight: 1, Reason: "default"})
	c := dctx.MustNew(map[string]interface{}{"amount": 999999.0})

	eval, ok, matched, attempted, err := s.Evaluate(nil, c, nil)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "approve", eval.Decision)
	assert.Equal(t, "policy", eval.EvaluatorName)
	assert.Nil(t, matched)
	assert.Nil(t, attempted)
}

func TestStatic_EvaluationIsCopiedNotAliased(t *testing.T) {
	s := evaluator.NewStatic("policy", "v1", evaluator.Evaluation{Decision: "approve", Weight: 1, Reason: "default"})

	first, _, _, _, _ := s.Evaluate(nil, nil, nil)
	first.Decision = "mutated"

	second, _, _, _, _ := s.Evaluate(nil, nil, nil)
	assert.Equal(t, "approve", second.Decision, "each Evaluate call must return an independent copy")
}
