package cel_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dctx "github.com/Mindburn-Labs/helm-decide/pkg/context"
	"github.com/Mindburn-Labs/helm-decide/pkg/evaluator/cel"
)

func TestNew_RejectsInvalidExpression(t *testing.T) {
	_, err := cel.New("broken", "v1", "this is not valid CEL {{{")
	assert.Error(t, err)
}

func TestEvaluator_ReturnsEvaluationOnMatch(t *testing.T) {
	ev, err := cel.New("high-amount", "v1", `context.amount > 1000.0 ? {"decision": "review", "weight": 0.9, "reason": "large amount"} : null`)
	require.NoError(t, err)

	c := dctx.MustNew(map[string]interface{}{"amount": 5000.0})
	eval, ok, desc, _, err := ev.Evaluate(nil, c, nil)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "review", eval.Decision)
	assert.Equal(t, 0.9, eval.Weight)
	assert.True(t, desc.Pass)
}

func TestEvaluator_NullResultIsNonFatalNoMatch(t *testing.T) {
	ev, err := cel.New("high-amount", "v1", `context.amount > 1000.0 ? {"decision": "review", "weight": 0.9} : null`)
	require.NoError(t, err)

	c := dctx.MustNew(map[string]interface{}{"amount": 5.0})
	eval, ok, _, _, err := ev.Evaluate(nil, c, nil)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, eval)
}

func TestEvaluator_NameAndContentHash(t *testing.T) {
	ev, err := cel.New("policy", "v42", `null`)
	require.NoError(t, err)
	assert.Equal(t, "policy", ev.Name())
	assert.Equal(t, "v42", ev.ContentHash())
}
