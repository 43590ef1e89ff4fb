package dmneval_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dctx "github.com/Mindburn-Labs/helm-decide/pkg/context"
	"github.com/Mindburn-Labs/helm-decide/pkg/dmn"
	"github.com/Mindburn-Labs/helm-decide/pkg/evaluator/dmneval"
)

func graph(hitPolicy dmn.HitPolicy) *dmn.Graph {
	return &dmn.Graph{
		Order: []string{"fraud-check"},
		Decisions: map[string]*dmn.Decision{
			"fraud-check": {
				ID:   "fraud-check",
				Name: "fraud-check",
				Table: &dmn.Table{
					HitPolicy: hitPolicy,
					Inputs:    []dmn.InputClause{{Label: "amount", Expression: "amount"}},
					Outputs:   []dmn.OutputClause{{Name: "decision"}, {Name: "weight"}, {Name: "reason"}},
					Rules: []dmn.RuleRow{
						{ID: "r1", InputEntries: []string{"> 1000"}, OutputEntries: []string{`"review"`, "0.9", `"large amount"`}},
						{ID: "r2", InputEntries: []string{"-"}, OutputEntries: []string{`"approve"`, "0.5", `"default"`}},
					},
				},
			},
		},
	}
}

func TestNew_RejectsUnknownTopLevelDecision(t *testing.T) {
	_, err := dmneval.New("fraud", graph(dmn.HitFirst), "missing")
	assert.Error(t, err)
}

func TestNew_ComputesStableContentHash(t *testing.T) {
	ev1, err := dmneval.New("fraud", graph(dmn.HitFirst), "fraud-check")
	require.NoError(t, err)
	ev2, err := dmneval.New("fraud", graph(dmn.HitFirst), "fraud-check")
	require.NoError(t, err)

	assert.Equal(t, ev1.ContentHash(), ev2.ContentHash())
	assert.NotEmpty(t, ev1.ContentHash())
}

func TestEvaluate_ProducesDecisionFromTopLevelTable(t *testing.T) {
	ev, err := dmneval.New("fraud", graph(dmn.HitFirst), "fraud-check")
	require.NoError(t, err)

	c := dctx.MustNew(map[string]interface{}{"amount": 5000.0})
	eval, ok, desc, _, err := ev.Evaluate(nil, c, nil)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "review", eval.Decision)
	assert.Equal(t, 0.9, eval.Weight)
	assert.True(t, desc.Pass)
}

func TestEvaluate_HitPolicyViolationPropagatesAsError(t *testing.T) {
	g := graph(dmn.HitUnique)
	// Make both rows match so UNIQUE sees two overlapping matches.
	g.Decisions["fraud-check"].Table.Rules[1].InputEntries = []string{"> 1000"}

	ev, err := dmneval.New("fraud", g, "fraud-check")
	require.NoError(t, err)

	c := dctx.MustNew(map[string]interface{}{"amount": 5000.0})
	_, _, _, _, err = ev.Evaluate(nil, c, nil)
	assert.Error(t, err, "a genuine hit-policy conflict must propagate, not be swallowed as no-match")
}
