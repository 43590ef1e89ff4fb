package agent_test

import (
	stdctx "context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mindburn-Labs/helm-decide/pkg/agent"
	"github.com/Mindburn-Labs/helm-decide/pkg/audit"
	"github.com/Mindburn-Labs/helm-decide/pkg/condition"
	dctx "github.com/Mindburn-Labs/helm-decide/pkg/context"
	"github.com/Mindburn-Labs/helm-decide/pkg/decideerr"
	"github.com/Mindburn-Labs/helm-decide/pkg/evaluator"
	"github.com/Mindburn-Labs/helm-decide/pkg/scoring"
)

// failingSink always errors, to exercise Decide's sink-failure path.
type failingSink struct{}

func (failingSink) Record(*audit.Record) error { return errors.New("disk full") }

// erroringEvaluator always fails, to exercise safeEvaluate's
// error-to-descriptor conversion.
type erroringEvaluator struct{ name string }

func (e erroringEvaluator) Name() string        { return e.name }
func (e erroringEvaluator) ContentHash() string  { return "v1" }
func (e erroringEvaluator) Evaluate(stdctx.Context, *dctx.Context, condition.Enricher) (*evaluator.Evaluation, bool, *condition.Descriptor, []condition.Descriptor, error) {
	return nil, false, nil, nil, errors.New("boom")
}

// panickingEvaluator panics, to exercise the recover() path.
type panickingEvaluator struct{}

func (panickingEvaluator) Name() string       { return "panicker" }
func (panickingEvaluator) ContentHash() string { return "v1" }
func (panickingEvaluator) Evaluate(stdctx.Context, *dctx.Context, condition.Enricher) (*evaluator.Evaluation, bool, *condition.Descriptor, []condition.Descriptor, error) {
	panic("unexpected")
}

func ctx() *dctx.Context {
	return dctx.MustNew(map[string]interface{}{"amount": 100})
}

func TestAgent_Decide_SingleStaticEvaluator(t *testing.T) {
	ev := evaluator.NewStatic("policy", "v1", evaluator.Evaluation{Decision: "approve", Weight: 0.8, Reason: "static"})
	a := agent.New([]evaluator.Evaluator{ev}, scoring.WeightedAverage{}, nil)

	d, err := a.Decide(nil, ctx())
	require.NoError(t, err)
	assert.Equal(t, "approve", d.Decision)
	assert.Equal(t, 1.0, d.Confidence)
	assert.NotEmpty(t, d.AuditPayload.DeterministicHash)
}

func TestAgent_Decide_StrictModeRaisesOnZeroEvaluations(t *testing.T) {
	ev := erroringEvaluator{name: "broken"}
	a := agent.New([]evaluator.Evaluator{ev}, scoring.WeightedAverage{}, nil)
	a.Strict = true

	_, err := a.Decide(nil, ctx())
	assert.Error(t, err)
}

func TestAgent_Decide_NonStrictToleratesEvaluatorError(t *testing.T) {
	erroring := erroringEvaluator{name: "broken"}
	ok := evaluator.NewStatic("fallback", "v1", evaluator.Evaluation{Decision: "review", Weight: 0.5, Reason: "fallback"})
	a := agent.New([]evaluator.Evaluator{erroring, ok}, scoring.WeightedAverage{}, nil)

	d, err := a.Decide(nil, ctx())
	require.NoError(t, err)
	assert.Equal(t, "review", d.Decision)
	assert.NotEmpty(t, d.FailedConditions)
}

func TestAgent_Decide_PanicIsRecoveredNotRaised(t *testing.T) {
	ok := evaluator.NewStatic("fallback", "v1", evaluator.Evaluation{Decision: "review", Weight: 0.5, Reason: "fallback"})
	a := agent.New([]evaluator.Evaluator{panickingEvaluator{}, ok}, scoring.WeightedAverage{}, nil)

	d, err := a.Decide(nil, ctx())
	require.NoError(t, err)
	assert.Equal(t, "review", d.Decision)
}

func TestAgent_Decide_ValidateEvaluationsDropsInvalid(t *testing.T) {
	invalid := evaluator.NewStatic("invalid", "v1", evaluator.Evaluation{Decision: "x", Weight: 5.0, Reason: "out of range"})
	ok := evaluator.NewStatic("fallback", "v1", evaluator.Evaluation{Decision: "review", Weight: 0.5, Reason: "fallback"})
	a := agent.New([]evaluator.Evaluator{invalid, ok}, scoring.WeightedAverage{}, nil)
	a.ValidateEvaluations = true

	d, err := a.Decide(nil, ctx())
	require.NoError(t, err)
	assert.Equal(t, "review", d.Decision)
	assert.Len(t, d.Evaluations, 1)
}

func TestAgent_Decide_DeterministicHashStableWithoutTimestamp(t *testing.T) {
	ev := evaluator.NewStatic("policy", "v1", evaluator.Evaluation{Decision: "approve", Weight: 0.8, Reason: "static"})
	a := agent.New([]evaluator.Evaluator{ev}, scoring.WeightedAverage{}, nil)

	d1, err := a.Decide(nil, ctx())
	require.NoError(t, err)
	d2, err := a.Decide(nil, ctx())
	require.NoError(t, err)

	assert.Equal(t, d1.AuditPayload.DeterministicHash, d2.AuditPayload.DeterministicHash, "StampTimestamp is off by default, so repeat decisions must hash identically")
}

func TestAgent_Decide_SinkFailureStillReturnsDecision(t *testing.T) {
	ev := evaluator.NewStatic("policy", "v1", evaluator.Evaluation{Decision: "approve", Weight: 0.8, Reason: "static"})
	a := agent.New([]evaluator.Evaluator{ev}, scoring.WeightedAverage{}, failingSink{})

	d, err := a.Decide(nil, ctx())
	require.NoError(t, err, "an audit-sink failure must not poison the decision call")
	assert.Equal(t, "approve", d.Decision)
	assert.Equal(t, 1.0, d.Confidence)
	require.NotNil(t, d.SinkWarning)
	assert.Equal(t, decideerr.KindAuditSink, d.SinkWarning.Kind)
	require.Error(t, d.SinkWarning.Unwrap())
	assert.Contains(t, d.SinkWarning.Unwrap().Error(), "disk full")
}
