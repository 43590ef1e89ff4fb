package audit_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mindburn-Labs/helm-decide/pkg/audit"
)

func TestBuild_DeterministicHashStableAcrossCalls(t *testing.T) {
	sigs := []audit.Signature{{Name: "fraud-check", ContentHash: "abc123"}}

	r1, err := audit.Build("approve", 0.9, []string{"amount gt 100"}, sigs, "ctxhash", "ruleshash", nil)
	require.NoError(t, err)
	r2, err := audit.Build("approve", 0.9, []string{"amount gt 100"}, sigs, "ctxhash", "ruleshash", nil)
	require.NoError(t, err)

	assert.Equal(t, r1.DeterministicHash, r2.DeterministicHash)
	assert.NotEmpty(t, r1.DeterministicHash)
}

func TestBuild_HashChangesWithDecision(t *testing.T) {
	sigs := []audit.Signature{{Name: "fraud-check", ContentHash: "abc123"}}

	r1, err := audit.Build("approve", 0.9, nil, sigs, "ctxhash", "ruleshash", nil)
	require.NoError(t, err)
	r2, err := audit.Build("deny", 0.9, nil, sigs, "ctxhash", "ruleshash", nil)
	require.NoError(t, err)

	assert.NotEqual(t, r1.DeterministicHash, r2.DeterministicHash)
}

func TestBuild_TamperDetection(t *testing.T) {
	sigs := []audit.Signature{{Name: "fraud-check", ContentHash: "abc123"}}
	rec, err := audit.Build("approve", 0.9, nil, sigs, "ctxhash", "ruleshash", nil)
	require.NoError(t, err)

	tampered := *rec
	tampered.Confidence = 0.1

	rebuilt, err := audit.Build(tampered.Decision, tampered.Confidence, tampered.Explanations, tampered.EvaluatorSignatures, tampered.ContextHash, tampered.RulesetHash, tampered.Timestamp)
	require.NoError(t, err)

	assert.NotEqual(t, rec.DeterministicHash, rebuilt.DeterministicHash, "tampering the confidence field must change the recomputed hash")
}

func TestContextHash_DeterministicAcrossKeyOrder(t *testing.T) {
	h1, err := audit.ContextHash(map[string]interface{}{"a": 1, "b": 2})
	require.NoError(t, err)
	h2, err := audit.ContextHash(map[string]interface{}{"b": 2, "a": 1})
	require.NoError(t, err)

	assert.Equal(t, h1, h2)
}

func TestRulesetHash_CombinesInOrder(t *testing.T) {
	sigsA := []audit.Signature{{Name: "x", ContentHash: "1"}, {Name: "y", ContentHash: "2"}}
	sigsB := []audit.Signature{{Name: "y", ContentHash: "2"}, {Name: "x", ContentHash: "1"}}

	h1, err := audit.RulesetHash(sigsA)
	require.NoError(t, err)
	h2, err := audit.RulesetHash(sigsB)
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2, "evaluator order matters for ruleset_hash")
}

func TestNullSink_Discards(t *testing.T) {
	rec := &audit.Record{Decision: "approve"}
	assert.NoError(t, audit.NullSink{}.Record(rec))
}

func TestFileSink_AppendsJSONLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "audit.jsonl")

	sink, err := audit.NewFileSink(path)
	require.NoError(t, err)
	defer sink.Close()

	require.NoError(t, sink.Record(&audit.Record{Decision: "approve"}))
	require.NoError(t, sink.Record(&audit.Record{Decision: "deny"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"decision":"approve"`)
	assert.Contains(t, string(data), `"decision":"deny"`)
}
