package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dctx "github.com/Mindburn-Labs/helm-decide/pkg/context"
	"github.com/Mindburn-Labs/helm-decide/pkg/rules"
)

const validDoc = `{
  "version": "1",
  "ruleset": "fraud-check",
  "rules": [
    {
      "id": "high-amount",
      "if": {"field": "amount", "op": "gt", "value": 1000},
      "then": {"decision": "review", "weight": 0.9, "reason": "amount over threshold"}
    },
    {
      "id": "default",
      "if": {"all": []},
      "then": {"decision": "approve", "weight": 0.5, "reason": "no rule matched"}
    }
  ]
}`

func TestParse_ValidDocument(t *testing.T) {
	doc, errs := rules.Parse([]byte(validDoc))
	require.Empty(t, errs)
	require.NotNil(t, doc)
	assert.Equal(t, "fraud-check", doc.Ruleset.Ruleset)
	assert.Len(t, doc.Ruleset.Rules, 2)
	assert.NotEmpty(t, doc.ContentHash)
	assert.NotEmpty(t, doc.CanonicalBytes)
}

func TestParse_DeterministicContentHash(t *testing.T) {
	doc1, errs1 := rules.Parse([]byte(validDoc))
	require.Empty(t, errs1)
	doc2, errs2 := rules.Parse([]byte(validDoc))
	require.Empty(t, errs2)

	assert.Equal(t, doc1.ContentHash, doc2.ContentHash)
}

func TestParse_RejectsDuplicateIDs(t *testing.T) {
	dup := `{
	  "version": "1",
	  "ruleset": "dup",
	  "rules": [
	    {"id": "r1", "if": {"all": []}, "then": {"decision": "a", "weight": 0.1}},
	    {"id": "r1", "if": {"all": []}, "then": {"decision": "b", "weight": 0.2}}
	  ]
	}`
	_, errs := rules.Parse([]byte(dup))
	require.NotEmpty(t, errs)
}

func TestParse_RejectsMissingEnvelopeKeys(t *testing.T) {
	_, errs := rules.Parse([]byte(`{"rules": []}`))
	require.NotEmpty(t, errs)
}

func TestParse_RejectsInvalidJSON(t *testing.T) {
	_, errs := rules.Parse([]byte(`{not json`))
	require.NotEmpty(t, errs)
}

func TestJSONEvaluator_FirstMatchWins(t *testing.T) {
	doc, errs := rules.Parse([]byte(validDoc))
	require.Empty(t, errs)
	ev := rules.NewJSONEvaluator(doc)

	c := dctx.MustNew(map[string]interface{}{"amount": 5000})
	eval, matched, matchedDesc, _, err := ev.Evaluate(nil, c, nil)
	require.NoError(t, err)
	require.True(t, matched)
	assert.Equal(t, "review", eval.Decision)
	assert.Equal(t, 0.9, eval.Weight)
	assert.True(t, matchedDesc.Pass)
}

func TestJSONEvaluator_FallsThroughToDefault(t *testing.T) {
	doc, errs := rules.Parse([]byte(validDoc))
	require.Empty(t, errs)
	ev := rules.NewJSONEvaluator(doc)

	c := dctx.MustNew(map[string]interface{}{"amount": 10})
	eval, matched, _, attempted, err := ev.Evaluate(nil, c, nil)
	require.NoError(t, err)
	require.True(t, matched)
	assert.Equal(t, "approve", eval.Decision)
	assert.Len(t, attempted, 1, "failed_conditions should contain the one non-matching rule")
}

func TestJSONEvaluator_NoMatchIsNonFatal(t *testing.T) {
	noMatchDoc := `{
	  "version": "1",
	  "ruleset": "no-default",
	  "rules": [
	    {"id": "r1", "if": {"field": "x", "op": "eq", "value": 1}, "then": {"decision": "a", "weight": 0.5}}
	  ]
	}`
	doc, errs := rules.Parse([]byte(noMatchDoc))
	require.Empty(t, errs)
	ev := rules.NewJSONEvaluator(doc)

	c := dctx.MustNew(map[string]interface{}{"x": 2})
	eval, matched, matchedDesc, attempted, err := ev.Evaluate(nil, c, nil)
	require.NoError(t, err)
	assert.False(t, matched)
	assert.Nil(t, eval)
	assert.Nil(t, matchedDesc)
	assert.Len(t, attempted, 1)
}

func TestParseYAML_EquivalentToJSON(t *testing.T) {
	yamlDoc := `
version: "1"
ruleset: fraud-check
rules:
  - id: high-amount
    if:
      field: amount
      op: gt
      value: 1000
    then:
      decision: review
      weight: 0.9
      reason: amount over threshold
  - id: default
    if:
      all: []
    then:
      decision: approve
      weight: 0.5
      reason: no rule matched
`
	jsonDoc, errs := rules.Parse([]byte(validDoc))
	require.Empty(t, errs)

	ydoc, yerrs := rules.ParseYAML([]byte(yamlDoc))
	require.Empty(t, yerrs)

	assert.Equal(t, jsonDoc.ContentHash, ydoc.ContentHash, "YAML and JSON authoring of the same ruleset must canonicalize identically")
}

func TestParseYAML_RejectsInvalidYAML(t *testing.T) {
	_, errs := rules.ParseYAML([]byte("not: valid: yaml: ["))
	assert.NotEmpty(t, errs)
}
