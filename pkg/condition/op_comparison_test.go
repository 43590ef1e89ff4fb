package condition_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Mindburn-Labs/helm-decide/pkg/condition"
	dctx "github.com/Mindburn-Labs/helm-decide/pkg/context"
)

func evalLeaf(t *testing.T, field, op string, value interface{}, data map[string]interface{}) bool {
	t.Helper()
	n := &condition.Node{Field: field, Op: op, Value: value}
	ectx := condition.NewEvalContext(nil, dctx.MustNew(data), nil)
	pass, _ := n.Evaluate(ectx)
	return pass
}

func TestComparison_NumericOrdering(t *testing.T) {
	data := map[string]interface{}{"amount": 100}

	assert.True(t, evalLeaf(t, "amount", "eq", 100.0, data))
	assert.False(t, evalLeaf(t, "amount", "ne", 100.0, data))
	assert.True(t, evalLeaf(t, "amount", "gte", 100.0, data))
	assert.True(t, evalLeaf(t, "amount", "lte", 100.0, data))
	assert.False(t, evalLeaf(t, "amount", "gt", 100.0, data))
	assert.False(t, evalLeaf(t, "amount", "lt", 100.0, data))
	assert.True(t, evalLeaf(t, "amount", "lt", 200.0, data))
	assert.True(t, evalLeaf(t, "amount", "gt", 50.0, data))
}

func TestComparison_StringOrdering(t *testing.T) {
	data := map[string]interface{}{"country": "DE"}

	assert.True(t, evalLeaf(t, "country", "eq", "DE", data))
	assert.True(t, evalLeaf(t, "country", "lt", "FR", data))
	assert.False(t, evalLeaf(t, "country", "gt", "FR", data))
}

func TestComparison_MismatchedTypesNeverCoerce(t *testing.T) {
	data := map[string]interface{}{"amount": 100}

	// "100" (string) must never compare equal to 100 (number).
	assert.False(t, evalLeaf(t, "amount", "eq", "100", data))
	assert.True(t, evalLeaf(t, "amount", "ne", "100", data))
}

func TestComparison_AbsentFieldIsUnequal(t *testing.T) {
	data := map[string]interface{}{}

	assert.False(t, evalLeaf(t, "missing", "eq", 1.0, data))
	assert.True(t, evalLeaf(t, "missing", "ne", 1.0, data))
}

func TestComparison_BoolEquality(t *testing.T) {
	data := map[string]interface{}{"active": true}

	assert.True(t, evalLeaf(t, "active", "eq", true, data))
	assert.False(t, evalLeaf(t, "active", "eq", false, data))
}
