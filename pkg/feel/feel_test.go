package feel_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mindburn-Labs/helm-decide/pkg/feel"
)

func TestParseExpr_Arithmetic(t *testing.T) {
	expr, err := feel.ParseExpr("1 + 2 * 3")
	require.NoError(t, err)

	v, err := feel.Eval(expr, feel.Env{})
	require.NoError(t, err)
	assert.Equal(t, 7.0, v)
}

func TestParseExpr_StringConcat(t *testing.T) {
	expr, err := feel.ParseExpr(`"a" + "b"`)
	require.NoError(t, err)

	v, err := feel.Eval(expr, feel.Env{})
	require.NoError(t, err)
	assert.Equal(t, "ab", v)
}

func TestParseExpr_BooleanLogic(t *testing.T) {
	expr, err := feel.ParseExpr("true and not false")
	require.NoError(t, err)

	v, err := feel.Eval(expr, feel.Env{})
	require.NoError(t, err)
	assert.Equal(t, true, v)
}

func TestParseExpr_If(t *testing.T) {
	expr, err := feel.ParseExpr(`if amount > 100 then "high" else "low"`)
	require.NoError(t, err)

	v, err := feel.Eval(expr, feel.Env{"amount": 150.0})
	require.NoError(t, err)
	assert.Equal(t, "high", v)

	v, err = feel.Eval(expr, feel.Env{"amount": 50.0})
	require.NoError(t, err)
	assert.Equal(t, "low", v)
}

func TestParseExpr_Between(t *testing.T) {
	expr, err := feel.ParseExpr("amount between 10 and 20")
	require.NoError(t, err)

	v, err := feel.Eval(expr, feel.Env{"amount": 15.0})
	require.NoError(t, err)
	assert.Equal(t, true, v)
}

func TestParseExpr_ForReturn(t *testing.T) {
	expr, err := feel.ParseExpr("for x in [1,2,3] return x * 2")
	require.NoError(t, err)

	v, err := feel.Eval(expr, feel.Env{})
	require.NoError(t, err)
	assert.Equal(t, []feel.Value{2.0, 4.0, 6.0}, v)
}

func TestParseExpr_SomeEvery(t *testing.T) {
	some, err := feel.ParseExpr("some x in [1,2,3] satisfies x > 2")
	require.NoError(t, err)
	v, err := feel.Eval(some, feel.Env{})
	require.NoError(t, err)
	assert.Equal(t, true, v)

	every, err := feel.ParseExpr("every x in [1,2,3] satisfies x > 2")
	require.NoError(t, err)
	v, err = feel.Eval(every, feel.Env{})
	require.NoError(t, err)
	assert.Equal(t, false, v)
}

func TestParseExpr_PathResolution(t *testing.T) {
	expr, err := feel.ParseExpr("customer.country")
	require.NoError(t, err)

	v, err := feel.Eval(expr, feel.Env{"customer": map[string]feel.Value{"country": "DE"}})
	require.NoError(t, err)
	assert.Equal(t, "DE", v)
}

func TestParseExpr_PowerAndModulo(t *testing.T) {
	expr, err := feel.ParseExpr("2 ** 10")
	require.NoError(t, err)
	v, err := feel.Eval(expr, feel.Env{})
	require.NoError(t, err)
	assert.Equal(t, 1024.0, v)

	expr2, err := feel.ParseExpr("7 % 3")
	require.NoError(t, err)
	v2, err := feel.Eval(expr2, feel.Env{})
	require.NoError(t, err)
	assert.Equal(t, 1.0, v2)
}

func TestParseUnaryTest_DontCare(t *testing.T) {
	ut, err := feel.ParseUnaryTest("-")
	require.NoError(t, err)
	require.Len(t, ut.Disjuncts, 1)
	_, isDontCare := ut.Disjuncts[0].(feel.DontCare)
	assert.True(t, isDontCare)

	ok, err := feel.MatchUnaryTest(ut, "anything", feel.Env{})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestParseUnaryTest_LiteralEquality(t *testing.T) {
	ut, err := feel.ParseUnaryTest(`"gold"`)
	require.NoError(t, err)

	ok, err := feel.MatchUnaryTest(ut, "gold", feel.Env{})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = feel.MatchUnaryTest(ut, "silver", feel.Env{})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestParseUnaryTest_ComparisonOperator(t *testing.T) {
	ut, err := feel.ParseUnaryTest("> 100")
	require.NoError(t, err)

	ok, err := feel.MatchUnaryTest(ut, 150.0, feel.Env{})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = feel.MatchUnaryTest(ut, 50.0, feel.Env{})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestParseUnaryTest_ClosedRange(t *testing.T) {
	ut, err := feel.ParseUnaryTest("[0..100]")
	require.NoError(t, err)

	ok, err := feel.MatchUnaryTest(ut, 100.0, feel.Env{})
	require.NoError(t, err)
	assert.True(t, ok, "closed range is inclusive on the high end")

	ok, err = feel.MatchUnaryTest(ut, 0.0, feel.Env{})
	require.NoError(t, err)
	assert.True(t, ok, "closed range is inclusive on the low end")
}

func TestParseUnaryTest_OpenRange(t *testing.T) {
	ut, err := feel.ParseUnaryTest("]0..100]")
	require.NoError(t, err)

	ok, err := feel.MatchUnaryTest(ut, 0.0, feel.Env{})
	require.NoError(t, err)
	assert.False(t, ok, "open-low bound excludes the boundary value")
}

func TestParseUnaryTest_CommaDisjunction(t *testing.T) {
	ut, err := feel.ParseUnaryTest(`"gold", "platinum"`)
	require.NoError(t, err)

	ok, err := feel.MatchUnaryTest(ut, "platinum", feel.Env{})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = feel.MatchUnaryTest(ut, "silver", feel.Env{})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEvalUnaryTestSource_ParseErrorWrapped(t *testing.T) {
	_, err := feel.EvalUnaryTestSource("( unterminated", "x", feel.Env{})
	assert.Error(t, err)
}

func TestParseExpr_TrailingInputErrors(t *testing.T) {
	_, err := feel.ParseExpr("1 + 2 )")
	assert.Error(t, err)
}

func TestEval_ModuloByZeroErrors(t *testing.T) {
	expr, err := feel.ParseExpr("1 % 0")
	require.NoError(t, err)

	_, err = feel.Eval(expr, feel.Env{})
	assert.Error(t, err)
}
