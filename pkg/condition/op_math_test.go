package condition_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMath_SqrtWithinTolerance(t *testing.T) {
	data := map[string]interface{}{"x": 16.0}
	assert.True(t, evalLeaf(t, "x", "sqrt", 4.0, data))
	assert.False(t, evalLeaf(t, "x", "sqrt", 5.0, data))
}

func TestMath_SqrtAcceptsExplicitToleranceForm(t *testing.T) {
	data := map[string]interface{}{"x": 16.0}
	assert.True(t, evalLeaf(t, "x", "sqrt", map[string]interface{}{"equals": 4.0001, "tolerance": 0.001}, data))
	assert.False(t, evalLeaf(t, "x", "sqrt", map[string]interface{}{"equals": 4.1, "tolerance": 0.001}, data))
}

func TestMath_RoundingFamily(t *testing.T) {
	data := map[string]interface{}{"x": 2.7}
	assert.True(t, evalLeaf(t, "x", "round", 3.0, data))
	assert.True(t, evalLeaf(t, "x", "floor", 2.0, data))
	assert.True(t, evalLeaf(t, "x", "ceil", 3.0, data))

	negData := map[string]interface{}{"x": -2.7}
	assert.True(t, evalLeaf(t, "x", "truncate", -2.0, negData))
}

func TestMath_Power(t *testing.T) {
	data := map[string]interface{}{"base": 2.0}
	assert.True(t, evalLeaf(t, "base", "power", map[string]interface{}{"exponent": 10.0, "equals": 1024.0}, data))
	assert.False(t, evalLeaf(t, "base", "power", map[string]interface{}{"exponent": 10.0, "equals": 999.0}, data))
}

func TestMath_Factorial(t *testing.T) {
	data := map[string]interface{}{"n": 5.0}
	assert.True(t, evalLeaf(t, "n", "factorial", 120.0, data))
	assert.False(t, evalLeaf(t, "n", "factorial", 100.0, data))
}

func TestMath_FactorialRejectsNegativeOrFractional(t *testing.T) {
	assert.False(t, evalLeaf(t, "n", "factorial", 1.0, map[string]interface{}{"n": -1.0}))
	assert.False(t, evalLeaf(t, "n", "factorial", 1.0, map[string]interface{}{"n": 2.5}))
}

func TestMath_GcdAndLcm(t *testing.T) {
	data := map[string]interface{}{"a": 12.0}
	assert.True(t, evalLeaf(t, "a", "gcd", map[string]interface{}{"with": 18.0, "equals": 6.0}, data))
	assert.True(t, evalLeaf(t, "a", "lcm", map[string]interface{}{"with": 18.0, "equals": 36.0}, data))
}

func TestMath_Atan2(t *testing.T) {
	data := map[string]interface{}{"y": 0.0}
	assert.True(t, evalLeaf(t, "y", "atan2", map[string]interface{}{"x": 1.0, "equals": 0.0}, data))
}

func TestMath_AbsentFieldFailsClosed(t *testing.T) {
	assert.False(t, evalLeaf(t, "missing", "sqrt", 4.0, map[string]interface{}{}))
}
