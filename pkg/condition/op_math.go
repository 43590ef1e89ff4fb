package condition

import "math"

const defaultTolerance = 1e-9

func init() {
	registerFunc("sqrt", mathUnary(math.Sqrt))
	registerFunc("cbrt", mathUnary(math.Cbrt))
	registerFunc("exp", mathUnary(math.Exp))
	registerFunc("log", mathUnary(math.Log))
	registerFunc("log10", mathUnary(math.Log10))
	registerFunc("log2", mathUnary(math.Log2))
	registerFunc("sin", mathUnary(math.Sin))
	registerFunc("cos", mathUnary(math.Cos))
	registerFunc("tan", mathUnary(math.Tan))
	registerFunc("asin", mathUnary(math.Asin))
	registerFunc("acos", mathUnary(math.Acos))
	registerFunc("atan", mathUnary(math.Atan))
	registerFunc("sinh", mathUnary(math.Sinh))
	registerFunc("cosh", mathUnary(math.Cosh))
	registerFunc("tanh", mathUnary(math.Tanh))
	registerFunc("abs", mathUnary(math.Abs))

	registerFunc("atan2", func(ectx *EvalContext, field string, value interface{}) bool {
		y, ok := asFloat(ectx.Get(field))
		if !ok {
			return false
		}
		x, xok := numericField(value, "x")
		if !xok {
			return false
		}
		result := math.Atan2(y, x)
		expected, tol, eok := binaryArgs(value, "equals")
		if !eok {
			return false
		}
		return math.Abs(result-expected) <= tol
	})

	registerFunc("round", mathRounding(math.Round))
	registerFunc("floor", mathRounding(math.Floor))
	registerFunc("ceil", mathRounding(math.Ceil))
	registerFunc("truncate", mathRounding(math.Trunc))

	registerFunc("power", func(ectx *EvalContext, field string, value interface{}) bool {
		base, ok := asFloat(ectx.Get(field))
		if !ok {
			return false
		}
		exponent, tol, eok := binaryArgs(value, "exponent")
		if !eok {
			return false
		}
		result := math.Pow(base, exponent)
		expected, xok := numericField(value, "equals")
		if !xok {
			return true
		}
		return math.Abs(result-expected) <= tol
	})

	registerFunc("factorial", func(ectx *EvalContext, field string, value interface{}) bool {
		f, ok := asFloat(ectx.Get(field))
		if !ok || f < 0 || f != math.Trunc(f) {
			return false
		}
		result := factorial(int64(f))
		expected, eok := toFloat(value)
		return eok && result == expected
	})

	registerFunc("gcd", func(ectx *EvalContext, field string, value interface{}) bool {
		a, ok := asFloat(ectx.Get(field))
		if !ok {
			return false
		}
		b, bok := numericField(value, "with")
		expected, xok := numericField(value, "equals")
		if !bok || !xok {
			return false
		}
		return float64(gcd(int64(a), int64(b))) == expected
	})

	registerFunc("lcm", func(ectx *EvalContext, field string, value interface{}) bool {
		a, ok := asFloat(ectx.Get(field))
		if !ok {
			return false
		}
		b, bok := numericField(value, "with")
		expected, xok := numericField(value, "equals")
		if !bok || !xok {
			return false
		}
		return float64(lcm(int64(a), int64(b))) == expected
	})
}

// mathUnary builds an operator comparing fn(field) against value.equals
// (or, if value is a bare number, against value directly), within
// tolerance (§4.2 "math" family, default epsilon 1e-9).
func mathUnary(fn func(float64) float64) func(*EvalContext, string, interface{}) bool {
	return func(ectx *EvalContext, field string, value interface{}) bool {
		f, ok := asFloat(ectx.Get(field))
		if !ok {
			return false
		}
		result := fn(f)
		expected, tol, ok := singleArg(value)
		if !ok {
			return false
		}
		return math.Abs(result-expected) <= tol
	}
}

func mathRounding(fn func(float64) float64) func(*EvalContext, string, interface{}) bool {
	return func(ectx *EvalContext, field string, value interface{}) bool {
		f, ok := asFloat(ectx.Get(field))
		if !ok {
			return false
		}
		expected, tol, ok := singleArg(value)
		if !ok {
			return false
		}
		return math.Abs(fn(f)-expected) <= tol
	}
}

// singleArg accepts either a bare numeric value or {equals, tolerance}.
func singleArg(value interface{}) (float64, float64, bool) {
	if f, ok := toFloat(value); ok {
		return f, defaultTolerance, true
	}
	expected, ok := numericField(value, "equals")
	if !ok {
		return 0, 0, false
	}
	tol := defaultTolerance
	if t, ok := numericField(value, "tolerance"); ok {
		tol = t
	}
	return expected, tol, true
}

func binaryArgs(value interface{}, key string) (float64, float64, bool) {
	v, ok := numericField(value, key)
	if !ok {
		return 0, 0, false
	}
	tol := defaultTolerance
	if t, ok := numericField(value, "tolerance"); ok {
		tol = t
	}
	return v, tol, true
}

func factorial(n int64) float64 {
	result := 1.0
	for i := int64(2); i <= n; i++ {
		result *= float64(i)
	}
	return result
}

func gcd(a, b int64) int64 {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func lcm(a, b int64) int64 {
	if a == 0 || b == 0 {
		return 0
	}
	g := gcd(a, b)
	result := a / g * b
	if result < 0 {
		result = -result
	}
	return result
}
