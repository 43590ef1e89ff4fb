package condition

import "math"

func init() {
	registerFunc("compound_interest", func(ectx *EvalContext, field string, value interface{}) bool {
		principal, ok := asFloat(ectx.Get(field))
		if !ok {
			return false
		}
		rate, rok := numericField(value, "rate")
		periods, pok := numericField(value, "periods")
		compoundingsPerPeriod, cok := numericField(value, "compoundings_per_period")
		if !cok {
			compoundingsPerPeriod = 1
		}
		if !rok || !pok {
			return false
		}
		result := principal * math.Pow(1+rate/compoundingsPerPeriod, compoundingsPerPeriod*periods)
		expected, tol, eok := binaryArgs(value, "equals")
		if !eok {
			return false
		}
		return math.Abs(result-expected) <= tol
	})

	registerFunc("present_value", func(ectx *EvalContext, field string, value interface{}) bool {
		futureValue, ok := asFloat(ectx.Get(field))
		if !ok {
			return false
		}
		rate, rok := numericField(value, "rate")
		periods, pok := numericField(value, "periods")
		if !rok || !pok {
			return false
		}
		result := futureValue / math.Pow(1+rate, periods)
		expected, tol, eok := binaryArgs(value, "equals")
		if !eok {
			return false
		}
		return math.Abs(result-expected) <= tol
	})

	registerFunc("future_value", func(ectx *EvalContext, field string, value interface{}) bool {
		presentValue, ok := asFloat(ectx.Get(field))
		if !ok {
			return false
		}
		rate, rok := numericField(value, "rate")
		periods, pok := numericField(value, "periods")
		if !rok || !pok {
			return false
		}
		result := presentValue * math.Pow(1+rate, periods)
		expected, tol, eok := binaryArgs(value, "equals")
		if !eok {
			return false
		}
		return math.Abs(result-expected) <= tol
	})
}
