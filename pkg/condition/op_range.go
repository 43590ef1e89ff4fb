package condition

func init() {
	registerFunc("between", func(ectx *EvalContext, field string, value interface{}) bool {
		f, ok := asFloat(ectx.Get(field))
		if !ok {
			return false
		}
		lo, hi, ok := rangeBounds(value)
		if !ok {
			return false
		}
		return f >= lo && f <= hi
	})
	registerFunc("modulo", func(ectx *EvalContext, field string, value interface{}) bool {
		f, ok := asFloat(ectx.Get(field))
		if !ok {
			return false
		}
		divisor, remainder, ok := moduloArgs(value)
		if !ok || divisor == 0 {
			return false
		}
		n := int64(f)
		d := int64(divisor)
		r := n % d
		if r < 0 {
			r += d
		}
		return r == int64(remainder)
	})
}

// rangeBounds accepts either [lo, hi] or {min, max}; both ends are
// inclusive (an explicit Open Question in spec.md §9, resolved here as
// inclusive per the source's apparent behavior — see DESIGN.md).
func rangeBounds(value interface{}) (float64, float64, bool) {
	if list, ok := value.([]interface{}); ok && len(list) == 2 {
		lo, ok1 := toFloat(list[0])
		hi, ok2 := toFloat(list[1])
		return lo, hi, ok1 && ok2
	}
	lo, ok1 := numericField(value, "min")
	hi, ok2 := numericField(value, "max")
	return lo, hi, ok1 && ok2
}

func moduloArgs(value interface{}) (float64, float64, bool) {
	if list, ok := value.([]interface{}); ok && len(list) == 2 {
		d, ok1 := toFloat(list[0])
		r, ok2 := toFloat(list[1])
		return d, r, ok1 && ok2
	}
	d, ok1 := numericField(value, "divisor")
	r, ok2 := numericField(value, "remainder")
	return d, r, ok1 && ok2
}
