package condition

import (
	"time"
)

func init() {
	registerFunc("before_date", func(ectx *EvalContext, field string, value interface{}) bool {
		t, ok := parseTime(ectx.Get(field))
		target, tok := parseTime(value)
		return ok && tok && t.Before(target)
	})
	registerFunc("after_date", func(ectx *EvalContext, field string, value interface{}) bool {
		t, ok := parseTime(ectx.Get(field))
		target, tok := parseTime(value)
		return ok && tok && t.After(target)
	})
	registerFunc("within_days", func(ectx *EvalContext, field string, value interface{}) bool {
		t, ok := parseTime(ectx.Get(field))
		if !ok {
			return false
		}
		days, dok := toFloat(value)
		if !dok {
			return false
		}
		delta := time.Since(t)
		if delta < 0 {
			delta = -delta
		}
		return delta <= time.Duration(days*float64(24*time.Hour))
	})
	registerFunc("day_of_week", func(ectx *EvalContext, field string, value interface{}) bool {
		t, ok := parseTime(ectx.Get(field))
		want, wok := toFloat(value)
		return ok && wok && float64(t.Weekday()) == want
	})
	registerFunc("hour_of_day", func(ectx *EvalContext, field string, value interface{}) bool {
		t, ok := parseTime(ectx.Get(field))
		want, wok := toFloat(value)
		return ok && wok && float64(t.Hour()) == want
	})
	registerFunc("day_of_month", func(ectx *EvalContext, field string, value interface{}) bool {
		t, ok := parseTime(ectx.Get(field))
		want, wok := toFloat(value)
		return ok && wok && float64(t.Day()) == want
	})
	registerFunc("month", func(ectx *EvalContext, field string, value interface{}) bool {
		t, ok := parseTime(ectx.Get(field))
		want, wok := toFloat(value)
		return ok && wok && float64(t.Month()) == want
	})
	registerFunc("year", func(ectx *EvalContext, field string, value interface{}) bool {
		t, ok := parseTime(ectx.Get(field))
		want, wok := toFloat(value)
		return ok && wok && float64(t.Year()) == want
	})
	registerFunc("week_of_year", func(ectx *EvalContext, field string, value interface{}) bool {
		t, ok := parseTime(ectx.Get(field))
		want, wok := toFloat(value)
		if !ok || !wok {
			return false
		}
		_, week := t.ISOWeek()
		return float64(week) == want
	})

	registerFunc("add_days", temporalArithmetic(func(d float64) time.Duration {
		return time.Duration(d * float64(24*time.Hour))
	}, false))
	registerFunc("subtract_days", temporalArithmetic(func(d float64) time.Duration {
		return time.Duration(d * float64(24*time.Hour))
	}, true))
	registerFunc("add_hours", temporalArithmetic(func(d float64) time.Duration {
		return time.Duration(d * float64(time.Hour))
	}, false))
	registerFunc("subtract_hours", temporalArithmetic(func(d float64) time.Duration {
		return time.Duration(d * float64(time.Hour))
	}, true))
	registerFunc("add_minutes", temporalArithmetic(func(d float64) time.Duration {
		return time.Duration(d * float64(time.Minute))
	}, false))
	registerFunc("subtract_minutes", temporalArithmetic(func(d float64) time.Duration {
		return time.Duration(d * float64(time.Minute))
	}, true))

	registerFunc("duration_seconds", durationOp(time.Second))
	registerFunc("duration_minutes", durationOp(time.Minute))
	registerFunc("duration_hours", durationOp(time.Hour))
	registerFunc("duration_days", durationOp(24*time.Hour))
}

// temporalArithmetic implements the §4.2 "temporal arithmetic" family:
// value = {days|hours|minutes, compare, target}. The field value is
// shifted by the declared amount (forward or backward) and compared
// against the resolved target using the declared comparison operator.
func temporalArithmetic(amount func(float64) time.Duration, subtract bool) func(*EvalContext, string, interface{}) bool {
	return func(ectx *EvalContext, field string, value interface{}) bool {
		base, ok := parseTime(ectx.Get(field))
		if !ok {
			return false
		}
		var magnitude float64
		var found bool
		for _, key := range []string{"days", "hours", "minutes"} {
			if m, ok := numericField(value, key); ok {
				magnitude = m
				found = true
				break
			}
		}
		if !found {
			return false
		}
		compare, ok := stringField(value, "compare")
		if !ok {
			return false
		}
		targetRaw, ok := mapValue(value, "target")
		if !ok {
			return false
		}
		target, ok := resolveTarget(ectx, targetRaw, time.Now().UTC())
		if !ok {
			return false
		}

		delta := amount(magnitude)
		var shifted time.Time
		if subtract {
			shifted = base.Add(-delta)
		} else {
			shifted = base.Add(delta)
		}
		return compareTimes(shifted, compare, target)
	}
}

// durationOp implements the §4.2 "duration" family: value = {end,
// ...thresholds}. Thresholds carry one or more comparison keys.
func durationOp(unit time.Duration) func(*EvalContext, string, interface{}) bool {
	return func(ectx *EvalContext, field string, value interface{}) bool {
		start, ok := parseTime(ectx.Get(field))
		if !ok {
			return false
		}
		endRaw, ok := mapValue(value, "end")
		if !ok {
			return false
		}
		end, ok := resolveTarget(ectx, endRaw, time.Now().UTC())
		if !ok {
			return false
		}
		elapsed := end.Sub(start).Seconds() / unit.Seconds()

		for _, cmp := range []string{"eq", "ne", "lt", "lte", "gt", "gte"} {
			if threshold, ok := numericField(value, cmp); ok {
				if !compareFloats(elapsed, cmp, threshold) {
					return false
				}
			}
		}
		return true
	}
}

func compareTimes(a time.Time, cmp string, b time.Time) bool {
	switch cmp {
	case "eq":
		return a.Equal(b)
	case "ne":
		return !a.Equal(b)
	case "lt":
		return a.Before(b)
	case "lte":
		return a.Before(b) || a.Equal(b)
	case "gt":
		return a.After(b)
	case "gte":
		return a.After(b) || a.Equal(b)
	default:
		return false
	}
}

func compareFloats(a float64, cmp string, b float64) bool {
	switch cmp {
	case "eq":
		return a == b
	case "ne":
		return a != b
	case "lt":
		return a < b
	case "lte":
		return a <= b
	case "gt":
		return a > b
	case "gte":
		return a >= b
	default:
		return false
	}
}
