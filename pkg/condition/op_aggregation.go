package condition

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
)

func init() {
	registerFunc("min", aggregateCompare(minOf, true))
	registerFunc("max", aggregateCompare(maxOf, false))
	registerFunc("sum", aggregateCompare(sum, false))
	registerFunc("average", aggregateCompare(mean, false))
	registerFunc("mean", aggregateCompare(mean, false))
	registerFunc("median", aggregateCompare(median, false))
	registerFunc("stddev", aggregateCompare(stddev, false))
	registerFunc("variance", aggregateCompare(variance, false))
	registerFunc("count", func(ectx *EvalContext, field string, value interface{}) bool {
		list, ok := asFloatList(ectx.Get(field))
		if !ok {
			return false
		}
		expected, eok := toFloat(value)
		return eok && float64(len(list)) == expected
	})
	registerFunc("length", func(ectx *EvalContext, field string, value interface{}) bool {
		s, sok := asString(ectx.Get(field))
		if sok {
			expected, eok := toFloat(value)
			return eok && float64(len(s)) == expected
		}
		list, ok := asList(ectx.Get(field))
		if !ok {
			return false
		}
		expected, eok := toFloat(value)
		return eok && float64(len(list)) == expected
	})
	registerFunc("join", func(ectx *EvalContext, field string, value interface{}) bool {
		list, ok := asList(ectx.Get(field))
		if !ok {
			return false
		}
		sep, sok := stringField(value, "separator")
		if !sok {
			sep = ","
		}
		expected, eok := stringField(value, "equals")
		if !eok {
			return false
		}
		parts := make([]string, len(list))
		for i, v := range list {
			parts[i] = fmt.Sprintf("%v", v)
		}
		return strings.Join(parts, sep) == expected
	})
	registerFunc("percentile", func(ectx *EvalContext, field string, value interface{}) bool {
		xs, ok := asFloatList(ectx.Get(field))
		if !ok || len(xs) == 0 {
			return false
		}
		p, pok := numericField(value, "p")
		if !pok {
			return false
		}
		expected, tol, eok := binaryArgs(value, "equals")
		if !eok {
			return false
		}
		return math.Abs(percentile(xs, p)-expected) <= tol
	})

	registerFunc("moving_average", movingWindow(mean))
	registerFunc("moving_sum", movingWindow(sum))
	registerFunc("moving_max", movingWindow(func(xs []float64) float64 {
		sorted := append([]float64(nil), xs...)
		sort.Float64s(sorted)
		return sorted[len(sorted)-1]
	}))
	registerFunc("moving_min", movingWindow(func(xs []float64) float64 {
		sorted := append([]float64(nil), xs...)
		sort.Float64s(sorted)
		return sorted[0]
	}))

	registerFunc("rate_per_second", rateOp(1))
	registerFunc("rate_per_minute", rateOp(60))
	registerFunc("rate_per_hour", rateOp(3600))
}

// aggregateCompare applies fn over the full field-valued list and
// compares the result against value.equals (tolerant) — the "static
// aggregation" half of §4.2's aggregation family.
func aggregateCompare(fn func([]float64) float64, _ bool) func(*EvalContext, string, interface{}) bool {
	return func(ectx *EvalContext, field string, value interface{}) bool {
		xs, ok := asFloatList(ectx.Get(field))
		if !ok || len(xs) == 0 {
			return false
		}
		result := fn(xs)
		expected, tol, ok := singleArg(value)
		if !ok {
			return false
		}
		return math.Abs(result-expected) <= tol
	}
}

// movingWindow implements the moving-window aggregation family: the
// last value of the field's series, computed over the trailing window
// of size value.window, must satisfy value.equals within tolerance.
func movingWindow(fn func([]float64) float64) func(*EvalContext, string, interface{}) bool {
	return func(ectx *EvalContext, field string, value interface{}) bool {
		xs, ok := asFloatList(ectx.Get(field))
		if !ok || len(xs) == 0 {
			return false
		}
		window, wok := numericField(value, "window")
		if !wok || window <= 0 {
			return false
		}
		w := int(window)
		if w > len(xs) {
			w = len(xs)
		}
		trailing := xs[len(xs)-w:]
		result := fn(trailing)
		expected, tol, eok := binaryArgs(value, "equals")
		if !eok {
			return false
		}
		return math.Abs(result-expected) <= tol
	}
}

// rateOp computes events-per-unit as count-of-events divided by the
// elapsed interval between the field's first and last timestamps
// (§4.2), implementing rate_per_{second,minute,hour}. Unlike the other
// aggregation operators, the interval comes from the data itself, not
// a caller-supplied window — reordering the same events changes the
// first/last pair and so changes the result (§8's order-sensitivity
// invariant for rate_*).
func rateOp(unitSeconds float64) func(*EvalContext, string, interface{}) bool {
	return func(ectx *EvalContext, field string, value interface{}) bool {
		times, ok := asTimeList(ectx.Get(field))
		if !ok || len(times) < 2 {
			return false
		}
		elapsed := times[len(times)-1].Sub(times[0]).Seconds()
		if elapsed <= 0 {
			return false
		}
		rate := float64(len(times)) / elapsed * unitSeconds
		expected, tol, eok := binaryArgs(value, "equals")
		if !eok {
			return false
		}
		return math.Abs(rate-expected) <= tol
	}
}

// asTimeList parses a list field as a sequence of timestamps, in the
// order they appear — the first/last of this slice are what rateOp
// measures elapsed time between. Elements that don't parse as a
// timestamp are dropped, matching the non-fatality contract the other
// list-valued operators follow.
func asTimeList(v interface{}) ([]time.Time, bool) {
	list, ok := asList(v)
	if !ok {
		return nil, false
	}
	out := make([]time.Time, 0, len(list))
	for _, elem := range list {
		if t, ok := parseTime(elem); ok {
			out = append(out, t)
		}
	}
	return out, true
}

func minOf(xs []float64) float64 {
	m := xs[0]
	for _, x := range xs[1:] {
		if x < m {
			m = x
		}
	}
	return m
}

func maxOf(xs []float64) float64 {
	m := xs[0]
	for _, x := range xs[1:] {
		if x > m {
			m = x
		}
	}
	return m
}

func sum(xs []float64) float64 {
	total := 0.0
	for _, x := range xs {
		total += x
	}
	return total
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return sum(xs) / float64(len(xs))
}

func median(xs []float64) float64 {
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

func variance(xs []float64) float64 {
	m := mean(xs)
	total := 0.0
	for _, x := range xs {
		d := x - m
		total += d * d
	}
	return total / float64(len(xs))
}

func stddev(xs []float64) float64 {
	return math.Sqrt(variance(xs))
}

// percentile uses linear interpolation between closest ranks (the
// "nearest-rank with interpolation" convention).
func percentile(xs []float64, p float64) float64 {
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	rank := p / 100 * float64(n-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo < 0 {
		lo = 0
	}
	if hi >= n {
		hi = n - 1
	}
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
