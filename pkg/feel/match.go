package feel

import (
	"fmt"

	"github.com/Mindburn-Labs/helm-decide/pkg/decideerr"
)

// MatchUnaryTest reports whether subject satisfies ut given env (env
// supplies any identifiers referenced by the disjuncts, e.g. another
// input clause's value used in a range bound). A don't-care disjunct
// always matches.
func MatchUnaryTest(ut *UnaryTest, subject Value, env Env) (bool, error) {
	for _, d := range ut.Disjuncts {
		ok, err := matchDisjunct(d, subject, env)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

func matchDisjunct(expr Expr, subject Value, env Env) (bool, error) {
	switch n := expr.(type) {
	case DontCare:
		return true, nil
	case UnaryExpr:
		switch n.Op {
		case "=", "!=", ">", ">=", "<", "<=":
			v, err := Eval(n.X, env)
			if err != nil {
				return false, err
			}
			return compareOp(n.Op, subject, v), nil
		}
		v, err := Eval(n, env)
		if err != nil {
			return false, err
		}
		return valuesEqual(subject, v), nil
	case RangeExpr:
		lo, err := Eval(n.Lo, env)
		if err != nil {
			return false, err
		}
		hi, err := Eval(n.Hi, env)
		if err != nil {
			return false, err
		}
		loOK := compare(subject, lo)
		hiOK := compare(subject, hi)
		if n.LoIncl {
			if loOK < 0 {
				return false, nil
			}
		} else if loOK <= 0 {
			return false, nil
		}
		if n.HiIncl {
			if hiOK > 0 {
				return false, nil
			}
		} else if hiOK >= 0 {
			return false, nil
		}
		return true, nil
	default:
		v, err := Eval(expr, env)
		if err != nil {
			return false, err
		}
		return valuesEqual(subject, v), nil
	}
}

func compareOp(op string, x, y Value) bool {
	c := compare(x, y)
	switch op {
	case "=":
		return valuesEqual(x, y)
	case "!=":
		return !valuesEqual(x, y)
	case ">":
		return c > 0
	case ">=":
		return c >= 0
	case "<":
		return c < 0
	case "<=":
		return c <= 0
	}
	return false
}

// valuesEqual compares two FEEL values for equality across the
// supported scalar kinds.
func valuesEqual(a, b Value) bool {
	switch av := a.(type) {
	case float64:
		bv, ok := b.(float64)
		return ok && av == bv
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case nil:
		return b == nil
	default:
		return false
	}
}

// compare returns -1/0/1 ordering a against b for numbers and strings;
// incomparable kinds report 0 (treated as "doesn't satisfy" by callers
// that check for strict inequality, and as "equal" only if both sides
// independently confirm equality via valuesEqual).
func compare(a, b Value) int {
	if af, ok := a.(float64); ok {
		if bf, ok := b.(float64); ok {
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			default:
				return 0
			}
		}
	}
	if as, ok := a.(string); ok {
		if bs, ok := b.(string); ok {
			switch {
			case as < bs:
				return -1
			case as > bs:
				return 1
			default:
				return 0
			}
		}
	}
	return 0
}

// EvalUnaryTestSource parses and matches in one step — the common path
// for decision-table input cells, which are stored as source text.
func EvalUnaryTestSource(src string, subject Value, env Env) (bool, error) {
	ut, err := ParseUnaryTest(src)
	if err != nil {
		return false, decideerr.FEELParse(fmt.Sprintf("parsing unary test %q: %v", src, err))
	}
	return MatchUnaryTest(ut, subject, env)
}
