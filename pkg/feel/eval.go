package feel

import (
	"fmt"
	"math"
	"strings"

	"github.com/Mindburn-Labs/helm-decide/pkg/decideerr"
)

// Env is the evaluation environment: variable bindings available to
// an Expr, including the implicit "for"/"some"/"every" loop variable.
type Env map[string]Value

func (e Env) child(name string, v Value) Env {
	out := make(Env, len(e)+1)
	for k, val := range e {
		out[k] = val
	}
	out[name] = v
	return out
}

// Eval evaluates a general FEEL expression against env.
func Eval(expr Expr, env Env) (Value, error) {
	switch n := expr.(type) {
	case LiteralExpr:
		return n.Value, nil
	case IdentExpr:
		return resolvePath(env, n.Path), nil
	case DontCare:
		return true, nil
	case UnaryExpr:
		return evalUnary(n, env)
	case BinaryExpr:
		return evalBinary(n, env)
	case RangeExpr:
		return n, nil // ranges are only meaningful under "in"/unary-test matching
	case ListExpr:
		out := make([]Value, len(n.Elems))
		for i, e := range n.Elems {
			v, err := Eval(e, env)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case IfExpr:
		cond, err := Eval(n.Cond, env)
		if err != nil {
			return nil, err
		}
		if b, ok := cond.(bool); ok && b {
			return Eval(n.Then, env)
		}
		return Eval(n.Else, env)
	case BetweenExpr:
		x, err := Eval(n.X, env)
		if err != nil {
			return nil, err
		}
		lo, err := Eval(n.Lo, env)
		if err != nil {
			return nil, err
		}
		hi, err := Eval(n.Hi, env)
		if err != nil {
			return nil, err
		}
		return compare(x, lo) >= 0 && compare(x, hi) <= 0, nil
	case InExpr:
		x, err := Eval(n.X, env)
		if err != nil {
			return nil, err
		}
		for _, s := range n.Set {
			v, err := Eval(s, env)
			if err != nil {
				return nil, err
			}
			if valuesEqual(x, v) {
				return true, nil
			}
		}
		return false, nil
	case ForExpr:
		iter, err := Eval(n.Iter, env)
		if err != nil {
			return nil, err
		}
		list, ok := iter.([]Value)
		if !ok {
			return nil, decideerr.FEELEvaluation(fmt.Sprintf("for: %q is not iterable", n.Var))
		}
		out := make([]Value, len(list))
		for i, item := range list {
			v, err := Eval(n.Return, env.child(n.Var, item))
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case QuantifiedExpr:
		iter, err := Eval(n.Iter, env)
		if err != nil {
			return nil, err
		}
		list, ok := iter.([]Value)
		if !ok {
			return nil, decideerr.FEELEvaluation(fmt.Sprintf("quantified: %q is not iterable", n.Var))
		}
		for _, item := range list {
			v, err := Eval(n.Cond, env.child(n.Var, item))
			if err != nil {
				return nil, err
			}
			b, _ := v.(bool)
			if n.Every && !b {
				return false, nil
			}
			if !n.Every && b {
				return true, nil
			}
		}
		return n.Every, nil
	case CallExpr:
		return evalCall(n, env)
	default:
		return nil, decideerr.FEELEvaluation(fmt.Sprintf("unhandled expression node %T", expr))
	}
}

func evalUnary(n UnaryExpr, env Env) (Value, error) {
	x, err := Eval(n.X, env)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case "neg":
		f, ok := asFloat(x)
		if !ok {
			return nil, decideerr.FEELEvaluation("unary minus on non-numeric value")
		}
		return -f, nil
	case "not":
		b, _ := x.(bool)
		return !b, nil
	case "=", "!=", ">", ">=", "<", "<=":
		// A bare comparison against the implicit unary-test subject is
		// handled by MatchUnaryTest, not Eval; reaching here from a
		// general expression means the operator stood alone, which is
		// only valid in a unary-test context.
		return nil, decideerr.FEELEvaluation(fmt.Sprintf("comparison operator %q used outside a unary test", n.Op))
	default:
		return nil, decideerr.FEELEvaluation(fmt.Sprintf("unknown unary operator %q", n.Op))
	}
}

func evalBinary(n BinaryExpr, env Env) (Value, error) {
	switch n.Op {
	case "and":
		x, err := Eval(n.X, env)
		if err != nil {
			return nil, err
		}
		if b, _ := x.(bool); !b {
			return false, nil
		}
		y, err := Eval(n.Y, env)
		if err != nil {
			return nil, err
		}
		b, _ := y.(bool)
		return b, nil
	case "or":
		x, err := Eval(n.X, env)
		if err != nil {
			return nil, err
		}
		if b, _ := x.(bool); b {
			return true, nil
		}
		y, err := Eval(n.Y, env)
		if err != nil {
			return nil, err
		}
		b, _ := y.(bool)
		return b, nil
	}

	x, err := Eval(n.X, env)
	if err != nil {
		return nil, err
	}
	y, err := Eval(n.Y, env)
	if err != nil {
		return nil, err
	}

	switch n.Op {
	case "+":
		if xs, ok := x.(string); ok {
			ys, _ := y.(string)
			return xs + ys, nil
		}
		xf, xok := asFloat(x)
		yf, yok := asFloat(y)
		if !xok || !yok {
			return nil, decideerr.FEELEvaluation("'+' requires two numbers or two strings")
		}
		return xf + yf, nil
	case "-", "*", "/", "%", "**":
		xf, xok := asFloat(x)
		yf, yok := asFloat(y)
		if !xok || !yok {
			return nil, decideerr.FEELEvaluation(fmt.Sprintf("%q requires two numbers", n.Op))
		}
		switch n.Op {
		case "-":
			return xf - yf, nil
		case "*":
			return xf * yf, nil
		case "/":
			if yf == 0 {
				return nil, decideerr.FEELEvaluation("division by zero")
			}
			return xf / yf, nil
		case "%":
			if yf == 0 {
				return nil, decideerr.FEELEvaluation("modulo by zero")
			}
			return math.Mod(xf, yf), nil
		case "**":
			return math.Pow(xf, yf), nil
		}
	case "=":
		return valuesEqual(x, y), nil
	case "!=":
		return !valuesEqual(x, y), nil
	case ">", ">=", "<", "<=":
		c := compare(x, y)
		switch n.Op {
		case ">":
			return c > 0, nil
		case ">=":
			return c >= 0, nil
		case "<":
			return c < 0, nil
		case "<=":
			return c <= 0, nil
		}
	}
	return nil, decideerr.FEELEvaluation(fmt.Sprintf("unknown binary operator %q", n.Op))
}

func evalCall(n CallExpr, env Env) (Value, error) {
	args := make([]Value, len(n.Args))
	for i, a := range n.Args {
		v, err := Eval(a, env)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	switch n.Name {
	case "instance_of":
		if len(args) != 2 {
			return false, nil
		}
		typeName, _ := args[1].(string)
		return typeMatches(args[0], typeName), nil
	case "not":
		if len(args) == 1 {
			b, _ := args[0].(bool)
			return !b, nil
		}
	}
	return nil, decideerr.FEELEvaluation(fmt.Sprintf("unknown function %q", n.Name))
}

func typeMatches(v Value, typeName string) bool {
	switch typeName {
	case "number":
		_, ok := v.(float64)
		return ok
	case "string":
		_, ok := v.(string)
		return ok
	case "boolean":
		_, ok := v.(bool)
		return ok
	case "list":
		_, ok := v.([]Value)
		return ok
	default:
		return false
	}
}

// resolvePath resolves a dotted identifier path against env, returning
// nil if any segment is missing.
func resolvePath(env Env, path string) Value {
	segments := strings.Split(path, ".")
	var cur Value = env[segments[0]]
	for _, seg := range segments[1:] {
		m, ok := cur.(map[string]Value)
		if !ok {
			mi, ok2 := cur.(map[string]interface{})
			if !ok2 {
				return nil
			}
			m = mi
		}
		cur = m[seg]
	}
	return cur
}

func asFloat(v Value) (float64, bool) {
	f, ok := v.(float64)
	return f, ok
}
