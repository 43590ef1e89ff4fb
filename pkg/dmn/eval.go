package dmn

import (
	"fmt"
	"sort"

	"github.com/Mindburn-Labs/helm-decide/pkg/decideerr"
	"github.com/Mindburn-Labs/helm-decide/pkg/feel"
)

// matchedRow is a rule row that matched, with its evaluated outputs.
type matchedRow struct {
	row     RuleRow
	outputs map[string]feel.Value
}

// EvaluateTable evaluates a single decision table against env, folding
// matching rows per the table's hit policy (§4.15).
func EvaluateTable(t *Table, env feel.Env) (map[string]feel.Value, error) {
	var matches []matchedRow

	for _, row := range t.Rules {
		ok, err := rowMatches(t, row, env)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		outputs, err := evalOutputs(t, row, env)
		if err != nil {
			return nil, err
		}
		matches = append(matches, matchedRow{row: row, outputs: outputs})
	}

	switch t.HitPolicy {
	case HitUnique:
		return resolveUnique(matches)
	case HitFirst:
		return resolveFirst(matches)
	case HitPriority:
		return resolvePriority(matches)
	case HitAny:
		return resolveAny(matches)
	case HitCollect:
		return resolveCollect(t, matches)
	default:
		return nil, decideerr.FEELEvaluation(fmt.Sprintf("unknown hit policy %q", t.HitPolicy))
	}
}

func rowMatches(t *Table, row RuleRow, env feel.Env) (bool, error) {
	for i, input := range t.Inputs {
		entry := row.InputEntries[i]
		if entry == "" {
			continue // an empty cell is an unconditional match for that column
		}
		// A malformed input expression is a malformed table, reported as
		// a FEEL evaluation error at the first row that reaches it.
		expr, err := feel.ParseExpr(input.Expression)
		if err != nil {
			return false, decideerr.FEELEvaluation(fmt.Sprintf("input clause %q: %v", input.Label, err))
		}
		subject, err := feel.Eval(expr, env)
		if err != nil {
			return false, decideerr.FEELEvaluation(fmt.Sprintf("input clause %q: %v", input.Label, err))
		}
		matched, err := feel.EvalUnaryTestSource(entry, subject, env)
		if err != nil {
			return false, err
		}
		if !matched {
			return false, nil
		}
	}
	return true, nil
}

func evalOutputs(t *Table, row RuleRow, env feel.Env) (map[string]feel.Value, error) {
	outputs := make(map[string]feel.Value, len(t.Outputs))
	for i, out := range t.Outputs {
		entry := row.OutputEntries[i]
		expr, err := feel.ParseExpr(entry)
		if err != nil {
			return nil, decideerr.FEELParse(fmt.Sprintf("output clause %q: %v", out.Name, err))
		}
		v, err := feel.Eval(expr, env)
		if err != nil {
			return nil, decideerr.FEELEvaluation(fmt.Sprintf("output clause %q: %v", out.Name, err))
		}
		outputs[out.Name] = v
	}
	return outputs, nil
}

func resolveUnique(matches []matchedRow) (map[string]feel.Value, error) {
	if len(matches) == 0 {
		return nil, decideerr.FEELEvaluation("UNIQUE hit policy: no rule matched")
	}
	if len(matches) > 1 {
		return nil, decideerr.FEELEvaluation(fmt.Sprintf("UNIQUE hit policy: %d rules matched, expected exactly one", len(matches)))
	}
	return matches[0].outputs, nil
}

func resolveFirst(matches []matchedRow) (map[string]feel.Value, error) {
	if len(matches) == 0 {
		return nil, decideerr.FEELEvaluation("FIRST hit policy: no rule matched")
	}
	return matches[0].outputs, nil
}

func resolvePriority(matches []matchedRow) (map[string]feel.Value, error) {
	if len(matches) == 0 {
		return nil, decideerr.FEELEvaluation("PRIORITY hit policy: no rule matched")
	}
	sorted := make([]matchedRow, len(matches))
	copy(sorted, matches)
	sort.SliceStable(sorted, func(i, j int) bool {
		ri, iok := priorityRank(firstOutputEntry(sorted[i].row))
		rj, jok := priorityRank(firstOutputEntry(sorted[j].row))
		if iok && jok {
			return ri > rj // higher declared priority value wins
		}
		return sorted[i].row.Priority < sorted[j].row.Priority // fall back to declaration order
	})
	return sorted[0].outputs, nil
}

func firstOutputEntry(row RuleRow) string {
	if len(row.OutputEntries) == 0 {
		return ""
	}
	return row.OutputEntries[0]
}

func resolveAny(matches []matchedRow) (map[string]feel.Value, error) {
	if len(matches) == 0 {
		return nil, decideerr.FEELEvaluation("ANY hit policy: no rule matched")
	}
	first := matches[0].outputs
	for _, m := range matches[1:] {
		if !outputsEqual(first, m.outputs) {
			return nil, decideerr.FEELEvaluation("ANY hit policy: matched rules produced conflicting outputs")
		}
	}
	return first, nil
}

func outputsEqual(a, b map[string]feel.Value) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		bv, ok := b[k]
		if !ok || fmt.Sprint(v) != fmt.Sprint(bv) {
			return false
		}
	}
	return true
}

func resolveCollect(t *Table, matches []matchedRow) (map[string]feel.Value, error) {
	if len(matches) == 0 {
		if t.Aggregator == AggregatorCount {
			return map[string]feel.Value{collectKey(t): float64(0)}, nil
		}
		return map[string]feel.Value{collectKey(t): []feel.Value{}}, nil
	}

	key := collectKey(t)
	values := make([]feel.Value, 0, len(matches))
	for _, m := range matches {
		values = append(values, m.outputs[key])
	}

	switch t.Aggregator {
	case AggregatorNone:
		return map[string]feel.Value{key: values}, nil
	case AggregatorCount:
		return map[string]feel.Value{key: float64(len(values))}, nil
	case AggregatorSum, AggregatorMin, AggregatorMax:
		return map[string]feel.Value{key: foldNumeric(t.Aggregator, values)}, nil
	default:
		return nil, decideerr.FEELEvaluation(fmt.Sprintf("unknown COLLECT aggregator %q", t.Aggregator))
	}
}

func collectKey(t *Table) string {
	if len(t.Outputs) == 0 {
		return ""
	}
	return t.Outputs[0].Name
}

func foldNumeric(agg Aggregator, values []feel.Value) float64 {
	var result float64
	for i, v := range values {
		f, ok := v.(float64)
		if !ok {
			continue
		}
		switch {
		case i == 0:
			result = f
		case agg == AggregatorSum:
			result += f
		case agg == AggregatorMin && f < result:
			result = f
		case agg == AggregatorMax && f > result:
			result = f
		}
	}
	return result
}

// EvaluateGraph evaluates every decision in g in topological order,
// injecting each upstream decision's outputs into downstream
// decisions' environment under the decision's id (§4.15). It returns
// every decision's output map keyed by decision id.
func EvaluateGraph(g *Graph, initial map[string]interface{}) (map[string]map[string]feel.Value, error) {
	env := make(feel.Env, len(initial))
	for k, v := range initial {
		env[k] = v
	}

	results := make(map[string]map[string]feel.Value, len(g.Decisions))
	for _, id := range g.Order {
		d := g.Decisions[id]
		var out map[string]feel.Value
		var err error

		switch {
		case d.Table != nil:
			out, err = EvaluateTable(d.Table, env)
		case d.LiteralExpression != "":
			expr, perr := feel.ParseExpr(d.LiteralExpression)
			if perr != nil {
				return nil, decideerr.FEELParse(fmt.Sprintf("decision %q: %v", id, perr))
			}
			v, eerr := feel.Eval(expr, env)
			if eerr != nil {
				err = eerr
			} else {
				out = map[string]feel.Value{id: v}
			}
		default:
			return nil, decideerr.FEELEvaluation(fmt.Sprintf("decision %q has no evaluable body", id))
		}

		if err != nil {
			return nil, fmt.Errorf("decision %q: %w", id, err)
		}

		results[id] = out
		env[id] = feel.Value(out)
	}

	return results, nil
}
