package dmn

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Mindburn-Labs/helm-decide/pkg/condition"
	"github.com/Mindburn-Labs/helm-decide/pkg/decideerr"
	"github.com/Mindburn-Labs/helm-decide/pkg/rules"
)

// ToRuleset converts a FIRST-hit-policy decision table into an
// equivalent rule document (§4.16): each row becomes a rule whose
// condition is the conjunction of its input-cell comparisons in
// declaration order, preserving FIRST's first-match-wins semantics.
// Only FIRST tables convert losslessly; other hit policies have no
// single-winner rule-engine equivalent.
func ToRuleset(d *Decision, version string) (*rules.Ruleset, error) {
	if d.Table == nil {
		return nil, decideerr.DMNParse(fmt.Sprintf("decision %q has no decision table to convert", d.ID))
	}
	if d.Table.HitPolicy != HitFirst {
		return nil, decideerr.DMNParse(fmt.Sprintf("decision %q: only FIRST hit policy tables convert to rules, got %q", d.ID, d.Table.HitPolicy))
	}

	rs := &rules.Ruleset{Version: version, Ruleset: d.ID}
	for i, row := range d.Table.Rules {
		node, err := rowToNode(d.Table, row)
		if err != nil {
			return nil, err
		}
		then, err := rowToThen(d.Table, row)
		if err != nil {
			return nil, err
		}

		id := row.ID
		if id == "" {
			id = fmt.Sprintf("%s-row-%d", d.ID, i)
		}
		rs.Rules = append(rs.Rules, rules.Rule{ID: id, If: node, Then: then})
	}
	return rs, nil
}

func rowToNode(t *Table, row RuleRow) (*condition.Node, error) {
	var clauses []*condition.Node
	for i, input := range t.Inputs {
		entry := strings.TrimSpace(row.InputEntries[i])
		if entry == "" || entry == "-" {
			continue
		}
		clause, err := entryToNode(input.Expression, entry)
		if err != nil {
			return nil, fmt.Errorf("decision table row %q, column %q: %w", row.ID, input.Label, err)
		}
		clauses = append(clauses, clause)
	}
	switch len(clauses) {
	case 0:
		return &condition.Node{All: []*condition.Node{}}, nil // unconditional match
	case 1:
		return clauses[0], nil
	default:
		return &condition.Node{All: clauses}, nil
	}
}

// entryToNode converts a single FEEL unary-test cell into a leaf
// condition. Only the subset of entry-level FEEL grammar a rule
// condition leaf can express converts: literal equality, a single
// comparison operator, and inclusive ranges. Disjunctions and
// don't-cares beyond the cell's own "-" already handled by the caller
// are rejected as non-convertible.
func entryToNode(field, entry string) (*condition.Node, error) {
	if strings.Contains(entry, ",") {
		return nil, fmt.Errorf("disjunctive entry %q has no single-leaf equivalent", entry)
	}

	for _, op := range []struct {
		prefix string
		name   string
	}{
		{">=", "gte"}, {"<=", "lte"}, {"!=", "ne"}, {">", "gt"}, {"<", "lt"}, {"=", "eq"},
	} {
		if strings.HasPrefix(entry, op.prefix) {
			raw := strings.TrimSpace(strings.TrimPrefix(entry, op.prefix))
			v, err := literalValue(raw)
			if err != nil {
				return nil, err
			}
			return &condition.Node{Field: field, Op: op.name, Value: v}, nil
		}
	}

	if strings.HasPrefix(entry, "[") || strings.HasPrefix(entry, "]") {
		lo, hi, err := parseRangeEntry(entry)
		if err != nil {
			return nil, err
		}
		return &condition.Node{Field: field, Op: "between", Value: []interface{}{lo, hi}}, nil
	}

	v, err := literalValue(entry)
	if err != nil {
		return nil, err
	}
	return &condition.Node{Field: field, Op: "eq", Value: v}, nil
}

func literalValue(raw string) (interface{}, error) {
	if strings.HasPrefix(raw, `"`) && strings.HasSuffix(raw, `"`) && len(raw) >= 2 {
		return raw[1 : len(raw)-1], nil
	}
	if raw == "true" {
		return true, nil
	}
	if raw == "false" {
		return false, nil
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f, nil
	}
	return nil, fmt.Errorf("cannot convert entry %q to a rule literal", raw)
}

func parseRangeEntry(entry string) (float64, float64, error) {
	if len(entry) < 2 {
		return 0, 0, fmt.Errorf("malformed range entry %q", entry)
	}
	inner := entry[1 : len(entry)-1]
	parts := strings.SplitN(inner, "..", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("malformed range entry %q", entry)
	}
	lo, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	hi, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err1 != nil || err2 != nil {
		return 0, 0, fmt.Errorf("malformed range entry %q", entry)
	}
	return lo, hi, nil
}

func rowToThen(t *Table, row RuleRow) (rules.Then, error) {
	then := rules.Then{Weight: 1.0, Reason: fmt.Sprintf("matched row %s", row.ID)}
	for i, out := range t.Outputs {
		v, err := literalValue(strings.TrimSpace(row.OutputEntries[i]))
		if err != nil {
			return rules.Then{}, fmt.Errorf("output column %q: %w", out.Name, err)
		}
		switch out.Name {
		case "decision":
			if s, ok := v.(string); ok {
				then.Decision = s
			}
		case "weight":
			if f, ok := v.(float64); ok {
				then.Weight = f
			}
		case "reason":
			if s, ok := v.(string); ok {
				then.Reason = s
			}
		default:
			if then.Decision == "" && i == 0 {
				if s, ok := v.(string); ok {
					then.Decision = s
				}
			}
		}
	}
	if then.Decision == "" {
		return rules.Then{}, fmt.Errorf("row %q: could not determine a decision value from the output columns", row.ID)
	}
	return then, nil
}

// FromRuleset builds a FIRST-hit-policy decision table equivalent to
// rs, for export back to DMN XML. Every rule's condition must be a
// conjunction of leaf comparisons (nested all groups are flattened)
// over the fields named in fieldOrder (the inverse of ToRuleset); any
// combinators and leaf operators with no DMN equivalent are rejected.
func FromRuleset(rs *rules.Ruleset, fieldOrder []string) (*Table, error) {
	t := &Table{HitPolicy: HitFirst}
	for _, f := range fieldOrder {
		t.Inputs = append(t.Inputs, InputClause{ID: f, Label: f, Expression: f})
	}
	t.Outputs = []OutputClause{{ID: "decision", Name: "decision"}, {ID: "weight", Name: "weight"}, {ID: "reason", Name: "reason"}}

	for i, r := range rs.Rules {
		row := RuleRow{ID: r.ID, Priority: i}
		cells, err := nodeToEntries(r.If, fieldOrder)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", r.ID, err)
		}
		row.InputEntries = cells
		row.OutputEntries = []string{
			quoteString(r.Then.Decision),
			strconv.FormatFloat(r.Then.Weight, 'g', -1, 64),
			quoteString(r.Then.Reason),
		}
		t.Rules = append(t.Rules, row)
	}
	return t, nil
}

func quoteString(s string) string { return `"` + s + `"` }

// nodeToEntries flattens a rule condition into one unary-test cell per
// field in fieldOrder, requiring at most one leaf per field and no
// nested "any" (disjunction has no per-cell DMN equivalent here).
func nodeToEntries(n *condition.Node, fieldOrder []string) ([]string, error) {
	leaves := map[string]*condition.Node{}
	if err := collectLeaves(n, leaves); err != nil {
		return nil, err
	}

	cells := make([]string, len(fieldOrder))
	for i, f := range fieldOrder {
		leaf, ok := leaves[f]
		if !ok {
			cells[i] = "-"
			continue
		}
		entry, err := leafToEntry(leaf)
		if err != nil {
			return nil, err
		}
		cells[i] = entry
	}
	return cells, nil
}

func collectLeaves(n *condition.Node, out map[string]*condition.Node) error {
	if n == nil {
		return nil
	}
	if n.IsLeaf() {
		if n.Field != "" {
			if _, dup := out[n.Field]; dup {
				return fmt.Errorf("field %q has more than one leaf comparison", n.Field)
			}
			out[n.Field] = n
		}
		return nil
	}
	if n.Any != nil {
		return fmt.Errorf("an \"any\" combinator has no single decision-table cell equivalent")
	}
	for _, c := range n.All {
		if err := collectLeaves(c, out); err != nil {
			return err
		}
	}
	return nil
}

func leafToEntry(n *condition.Node) (string, error) {
	switch n.Op {
	case "eq":
		return literalToEntry(n.Value), nil
	case "ne":
		return "!=" + literalToEntry(n.Value), nil
	case "gt":
		return ">" + literalToEntry(n.Value), nil
	case "gte":
		return ">=" + literalToEntry(n.Value), nil
	case "lt":
		return "<" + literalToEntry(n.Value), nil
	case "lte":
		return "<=" + literalToEntry(n.Value), nil
	case "between":
		lo, hi, ok := rangeBoundsForExport(n.Value)
		if !ok {
			return "", fmt.Errorf("malformed between value on field %q", n.Field)
		}
		return fmt.Sprintf("[%s..%s]", strconv.FormatFloat(lo, 'g', -1, 64), strconv.FormatFloat(hi, 'g', -1, 64)), nil
	default:
		return "", fmt.Errorf("operator %q has no decision-table cell equivalent", n.Op)
	}
}

func rangeBoundsForExport(value interface{}) (float64, float64, bool) {
	list, ok := value.([]interface{})
	if !ok || len(list) != 2 {
		return 0, 0, false
	}
	lo, ok1 := toFloatAny(list[0])
	hi, ok2 := toFloatAny(list[1])
	return lo, hi, ok1 && ok2
}

func toFloatAny(v interface{}) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	default:
		return 0, false
	}
}

func literalToEntry(v interface{}) string {
	switch t := v.(type) {
	case string:
		return quoteString(t)
	case bool:
		if t {
			return "true"
		}
		return "false"
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}
