package dmn

import (
	"fmt"

	"github.com/Mindburn-Labs/helm-decide/pkg/decideerr"
)

// Validate checks the invariants of §4.14: unknown hit policy,
// duplicate element ids (already impossible given Graph's map keying,
// but checked for clauses/rows too), decision-graph cycles (via
// topological sort), missing information-requirement targets, and
// mismatched input/output counts between rule rows and the table
// header. On success it populates g.Order with a topological ordering.
func Validate(g *Graph) error {
	for id, d := range g.Decisions {
		for _, dep := range d.InformationRequires {
			if _, ok := g.Decisions[dep]; !ok {
				return decideerr.DMNParse(fmt.Sprintf("decision %q requires unknown decision %q", id, dep))
			}
		}
		if d.Table != nil {
			if err := validateTable(id, d.Table); err != nil {
				return err
			}
		}
	}

	order, err := topoSort(g)
	if err != nil {
		return err
	}
	g.Order = order
	return nil
}

func validateTable(decisionID string, t *Table) error {
	switch t.HitPolicy {
	case HitUnique, HitFirst, HitPriority, HitAny, HitCollect:
	default:
		return decideerr.DMNParse(fmt.Sprintf("decision %q: unknown hit policy %q", decisionID, t.HitPolicy))
	}

	seenClauseIDs := make(map[string]bool, len(t.Inputs)+len(t.Outputs))
	clauseIDs := make([]string, 0, len(t.Inputs)+len(t.Outputs))
	for _, in := range t.Inputs {
		clauseIDs = append(clauseIDs, in.ID)
	}
	for _, out := range t.Outputs {
		clauseIDs = append(clauseIDs, out.ID)
	}
	for _, cid := range clauseIDs {
		if cid != "" && seenClauseIDs[cid] {
			return decideerr.DMNParse(fmt.Sprintf("decision %q: duplicate clause id %q", decisionID, cid))
		}
		seenClauseIDs[cid] = true
	}

	seenRowIDs := make(map[string]bool, len(t.Rules))
	for _, row := range t.Rules {
		if row.ID != "" {
			if seenRowIDs[row.ID] {
				return decideerr.DMNParse(fmt.Sprintf("decision %q: duplicate rule id %q", decisionID, row.ID))
			}
			seenRowIDs[row.ID] = true
		}
		if len(row.InputEntries) != len(t.Inputs) {
			return decideerr.DMNParse(fmt.Sprintf("decision %q: rule %q has %d input entries, table declares %d inputs", decisionID, row.ID, len(row.InputEntries), len(t.Inputs)))
		}
		if len(row.OutputEntries) != len(t.Outputs) {
			return decideerr.DMNParse(fmt.Sprintf("decision %q: rule %q has %d output entries, table declares %d outputs", decisionID, row.ID, len(row.OutputEntries), len(t.Outputs)))
		}
	}
	return nil
}

// topoSort detects cycles and returns a valid evaluation order
// (upstream decisions first) via Kahn's algorithm.
func topoSort(g *Graph) ([]string, error) {
	indegree := make(map[string]int, len(g.Decisions))
	dependents := make(map[string][]string)
	for id := range g.Decisions {
		indegree[id] = 0
	}
	for id, d := range g.Decisions {
		for _, dep := range d.InformationRequires {
			indegree[id]++
			dependents[dep] = append(dependents[dep], id)
		}
	}

	var queue []string
	for id, deg := range indegree {
		if deg == 0 {
			queue = append(queue, id)
		}
	}

	var order []string
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		order = append(order, id)
		for _, dependent := range dependents[id] {
			indegree[dependent]--
			if indegree[dependent] == 0 {
				queue = append(queue, dependent)
			}
		}
	}

	if len(order) != len(g.Decisions) {
		return nil, decideerr.DMNParse("decision graph contains a cycle")
	}
	return order, nil
}
