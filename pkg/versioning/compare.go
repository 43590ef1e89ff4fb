package versioning

import (
	"encoding/json"
	"fmt"

	"github.com/Mindburn-Labs/helm-decide/pkg/rules"
)

// Compare produces the §4.11 structural diff between two rule
// document contents: added rule ids, removed rule ids, and changed
// rules (rules present in both but with differing then/if content).
func Compare(a, b []byte) (*Diff, error) {
	var rsA, rsB rules.Ruleset
	if err := json.Unmarshal(a, &rsA); err != nil {
		return nil, fmt.Errorf("versioning: decode a: %w", err)
	}
	if err := json.Unmarshal(b, &rsB); err != nil {
		return nil, fmt.Errorf("versioning: decode b: %w", err)
	}

	byID := func(rs rules.Ruleset) map[string]rules.Rule {
		m := make(map[string]rules.Rule, len(rs.Rules))
		for _, r := range rs.Rules {
			m[r.ID] = r
		}
		return m
	}
	mapA, mapB := byID(rsA), byID(rsB)

	diff := &Diff{ChangedRuleIDs: map[string]string{}}
	for id := range mapB {
		if _, ok := mapA[id]; !ok {
			diff.AddedRuleIDs = append(diff.AddedRuleIDs, id)
		}
	}
	for id := range mapA {
		if _, ok := mapB[id]; !ok {
			diff.RemovedRuleIDs = append(diff.RemovedRuleIDs, id)
		}
	}
	for id, ruleA := range mapA {
		ruleB, ok := mapB[id]
		if !ok {
			continue
		}
		encA, _ := json.Marshal(ruleA)
		encB, _ := json.Marshal(ruleB)
		if string(encA) != string(encB) {
			diff.ChangedRuleIDs[id] = "if/then content differs"
		}
	}

	if len(diff.ChangedRuleIDs) == 0 {
		diff.ChangedRuleIDs = nil
	}
	return diff, nil
}
