// Package dmneval adapts a DMN decision graph into the evaluator.Evaluator
// contract (§4.5): one decision within the graph is designated the
// top-level decision, its output is translated into an Evaluation, and
// its content hash is the canonical hash of the graph's exported XML.
package dmneval

import (
	stdctx "context"
	"fmt"

	"github.com/Mindburn-Labs/helm-decide/pkg/canonicalize"
	"github.com/Mindburn-Labs/helm-decide/pkg/condition"
	dctx "github.com/Mindburn-Labs/helm-decide/pkg/context"
	"github.com/Mindburn-Labs/helm-decide/pkg/dmn"
	"github.com/Mindburn-Labs/helm-decide/pkg/evaluator"
)

// Evaluator wraps a dmn.Graph. TopLevelDecision names the decision
// whose output carries the decision/weight/reason triple; any decision
// it transitively requires is evaluated first via dmn.EvaluateGraph.
type Evaluator struct {
	name             string
	graph            *dmn.Graph
	topLevelDecision string
	contentHash      string
}

// New validates g (via dmn.Validate, already done by dmn.Parse) and
// computes its content hash from the canonical XML export.
func New(name string, g *dmn.Graph, topLevelDecision string) (*Evaluator, error) {
	if _, ok := g.Decisions[topLevelDecision]; !ok {
		return nil, fmt.Errorf("dmneval: unknown top-level decision %q", topLevelDecision)
	}
	xmlBytes, err := dmn.Write(g)
	if err != nil {
		return nil, fmt.Errorf("dmneval: hashing graph: %w", err)
	}
	return &Evaluator{
		name:             name,
		graph:            g,
		topLevelDecision: topLevelDecision,
		contentHash:      canonicalize.HashBytes(xmlBytes),
	}, nil
}

func (e *Evaluator) Name() string        { return e.name }
func (e *Evaluator) ContentHash() string { return e.contentHash }

func (e *Evaluator) Evaluate(_ stdctx.Context, c *dctx.Context, _ condition.Enricher) (*evaluator.Evaluation, bool, *condition.Descriptor, []condition.Descriptor, error) {
	results, err := dmn.EvaluateGraph(e.graph, c.Raw())
	if err != nil {
		// A hit-policy violation (e.g. UNIQUE with two overlapping
		// matches) is a genuine evaluation failure, not "no evaluation"
		// — it propagates rather than being swallowed.
		return nil, false, nil, nil, err
	}

	out := results[e.topLevelDecision]
	decision, _ := out["decision"].(string)
	if decision == "" {
		return nil, false, nil, nil, nil
	}
	weight, _ := out["weight"].(float64)
	reason, _ := out["reason"].(string)

	eval := &evaluator.Evaluation{
		Decision:      decision,
		Weight:        weight,
		Reason:        reason,
		EvaluatorName: e.name,
	}
	desc := condition.Descriptor{Text: fmt.Sprintf("dmn(%s/%s) -> %s", e.name, e.topLevelDecision, decision), Pass: true}
	return eval, true, &desc, nil, nil
}
