package dmn

import (
	"encoding/xml"
)

// Write serializes a Graph back to DMN 1.3 XML (§4.14, §4.16). Export
// is structural: it re-emits the same element shapes Parse consumes,
// so a round-tripped document parses back to an equivalent Graph.
func Write(g *Graph) ([]byte, error) {
	defs := xmlDefinitions{
		XMLName: xml.Name{Space: dmnNamespacePrefix + "20191111/MODEL/", Local: "definitions"},
	}
	for _, id := range orderedIDs(g) {
		d := g.Decisions[id]
		defs.Decisions = append(defs.Decisions, decisionToXML(d))
	}

	out, err := xml.MarshalIndent(defs, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}

// orderedIDs prefers the validated topological order when present so
// exported documents are stable; it falls back to map iteration (any
// order) only for a Graph that was built without calling Validate.
func orderedIDs(g *Graph) []string {
	if len(g.Order) == len(g.Decisions) {
		return g.Order
	}
	ids := make([]string, 0, len(g.Decisions))
	for id := range g.Decisions {
		ids = append(ids, id)
	}
	return ids
}

func decisionToXML(d *Decision) xmlDecision {
	xd := xmlDecision{ID: d.ID, Name: d.Name}
	for _, dep := range d.InformationRequires {
		xd.InformationReq = append(xd.InformationReq, xmlInformationReq{RequiredDecision: &xmlHrefRef{Href: "#" + dep}})
	}
	if d.Table != nil {
		xd.DecisionTable = tableToXML(d.Table)
	}
	if d.LiteralExpression != "" {
		xd.LiteralExpression = &xmlLiteralExpression{Text: d.LiteralExpression}
	}
	return xd
}

func tableToXML(t *Table) *xmlDecisionTable {
	xt := &xmlDecisionTable{
		HitPolicy:   string(t.HitPolicy),
		Aggregation: string(t.Aggregator),
	}
	for _, in := range t.Inputs {
		xt.Inputs = append(xt.Inputs, xmlInput{ID: in.ID, Label: in.Label, Expression: xmlInputExpr{Text: in.Expression}})
	}
	for _, out := range t.Outputs {
		xt.Outputs = append(xt.Outputs, xmlOutput{ID: out.ID, Name: out.Name})
	}
	for _, row := range t.Rules {
		xr := xmlRuleRow{ID: row.ID}
		for _, e := range row.InputEntries {
			xr.InputEntries = append(xr.InputEntries, xmlEntryText{Text: e})
		}
		for _, e := range row.OutputEntries {
			xr.OutputEntries = append(xr.OutputEntries, xmlEntryText{Text: e})
		}
		xt.Rules = append(xt.Rules, xr)
	}
	return xt
}
