package dmn

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/Mindburn-Labs/helm-decide/pkg/decideerr"
)

// The OMG DMN 1.3 namespace (§4.14). Older/newer minor revisions of
// the same namespace family are accepted leniently since the element
// shapes this parser cares about are stable across them.
const dmnNamespacePrefix = "https://www.omg.org/spec/DMN/"

type xmlDefinitions struct {
	XMLName   xml.Name      `xml:"definitions"`
	Decisions []xmlDecision `xml:"decision"`
}

type xmlDecision struct {
	ID                  string                `xml:"id,attr"`
	Name                string                `xml:"name,attr"`
	InformationReq      []xmlInformationReq   `xml:"informationRequirement"`
	DecisionTable       *xmlDecisionTable     `xml:"decisionTable"`
	LiteralExpression   *xmlLiteralExpression `xml:"literalExpression"`
}

type xmlInformationReq struct {
	RequiredDecision *xmlHrefRef `xml:"requiredDecision"`
}

type xmlHrefRef struct {
	Href string `xml:"href,attr"`
}

type xmlLiteralExpression struct {
	Text string `xml:"text"`
}

type xmlDecisionTable struct {
	HitPolicy  string       `xml:"hitPolicy,attr"`
	Aggregation string      `xml:"aggregation,attr"`
	Inputs     []xmlInput   `xml:"input"`
	Outputs    []xmlOutput  `xml:"output"`
	Rules      []xmlRuleRow `xml:"rule"`
}

type xmlInput struct {
	ID         string            `xml:"id,attr"`
	Label      string            `xml:"label,attr"`
	Expression xmlInputExpr      `xml:"inputExpression"`
}

type xmlInputExpr struct {
	Text string `xml:"text"`
}

type xmlOutput struct {
	ID   string `xml:"id,attr"`
	Name string `xml:"name,attr"`
}

type xmlRuleRow struct {
	ID            string         `xml:"id,attr"`
	InputEntries  []xmlEntryText `xml:"inputEntry"`
	OutputEntries []xmlEntryText `xml:"outputEntry"`
}

type xmlEntryText struct {
	Text string `xml:"text"`
}

// Parse decodes DMN 1.3 XML into a validated Graph.
func Parse(data []byte) (*Graph, error) {
	var defs xmlDefinitions
	if err := xml.Unmarshal(data, &defs); err != nil {
		return nil, decideerr.DMNParse(fmt.Sprintf("malformed XML: %v", err))
	}
	if defs.XMLName.Space != "" && !strings.HasPrefix(defs.XMLName.Space, dmnNamespacePrefix) {
		return nil, decideerr.DMNParse(fmt.Sprintf("unrecognized DMN namespace %q", defs.XMLName.Space))
	}

	graph := &Graph{Decisions: make(map[string]*Decision, len(defs.Decisions))}
	seenIDs := make(map[string]bool, len(defs.Decisions))

	for _, xd := range defs.Decisions {
		if xd.ID == "" {
			return nil, decideerr.DMNParse("decision element missing id")
		}
		if seenIDs[xd.ID] {
			return nil, decideerr.DMNParse(fmt.Sprintf("duplicate decision id %q", xd.ID))
		}
		seenIDs[xd.ID] = true

		decision := &Decision{ID: xd.ID, Name: xd.Name}
		for _, req := range xd.InformationReq {
			if req.RequiredDecision == nil {
				continue
			}
			decision.InformationRequires = append(decision.InformationRequires, strings.TrimPrefix(req.RequiredDecision.Href, "#"))
		}

		switch {
		case xd.DecisionTable != nil:
			table, err := convertTable(xd.DecisionTable)
			if err != nil {
				return nil, err
			}
			decision.Table = table
		case xd.LiteralExpression != nil:
			decision.LiteralExpression = xd.LiteralExpression.Text
		default:
			return nil, decideerr.DMNParse(fmt.Sprintf("decision %q has neither a decision table nor a literal expression", xd.ID))
		}

		graph.Decisions[xd.ID] = decision
	}

	if err := Validate(graph); err != nil {
		return nil, err
	}
	return graph, nil
}

func convertTable(xt *xmlDecisionTable) (*Table, error) {
	hitPolicy := HitPolicy(xt.HitPolicy)
	if hitPolicy == "" {
		hitPolicy = HitUnique
	}

	table := &Table{
		HitPolicy:  hitPolicy,
		Aggregator: Aggregator(strings.ToUpper(xt.Aggregation)),
	}

	for _, in := range xt.Inputs {
		table.Inputs = append(table.Inputs, InputClause{ID: in.ID, Label: in.Label, Expression: strings.TrimSpace(in.Expression.Text)})
	}
	for _, out := range xt.Outputs {
		table.Outputs = append(table.Outputs, OutputClause{ID: out.ID, Name: out.Name})
	}
	for i, r := range xt.Rules {
		row := RuleRow{ID: r.ID, Priority: i}
		for _, e := range r.InputEntries {
			row.InputEntries = append(row.InputEntries, strings.TrimSpace(e.Text))
		}
		for _, e := range r.OutputEntries {
			row.OutputEntries = append(row.OutputEntries, strings.TrimSpace(e.Text))
		}
		table.Rules = append(table.Rules, row)
	}

	return table, nil
}

// priorityRank parses a numeric priority out of an output entry for
// the PRIORITY hit policy, falling back to the row's declaration order
// when the output is not itself numeric (§4.15: "by declared output
// value ordering").
func priorityRank(outputEntry string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(outputEntry))
	if err != nil {
		return 0, false
	}
	return n, true
}
