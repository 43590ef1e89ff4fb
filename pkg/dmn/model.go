// Package dmn implements the DMN 1.3 model (§3), its XML parser
// (§4.14), and decision-table evaluation under each hit policy
// (§4.15).
package dmn

// HitPolicy selects how a decision table's matching rows combine into
// an output (§3, §4.15).
type HitPolicy string

const (
	HitUnique   HitPolicy = "UNIQUE"
	HitFirst    HitPolicy = "FIRST"
	HitPriority HitPolicy = "PRIORITY"
	HitAny      HitPolicy = "ANY"
	HitCollect  HitPolicy = "COLLECT"
)

// Aggregator folds a COLLECT hit policy's matches.
type Aggregator string

const (
	AggregatorNone  Aggregator = ""
	AggregatorSum   Aggregator = "SUM"
	AggregatorMin   Aggregator = "MIN"
	AggregatorMax   Aggregator = "MAX"
	AggregatorCount Aggregator = "COUNT"
)

// InputClause is one input column of a decision table: the FEEL
// expression evaluated against the effective context, paired with the
// entries (per-row unary tests) in RuleRow.InputEntries at the same index.
type InputClause struct {
	ID         string
	Label      string
	Expression string
}

// OutputClause is one output column; its declared name becomes the
// context key downstream decisions see under the decision's id.
type OutputClause struct {
	ID   string
	Name string
}

// RuleRow is one row of a decision table: one unary-test string per
// input column, one literal FEEL value expression per output column.
type RuleRow struct {
	ID            string
	InputEntries  []string
	OutputEntries []string
	// Priority is this row's declaration index. The PRIORITY hit policy
	// falls back to it (lower first) when the rows' first output
	// entries are not numeric.
	Priority int
}

// Table is a DMN decision table (§3).
type Table struct {
	Inputs     []InputClause
	Outputs    []OutputClause
	Rules      []RuleRow
	HitPolicy  HitPolicy
	Aggregator Aggregator
}

// Decision is one node of the DMN decision graph (§3). Exactly one of
// Table or LiteralExpression is populated. Decision trees are not
// supported: the parser reads decision tables and literal expressions
// only.
type Decision struct {
	ID                   string
	Name                 string
	Table                *Table
	LiteralExpression    string
	InformationRequires  []string // decision ids this decision depends on
}

// Graph is the full DMN model (§3): a DAG of Decisions.
type Graph struct {
	Decisions map[string]*Decision
	// Order is a topological ordering of decision ids, upstream first;
	// populated by Validate.
	Order []string
}
