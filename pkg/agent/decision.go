// Package agent implements the Decision orchestrator (§4.7): it runs
// an ordered list of Evaluators against a Context, scores the
// resulting Evaluations, and assembles an immutable Decision together
// with its AuditRecord.
package agent

import (
	"github.com/Mindburn-Labs/helm-decide/pkg/audit"
	"github.com/Mindburn-Labs/helm-decide/pkg/condition"
	"github.com/Mindburn-Labs/helm-decide/pkg/decideerr"
	"github.com/Mindburn-Labs/helm-decide/pkg/evaluator"
)

// Decision is the agent's final output (§3). Immutable after
// construction; it carries its own audit record so replay needs no
// external state besides the rule text/evaluator identities.
type Decision struct {
	Decision         string                   `json:"decision"`
	Confidence       float64                  `json:"confidence"`
	Explanations     []string                 `json:"explanations"`
	Evaluations      []*evaluator.Evaluation  `json:"evaluations"`
	AuditPayload     *audit.Record            `json:"audit_payload"`
	Because          []condition.Descriptor   `json:"because"`
	FailedConditions []condition.Descriptor   `json:"failed_conditions"`

	// SinkWarning is set when the decision itself succeeded but
	// a.Sink.Record failed to persist its audit record (§6/§7: a sink
	// failure must never make Decide fail the call). Callers that care
	// about durable audit trails should check this and retry/alert;
	// the decision above is still valid and final.
	SinkWarning *decideerr.Error `json:"sink_warning,omitempty"`
}
