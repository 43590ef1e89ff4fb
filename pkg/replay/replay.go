// Package replay reconstructs a Decision from an AuditRecord and an
// Agent configured with the same evaluator identities, either
// comparing bit-exactly (Strict) or simply re-running (Lenient) per
// §4.10.
//
// Grounded in spirit on the teacher's former session/step/divergence
// replay idiom (pkg/replay/engine.go): a declared expected artifact is
// reconstructed by rerunning the same pipeline, then diffed
// field-by-field, with the result surfaced as a typed mismatch rather
// than a raw comparison failure.
package replay

import (
	stdctx "context"
	"fmt"

	"github.com/Mindburn-Labs/helm-decide/pkg/agent"
	"github.com/Mindburn-Labs/helm-decide/pkg/audit"
	dctx "github.com/Mindburn-Labs/helm-decide/pkg/context"
	"github.com/Mindburn-Labs/helm-decide/pkg/decideerr"
)

// Mode selects strict (compare) or lenient (reconstruct-only) replay.
type Mode int

const (
	Strict Mode = iota
	Lenient
)

// Result carries the reconstructed decision and, for Lenient replay,
// any warnings about fields that diverged from the expected record.
type Result struct {
	Decision *agent.Decision
	Warnings []string
}

// Run reconstructs a Decision by rerunning a (the same Agent that
// originally produced expected, reattached to the same evaluators) against
// rebuiltContext, then either strictly compares against expected or
// returns with lenient warnings.
func Run(std stdctx.Context, a *agent.Agent, rebuiltContext *dctx.Context, expected *audit.Record, mode Mode) (*Result, error) {
	decision, err := a.Decide(std, rebuiltContext)
	if err != nil {
		return nil, err
	}

	differences := diff(expected, decision.AuditPayload)

	switch mode {
	case Strict:
		if len(differences) > 0 {
			return nil, decideerr.NewReplayMismatch(expected, decision.AuditPayload, differences)
		}
		return &Result{Decision: decision}, nil
	default: // Lenient
		warnings := make([]string, len(differences))
		for i, d := range differences {
			warnings[i] = fmt.Sprintf("field %q diverged from the recorded audit", d)
		}
		return &Result{Decision: decision, Warnings: warnings}, nil
	}
}

// diff returns the names of every top-level AuditRecord field that
// differs between expected and actual. deterministic_hash is compared
// last since any upstream divergence already implies it will differ.
func diff(expected, actual *audit.Record) []string {
	var differences []string

	if expected.Decision != actual.Decision {
		differences = append(differences, "decision")
	}
	if expected.Confidence != actual.Confidence {
		differences = append(differences, "confidence")
	}
	if !stringsEqual(expected.Explanations, actual.Explanations) {
		differences = append(differences, "explanations")
	}
	if !signaturesEqual(expected.EvaluatorSignatures, actual.EvaluatorSignatures) {
		differences = append(differences, "evaluator_signatures")
	}
	if expected.ContextHash != actual.ContextHash {
		differences = append(differences, "context_hash")
	}
	if expected.RulesetHash != actual.RulesetHash {
		differences = append(differences, "ruleset_hash")
	}
	if expected.DeterministicHash != actual.DeterministicHash {
		differences = append(differences, "deterministic_hash")
	}

	return differences
}

func stringsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func signaturesEqual(a, b []audit.Signature) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
