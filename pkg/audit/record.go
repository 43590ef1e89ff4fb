// Package audit implements the AuditRecord type, its canonical-hash
// computation, and the pluggable audit sink interface (§4.9).
package audit

import (
	"time"

	"github.com/Mindburn-Labs/helm-decide/pkg/canonicalize"
	dctx "github.com/Mindburn-Labs/helm-decide/pkg/context"
)

// Signature is one evaluator's name + content hash, carried in
// evaluator_signatures so a replay can verify it ran the same
// evaluator source.
type Signature struct {
	Name        string `json:"name"`
	ContentHash string `json:"content_hash"`
}

// Record is the AuditRecord (§3, §4.9): decision, confidence, human
// explanations, per-evaluator signatures, and the three hashes that
// make the decision reproducible and tamper-evident.
type Record struct {
	Decision            string      `json:"decision"`
	Confidence          float64     `json:"confidence"`
	Explanations        []string    `json:"explanations"`
	EvaluatorSignatures []Signature `json:"evaluator_signatures"`
	ContextHash         string      `json:"context_hash"`
	RulesetHash         string      `json:"ruleset_hash"`
	DeterministicHash   string      `json:"deterministic_hash"`
	Timestamp           *time.Time  `json:"timestamp,omitempty"`
}

// recordForHashing is Record without deterministic_hash, matching
// §4.9's "canonical JSON encoding of the record with deterministic_hash
// field omitted."
type recordForHashing struct {
	Decision            string      `json:"decision"`
	Confidence          float64     `json:"confidence"`
	Explanations        []string    `json:"explanations"`
	EvaluatorSignatures []Signature `json:"evaluator_signatures"`
	ContextHash         string      `json:"context_hash"`
	RulesetHash         string      `json:"ruleset_hash"`
	Timestamp           *time.Time  `json:"timestamp,omitempty"`
}

// Build assembles a Record and computes deterministic_hash as
// SHA-256(canonical(record minus deterministic_hash)).
func Build(decision string, confidence float64, explanations []string, signatures []Signature, contextHash, rulesetHash string, timestamp *time.Time) (*Record, error) {
	partial := recordForHashing{
		Decision:            decision,
		Confidence:          confidence,
		Explanations:        explanations,
		EvaluatorSignatures: signatures,
		ContextHash:         contextHash,
		RulesetHash:         rulesetHash,
		Timestamp:           timestamp,
	}
	hash, err := canonicalize.CanonicalHash(partial)
	if err != nil {
		return nil, err
	}

	return &Record{
		Decision:            decision,
		Confidence:          confidence,
		Explanations:        explanations,
		EvaluatorSignatures: signatures,
		ContextHash:         contextHash,
		RulesetHash:         rulesetHash,
		DeterministicHash:   hash,
		Timestamp:           timestamp,
	}, nil
}

// ContextHash computes SHA-256(canonical(context)) for a frozen
// decision context (dctx.Context.Raw()), via canonicalize's
// context-native fast path rather than the generic marshal/decode one.
func ContextHash(raw map[string]dctx.Value) (string, error) {
	return canonicalize.ContextHash(raw)
}

// RulesetHash combines evaluator content hashes, in evaluator order,
// into a single SHA-256 digest — "combined SHA-256 of evaluators'
// content_hashes" (§4.9).
func RulesetHash(signatures []Signature) (string, error) {
	hashes := make([]string, len(signatures))
	for i, s := range signatures {
		hashes[i] = s.ContentHash
	}
	return canonicalize.CanonicalHash(hashes)
}
