// Package decideerr defines the error kinds surfaced by the decision
// engine, per the propagation policy: operators never raise on bad
// data, evaluators may surface structural errors from parsing but not
// from per-decision data, the agent surfaces NoEvaluationsFailure, and
// storage/versioning surface their own errors to the caller.
package decideerr

import (
	"errors"
	"fmt"
)

// Kind identifies the category of a decision-engine error.
type Kind string

const (
	KindValidation      Kind = "validation_failure"
	KindNoEvaluations   Kind = "no_evaluations_failure"
	KindReplayMismatch  Kind = "replay_mismatch_failure"
	KindVersionNotFound Kind = "version_not_found_failure"
	KindVersionConflict Kind = "version_conflict_failure"
	KindDMNParse        Kind = "dmn_parse_failure"
	KindFEELParse       Kind = "feel_parse_failure"
	KindFEELEvaluation  Kind = "feel_evaluation_failure"
	KindStorage         Kind = "storage_failure"
	KindAuditSink       Kind = "audit_sink_failure"
)

// Error is the structured error type carried by every decision-engine
// failure. Path pinpoints the offending location (e.g.
// "rules[3].if.all[1].op") when applicable.
type Error struct {
	Kind   Kind
	Path   string
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s (at %s)", e.Kind, e.Reason, e.Path)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
}

func (e *Error) Unwrap() error { return e.Err }

func newErr(kind Kind, reason string) *Error {
	return &Error{Kind: kind, Reason: reason}
}

// Validation builds a ValidationFailure with a structured path.
func Validation(path, reason string) *Error {
	return &Error{Kind: KindValidation, Path: path, Reason: reason}
}

// NoEvaluations builds a NoEvaluationsFailure.
func NoEvaluations(evaluatorCount int) *Error {
	return newErr(KindNoEvaluations, fmt.Sprintf("no evaluator produced a verdict (%d evaluators ran)", evaluatorCount))
}

// ReplayMismatch carries the expected/actual/differences triple required by §4.10.
type ReplayMismatch struct {
	*Error
	Expected      interface{}
	Actual        interface{}
	Differences   []string
}

func NewReplayMismatch(expected, actual interface{}, differences []string) *ReplayMismatch {
	return &ReplayMismatch{
		Error:       newErr(KindReplayMismatch, fmt.Sprintf("replay diverged in fields: %v", differences)),
		Expected:    expected,
		Actual:      actual,
		Differences: differences,
	}
}

func VersionNotFound(id string) *Error {
	return newErr(KindVersionNotFound, fmt.Sprintf("version %q not found", id))
}

func VersionConflict(ruleID string) *Error {
	return newErr(KindVersionConflict, fmt.Sprintf("concurrent activation detected for rule_id %q", ruleID))
}

func DMNParse(reason string) *Error { return newErr(KindDMNParse, reason) }

func FEELParse(reason string) *Error { return newErr(KindFEELParse, reason) }

func FEELEvaluation(reason string) *Error { return newErr(KindFEELEvaluation, reason) }

func Storage(reason string, cause error) *Error {
	return &Error{Kind: KindStorage, Reason: reason, Err: cause}
}

func AuditSink(reason string, cause error) *Error {
	return &Error{Kind: KindAuditSink, Reason: reason, Err: cause}
}

// Is reports whether err (or anything it wraps) is a decideerr.Error of kind k.
func Is(err error, k Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == k
	}
	return false
}
