package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/Mindburn-Labs/helm-decide/pkg/audit"
)

func runAuditCmd(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 || args[0] != "verify" {
		fmt.Fprintln(stderr, "usage: helm-decide audit verify -audit <file>")
		return 2
	}

	fs := flag.NewFlagSet("audit verify", flag.ContinueOnError)
	fs.SetOutput(stderr)
	auditPath := fs.String("audit", "", "path to an AuditRecord (JSON)")
	if err := fs.Parse(args[1:]); err != nil {
		return 2
	}
	if *auditPath == "" {
		fmt.Fprintln(stderr, "audit verify: -audit is required")
		return 2
	}

	data, err := os.ReadFile(*auditPath)
	if err != nil {
		fmt.Fprintf(stderr, "audit verify: %v\n", err)
		return 1
	}
	var rec audit.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		fmt.Fprintf(stderr, "audit verify: decoding record: %v\n", err)
		return 1
	}

	rebuilt, err := audit.Build(rec.Decision, rec.Confidence, rec.Explanations, rec.EvaluatorSignatures, rec.ContextHash, rec.RulesetHash, rec.Timestamp)
	if err != nil {
		fmt.Fprintf(stderr, "audit verify: %v\n", err)
		return 1
	}

	if rebuilt.DeterministicHash != rec.DeterministicHash {
		fmt.Fprintf(stdout, "TAMPERED: recorded deterministic_hash %s does not match recomputed %s\n", rec.DeterministicHash, rebuilt.DeterministicHash)
		return 1
	}
	fmt.Fprintf(stdout, "OK: deterministic_hash %s verified\n", rec.DeterministicHash)
	return 0
}
