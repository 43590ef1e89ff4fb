package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/Mindburn-Labs/helm-decide/pkg/agent"
	"github.com/Mindburn-Labs/helm-decide/pkg/audit"
	dctx "github.com/Mindburn-Labs/helm-decide/pkg/context"
	"github.com/Mindburn-Labs/helm-decide/pkg/evaluator"
	"github.com/Mindburn-Labs/helm-decide/pkg/replay"
	"github.com/Mindburn-Labs/helm-decide/pkg/rules"
)

func runReplayCmd(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("replay", flag.ContinueOnError)
	fs.SetOutput(stderr)
	rulesPath := fs.String("rules", "", "path to the rule document used to produce the expected audit record")
	contextPath := fs.String("context", "", "path to the context to rebuild")
	auditPath := fs.String("audit", "", "path to the expected AuditRecord (JSON)")
	strategyName := fs.String("strategy", "weighted_average", "scoring strategy originally used")
	strict := fs.Bool("strict", true, "fail on any divergence (false = report warnings only)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *rulesPath == "" || *contextPath == "" || *auditPath == "" {
		fmt.Fprintln(stderr, "replay: -rules, -context, and -audit are required")
		return 2
	}

	rulesData, err := os.ReadFile(*rulesPath)
	if err != nil {
		fmt.Fprintf(stderr, "replay: %v\n", err)
		return 1
	}
	doc, errs := rules.Parse(rulesData)
	if len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintln(stderr, e.Error())
		}
		return 1
	}

	contextData, err := os.ReadFile(*contextPath)
	if err != nil {
		fmt.Fprintf(stderr, "replay: %v\n", err)
		return 1
	}
	var raw map[string]interface{}
	if err := json.Unmarshal(contextData, &raw); err != nil {
		fmt.Fprintf(stderr, "replay: %v\n", err)
		return 1
	}
	c, err := dctx.New(raw)
	if err != nil {
		fmt.Fprintf(stderr, "replay: %v\n", err)
		return 1
	}

	auditData, err := os.ReadFile(*auditPath)
	if err != nil {
		fmt.Fprintf(stderr, "replay: %v\n", err)
		return 1
	}
	var expected audit.Record
	if err := json.Unmarshal(auditData, &expected); err != nil {
		fmt.Fprintf(stderr, "replay: decoding audit record: %v\n", err)
		return 1
	}

	strat, err := strategyByName(*strategyName)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	a := agent.New([]evaluator.Evaluator{rules.NewJSONEvaluator(doc)}, strat, nil)

	mode := replay.Lenient
	if *strict {
		mode = replay.Strict
	}

	result, err := replay.Run(nil, a, c, &expected, mode)
	if err != nil {
		fmt.Fprintf(stderr, "replay: %v\n", err)
		return 1
	}

	for _, w := range result.Warnings {
		fmt.Fprintf(stdout, "warning: %s\n", w)
	}
	out, err := json.MarshalIndent(result.Decision, "", "  ")
	if err != nil {
		fmt.Fprintf(stderr, "replay: %v\n", err)
		return 1
	}
	fmt.Fprintln(stdout, string(out))
	return 0
}
