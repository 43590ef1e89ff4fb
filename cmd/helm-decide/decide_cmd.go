package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	dctx "github.com/Mindburn-Labs/helm-decide/pkg/context"
	"github.com/Mindburn-Labs/helm-decide/pkg/evaluator"
	"github.com/Mindburn-Labs/helm-decide/pkg/rules"
	"github.com/Mindburn-Labs/helm-decide/pkg/scoring"

	"github.com/Mindburn-Labs/helm-decide/pkg/agent"
)

func runDecideCmd(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("decide", flag.ContinueOnError)
	fs.SetOutput(stderr)
	rulesPath := fs.String("rules", "", "path to a rule document (JSON)")
	contextPath := fs.String("context", "", "path to a decision context (JSON)")
	strategy := fs.String("strategy", "weighted_average", "weighted_average|max_weight|consensus|threshold")
	strict := fs.Bool("strict", false, "fail with an error when no evaluator produces an evaluation")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *rulesPath == "" || *contextPath == "" {
		fmt.Fprintln(stderr, "decide: -rules and -context are required")
		return 2
	}

	rulesData, err := os.ReadFile(*rulesPath)
	if err != nil {
		fmt.Fprintf(stderr, "decide: reading rules: %v\n", err)
		return 1
	}
	parse := rules.Parse
	if strings.HasSuffix(*rulesPath, ".yaml") || strings.HasSuffix(*rulesPath, ".yml") {
		parse = rules.ParseYAML
	}
	doc, errs := parse(rulesData)
	if len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintln(stderr, e.Error())
		}
		return 1
	}

	contextData, err := os.ReadFile(*contextPath)
	if err != nil {
		fmt.Fprintf(stderr, "decide: reading context: %v\n", err)
		return 1
	}
	var raw map[string]interface{}
	if err := json.Unmarshal(contextData, &raw); err != nil {
		fmt.Fprintf(stderr, "decide: decoding context: %v\n", err)
		return 1
	}
	c, err := dctx.New(raw)
	if err != nil {
		fmt.Fprintf(stderr, "decide: %v\n", err)
		return 1
	}

	strat, err := strategyByName(*strategy)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	a := agent.New([]evaluator.Evaluator{rules.NewJSONEvaluator(doc)}, strat, nil)
	a.Strict = *strict

	decision, err := a.Decide(nil, c)
	if err != nil {
		fmt.Fprintf(stderr, "decide: %v\n", err)
		return 1
	}

	out, err := json.MarshalIndent(decision, "", "  ")
	if err != nil {
		fmt.Fprintf(stderr, "decide: encoding result: %v\n", err)
		return 1
	}
	fmt.Fprintln(stdout, string(out))
	return 0
}

func strategyByName(name string) (scoring.Strategy, error) {
	switch name {
	case "weighted_average":
		return scoring.WeightedAverage{}, nil
	case "max_weight":
		return scoring.MaxWeight{}, nil
	case "consensus":
		return scoring.Consensus{MinAgreement: 0.5}, nil
	case "threshold":
		return scoring.Threshold{Tau: 0.5, Fallback: "undecided"}, nil
	default:
		return nil, fmt.Errorf("decide: unknown scoring strategy %q", name)
	}
}
