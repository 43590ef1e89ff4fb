package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Mindburn-Labs/helm-decide/pkg/rules"
)

func runValidateCmd(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	rulesPath := fs.String("rules", "", "path to a rule document (JSON)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *rulesPath == "" {
		fmt.Fprintln(stderr, "validate: -rules is required")
		return 2
	}

	data, err := os.ReadFile(*rulesPath)
	if err != nil {
		fmt.Fprintf(stderr, "validate: %v\n", err)
		return 1
	}

	parse := rules.Parse
	if strings.HasSuffix(*rulesPath, ".yaml") || strings.HasSuffix(*rulesPath, ".yml") {
		parse = rules.ParseYAML
	}
	doc, errs := parse(data)
	if len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintln(stderr, e.Error())
		}
		return 1
	}

	fmt.Fprintf(stdout, "valid: ruleset %q, %d rules, content_hash=%s\n", doc.Ruleset.Ruleset, len(doc.Ruleset.Rules), doc.ContentHash)
	return 0
}
