package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Mindburn-Labs/helm-decide/pkg/dmn"
	"github.com/Mindburn-Labs/helm-decide/pkg/rules"
)

func runDMNCmd(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		fmt.Fprintln(stderr, "usage: helm-decide dmn import|export ...")
		return 2
	}
	switch args[0] {
	case "import":
		return runDMNImport(args[1:], stdout, stderr)
	case "export":
		return runDMNExport(args[1:], stdout, stderr)
	default:
		fmt.Fprintf(stderr, "dmn: unknown subcommand %q\n", args[0])
		return 2
	}
}

func runDMNImport(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("dmn import", flag.ContinueOnError)
	fs.SetOutput(stderr)
	path := fs.String("file", "", "path to a DMN 1.3 XML document")
	decisionID := fs.String("decision", "", "decision id to convert (FIRST hit policy tables only)")
	version := fs.String("version", "v1", "rule document version label")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	data, err := os.ReadFile(*path)
	if err != nil {
		fmt.Fprintf(stderr, "dmn import: %v\n", err)
		return 1
	}
	graph, err := dmn.Parse(data)
	if err != nil {
		fmt.Fprintf(stderr, "dmn import: %v\n", err)
		return 1
	}
	if *decisionID == "" {
		fmt.Fprintf(stdout, "parsed %d decisions: %v\n", len(graph.Decisions), graph.Order)
		return 0
	}
	d, ok := graph.Decisions[*decisionID]
	if !ok {
		fmt.Fprintf(stderr, "dmn import: unknown decision %q\n", *decisionID)
		return 1
	}
	rs, err := dmn.ToRuleset(d, *version)
	if err != nil {
		fmt.Fprintf(stderr, "dmn import: %v\n", err)
		return 1
	}
	out, err := json.MarshalIndent(rs, "", "  ")
	if err != nil {
		fmt.Fprintf(stderr, "dmn import: %v\n", err)
		return 1
	}
	fmt.Fprintln(stdout, string(out))
	return 0
}

func runDMNExport(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("dmn export", flag.ContinueOnError)
	fs.SetOutput(stderr)
	rulesPath := fs.String("rules", "", "path to a rule document (JSON)")
	fieldsCSV := fs.String("fields", "", "comma-separated input field names, in table-column order")
	decisionID := fs.String("decision", "", "decision id to assign the exported table")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *rulesPath == "" || *fieldsCSV == "" || *decisionID == "" {
		fmt.Fprintln(stderr, "dmn export: -rules, -fields, and -decision are required")
		return 2
	}

	data, err := os.ReadFile(*rulesPath)
	if err != nil {
		fmt.Fprintf(stderr, "dmn export: %v\n", err)
		return 1
	}
	doc, errs := rules.Parse(data)
	if len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintln(stderr, e.Error())
		}
		return 1
	}

	fields := strings.Split(*fieldsCSV, ",")
	for i, f := range fields {
		fields[i] = strings.TrimSpace(f)
	}

	table, err := dmn.FromRuleset(&doc.Ruleset, fields)
	if err != nil {
		fmt.Fprintf(stderr, "dmn export: %v\n", err)
		return 1
	}

	graph := &dmn.Graph{Decisions: map[string]*dmn.Decision{
		*decisionID: {ID: *decisionID, Name: doc.Ruleset.Ruleset, Table: table},
	}}
	if err := dmn.Validate(graph); err != nil {
		fmt.Fprintf(stderr, "dmn export: %v\n", err)
		return 1
	}

	out, err := dmn.Write(graph)
	if err != nil {
		fmt.Fprintf(stderr, "dmn export: %v\n", err)
		return 1
	}
	fmt.Fprintln(stdout, string(out))
	return 0
}
