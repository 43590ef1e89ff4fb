package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/Mindburn-Labs/helm-decide/pkg/versioning"
	"github.com/Mindburn-Labs/helm-decide/pkg/versioning/storage"
)

func runVersionCmd(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		fmt.Fprintln(stderr, "usage: helm-decide version save|activate|rollback|history|compare ...")
		return 2
	}

	storageRoot := os.Getenv("HELM_DECIDE_STORAGE_PATH")
	if storageRoot == "" {
		storageRoot = "./data/rulesets"
	}
	adapter := storage.NewFile(storageRoot)
	mgr := versioning.NewManager(adapter, func() string { return uuid.NewString() }, time.Now)

	switch args[0] {
	case "save":
		return runVersionSave(mgr, args[1:], stdout, stderr)
	case "activate":
		return runVersionActivate(mgr, args[1:], stdout, stderr)
	case "rollback":
		return runVersionRollback(mgr, args[1:], stdout, stderr)
	case "history":
		return runVersionHistory(mgr, args[1:], stdout, stderr)
	case "compare":
		return runVersionCompare(args[1:], stdout, stderr)
	default:
		fmt.Fprintf(stderr, "version: unknown subcommand %q\n", args[0])
		return 2
	}
}

func runVersionSave(mgr *versioning.Manager, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("version save", flag.ContinueOnError)
	fs.SetOutput(stderr)
	ruleID := fs.String("rule-id", "", "rule id")
	rulesPath := fs.String("rules", "", "path to the rule document content")
	createdBy := fs.String("created-by", "cli", "author")
	changelog := fs.String("changelog", "", "changelog message")
	activate := fs.Bool("activate", false, "activate immediately on save")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *ruleID == "" || *rulesPath == "" {
		fmt.Fprintln(stderr, "version save: -rule-id and -rules are required")
		return 2
	}
	content, err := os.ReadFile(*rulesPath)
	if err != nil {
		fmt.Fprintf(stderr, "version save: %v\n", err)
		return 1
	}
	rec, err := mgr.SaveVersion(*ruleID, content, *createdBy, *changelog, *activate)
	if err != nil {
		fmt.Fprintf(stderr, "version save: %v\n", err)
		return 1
	}
	fmt.Fprintf(stdout, "saved version %s (rule %s, status %s)\n", rec.ID, rec.RuleID, rec.Status)
	return 0
}

func runVersionActivate(mgr *versioning.Manager, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("version activate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	ruleID := fs.String("rule-id", "", "rule id")
	versionID := fs.String("version-id", "", "version id to activate")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if err := mgr.Activate(*ruleID, *versionID); err != nil {
		fmt.Fprintf(stderr, "version activate: %v\n", err)
		return 1
	}
	fmt.Fprintf(stdout, "activated %s for rule %s\n", *versionID, *ruleID)
	return 0
}

func runVersionRollback(mgr *versioning.Manager, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("version rollback", flag.ContinueOnError)
	fs.SetOutput(stderr)
	ruleID := fs.String("rule-id", "", "rule id")
	versionID := fs.String("version-id", "", "version id to roll back to")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if err := mgr.Rollback(*ruleID, *versionID); err != nil {
		fmt.Fprintf(stderr, "version rollback: %v\n", err)
		return 1
	}
	fmt.Fprintf(stdout, "rolled back rule %s to %s\n", *ruleID, *versionID)
	return 0
}

func runVersionHistory(mgr *versioning.Manager, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("version history", flag.ContinueOnError)
	fs.SetOutput(stderr)
	ruleID := fs.String("rule-id", "", "rule id")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	hist, err := mgr.GetHistory(*ruleID)
	if err != nil {
		fmt.Fprintf(stderr, "version history: %v\n", err)
		return 1
	}
	fmt.Fprintf(stdout, "rule %s: %d versions, active=%s\n", hist.RuleID, hist.TotalVersions, hist.ActiveID)

	versions, err := mgr.GetVersions(*ruleID, 0)
	if err != nil {
		fmt.Fprintf(stderr, "version history: %v\n", err)
		return 1
	}
	for _, rec := range versions {
		fmt.Fprintf(stdout, "%s\tv%d\t%s\t%s\n", rec.ID, rec.VersionNumber, rec.Status, rec.CreatedAt.Format(time.RFC3339))
	}
	return 0
}

func runVersionCompare(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("version compare", flag.ContinueOnError)
	fs.SetOutput(stderr)
	aPath := fs.String("a", "", "path to the first rule document")
	bPath := fs.String("b", "", "path to the second rule document")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	aData, err := os.ReadFile(*aPath)
	if err != nil {
		fmt.Fprintf(stderr, "version compare: %v\n", err)
		return 1
	}
	bData, err := os.ReadFile(*bPath)
	if err != nil {
		fmt.Fprintf(stderr, "version compare: %v\n", err)
		return 1
	}
	diff, err := versioning.Compare(aData, bData)
	if err != nil {
		fmt.Fprintf(stderr, "version compare: %v\n", err)
		return 1
	}
	fmt.Fprintf(stdout, "added: %v\nremoved: %v\nchanged: %v\n", diff.AddedRuleIDs, diff.RemovedRuleIDs, diff.ChangedRuleIDs)
	return 0
}
