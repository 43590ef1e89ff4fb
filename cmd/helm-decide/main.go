// Command helm-decide is the CLI front door for the decision engine:
// one-shot rule evaluation, rule-document validation, version
// lifecycle management, DMN import/export, replay, and audit
// verification.
//
// Grounded on the teacher's cmd/helm dispatcher (core/cmd/helm/main.go):
// the same string-switch Run(args, stdout, stderr) int shape, kept so
// this binary is unit-testable without a process boundary.
package main

import (
	"fmt"
	"io"
	"os"
)

func main() {
	os.Exit(Run(os.Args, os.Stdout, os.Stderr))
}

// Run is the dispatcher entrypoint; exported as a plain function (not
// wired through flag.Parse at this level) so tests can drive it
// directly with captured stdout/stderr.
func Run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 2 {
		printUsage(stdout)
		return 2
	}

	switch args[1] {
	case "decide":
		return runDecideCmd(args[2:], stdout, stderr)
	case "validate":
		return runValidateCmd(args[2:], stdout, stderr)
	case "version":
		return runVersionCmd(args[2:], stdout, stderr)
	case "dmn":
		return runDMNCmd(args[2:], stdout, stderr)
	case "replay":
		return runReplayCmd(args[2:], stdout, stderr)
	case "audit":
		return runAuditCmd(args[2:], stdout, stderr)
	case "serve":
		return runServeCmd(args[2:], stdout, stderr)
	case "help", "--help", "-h":
		printUsage(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "unknown command: %s\n", args[1])
		printUsage(stderr)
		return 2
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "helm-decide — deterministic rule/DMN decision engine")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  helm-decide decide   -rules <file> -context <file> [-strategy weighted_average|max_weight|consensus|threshold]")
	fmt.Fprintln(w, "  helm-decide validate -rules <file>")
	fmt.Fprintln(w, "  helm-decide version  save|activate|rollback|history|compare ...")
	fmt.Fprintln(w, "  helm-decide dmn      import -file <file> [-decision <id>] [-version <v>]")
	fmt.Fprintln(w, "  helm-decide dmn      export -rules <file> -fields <f1,f2,...> -decision <id>")
	fmt.Fprintln(w, "  helm-decide replay   -rules <file> -context <file> -audit <file> [-strategy <name>] [-strict=false]")
	fmt.Fprintln(w, "  helm-decide audit    verify -audit <file>")
	fmt.Fprintln(w, "  helm-decide serve    [-port 8080]")
}
