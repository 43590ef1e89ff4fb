// Package logging configures structured, leveled logging for the
// decision engine using the standard library's log/slog, with the
// key-value idiom that pkg/audit's StructuredLoggerSink and
// pkg/httpapi also use (key-value fields, never string
// concatenation).
package logging

import (
	"log/slog"
	"os"
	"strings"
)

// New returns a JSON slog.Logger at the given level string
// ("DEBUG"|"INFO"|"WARN"|"ERROR"), defaulting to INFO for unknown
// values so misconfiguration never silences logs.
func New(level string) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(level),
	})
	return slog.New(handler)
}

func parseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithDecision returns a logger scoped to a single decision run, the
// fields every downstream log line in the decide path should carry.
func WithDecision(l *slog.Logger, rulesetName, decisionID string) *slog.Logger {
	return l.With("ruleset", rulesetName, "decision_id", decisionID)
}
