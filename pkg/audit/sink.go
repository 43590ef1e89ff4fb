package audit

import (
	"encoding/json"
	"log/slog"
	"os"
	"sync"

	"github.com/Mindburn-Labs/helm-decide/pkg/decideerr"
)

// Sink is the pluggable delivery target for a built Record (§4.9).
// record is called synchronously from the agent's decide() path.
type Sink interface {
	Record(rec *Record) error
}

// NullSink discards every record — the default for tests and
// throwaway evaluation runs.
type NullSink struct{}

func (NullSink) Record(*Record) error { return nil }

// FileSink appends one JSON line per record to a file, guarded by a
// mutex since the agent may be shared across concurrent callers.
type FileSink struct {
	mu   sync.Mutex
	path string
	file *os.File
}

// NewFileSink opens (creating if necessary) path for append.
func NewFileSink(path string) (*FileSink, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, decideerr.AuditSink("open sink file", err)
	}
	return &FileSink{path: path, file: f}, nil
}

func (s *FileSink) Record(rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(rec)
	if err != nil {
		return decideerr.AuditSink("marshal record", err)
	}
	data = append(data, '\n')
	if _, err := s.file.Write(data); err != nil {
		return decideerr.AuditSink("write sink file", err)
	}
	return nil
}

func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.Close()
}

// StructuredLoggerSink emits each record as a structured log line
// through the engine's slog.Logger, the way the teacher routes
// decision-relevant events.
type StructuredLoggerSink struct {
	logger *slog.Logger
}

func NewStructuredLoggerSink(logger *slog.Logger) *StructuredLoggerSink {
	return &StructuredLoggerSink{logger: logger}
}

func (s *StructuredLoggerSink) Record(rec *Record) error {
	s.logger.Info("decision audit record",
		"decision", rec.Decision,
		"confidence", rec.Confidence,
		"deterministic_hash", rec.DeterministicHash,
		"context_hash", rec.ContextHash,
		"ruleset_hash", rec.RulesetHash,
	)
	return nil
}
