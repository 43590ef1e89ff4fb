// Package httpapi is the thin HTTP front door over the decision
// engine: one-shot decisions, rule-document CRUD backed by the
// versioning manager, version lifecycle endpoints, and a health
// check. DMN import/export and replay are CLI-only. It is example glue per spec.md's stated non-goals (the
// HTTP surface carries no invariants of its own) and is kept on the
// standard library's net/http.ServeMux, the same router the teacher's
// core module uses — chi lives only in a sibling example repo, not
// this project's teacher.
package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/Mindburn-Labs/helm-decide/pkg/agent"
	dctx "github.com/Mindburn-Labs/helm-decide/pkg/context"
	"github.com/Mindburn-Labs/helm-decide/pkg/decideerr"
	"github.com/Mindburn-Labs/helm-decide/pkg/evaluator"
	"github.com/Mindburn-Labs/helm-decide/pkg/rules"
	"github.com/Mindburn-Labs/helm-decide/pkg/scoring"
	"github.com/Mindburn-Labs/helm-decide/pkg/versioning"
)

// Server holds the dependencies the HTTP handlers need: a versioning
// manager for rule CRUD/lifecycle, and a logger. It carries no
// in-process decision state — every request builds its own Agent from
// the rule document it was handed or looked up.
type Server struct {
	Versions *versioning.Manager
	Logger   *slog.Logger
}

// New builds a ServeMux wired to every handler in this package.
func New(versions *versioning.Manager, logger *slog.Logger) http.Handler {
	s := &Server{Versions: versions, Logger: logger}
	mux := http.NewServeMux()

	mux.HandleFunc("POST /v1/decide", s.handleDecide)
	mux.HandleFunc("POST /v1/rules", s.handleSaveRule)
	mux.HandleFunc("GET /v1/rules/{id}", s.handleGetActiveRule)
	mux.HandleFunc("GET /v1/rules/{id}/versions", s.handleListVersions)
	mux.HandleFunc("POST /v1/rules/{id}/versions/{versionID}/activate", s.handleActivate)
	mux.HandleFunc("POST /v1/rules/{id}/versions/{versionID}/rollback", s.handleRollback)
	mux.HandleFunc("GET /healthz", s.handleHealth)

	return mux
}

type decideRequest struct {
	Rules    json.RawMessage        `json:"rules"`
	Context  map[string]interface{} `json:"context"`
	Strategy string                 `json:"strategy"`
	Strict   bool                   `json:"strict"`
}

func (s *Server) handleDecide(w http.ResponseWriter, r *http.Request) {
	var req decideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	doc, parseErrs := rules.Parse(req.Rules)
	if len(parseErrs) > 0 {
		writeValidationErrors(w, parseErrs)
		return
	}

	c, err := dctx.New(req.Context)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	strat, err := strategyFromName(req.Strategy)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	a := agent.New([]evaluator.Evaluator{rules.NewJSONEvaluator(doc)}, strat, nil)
	a.Strict = req.Strict

	decision, err := a.Decide(r.Context(), c)
	if err != nil {
		s.Logger.ErrorContext(r.Context(), "decide failed", "error", err)
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, decision)
}

type saveRuleRequest struct {
	RuleID         string          `json:"rule_id"`
	Content        json.RawMessage `json:"content"`
	CreatedBy      string          `json:"created_by"`
	Changelog      string          `json:"changelog"`
	ActivateOnSave bool            `json:"activate_on_save"`
}

func (s *Server) handleSaveRule(w http.ResponseWriter, r *http.Request) {
	var req saveRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, errs := rules.Parse(req.Content); len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	rec, err := s.Versions.SaveVersion(req.RuleID, req.Content, req.CreatedBy, req.Changelog, req.ActivateOnSave)
	if err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleGetActiveRule(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	rec, err := s.Versions.GetActiveVersion(id)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, "rule "+id+" has no active version")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleListVersions(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	versions, err := s.Versions.GetVersions(id, 0)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, versions)
}

func (s *Server) handleActivate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	versionID := r.PathValue("versionID")
	if err := s.Versions.Activate(id, versionID); err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRollback(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	versionID := r.PathValue("versionID")
	if err := s.Versions.Rollback(id, versionID); err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func strategyFromName(name string) (scoring.Strategy, error) {
	switch name {
	case "", "weighted_average":
		return scoring.WeightedAverage{}, nil
	case "max_weight":
		return scoring.MaxWeight{}, nil
	case "consensus":
		return scoring.Consensus{MinAgreement: 0.5}, nil
	case "threshold":
		return scoring.Threshold{Tau: 0.5, Fallback: "undecided"}, nil
	default:
		return nil, errUnknownStrategy(name)
	}
}

type errUnknownStrategy string

func (e errUnknownStrategy) Error() string { return "unknown scoring strategy: " + string(e) }

func writeValidationErrors(w http.ResponseWriter, errs []*decideerr.Error) {
	messages := make([]string, len(errs))
	for i, e := range errs {
		messages[i] = e.Error()
	}
	writeJSON(w, http.StatusBadRequest, map[string][]string{"errors": messages})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
