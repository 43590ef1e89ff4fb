package httpapi_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mindburn-Labs/helm-decide/pkg/httpapi"
	"github.com/Mindburn-Labs/helm-decide/pkg/versioning"
	"github.com/Mindburn-Labs/helm-decide/pkg/versioning/storage"
)

const sampleRuleDoc = `{"version":"1","ruleset":"fraud-check","rules":[
  {"id":"r1","if":{"field":"amount","op":"gt","value":1000},"then":{"decision":"review","weight":0.9,"reason":"large amount"}},
  {"id":"r2","if":{"all":[]},"then":{"decision":"approve","weight":0.5,"reason":"default"}}
]}`

func testServer(t *testing.T) http.Handler {
	t.Helper()
	var seq int
	newID := func() string {
		seq++
		return string(rune('a' + seq))
	}
	mgr := versioning.NewManager(storage.NewFile(t.TempDir()), newID, func() time.Time { return time.Unix(0, 0) })
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return httpapi.New(mgr, logger)
}

func TestHandleDecide_ReturnsDecision(t *testing.T) {
	srv := testServer(t)

	body := map[string]interface{}{
		"rules":   json.RawMessage(sampleRuleDoc),
		"context": map[string]interface{}{"amount": 5000.0},
	}
	encoded, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/v1/decide", bytes.NewReader(encoded))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	assert.Equal(t, "review", decoded["decision"])
}

func TestHandleDecide_InvalidRulesReturnsBadRequest(t *testing.T) {
	srv := testServer(t)

	body := map[string]interface{}{
		"rules":   json.RawMessage(`{"version":"1","ruleset":"x","rules":[]}`),
		"context": map[string]interface{}{},
	}
	encoded, _ := json.Marshal(body)

	req := httptest.NewRequest(http.MethodPost, "/v1/decide", bytes.NewReader(encoded))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleDecide_UnknownStrategyReturnsBadRequest(t *testing.T) {
	srv := testServer(t)

	body := map[string]interface{}{
		"rules":    json.RawMessage(sampleRuleDoc),
		"context":  map[string]interface{}{"amount": 5000.0},
		"strategy": "nonsense",
	}
	encoded, _ := json.Marshal(body)

	req := httptest.NewRequest(http.MethodPost, "/v1/decide", bytes.NewReader(encoded))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleSaveRule_ThenGetActiveRule(t *testing.T) {
	srv := testServer(t)

	saveBody := map[string]interface{}{
		"rule_id":    "fraud-check",
		"content":    json.RawMessage(sampleRuleDoc),
		"created_by": "alice",
		"changelog":  "initial",
	}
	encoded, _ := json.Marshal(saveBody)

	req := httptest.NewRequest(http.MethodPost, "/v1/rules", bytes.NewReader(encoded))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	getReq := httptest.NewRequest(http.MethodGet, "/v1/rules/fraud-check", nil)
	getRec := httptest.NewRecorder()
	srv.ServeHTTP(getRec, getReq)
	require.Equal(t, http.StatusOK, getRec.Code)

	var rec2 map[string]interface{}
	require.NoError(t, json.Unmarshal(getRec.Body.Bytes(), &rec2))
	assert.Equal(t, "active", rec2["status"])
}

func TestHandleGetActiveRule_UnknownRuleReturnsNotFound(t *testing.T) {
	srv := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/rules/unknown", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleHealth_ReturnsOK(t *testing.T) {
	srv := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleActivateThenRollback(t *testing.T) {
	srv := testServer(t)

	save := func(content string, activate bool) string {
		body := map[string]interface{}{
			"rule_id":          "fraud-check",
			"content":          json.RawMessage(content),
			"created_by":       "alice",
			"changelog":        "x",
			"activate_on_save": activate,
		}
		encoded, _ := json.Marshal(body)
		req := httptest.NewRequest(http.MethodPost, "/v1/rules", bytes.NewReader(encoded))
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code)
		var decoded map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
		return decoded["id"].(string)
	}

	firstID := save(sampleRuleDoc, false)
	secondDoc := `{"version":"1","ruleset":"fraud-check","rules":[{"id":"r1","if":{"all":[]},"then":{"decision":"deny","weight":1,"reason":"x"}}]}`
	save(secondDoc, true)

	rollbackReq := httptest.NewRequest(http.MethodPost, "/v1/rules/fraud-check/versions/"+firstID+"/rollback", nil)
	rollbackRec := httptest.NewRecorder()
	srv.ServeHTTP(rollbackRec, rollbackReq)
	assert.Equal(t, http.StatusNoContent, rollbackRec.Code)

	getReq := httptest.NewRequest(http.MethodGet, "/v1/rules/fraud-check", nil)
	getRec := httptest.NewRecorder()
	srv.ServeHTTP(getRec, getReq)
	var active map[string]interface{}
	require.NoError(t, json.Unmarshal(getRec.Body.Bytes(), &active))
	assert.Equal(t, firstID, active["id"])
}

func TestHandleListVersions_ReturnsAllSavedVersions(t *testing.T) {
	srv := testServer(t)

	for i := 0; i < 2; i++ {
		body := map[string]interface{}{
			"rule_id":    "fraud-check",
			"content":    json.RawMessage(sampleRuleDoc),
			"created_by": "alice",
			"changelog":  "x",
		}
		encoded, _ := json.Marshal(body)
		req := httptest.NewRequest(http.MethodPost, "/v1/rules", bytes.NewReader(encoded))
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/rules/fraud-check/versions", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var versions []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &versions))
	assert.Len(t, versions, 2)
}
