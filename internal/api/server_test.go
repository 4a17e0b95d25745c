package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hareshchavan26/aimockinterviewer2-sub003/internal/analysis"
	"github.com/hareshchavan26/aimockinterviewer2-sub003/internal/config"
	"github.com/hareshchavan26/aimockinterviewer2-sub003/internal/feedback"
	"github.com/hareshchavan26/aimockinterviewer2-sub003/internal/hesitation"
	"github.com/hareshchavan26/aimockinterviewer2-sub003/internal/insight"
	"github.com/hareshchavan26/aimockinterviewer2-sub003/internal/nervousness"
	"github.com/hareshchavan26/aimockinterviewer2-sub003/internal/pipeline"
	"github.com/hareshchavan26/aimockinterviewer2-sub003/internal/session"
)

func newTestServer() *Server {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.DefaultPipeline()
	engine := insight.NewEngine(
		insight.NewLexiconTextAnalyzer(cfg),
		insight.NewPaceAudioAnalyzer(cfg),
		insight.NewSignalVideoAnalyzer(cfg),
		logger,
	)
	p := pipeline.New(
		session.NewRegistry(cfg, logger),
		engine,
		hesitation.NewDetector(cfg),
		nervousness.NewAnalyzer(cfg),
		feedback.NewGenerator(cfg),
		nil,
		cfg,
		logger,
	)
	return NewServer(8750, p, logger)
}

func doJSON(srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)
	return w
}

func analysisBody(text string, seq int64) map[string]any {
	return map[string]any{
		"analysis_type": "TEXT_STREAM",
		"input_data": map[string]any{
			"text":            text,
			"timestamp":       "2025-06-01T10:00:00Z",
			"sequence_number": seq,
		},
	}
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer()

	w := doJSON(srv, "GET", "/health", nil)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}

	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status ok, got %q", body["status"])
	}
}

func TestStatusEndpoint(t *testing.T) {
	srv := newTestServer()
	doJSON(srv, "POST", "/api/v1/sessions", map[string]string{"session_id": "s1"})

	w := doJSON(srv, "GET", "/api/v1/pipeline/status", nil)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}

	var body map[string]any
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body["service"] != "feedbackd" {
		t.Errorf("expected service feedbackd, got %q", body["service"])
	}
	if body["active_sessions"].(float64) != 1 {
		t.Errorf("expected 1 active session, got %v", body["active_sessions"])
	}
}

func TestStartSessionEndpoint(t *testing.T) {
	srv := newTestServer()

	w := doJSON(srv, "POST", "/api/v1/sessions", map[string]string{"session_id": "s1"})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var handle session.Handle
	if err := json.NewDecoder(w.Body).Decode(&handle); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if handle.SessionID != "s1" || handle.StartTime.IsZero() {
		t.Errorf("unexpected handle: %+v", handle)
	}
}

func TestStartSessionEndpoint_BadRequests(t *testing.T) {
	srv := newTestServer()

	tests := []struct {
		name string
		body io.Reader
	}{
		{"invalid JSON", bytes.NewReader([]byte("{broken"))},
		{"missing session id", bytes.NewReader([]byte("{}"))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/v1/sessions", tt.body)
			w := httptest.NewRecorder()
			srv.router.ServeHTTP(w, req)
			if w.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", w.Code)
			}
		})
	}
}

func TestAnalysisEndpoint(t *testing.T) {
	srv := newTestServer()
	doJSON(srv, "POST", "/api/v1/sessions", map[string]string{"session_id": "s1"})

	w := doJSON(srv, "POST", "/api/v1/sessions/s1/analysis", analysisBody("um, uh, this is, uh, my, um answer", 1))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var result analysis.Result
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result.SessionID != "s1" || result.SequenceNumber != 1 {
		t.Errorf("unexpected result identity: %+v", result)
	}
	if len(result.Insights) == 0 {
		t.Error("expected insights in response")
	}
}

func TestAnalysisEndpoint_Errors(t *testing.T) {
	srv := newTestServer()
	doJSON(srv, "POST", "/api/v1/sessions", map[string]string{"session_id": "s1"})

	tests := []struct {
		name     string
		path     string
		body     any
		wantCode int
		wantErr  string
	}{
		{
			"unknown session", "/api/v1/sessions/ghost/analysis",
			analysisBody("hello", 1),
			http.StatusNotFound, "SESSION_NOT_FOUND",
		},
		{
			"empty input", "/api/v1/sessions/s1/analysis",
			map[string]any{"analysis_type": "TEXT_STREAM", "input_data": map[string]any{"timestamp": "2025-06-01T10:00:00Z"}},
			http.StatusBadRequest, "INSUFFICIENT_DATA",
		},
		{
			"unknown type", "/api/v1/sessions/s1/analysis",
			map[string]any{"analysis_type": "SMELL_STREAM", "input_data": map[string]any{"text": "hi"}},
			http.StatusBadRequest, "INVALID_INPUT_DATA",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(srv, "POST", tt.path, tt.body)
			if w.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d: %s", tt.wantCode, w.Code, w.Body.String())
			}
			var body map[string]string
			if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if body["code"] != tt.wantErr {
				t.Errorf("expected code %s, got %s", tt.wantErr, body["code"])
			}
		})
	}
}

func TestStateEndpoint(t *testing.T) {
	srv := newTestServer()
	doJSON(srv, "POST", "/api/v1/sessions", map[string]string{"session_id": "s1"})

	w := doJSON(srv, "GET", "/api/v1/sessions/s1/state", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var state analysis.AggregatedState
	if err := json.NewDecoder(w.Body).Decode(&state); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if state.OverallConfidence != 0.5 {
		t.Errorf("expected initial confidence 0.5, got %f", state.OverallConfidence)
	}
}

func TestHistoryEndpoint_Pagination(t *testing.T) {
	srv := newTestServer()
	doJSON(srv, "POST", "/api/v1/sessions", map[string]string{"session_id": "s1"})
	for i := int64(1); i <= 5; i++ {
		if w := doJSON(srv, "POST", "/api/v1/sessions/s1/analysis", analysisBody("a clean answer", i)); w.Code != http.StatusOK {
			t.Fatalf("analysis %d: expected 200, got %d", i, w.Code)
		}
	}

	tests := []struct {
		name      string
		query     string
		wantCount int
		wantFirst int64
	}{
		{"full history", "", 5, 1},
		{"offset and limit", "?offset=1&limit=2", 2, 2},
		{"offset beyond end", "?offset=10", 0, 0},
		{"limit beyond end", "?offset=3&limit=10", 2, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(srv, "GET", "/api/v1/sessions/s1/history"+tt.query, nil)
			if w.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", w.Code)
			}
			var body historyResponse
			if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if body.Total != 5 {
				t.Errorf("expected total 5, got %d", body.Total)
			}
			if len(body.Results) != tt.wantCount {
				t.Fatalf("expected %d results, got %d", tt.wantCount, len(body.Results))
			}
			if tt.wantCount > 0 && body.Results[0].SequenceNumber != tt.wantFirst {
				t.Errorf("expected first sequence %d, got %d", tt.wantFirst, body.Results[0].SequenceNumber)
			}
		})
	}
}

func TestEndSessionEndpoint(t *testing.T) {
	srv := newTestServer()
	doJSON(srv, "POST", "/api/v1/sessions", map[string]string{"session_id": "s1"})

	w := doJSON(srv, "DELETE", "/api/v1/sessions/s1", nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}

	for _, path := range []string{"state", "history"} {
		w := doJSON(srv, "GET", fmt.Sprintf("/api/v1/sessions/s1/%s", path), nil)
		if w.Code != http.StatusNotFound {
			t.Errorf("%s after end: expected 404, got %d", path, w.Code)
		}
	}
}

func TestNotFoundEndpoint(t *testing.T) {
	srv := newTestServer()

	w := doJSON(srv, "GET", "/nonexistent", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}
