// Package api exposes the pipeline's core operations to the enclosing
// service layer over HTTP.
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hareshchavan26/aimockinterviewer2-sub003/internal/analysis"
	"github.com/hareshchavan26/aimockinterviewer2-sub003/internal/pipeline"
)

type Server struct {
	router   *chi.Mux
	port     int
	pipeline *pipeline.Pipeline
	logger   *slog.Logger
}

func NewServer(port int, p *pipeline.Pipeline, logger *slog.Logger) *Server {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	s := &Server{
		router:   router,
		port:     port,
		pipeline: p,
		logger:   logger,
	}

	router.Get("/health", s.health)
	router.Handle("/metrics", promhttp.Handler())
	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/pipeline/status", s.status)
		r.Post("/sessions", s.startSession)
		r.Route("/sessions/{sessionID}", func(r chi.Router) {
			r.Post("/analysis", s.processAnalysis)
			r.Get("/state", s.sessionState)
			r.Get("/history", s.sessionHistory)
			r.Delete("/", s.endSession)
		})
	})

	return s
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("API server starting", "addr", addr)
	return http.ListenAndServe(addr, s.router)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"service":         "feedbackd",
		"active_sessions": s.pipeline.SessionCount(),
	})
}

type startSessionRequest struct {
	SessionID string `json:"session_id"`
}

func (s *Server) startSession(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}

	handle, err := s.pipeline.StartSession(req.SessionID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, handle)
}

func (s *Server) processAnalysis(w http.ResponseWriter, r *http.Request) {
	var req analysis.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}
	req.SessionID = chi.URLParam(r, "sessionID")

	result, err := s.pipeline.Process(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) sessionState(w http.ResponseWriter, r *http.Request) {
	state, err := s.pipeline.SessionState(chi.URLParam(r, "sessionID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

type historyResponse struct {
	Results []analysis.Result `json:"results"`
	Offset  int               `json:"offset"`
	Limit   int               `json:"limit"`
	Total   int               `json:"total"`
}

func (s *Server) sessionHistory(w http.ResponseWriter, r *http.Request) {
	history, err := s.pipeline.SessionHistory(chi.URLParam(r, "sessionID"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	offset := queryInt(r, "offset", 0)
	limit := queryInt(r, "limit", len(history))
	page := paginate(history, offset, limit)

	writeJSON(w, http.StatusOK, historyResponse{
		Results: page,
		Offset:  offset,
		Limit:   limit,
		Total:   len(history),
	})
}

func (s *Server) endSession(w http.ResponseWriter, r *http.Request) {
	if err := s.pipeline.EndSession(chi.URLParam(r, "sessionID")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := pipeline.CodeOf(err)
	status := http.StatusInternalServerError
	switch code {
	case pipeline.CodeSessionNotFound:
		status = http.StatusNotFound
	case pipeline.CodeInvalidInputData, pipeline.CodeInsufficientData:
		status = http.StatusBadRequest
	case pipeline.CodeAnalysisTimeout:
		status = http.StatusGatewayTimeout
	}

	s.logger.Error("request failed", "code", string(code), "error", err)
	writeJSON(w, status, map[string]string{
		"error": err.Error(),
		"code":  string(code),
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func queryInt(r *http.Request, key string, fallback int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return fallback
}

func paginate(results []analysis.Result, offset, limit int) []analysis.Result {
	if offset >= len(results) {
		return nil
	}
	end := offset + limit
	if end > len(results) {
		end = len(results)
	}
	return results[offset:end]
}
