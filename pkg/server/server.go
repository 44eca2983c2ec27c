// Package server exposes the analysis pipeline over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/ahmadsufyan455/star-one/pkg/feedback"
	"github.com/ahmadsufyan455/star-one/pkg/model"
	"github.com/ahmadsufyan455/star-one/pkg/pipeline"
	"github.com/ahmadsufyan455/star-one/pkg/quota"
)

// identityHeader carries the verified user email placed by the upstream
// OAuth proxy. Requests without it fall into the anonymous quota bucket.
const identityHeader = "X-User-Email"

// AnalysisService is the pipeline boundary the server depends on.
type AnalysisService interface {
	Analyze(ctx context.Context, identity string, req model.AnalysisRequest) (*model.AnalysisReport, error)
}

type Server struct {
	service  AnalysisService
	quota    *quota.Tracker
	feedback feedback.Store
	log      *zap.Logger
}

func New(service AnalysisService, tracker *quota.Tracker, store feedback.Store, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	if store == nil {
		store = feedback.NewMemoryStore()
	}
	return &Server{
		service:  service,
		quota:    tracker,
		feedback: store,
		log:      log,
	}
}

// Router mounts the API surface.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", identityHeader},
	}))
	r.Use(s.requestLogger)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Post("/analyze", s.handleAnalyze)
		r.Post("/feedback", s.handleFeedback)
		r.Get("/quota", s.handleQuota)
	})
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req model.AnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrorResponse{
			Error:   pipeline.KindInvalidRequest.Label(),
			Details: "request body must be a JSON object",
		})
		return
	}

	report, err := s.service.Analyze(r.Context(), identityFrom(r), req)
	if err != nil {
		s.writePipelineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email    string `json:"email"`
		Rating   int    `json:"rating"`
		Feedback string `json:"feedback"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrorResponse{Error: "Invalid request"})
		return
	}
	if payload.Rating == 0 || strings.TrimSpace(payload.Feedback) == "" {
		writeError(w, http.StatusBadRequest, model.ErrorResponse{Error: "Rating and feedback are required"})
		return
	}
	if payload.Rating < 1 || payload.Rating > 5 {
		writeError(w, http.StatusBadRequest, model.ErrorResponse{Error: "Rating must be between 1 and 5"})
		return
	}

	email := payload.Email
	if email == "" {
		email = pipeline.AnonymousIdentity
	}
	entry := feedback.Entry{
		Email:     email,
		Rating:    payload.Rating,
		Feedback:  strings.TrimSpace(payload.Feedback),
		CreatedAt: time.Now(),
	}
	if err := s.feedback.Save(r.Context(), entry); err != nil {
		s.log.Error("save feedback", zap.Error(err))
		writeError(w, http.StatusInternalServerError, model.ErrorResponse{Error: "Failed to save feedback"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Feedback saved"})
}

func (s *Server) handleQuota(w http.ResponseWriter, r *http.Request) {
	identity := identityFrom(r)
	used := s.quota.Used(identity)
	remaining := s.quota.Limit() - used
	if remaining < 0 {
		remaining = 0
	}
	writeJSON(w, http.StatusOK, map[string]int{
		"used":      used,
		"remaining": remaining,
		"limit":     s.quota.Limit(),
	})
}

// writePipelineError maps a pipeline failure to its fixed category and
// status. Anything that is not a *pipeline.Error reports as an internal
// error with no diagnostic detail in the body.
func (s *Server) writePipelineError(w http.ResponseWriter, r *http.Request, err error) {
	var perr *pipeline.Error
	if errors.As(err, &perr) {
		writeError(w, perr.Kind.HTTPStatus(), model.ErrorResponse{
			Error:   perr.Kind.Label(),
			Details: perr.Details,
		})
		return
	}
	s.log.Error("unexpected pipeline error", zap.String("path", r.URL.Path), zap.Error(err))
	writeError(w, http.StatusInternalServerError, model.ErrorResponse{
		Error:   pipeline.KindInternal.Label(),
		Details: "an unexpected error occurred, please try again",
	})
}

func identityFrom(r *http.Request) string {
	identity := strings.TrimSpace(r.Header.Get(identityHeader))
	if identity == "" {
		return pipeline.AnonymousIdentity
	}
	return identity
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, resp model.ErrorResponse) {
	writeJSON(w, status, resp)
}

// statusRecorder captures the response status for the request log line.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(status int) {
	sr.status = status
	sr.ResponseWriter.WriteHeader(status)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)))
	})
}
