// Package api exposes the node's transport surface: a small JSON API
// the federated orchestration client calls to trigger a computation
// and to collect the resulting bundle. Error payloads carry codes and
// sanitized messages only.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"stratastats/app"
	"stratastats/domain/core"
	"stratastats/internal"
	apperrors "stratastats/internal/errors"
)

// Server is the node's HTTP surface
type Server struct {
	router  *chi.Mux
	service *app.PartialStatsService
	log     *internal.Logger
}

// NewServer creates the API around a partial-stats service
func NewServer(service *app.PartialStatsService, log *internal.Logger) *Server {
	if log == nil {
		log = internal.DefaultLogger
	}
	s := &Server{
		router:  chi.NewRouter(),
		service: service,
		log:     log,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Recoverer)

	s.router.Get("/health", s.handleHealth)
	s.router.Route("/api/v1", func(r chi.Router) {
		r.Post("/partial-stats", s.handleCompute)
		r.Get("/results", s.handleListResults)
		r.Get("/results/{id}", s.handleGetResult)
	})
}

// Handler returns the HTTP handler for mounting or serving.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe starts the server on the given port.
func (s *Server) ListenAndServe(port string) error {
	s.log.Info("node API listening on :%s", port)
	return http.ListenAndServe(":"+port, s.router)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCompute(w http.ResponseWriter, r *http.Request) {
	result, err := s.service.Compute(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetResult(w http.ResponseWriter, r *http.Request) {
	id, err := core.ParseResultID(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, apperrors.InvalidInput("result id is required"))
		return
	}
	result, err := s.service.GetResult(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleListResults(w http.ResponseWriter, r *http.Request) {
	results, err := s.service.ListResults(r.Context(), 20)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

// errorResponse is the wire form of a failure: code plus sanitized
// message.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := apperrors.GetCode(err)
	status := http.StatusInternalServerError
	switch code {
	case apperrors.CodeSchemaAdherence, apperrors.CodeOutputValidation:
		status = http.StatusUnprocessableEntity
	case apperrors.CodeNotFound:
		status = http.StatusNotFound
	case apperrors.CodeInvalidInput:
		status = http.StatusBadRequest
	}

	message := err.Error()
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		message = appErr.Message
	}
	s.log.Error("request failed: %s (%s)", code, message)
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Too late to change the status; nothing sensitive to add.
		return
	}
}
