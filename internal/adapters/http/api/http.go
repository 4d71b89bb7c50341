// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	service "github.com/cccmmm5858-cpu/astro-web/internal/app"
	"github.com/cccmmm5858-cpu/astro-web/internal/domain/model"
	"github.com/cccmmm5858-cpu/astro-web/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the service implementation.
type Dependencies interface {
	SubjectDependencies
	ReloadDependencies
	StatsProvider
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	subjectsHandler *SubjectsHandler
	reloadHandler   *ReloadHandler
	logger          logger.Logger
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies) *Server {
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(deps),
		subjectsHandler: NewSubjectsHandler(deps),
		reloadHandler:   NewReloadHandler(deps),
		logger:          logger.Get().Named("http"),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", s.wrap(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /stats", s.wrap(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("GET /subjects", s.wrap(s.subjectsHandler.HandleList, "subjects"))
	mux.HandleFunc("GET /subjects/{name}", s.wrap(s.subjectsHandler.HandleReport, "report"))
	mux.HandleFunc("POST /admin/reload", s.wrap(s.reloadHandler.HandleReload, "reload"))
}

func (s *Server) wrap(h http.HandlerFunc, endpoint string) http.HandlerFunc {
	return RequestIDMiddleware(MetricsMiddleware(h, endpoint), s.logger)
}

// Compile-time check that the service satisfies the handler contracts.
var _ Dependencies = (*service.Service)(nil)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type reloadResponse struct {
	Status   string             `json:"status"`
	ReloadID string             `json:"reload_id"`
	Source   model.ReloadSource `json:"source"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
