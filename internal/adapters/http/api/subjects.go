package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	service "github.com/cccmmm5858-cpu/astro-web/internal/app"
	"github.com/cccmmm5858-cpu/astro-web/internal/domain/query"
)

// SubjectDependencies defines the read operations behind /subjects.
type SubjectDependencies interface {
	Subjects(ctx context.Context) []string
	Report(ctx context.Context, subject, date string) (service.Report, error)
}

// SubjectsHandler serves the subject index and per-subject reports.
type SubjectsHandler struct {
	deps SubjectDependencies
}

// NewSubjectsHandler creates a new subjects handler.
func NewSubjectsHandler(deps SubjectDependencies) *SubjectsHandler {
	return &SubjectsHandler{deps: deps}
}

type subjectsResponse struct {
	Subjects []string `json:"subjects"`
	Count    int      `json:"count"`
}

// HandleList handles GET /subjects.
func (h *SubjectsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	subjects := h.deps.Subjects(r.Context())
	if subjects == nil {
		subjects = []string{}
	}
	writeJSON(w, http.StatusOK, subjectsResponse{Subjects: subjects, Count: len(subjects)})
}

// HandleReport handles GET /subjects/{name}?date=YYYY-MM-DD[&events=true].
func (h *SubjectsHandler) HandleReport(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.PathValue("name"))
	if name == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	rep, err := h.deps.Report(r.Context(), name, r.URL.Query().Get("date"))
	if err != nil {
		if errors.Is(err, query.ErrInvalidDate) {
			writeError(w, http.StatusBadRequest, "invalid_date", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}

	withEvents, _ := strconv.ParseBool(r.URL.Query().Get("events"))
	writeJSON(w, http.StatusOK, newReportResponse(rep, withEvents))
}
