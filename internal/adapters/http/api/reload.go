package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/cccmmm5858-cpu/astro-web/internal/adapters/mq/queue"
	service "github.com/cccmmm5858-cpu/astro-web/internal/app"
	"github.com/cccmmm5858-cpu/astro-web/internal/domain/model"
)

// ReloadDependencies defines the interface for requesting a dataset reload.
type ReloadDependencies interface {
	RequestReload(ctx context.Context, source model.ReloadSource) (string, error)
}

// ReloadHandler handles reload requests.
type ReloadHandler struct {
	deps ReloadDependencies
}

// NewReloadHandler creates a new reload handler.
func NewReloadHandler(deps ReloadDependencies) *ReloadHandler {
	return &ReloadHandler{deps: deps}
}

// HandleReload handles POST /admin/reload. The reload runs asynchronously;
// a full queue answers 429 since a pending reload will pick up the change.
func (h *ReloadHandler) HandleReload(w http.ResponseWriter, r *http.Request) {
	id, err := h.deps.RequestReload(r.Context(), model.ReloadAdmin)
	switch {
	case err == nil:
		writeJSON(w, http.StatusAccepted, reloadResponse{Status: "accepted", ReloadID: id, Source: model.ReloadAdmin})
	case errors.Is(err, queue.ErrQueueFull):
		writeError(w, http.StatusTooManyRequests, "backpressure", ErrBackpressure)
	case errors.Is(err, queue.ErrQueueClosed), errors.Is(err, service.ErrNotStarted):
		writeError(w, http.StatusServiceUnavailable, "unavailable", ErrUnavailable)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
