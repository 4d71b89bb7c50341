package api

import (
	"context"
	"net/http"
	"time"

	service "github.com/cccmmm5858-cpu/astro-web/internal/app"
)

// StatsProvider defines the interface for getting service statistics.
type StatsProvider interface {
	GetStats(ctx context.Context) service.Stats
}

// StatsHandler handles stats requests.
type StatsHandler struct {
	statsProvider StatsProvider
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(statsProvider StatsProvider) *StatsHandler {
	return &StatsHandler{statsProvider: statsProvider}
}

type statsResponse struct {
	Started     bool             `json:"started"`
	Version     string           `json:"version"`
	LoadedAt    *time.Time       `json:"loaded_at,omitempty"`
	Subjects    int              `json:"subjects"`
	Placements  int              `json:"placements"`
	Samples     int              `json:"samples"`
	QueueLength int              `json:"queue_length"`
	QueueCap    int              `json:"queue_capacity"`
	Watching    bool             `json:"watching"`
	LastReload  *reloadStatusDTO `json:"last_reload,omitempty"`
}

type reloadStatusDTO struct {
	ID         string    `json:"id"`
	Source     string    `json:"source"`
	Version    string    `json:"version,omitempty"`
	FinishedAt time.Time `json:"finished_at"`
	DurationMS int64     `json:"duration_ms"`
	Error      string    `json:"error,omitempty"`
}

// HandleStats handles GET /stats requests.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	st := h.statsProvider.GetStats(r.Context())
	out := statsResponse{
		Started:     st.Started,
		Version:     st.Version,
		Subjects:    st.Subjects,
		Placements:  st.Placements,
		Samples:     st.Samples,
		QueueLength: st.QueueLength,
		QueueCap:    st.QueueCap,
		Watching:    st.Watching,
	}
	if !st.LoadedAt.IsZero() {
		loaded := st.LoadedAt
		out.LoadedAt = &loaded
	}
	if lr := st.LastReload; lr != nil {
		out.LastReload = &reloadStatusDTO{
			ID:         lr.ID,
			Source:     string(lr.Source),
			Version:    lr.Version,
			FinishedAt: lr.FinishedAt,
			DurationMS: lr.Duration.Milliseconds(),
			Error:      lr.Err,
		}
	}
	writeJSON(w, http.StatusOK, out)
}
