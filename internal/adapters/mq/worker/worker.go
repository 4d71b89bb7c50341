package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/cccmmm5858-cpu/astro-web/internal/adapters/repository"
	"github.com/cccmmm5858-cpu/astro-web/internal/domain/model"
	"github.com/cccmmm5858-cpu/astro-web/pkg/logger"
	"github.com/cccmmm5858-cpu/astro-web/pkg/metrics"
	"github.com/google/uuid"
)

// Loader reads a complete dataset from its sources.
type Loader interface {
	Load(ctx context.Context) (*model.Dataset, error)
}

// Store publishes snapshots.
type Store interface {
	Replace(ctx context.Context, snap *repository.Snapshot) error
}

// Queue defines how the worker receives requests.
type Queue interface {
	Dequeue(ctx context.Context) <-chan model.ReloadRequest
}

// Worker processes reload requests.
type Worker interface {
	// Run starts the worker loop until ctx is canceled or the queue closes.
	Run(ctx context.Context)

	// Shutdown stops the worker after the in-flight reload, if any.
	Shutdown(ctx context.Context) error
}

// Outcome describes one finished reload attempt.
type Outcome struct {
	Request  model.ReloadRequest
	Version  string
	Duration time.Duration
	Err      error
}

// ReloadWorker drains the queue one request at a time, so reloads never
// overlap. A failed load leaves the previous snapshot live.
type ReloadWorker struct {
	queue    Queue
	loader   Loader
	store    Store
	name     string
	observer func(Outcome)
	version  func() string

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewReloadWorker creates a worker with configuration options.
func NewReloadWorker(queue Queue, loader Loader, store Store, opts ...Option) *ReloadWorker {
	w := &ReloadWorker{
		queue:    queue,
		loader:   loader,
		store:    store,
		name:     "reload-worker",
		version:  uuid.NewString,
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
	}

	for _, opt := range opts {
		opt(w)
	}

	if w.logger == nil {
		w.logger = logger.Get().Named(w.name)
	}

	return w
}

// Run starts the worker loop.
func (w *ReloadWorker) Run(ctx context.Context) {
	defer close(w.done)

	requests := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case req, ok := <-requests:
			if !ok {
				return
			}
			w.Apply(ctx, req)
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *ReloadWorker) Shutdown(ctx context.Context) error {
	select {
	case <-w.shutdown:
	default:
		close(w.shutdown)
	}

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// Apply loads the sources and publishes the result. It is used directly
// for the startup load, which must finish before serving.
func (w *ReloadWorker) Apply(ctx context.Context, req model.ReloadRequest) Outcome {
	start := time.Now()
	out := Outcome{Request: req}

	defer func() {
		out.Duration = time.Since(start)
		ms := float64(out.Duration.Milliseconds())
		metrics.RecordReloadDuration(ms)
		if out.Err != nil {
			metrics.RecordReload(string(req.Source), "failed")
			metrics.RecordErrorByComponent("worker", "reload_failed")
			metrics.RecordErrorLatency("worker", "reload_failed", ms)
		} else {
			metrics.RecordReload(string(req.Source), "ok")
		}
		if w.observer != nil {
			w.observer(out)
		}
	}()

	ds, err := w.loader.Load(ctx)
	if err != nil {
		out.Err = fmt.Errorf("load datasets: %w", err)
		w.logger.Error(ctx, "reload failed; keeping previous dataset",
			logger.String("reloadID", req.ID),
			logger.String("source", string(req.Source)),
			logger.Error(err),
		)
		return out
	}

	snap := &repository.Snapshot{
		Dataset:  ds,
		Version:  w.version(),
		Source:   req.Source,
		LoadedAt: time.Now(),
	}
	if err := w.store.Replace(ctx, snap); err != nil {
		out.Err = fmt.Errorf("publish snapshot: %w", err)
		w.logger.Error(ctx, "publishing snapshot failed",
			logger.String("reloadID", req.ID),
			logger.Error(err),
		)
		return out
	}
	out.Version = snap.Version

	w.logger.Info(ctx, "dataset reloaded",
		logger.String("reloadID", req.ID),
		logger.String("source", string(req.Source)),
		logger.String("version", snap.Version),
		logger.Int("placements", len(ds.Placements())),
		logger.Int("samples", len(ds.Samples())),
		logger.Duration("took", time.Since(start)),
	)
	return out
}
