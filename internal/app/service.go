// Package service wires the dataset store, reload pipeline and query engine
// into the operations required by the HTTP API and the CLI.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cccmmm5858-cpu/astro-web/internal/adapters/ingest"
	"github.com/cccmmm5858-cpu/astro-web/internal/adapters/ingest/watch"
	"github.com/cccmmm5858-cpu/astro-web/internal/adapters/mq/queue"
	"github.com/cccmmm5858-cpu/astro-web/internal/adapters/mq/worker"
	"github.com/cccmmm5858-cpu/astro-web/internal/adapters/repository"
	"github.com/cccmmm5858-cpu/astro-web/internal/domain/episode"
	"github.com/cccmmm5858-cpu/astro-web/internal/domain/matching"
	"github.com/cccmmm5858-cpu/astro-web/internal/domain/model"
	"github.com/cccmmm5858-cpu/astro-web/internal/domain/query"
	"github.com/cccmmm5858-cpu/astro-web/internal/domain/scoring"
	"github.com/cccmmm5858-cpu/astro-web/internal/domain/zodiac"
	"github.com/cccmmm5858-cpu/astro-web/pkg/logger"
	"github.com/cccmmm5858-cpu/astro-web/pkg/metrics"
	"github.com/google/uuid"
)

const shutdownTimeout = 5 * time.Second

// Report is the answer to one subject/day query.
type Report struct {
	// Subject is the name that was asked for; Resolved is the first
	// matching subject in the dataset, or Subject when nothing matched.
	Subject  string
	Resolved string
	Day      time.Time
	Result   scoring.Result
	Episodes []episode.Episode
	Events   []model.AspectEvent
	Version  string
}

// ReloadStatus describes the last finished reload.
type ReloadStatus struct {
	ID         string
	Source     model.ReloadSource
	Version    string
	FinishedAt time.Time
	Duration   time.Duration
	Err        string
}

// Stats is a point-in-time view of the service.
type Stats struct {
	Started     bool
	Version     string
	LoadedAt    time.Time
	Subjects    int
	Placements  int
	Samples     int
	QueueLength int
	QueueCap    int
	Watching    bool
	LastReload  *ReloadStatus
}

// Service implements the API dependencies for the aspect engine.
type Service struct {
	mu sync.RWMutex

	// Core components
	store        *repository.DatasetStore
	loader       worker.Loader
	reloads      *queue.InMemoryQueue
	reloader     *worker.ReloadWorker
	watcher      *watch.Watcher
	orchestrator *query.Orchestrator
	aggregator   *episode.Aggregator
	engine       *scoring.Engine

	// Configuration
	dataDir         string
	natalFile       string
	transitFile     string
	queueSize       int
	watch           bool
	watchDebounce   time.Duration
	orb             float64
	continuousHours float64
	planetWeights   map[zodiac.Body]int
	aspectWeights   map[zodiac.Aspect]int
	now             func() time.Time

	// State
	started bool
	cancel  context.CancelFunc

	// lastReload has its own lock: the worker reports outcomes while Start
	// and Stop hold mu.
	statusMu   sync.Mutex
	lastReload *ReloadStatus

	logger logger.Logger
}

// New constructs a Service. Components are built by Start.
func New(opts ...Option) *Service {
	s := &Service{
		dataDir:         ".",
		natalFile:       ingest.DefaultNatalFile,
		transitFile:     ingest.DefaultTransitFile,
		queueSize:       4,
		orb:             zodiac.DefaultOrb,
		continuousHours: episode.DefaultContinuousHours,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.orchestrator = query.New(matching.New(matching.WithOrb(s.orb)))
	s.aggregator = episode.New(episode.WithContinuousHours(s.continuousHours))
	s.engine = scoring.NewEngine(
		scoring.WithPlanetWeights(s.planetWeights),
		scoring.WithAspectWeights(s.aspectWeights),
	)
	s.store = repository.NewDatasetStore(context.Background())
	return s
}

// Start performs the initial load, then starts the reload worker and,
// when enabled, the file watcher. A failed initial load is logged and the
// service serves an empty dataset until a reload succeeds.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	var xlsx *ingest.XLSXLoader
	if s.loader == nil {
		xlsx = ingest.NewXLSXLoader(
			ingest.WithDataDir(s.dataDir),
			ingest.WithNatalFile(s.natalFile),
			ingest.WithTransitFile(s.transitFile),
		)
		s.loader = xlsx
	}

	s.reloads = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.reloader = worker.NewReloadWorker(s.reloads, s.loader, s.store, worker.WithObserver(s.observe))

	out := s.reloader.Apply(ctx, model.ReloadRequest{
		ID:          uuid.NewString(),
		Source:      model.ReloadStartup,
		RequestedAt: s.now(),
	})
	if out.Err != nil {
		if errors.Is(out.Err, ingest.ErrSourceMissing) {
			s.logger.Warn(ctx, "source workbooks missing; serving an empty dataset", logger.Error(out.Err))
		} else {
			s.logger.Error(ctx, "initial load failed; serving an empty dataset", logger.Error(out.Err))
		}
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel
	go s.reloader.Run(runCtx)

	if s.watch && xlsx != nil {
		natal, transit := xlsx.Paths()
		w, err := watch.New(s, []string{natal, transit}, watch.WithDebounce(s.watchDebounce))
		if err != nil {
			s.logger.Warn(ctx, "file watcher unavailable", logger.Error(err))
		} else if err := w.Start(runCtx); err != nil {
			s.logger.Warn(ctx, "file watcher failed to start", logger.Error(err))
		} else {
			s.watcher = w
		}
	}

	s.started = true
	s.logger.Info(ctx, "aspect service started",
		logger.Float64("orb", s.orb),
		logger.Float64("continuousHours", s.continuousHours),
		logger.Int("queueSize", s.queueSize),
		logger.Bool("watching", s.watcher != nil),
	)
	return nil
}

// Stop gracefully shuts down the service. Components are stopped outside
// the lock because the watcher calls back into RequestReload.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	w, q, rw, cancelRun := s.watcher, s.reloads, s.reloader, s.cancel
	s.watcher = nil
	s.started = false
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.logger.Info(ctx, "stopping aspect service...")

	if w != nil {
		w.Stop()
	}
	_ = q.Close()
	if err := rw.Shutdown(ctx); err != nil {
		s.logger.Warn(ctx, "reload worker did not stop cleanly", logger.Error(err))
	}
	cancelRun()

	s.logger.Info(ctx, "aspect service stopped")
}

// RequestReload queues a dataset reload and returns its request id.
// queue.ErrQueueFull means enough reloads are already pending.
func (s *Service) RequestReload(ctx context.Context, source model.ReloadSource) (string, error) {
	s.mu.RLock()
	started, q := s.started, s.reloads
	s.mu.RUnlock()
	if !started {
		return "", ErrNotStarted
	}

	req := model.ReloadRequest{ID: uuid.NewString(), Source: source, RequestedAt: s.now()}
	if err := q.Enqueue(ctx, req); err != nil {
		return "", fmt.Errorf("enqueue reload: %w", err)
	}
	s.logger.Debug(ctx, "reload queued", logger.String("reloadID", req.ID), logger.String("source", string(source)))
	return req.ID, nil
}

func (s *Service) observe(out worker.Outcome) {
	status := &ReloadStatus{
		ID:         out.Request.ID,
		Source:     out.Request.Source,
		Version:    out.Version,
		FinishedAt: s.now(),
		Duration:   out.Duration,
	}
	if out.Err != nil {
		status.Err = out.Err.Error()
	}
	s.statusMu.Lock()
	s.lastReload = status
	s.statusMu.Unlock()
}

// Subjects returns the sorted subject names of the live dataset.
func (s *Service) Subjects(ctx context.Context) []string {
	return query.Subjects(s.store.Current(ctx).Dataset)
}

// Report answers a subject/day query. An empty date means today. The
// snapshot is read once so a concurrent reload cannot mix generations.
func (s *Service) Report(ctx context.Context, subject, date string) (Report, error) {
	start := time.Now()
	defer func() {
		metrics.RecordQueryLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	day, err := s.resolveDay(date)
	if err != nil {
		metrics.RecordQuery("error")
		return Report{}, err
	}

	snap := s.store.Current(ctx)
	res := s.orchestrator.Run(snap.Dataset, subject, day)
	episodes := s.aggregator.Aggregate(res.Events)
	result := s.engine.Score(res.Events)

	rep := Report{
		Subject:  subject,
		Resolved: subject,
		Day:      day,
		Result:   result,
		Episodes: episodes,
		Events:   res.Events,
		Version:  snap.Version,
	}
	if res.Matched() {
		rep.Resolved = res.Subject
	}

	metrics.RecordEventsMatched(len(res.Events))
	for _, ep := range episodes {
		metrics.RecordEpisode(ep.Continuous)
	}
	metrics.RecordScoreTier(result.Tier.String())
	if result.Active() {
		metrics.RecordQuery("active")
	} else {
		metrics.RecordQuery("quiet")
	}

	s.logger.Debug(ctx, "report computed",
		logger.String("subject", subject),
		logger.String("resolved", rep.Resolved),
		logger.String("day", day.Format(query.DateLayout)),
		logger.Int("events", len(res.Events)),
		logger.Int("episodes", len(episodes)),
		logger.Int("score", result.Score),
	)
	return rep, nil
}

func (s *Service) resolveDay(date string) (time.Time, error) {
	if date == "" {
		y, m, d := s.now().Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}
	return query.ParseDay(date)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats(ctx context.Context) Stats {
	snap := s.store.Current(ctx)

	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Stats{
		Started:    s.started,
		Version:    snap.Version,
		LoadedAt:   snap.LoadedAt,
		Subjects:   len(snap.Dataset.Subjects()),
		Placements: len(snap.Dataset.Placements()),
		Samples:    len(snap.Dataset.Samples()),
		Watching:   s.watcher != nil,
	}
	if s.reloads != nil {
		st.QueueLength = s.reloads.Len(ctx)
		st.QueueCap = s.reloads.Cap()
	}

	s.statusMu.Lock()
	if s.lastReload != nil {
		lr := *s.lastReload
		st.LastReload = &lr
	}
	s.statusMu.Unlock()
	return st
}
