// Package watch requests a dataset reload when a source workbook changes on disk.
package watch

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/cccmmm5858-cpu/astro-web/internal/domain/model"
	"github.com/cccmmm5858-cpu/astro-web/pkg/logger"
	"github.com/fsnotify/fsnotify"
)

const (
	defaultDebounce = 500 * time.Millisecond
	tickInterval    = 100 * time.Millisecond
)

// Requester accepts reload requests.
type Requester interface {
	RequestReload(ctx context.Context, source model.ReloadSource) (string, error)
}

// Option applies a configuration option to the Watcher.
type Option func(*Watcher)

// WithDebounce sets how long the files must stay quiet before a reload is requested.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets a custom logger for the watcher.
func WithLogger(log logger.Logger) Option {
	return func(w *Watcher) {
		if log != nil {
			w.logger = log
		}
	}
}

// Watcher watches the directories of a set of files. Directories are
// watched rather than files so that save-by-rename editors are seen.
type Watcher struct {
	mu        sync.Mutex
	fsw       *fsnotify.Watcher
	requester Requester
	files     map[string]struct{}
	dirs      []string
	debounce  time.Duration
	lastEvent time.Time
	pending   bool
	running   bool
	stopCh    chan struct{}
	doneCh    chan struct{}
	logger    logger.Logger
}

// New creates a Watcher for files. Nothing is watched until Start.
func New(requester Requester, files []string, opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		fsw:       fsw,
		requester: requester,
		files:     make(map[string]struct{}, len(files)),
		debounce:  defaultDebounce,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
	seen := make(map[string]struct{})
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			abs = filepath.Clean(f)
		}
		w.files[abs] = struct{}{}
		dir := filepath.Dir(abs)
		if _, ok := seen[dir]; !ok {
			seen[dir] = struct{}{}
			w.dirs = append(w.dirs, dir)
		}
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = logger.Get().Named("watch")
	}
	return w, nil
}

// Start begins watching. It is non-blocking.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	for _, dir := range w.dirs {
		if err := w.fsw.Add(dir); err != nil {
			w.logger.Warn(ctx, "cannot watch data directory", logger.String("dir", dir), logger.Error(err))
			continue
		}
		w.logger.Info(ctx, "watching data directory", logger.String("dir", dir))
	}

	go w.run(ctx)
	return nil
}

// Stop stops the watcher and waits for its loop to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		_ = w.fsw.Close()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh
	if err := w.fsw.Close(); err != nil {
		w.logger.Error(context.Background(), "closing watcher failed", logger.Error(err))
	}
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(ctx, ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Error(ctx, "watch error", logger.Error(err))
		case <-ticker.C:
			w.flush(ctx)
		}
	}
}

func (w *Watcher) handle(ctx context.Context, ev fsnotify.Event) {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Rename) && !ev.Has(fsnotify.Remove) {
		return
	}
	abs, err := filepath.Abs(ev.Name)
	if err != nil {
		return
	}
	if _, ok := w.files[abs]; !ok {
		return
	}
	w.logger.Debug(ctx, "source changed", logger.String("file", abs), logger.String("op", ev.Op.String()))

	w.mu.Lock()
	w.pending = true
	w.lastEvent = time.Now()
	w.mu.Unlock()
}

// flush requests one reload once the files have been quiet for the debounce window.
func (w *Watcher) flush(ctx context.Context) {
	w.mu.Lock()
	if !w.pending || time.Since(w.lastEvent) < w.debounce {
		w.mu.Unlock()
		return
	}
	w.pending = false
	w.mu.Unlock()

	id, err := w.requester.RequestReload(ctx, model.ReloadWatcher)
	if err != nil {
		w.logger.Warn(ctx, "reload request rejected", logger.Error(err))
		return
	}
	w.logger.Info(ctx, "reload requested", logger.String("reloadID", id))
}
