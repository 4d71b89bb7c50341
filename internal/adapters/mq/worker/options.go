// Package worker applies queued reload requests to the live dataset store.
package worker

import (
	"github.com/cccmmm5858-cpu/astro-web/pkg/logger"
)

// Option applies a configuration option to the ReloadWorker.
type Option func(*ReloadWorker)

// WithName sets the worker name for identification and logging.
func WithName(name string) Option {
	return func(w *ReloadWorker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(logger logger.Logger) Option {
	return func(w *ReloadWorker) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithObserver registers a callback invoked after every reload attempt.
func WithObserver(fn func(Outcome)) Option {
	return func(w *ReloadWorker) {
		w.observer = fn
	}
}

// WithVersioner overrides how snapshot versions are generated.
func WithVersioner(fn func() string) Option {
	return func(w *ReloadWorker) {
		if fn != nil {
			w.version = fn
		}
	}
}
