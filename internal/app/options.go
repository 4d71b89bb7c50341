package service

import (
	"time"

	"github.com/cccmmm5858-cpu/astro-web/internal/adapters/mq/worker"
	"github.com/cccmmm5858-cpu/astro-web/internal/domain/zodiac"
	"github.com/cccmmm5858-cpu/astro-web/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLoader sets the dataset source. Defaults to the spreadsheet loader.
func WithLoader(loader worker.Loader) Option {
	return func(s *Service) {
		if loader != nil {
			s.loader = loader
		}
	}
}

// WithDataFiles configures the default spreadsheet loader.
func WithDataFiles(dir, natal, transit string) Option {
	return func(s *Service) {
		s.dataDir, s.natalFile, s.transitFile = dir, natal, transit
	}
}

// WithQueueSize sets the maximum number of pending reload requests.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithWatch enables reloading when the source files change.
func WithWatch(enabled bool, debounce time.Duration) Option {
	return func(s *Service) {
		s.watch = enabled
		s.watchDebounce = debounce
	}
}

// WithOrb sets the aspect orb in degrees.
func WithOrb(orb float64) Option {
	return func(s *Service) {
		if orb > 0 {
			s.orb = orb
		}
	}
}

// WithContinuousHours sets the episode span above which it is continuous.
func WithContinuousHours(hours float64) Option {
	return func(s *Service) {
		if hours > 0 {
			s.continuousHours = hours
		}
	}
}

// WithPlanetWeights replaces the planet weight table.
func WithPlanetWeights(weights map[zodiac.Body]int) Option {
	return func(s *Service) {
		s.planetWeights = weights
	}
}

// WithAspectWeights replaces the aspect weight table.
func WithAspectWeights(weights map[zodiac.Aspect]int) Option {
	return func(s *Service) {
		s.aspectWeights = weights
	}
}

// WithClock sets the time source used to resolve "today".
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}
