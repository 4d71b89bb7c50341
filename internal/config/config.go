// Package config defines service configuration and its validation.
package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cccmmm5858-cpu/astro-web/internal/domain/episode"
	"github.com/cccmmm5858-cpu/astro-web/internal/domain/scoring"
	"github.com/cccmmm5858-cpu/astro-web/internal/domain/zodiac"
)

// maxOrb bounds the configurable orb so neighbouring aspects cannot overlap.
const maxOrb = 15.0

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// DataDir is where relative workbook names are resolved.
	DataDir     string `koanf:"data_dir"`
	NatalFile   string `koanf:"natal_file"`
	TransitFile string `koanf:"transit_file"`

	// Watch enables reloading when either workbook changes on disk.
	Watch           bool `koanf:"watch"`
	WatchDebounceMS int  `koanf:"watch_debounce_ms"`

	// ReloadQueueSize bounds pending reload requests.
	ReloadQueueSize int `koanf:"reload_queue_size"`

	// Orb is the maximum deviation in degrees from an exact aspect angle.
	Orb float64 `koanf:"orb"`

	// ContinuousHours is the span above which an episode is continuous.
	ContinuousHours float64 `koanf:"continuous_hours"`

	// PlanetWeights and AspectWeights override individual scoring weights
	// by name. Unlisted entries keep their built-in values.
	PlanetWeights map[string]int `koanf:"planet_weights"`
	AspectWeights map[string]int `koanf:"aspect_weights"`

	// CORSOrigins lists origins allowed to call the API.
	CORSOrigins []string `koanf:"cors_origins"`
}

// New returns a Config populated with defaults.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:        "info",
		LogFormat:       "text",
		Addr:            ":9080",
		DataDir:         ".",
		NatalFile:       "Stock.xlsx",
		TransitFile:     "Transit.xlsx",
		Watch:           true,
		WatchDebounceMS: 500,
		ReloadQueueSize: 4,
		Orb:             zodiac.DefaultOrb,
		ContinuousHours: episode.DefaultContinuousHours,
		CORSOrigins:     []string{"*"},
	}
}

// WatchDebounce returns the watcher quiet period.
func (c *Config) WatchDebounce() time.Duration {
	return time.Duration(c.WatchDebounceMS) * time.Millisecond
}

// Planets returns the built-in planet weights with configured overrides applied.
func (c *Config) Planets() (map[zodiac.Body]int, error) {
	out := scoring.DefaultPlanetWeights()
	for name, w := range c.PlanetWeights {
		b, ok := zodiac.ParseBody(name)
		if !ok {
			return nil, fmt.Errorf("%w: planet_weights: unknown body %q", ErrInvalidConfig, name)
		}
		out[b] = w
	}
	return out, nil
}

// AspectScores returns the built-in aspect weights with configured overrides applied.
func (c *Config) AspectScores() (map[zodiac.Aspect]int, error) {
	out := scoring.DefaultAspectWeights()
	for name, w := range c.AspectWeights {
		a, ok := zodiac.ParseAspect(name)
		if !ok {
			return nil, fmt.Errorf("%w: aspect_weights: unknown aspect %q", ErrInvalidConfig, name)
		}
		out[a] = w
	}
	return out, nil
}

// Validate checks field ranges and weight names.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log_format must be text or json, got %q", ErrInvalidConfig, c.LogFormat)
	}
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: unknown log_level %q", ErrInvalidConfig, c.LogLevel)
	}
	if c.NatalFile == "" || c.TransitFile == "" {
		return fmt.Errorf("%w: natal_file and transit_file must not be empty", ErrInvalidConfig)
	}
	if c.Orb <= 0 || c.Orb > maxOrb {
		return fmt.Errorf("%w: orb must be in (0, %g], got %g", ErrInvalidConfig, maxOrb, c.Orb)
	}
	if c.ContinuousHours <= 0 {
		return fmt.Errorf("%w: continuous_hours must be positive", ErrInvalidConfig)
	}
	if c.ReloadQueueSize < 1 {
		return fmt.Errorf("%w: reload_queue_size must be at least 1", ErrInvalidConfig)
	}
	if c.WatchDebounceMS < 0 {
		return fmt.Errorf("%w: watch_debounce_ms must not be negative", ErrInvalidConfig)
	}
	if _, err := c.Planets(); err != nil {
		return err
	}
	if _, err := c.AspectScores(); err != nil {
		return err
	}
	return nil
}
