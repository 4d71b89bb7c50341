package ingest

import (
	"path/filepath"

	"github.com/cccmmm5858-cpu/astro-web/pkg/logger"
)

// Default workbook names, relative to the data directory.
const (
	DefaultNatalFile   = "Stock.xlsx"
	DefaultTransitFile = "Transit.xlsx"
)

// Option applies a configuration option to the XLSXLoader.
type Option func(*XLSXLoader)

// WithDataDir sets the directory relative workbook names resolve against.
func WithDataDir(dir string) Option {
	return func(l *XLSXLoader) {
		if dir != "" {
			l.dataDir = dir
		}
	}
}

// WithNatalFile sets the natal workbook name or path.
func WithNatalFile(name string) Option {
	return func(l *XLSXLoader) {
		if name != "" {
			l.natalFile = name
		}
	}
}

// WithTransitFile sets the transit workbook name or path.
func WithTransitFile(name string) Option {
	return func(l *XLSXLoader) {
		if name != "" {
			l.transitFile = name
		}
	}
}

// WithLogger sets a custom logger for the loader.
func WithLogger(log logger.Logger) Option {
	return func(l *XLSXLoader) {
		if log != nil {
			l.logger = log
		}
	}
}

func (l *XLSXLoader) resolve(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(l.dataDir, name)
}
