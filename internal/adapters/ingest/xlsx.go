// Package ingest is the tolerant parse boundary between the source
// workbooks and the engine. Malformed rows are dropped here and never reach
// the domain packages.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/cccmmm5858-cpu/astro-web/internal/domain/model"
	"github.com/cccmmm5858-cpu/astro-web/internal/domain/zodiac"
	"github.com/cccmmm5858-cpu/astro-web/pkg/logger"
	"github.com/cccmmm5858-cpu/astro-web/pkg/metrics"
	"github.com/xuri/excelize/v2"
)

// natalColumns is the minimum width of a usable natal sheet:
// subject, body, sign, degree.
const natalColumns = 4

// Loader yields a freshly parsed dataset from the external provider.
type Loader interface {
	Load(ctx context.Context) (*model.Dataset, error)
}

// Report summarizes one load.
type Report struct {
	Sheets            int
	Placements        int
	PlacementsDropped int
	Samples           int
	SamplesDropped    int
}

// XLSXLoader reads the natal and transit workbooks.
type XLSXLoader struct {
	dataDir     string
	natalFile   string
	transitFile string
	logger      logger.Logger
}

// NewXLSXLoader creates a loader with default file names unless overridden.
func NewXLSXLoader(opts ...Option) *XLSXLoader {
	l := &XLSXLoader{
		dataDir:     ".",
		natalFile:   DefaultNatalFile,
		transitFile: DefaultTransitFile,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = logger.Get().Named("ingest")
	}
	return l
}

// Paths returns the resolved natal and transit workbook paths.
func (l *XLSXLoader) Paths() (natal, transit string) {
	return l.resolve(l.natalFile), l.resolve(l.transitFile)
}

// Load reads both workbooks. Either file missing yields ErrSourceMissing and
// no dataset.
func (l *XLSXLoader) Load(ctx context.Context) (*model.Dataset, error) {
	start := time.Now()
	natalPath, transitPath := l.Paths()
	for _, p := range []string{natalPath, transitPath} {
		if _, err := os.Stat(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("%w: %s", ErrSourceMissing, p)
			}
			return nil, fmt.Errorf("%w: %s: %v", ErrOpenWorkbook, p, err)
		}
	}

	var rep Report
	placements, err := l.readNatal(ctx, natalPath, &rep)
	if err != nil {
		return nil, err
	}
	samples, err := l.readTransit(ctx, transitPath, &rep)
	if err != nil {
		return nil, err
	}

	metrics.RecordIngestDropped("placement", rep.PlacementsDropped)
	metrics.RecordIngestDropped("sample", rep.SamplesDropped)
	l.logger.Info(ctx, "workbooks loaded",
		logger.Int("sheets", rep.Sheets),
		logger.Int("placements", rep.Placements),
		logger.Int("placementsDropped", rep.PlacementsDropped),
		logger.Int("samples", rep.Samples),
		logger.Int("samplesDropped", rep.SamplesDropped),
		logger.Duration("took", time.Since(start)),
	)
	return model.NewDataset(placements, samples), nil
}

func openWorkbook(path string) (*excelize.File, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrOpenWorkbook, path, err)
	}
	return f, nil
}

// readNatal reads every sheet; the first row of each sheet is a header.
func (l *XLSXLoader) readNatal(ctx context.Context, path string, rep *Report) ([]model.NatalPlacement, error) {
	f, err := openWorkbook(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var out []model.NatalPlacement
	for _, sheet := range f.GetSheetList() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("%w: %s/%s: %v", ErrOpenWorkbook, path, sheet, err)
		}
		if widest(rows) < natalColumns {
			l.logger.Debug(ctx, "skipping narrow sheet", logger.String("sheet", sheet))
			continue
		}
		rep.Sheets++

		for _, row := range rows[1:] {
			if isBlank(row) {
				continue
			}
			degree, ok := parseAngle(cellAt(row, 3))
			if !ok {
				rep.PlacementsDropped++
				continue
			}
			body, ok := zodiac.ParseBody(cellAt(row, 1))
			if !ok {
				rep.PlacementsDropped++
				l.logger.Debug(ctx, "unknown natal body",
					logger.String("sheet", sheet),
					logger.String("body", cellAt(row, 1)),
				)
				continue
			}
			subject := strings.TrimSpace(cellAt(row, 0))
			if subject == "" {
				subject = sheet
			}
			out = append(out, model.NewPlacement(subject, body, degree))
		}
	}
	rep.Placements = len(out)
	return out, nil
}

// readTransit reads the first sheet of the transit workbook.
func (l *XLSXLoader) readTransit(ctx context.Context, path string, rep *Report) ([]model.TransitSample, error) {
	f, err := openWorkbook(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %s/%s: %v", ErrOpenWorkbook, path, sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	header := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		header[normalizeHeader(h)] = i
	}
	tsCol, ok := header[normalizeHeader(datetimeColumn)]
	if !ok {
		return nil, fmt.Errorf("%w: %q in %s", ErrMissingColumn, datetimeColumn, path)
	}
	bodyCols := make(map[zodiac.Body]int, len(transitColumns))
	for body, name := range transitColumns {
		if i, ok := header[normalizeHeader(name)]; ok {
			bodyCols[body] = i
		}
	}
	if len(bodyCols) < len(transitColumns) {
		l.logger.Warn(ctx, "transit workbook lacks some body columns",
			logger.Int("found", len(bodyCols)),
			logger.Int("expected", len(transitColumns)),
		)
	}

	out := make([]model.TransitSample, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if isBlank(row) {
			continue
		}
		ts, ok := parseTimestamp(cellAt(row, tsCol))
		if !ok {
			rep.SamplesDropped++
			continue
		}
		positions := make(map[zodiac.Body]float64, len(bodyCols))
		for body, col := range bodyCols {
			if lng, ok := parseAngle(cellAt(row, col)); ok {
				positions[body] = lng
			}
		}
		out = append(out, model.TransitSample{Timestamp: ts, Positions: positions})
	}
	rep.Samples = len(out)
	return out, nil
}

func widest(rows [][]string) int {
	n := 0
	for _, r := range rows {
		if len(r) > n {
			n = len(r)
		}
	}
	return n
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
