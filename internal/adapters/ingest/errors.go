package ingest

import "errors"

// Sentinel error kinds for this package.
var (
	ErrSourceMissing = errors.New("source workbook missing")
	ErrOpenWorkbook  = errors.New("open workbook failed")
	ErrMissingColumn = errors.New("required column missing")
)
