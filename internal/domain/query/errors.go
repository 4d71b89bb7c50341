package query

import "errors"

// Sentinel error kinds for this package.
var (
	ErrInvalidDate = errors.New("invalid date")
)
