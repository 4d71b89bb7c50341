package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrBackpressure = errors.New("reload already pending")
	ErrUnavailable  = errors.New("service unavailable")
)
