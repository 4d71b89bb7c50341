package repository

import "errors"

// Sentinel kinds for dataset store errors.
var (
	ErrNoDataset = errors.New("no dataset")
)
