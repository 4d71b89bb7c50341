package model

import "time"

// ReloadSource records what asked for a dataset reload.
type ReloadSource string

// Known reload sources.
const (
	ReloadStartup ReloadSource = "startup"
	ReloadAdmin   ReloadSource = "admin"
	ReloadWatcher ReloadSource = "watcher"
)

// ReloadRequest asks the reload worker to rebuild the live datasets.
type ReloadRequest struct {
	ID          string
	Source      ReloadSource
	RequestedAt time.Time
}
