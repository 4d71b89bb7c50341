// Package repository holds the live natal/transit datasets behind a single
// atomically swapped snapshot.
package repository

import (
	"context"
	"time"

	"github.com/cccmmm5858-cpu/astro-web/internal/domain/model"
)

// Snapshot is one published generation of the datasets. Snapshots are never
// mutated after publication.
type Snapshot struct {
	Dataset  *model.Dataset
	Version  string
	Source   model.ReloadSource
	LoadedAt time.Time
}

// Store provides read access to the current snapshot and whole-value replacement.
type Store interface {
	// Current returns the live snapshot. It never returns nil; before the
	// first load it returns an empty snapshot.
	Current(ctx context.Context) *Snapshot

	// Replace publishes snap as the live snapshot in a single step.
	Replace(ctx context.Context, snap *Snapshot) error
}
