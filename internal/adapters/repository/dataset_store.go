package repository

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/cccmmm5858-cpu/astro-web/internal/domain/model"
	"github.com/cccmmm5858-cpu/astro-web/pkg/metrics"
)

// emptySnapshot is served until the first successful load.
var emptySnapshot = &Snapshot{Dataset: model.NewDataset(nil, nil)} //nolint:gochecknoglobals // shared immutable zero value

// DatasetStore implements Store with an atomic pointer. Readers load the
// pointer once per query; writers publish a fully built value.
type DatasetStore struct {
	snapshot atomic.Pointer[Snapshot]
	swaps    atomic.Int64
}

// NewDatasetStore constructs an empty store.
func NewDatasetStore(_ context.Context) *DatasetStore {
	return &DatasetStore{}
}

// Current returns the live snapshot.
func (s *DatasetStore) Current(_ context.Context) *Snapshot {
	if snap := s.snapshot.Load(); snap != nil {
		return snap
	}
	return emptySnapshot
}

// Replace publishes snap. A nil snapshot or dataset is rejected and the
// previous snapshot stays live.
func (s *DatasetStore) Replace(_ context.Context, snap *Snapshot) error {
	if snap == nil || snap.Dataset == nil {
		return fmt.Errorf("replace snapshot: %w", ErrNoDataset)
	}
	if snap.LoadedAt.IsZero() {
		snap.LoadedAt = time.Now()
	}
	s.snapshot.Store(snap)
	s.swaps.Add(1)

	metrics.UpdateDatasetPlacements(len(snap.Dataset.Placements()))
	metrics.UpdateDatasetSamples(len(snap.Dataset.Samples()))
	metrics.UpdateDatasetSubjects(len(snap.Dataset.Subjects()))
	metrics.UpdateDatasetLoadedAt(snap.LoadedAt)
	return nil
}

// Swaps returns how many snapshots have been published.
func (s *DatasetStore) Swaps() int64 { return s.swaps.Load() }
