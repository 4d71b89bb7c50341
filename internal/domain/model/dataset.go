package model

import (
	"sort"
	"time"
)

// Dataset pairs the two source tables. A Dataset is immutable once built;
// reloads construct a new one.
type Dataset struct {
	placements []NatalPlacement
	samples    []TransitSample
	subjects   []string
}

// NewDataset copies the inputs, orders samples by timestamp and indexes the
// distinct subject names.
func NewDataset(placements []NatalPlacement, samples []TransitSample) *Dataset {
	ds := &Dataset{
		placements: append([]NatalPlacement(nil), placements...),
		samples:    append([]TransitSample(nil), samples...),
	}
	sort.SliceStable(ds.samples, func(i, j int) bool {
		return ds.samples[i].Timestamp.Before(ds.samples[j].Timestamp)
	})

	seen := make(map[string]struct{}, len(ds.placements))
	for _, p := range ds.placements {
		if _, ok := seen[p.Subject]; ok {
			continue
		}
		seen[p.Subject] = struct{}{}
		ds.subjects = append(ds.subjects, p.Subject)
	}
	sort.Strings(ds.subjects)
	return ds
}

// Placements returns the natal table in source order. Callers must not modify it.
func (d *Dataset) Placements() []NatalPlacement {
	if d == nil {
		return nil
	}
	return d.placements
}

// Samples returns the transit table ordered by timestamp. Callers must not modify it.
func (d *Dataset) Samples() []TransitSample {
	if d == nil {
		return nil
	}
	return d.samples
}

// Subjects returns the sorted distinct subject names.
func (d *Dataset) Subjects() []string {
	if d == nil {
		return nil
	}
	return d.subjects
}

// SamplesBetween returns the samples with from <= timestamp <= to.
func (d *Dataset) SamplesBetween(from, to time.Time) []TransitSample {
	if d == nil {
		return nil
	}
	lo := sort.Search(len(d.samples), func(i int) bool {
		return !d.samples[i].Timestamp.Before(from)
	})
	hi := sort.Search(len(d.samples), func(i int) bool {
		return d.samples[i].Timestamp.After(to)
	})
	if lo >= hi {
		return nil
	}
	return d.samples[lo:hi]
}
