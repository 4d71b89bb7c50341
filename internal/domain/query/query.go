// Package query selects the natal placements and transit samples relevant
// to one subject and day and runs the matcher over them.
package query

import (
	"fmt"
	"strings"
	"time"

	"github.com/cccmmm5858-cpu/astro-web/internal/domain/matching"
	"github.com/cccmmm5858-cpu/astro-web/internal/domain/model"
)

// DateLayout is the accepted day format.
const DateLayout = "2006-01-02"

const endOfDay = 24*time.Hour - time.Second

// Result carries the raw events of one query.
type Result struct {
	Events []model.AspectEvent
	// Subject is the first canonical subject name that matched; empty when
	// no placement matched.
	Subject string
	// Placements and Samples count the selected rows.
	Placements int
	Samples    int
}

// Matched reports whether any placement matched the requested subject.
func (r Result) Matched() bool { return r.Subject != "" }

// Orchestrator runs subject/day queries against a dataset.
type Orchestrator struct {
	matcher *matching.Matcher
}

// New creates an Orchestrator backed by matcher. A nil matcher uses defaults.
func New(matcher *matching.Matcher) *Orchestrator {
	if matcher == nil {
		matcher = matching.New()
	}
	return &Orchestrator{matcher: matcher}
}

// Run selects placements whose subject contains subject (case-insensitive)
// and samples within [day 00:00:00, day 23:59:59], then matches them. When
// either selection is empty the matcher is not invoked.
func (o *Orchestrator) Run(ds *model.Dataset, subject string, day time.Time) Result {
	placements := SelectPlacements(ds, subject)
	if len(placements) == 0 {
		return Result{}
	}
	res := Result{Subject: placements[0].Subject, Placements: len(placements)}

	from, to := DayBounds(day)
	samples := ds.SamplesBetween(from, to)
	res.Samples = len(samples)
	if len(samples) == 0 {
		return res
	}
	res.Events = o.matcher.Match(placements, samples)
	return res
}

// SelectPlacements returns the placements whose subject contains needle,
// compared case-insensitively, in source order.
func SelectPlacements(ds *model.Dataset, needle string) []model.NatalPlacement {
	needle = strings.ToLower(needle)
	var out []model.NatalPlacement
	for _, p := range ds.Placements() {
		if strings.Contains(strings.ToLower(p.Subject), needle) {
			out = append(out, p)
		}
	}
	return out
}

// Subjects returns the sorted unique subject names of ds.
func Subjects(ds *model.Dataset) []string {
	return ds.Subjects()
}

// DayBounds returns the first and last second of the calendar day of t.
func DayBounds(t time.Time) (time.Time, time.Time) {
	y, m, d := t.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return start, start.Add(endOfDay)
}

// ParseDay parses a YYYY-MM-DD day. Failures wrap ErrInvalidDate.
func ParseDay(s string) (time.Time, error) {
	day, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q: %v", ErrInvalidDate, s, err)
	}
	return day, nil
}
