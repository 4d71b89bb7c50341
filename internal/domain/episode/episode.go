// Package episode groups raw aspect events into time-windowed episodes.
package episode

import (
	"sort"
	"time"

	"github.com/cccmmm5858-cpu/astro-web/internal/domain/model"
	"github.com/cccmmm5858-cpu/astro-web/internal/domain/zodiac"
)

// DefaultContinuousHours is the window length above which an episode is
// shown as lasting the whole day.
const DefaultContinuousHours = 20.0

// Key identifies the partition an event belongs to.
type Key struct {
	TransitBody zodiac.Body
	NatalBody   zodiac.Body
	Aspect      zodiac.Aspect
}

// Episode is a contiguous run of events sharing one Key.
type Episode struct {
	Key
	Start          time.Time
	End            time.Time
	Hours          float64
	Continuous     bool
	Members        int
	Representative model.AspectEvent

	// Display attributes derived from the representative event.
	Symbol        string
	TransitSign   zodiac.Sign
	TransitDegree float64
	Dignity       zodiac.Dignity
	NatalSign     zodiac.Sign
	NatalDegree   float64
	Timeframe     string
}

// Option applies a configuration option to the Aggregator.
type Option func(*Aggregator)

// WithContinuousHours sets the continuous-for-the-day threshold.
func WithContinuousHours(hours float64) Option {
	return func(a *Aggregator) {
		if hours > 0 {
			a.continuousHours = hours
		}
	}
}

// Aggregator partitions events into episodes.
type Aggregator struct {
	continuousHours float64
}

// New creates an Aggregator with default settings unless overridden.
func New(opts ...Option) *Aggregator {
	a := &Aggregator{continuousHours: DefaultContinuousHours}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ContinuousHours returns the configured threshold.
func (a *Aggregator) ContinuousHours() float64 { return a.continuousHours }

// Aggregate partitions events by (transit body, natal body, aspect). Each
// input event lands in exactly one episode. Episodes are ordered by window
// start, then by key.
func (a *Aggregator) Aggregate(events []model.AspectEvent) []Episode {
	groups := make(map[Key][]model.AspectEvent)
	var keys []Key
	for _, e := range events {
		k := Key{TransitBody: e.TransitBody, NatalBody: e.NatalBody, Aspect: e.Aspect}
		if _, ok := groups[k]; !ok {
			keys = append(keys, k)
		}
		groups[k] = append(groups[k], e)
	}

	episodes := make([]Episode, 0, len(keys))
	for _, k := range keys {
		episodes = append(episodes, a.build(k, groups[k]))
	}

	sort.SliceStable(episodes, func(i, j int) bool {
		x, y := episodes[i], episodes[j]
		if !x.Start.Equal(y.Start) {
			return x.Start.Before(y.Start)
		}
		if x.TransitBody != y.TransitBody {
			return x.TransitBody < y.TransitBody
		}
		if x.NatalBody != y.NatalBody {
			return x.NatalBody < y.NatalBody
		}
		return x.Aspect < y.Aspect
	})
	return episodes
}

func (a *Aggregator) build(k Key, members []model.AspectEvent) Episode {
	sort.SliceStable(members, func(i, j int) bool {
		return members[i].Timestamp.Before(members[j].Timestamp)
	})

	// Members are time-ordered, so a strict comparison keeps the earliest on ties.
	best := members[0]
	for _, e := range members[1:] {
		if e.Deviation < best.Deviation {
			best = e
		}
	}

	start, end := members[0].Timestamp, members[len(members)-1].Timestamp
	hours := end.Sub(start).Hours()
	tSign := zodiac.SignOf(best.TransitDegree)

	return Episode{
		Key:            k,
		Start:          start,
		End:            end,
		Hours:          hours,
		Continuous:     hours > a.continuousHours,
		Members:        len(members),
		Representative: best,
		Symbol:         k.Aspect.Symbol(),
		TransitSign:    tSign,
		TransitDegree:  zodiac.DegreeInSign(best.TransitDegree),
		Dignity:        zodiac.DignityOf(k.TransitBody, tSign),
		NatalSign:      zodiac.SignOf(best.NatalDegree),
		NatalDegree:    zodiac.DegreeInSign(best.NatalDegree),
		Timeframe:      zodiac.TimeframeOf(k.TransitBody),
	}
}
