// Package matching scans natal placements against transit samples and
// emits one raw aspect event per matching triple.
package matching

import (
	"github.com/cccmmm5858-cpu/astro-web/internal/domain/model"
	"github.com/cccmmm5858-cpu/astro-web/internal/domain/zodiac"
)

// Option applies a configuration option to the Matcher.
type Option func(*Matcher)

// WithOrb sets the aspect tolerance in degrees.
func WithOrb(orb float64) Option {
	return func(m *Matcher) {
		if orb > 0 {
			m.orb = orb
		}
	}
}

// Matcher runs the placement x sample x body cross product.
type Matcher struct {
	orb float64
}

// New creates a Matcher using the default orb unless overridden.
func New(opts ...Option) *Matcher {
	m := &Matcher{orb: zodiac.DefaultOrb}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Orb returns the configured tolerance.
func (m *Matcher) Orb() float64 { return m.orb }

// Match returns every aspect between a placement and a transit body present
// in a sample. Output order is unspecified.
func (m *Matcher) Match(placements []model.NatalPlacement, samples []model.TransitSample) []model.AspectEvent {
	var events []model.AspectEvent
	for _, p := range placements {
		for _, s := range samples {
			for _, body := range zodiac.Bodies {
				lng, ok := s.Positions[body]
				if !ok {
					continue
				}
				hit, ok := zodiac.Classify(zodiac.Distance(p.Degree, lng), m.orb)
				if !ok {
					continue
				}
				events = append(events, model.AspectEvent{
					Subject:       p.Subject,
					NatalBody:     p.Body,
					NatalSign:     p.Sign,
					NatalDegree:   p.Degree,
					TransitBody:   body,
					Aspect:        hit.Aspect,
					ExactAngle:    hit.Exact,
					Deviation:     hit.Deviation,
					TransitDegree: lng,
					Timestamp:     s.Timestamp,
				})
			}
		}
	}
	return events
}
