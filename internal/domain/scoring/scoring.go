// Package scoring reduces a day's raw aspect events for one subject into an
// integer score and a five-tier rating.
package scoring

import (
	"maps"
	"strings"

	"github.com/cccmmm5858-cpu/astro-web/internal/domain/model"
	"github.com/cccmmm5858-cpu/astro-web/internal/domain/zodiac"
)

// Conjunction contribution that replaces the aspect weight; its sign follows
// the transit body's weight.
const conjunctionBoost = 2

// Tier thresholds, checked from the top.
const (
	goldenThreshold   = 4
	strongThreshold   = 2
	moderateThreshold = 0
	cautionThreshold  = -2
)

// Tier is the discrete rating. TierNone sits outside the 1-5 scale.
type Tier int

// Rating tiers.
const (
	TierNone Tier = iota
	TierRisk
	TierCaution
	TierModerate
	TierStrong
	TierGolden
)

var tierLabels = [...]string{
	TierNone:     "no activity",
	TierRisk:     "negative/risk",
	TierCaution:  "caution",
	TierModerate: "moderate",
	TierStrong:   "strong",
	TierGolden:   "golden opportunity",
}

var tierKeys = [...]string{
	TierNone:     "none",
	TierRisk:     "risk",
	TierCaution:  "caution",
	TierModerate: "moderate",
	TierStrong:   "strong",
	TierGolden:   "golden",
}

// String returns a short machine-friendly name of the tier.
func (t Tier) String() string {
	if t >= 0 && int(t) < len(tierKeys) {
		return tierKeys[t]
	}
	return "unknown"
}

// Label returns the display label of the tier.
func (t Tier) Label() string {
	if t >= 0 && int(t) < len(tierLabels) {
		return tierLabels[t]
	}
	return ""
}

// Stars renders the tier as the star strip used in reports.
func (t Tier) Stars() string {
	switch t {
	case TierNone:
		return "⚪"
	case TierRisk:
		return "⚠️"
	}
	return strings.Repeat("⭐", int(t))
}

// DefaultPlanetWeights is the per-transit-body weight table.
func DefaultPlanetWeights() map[zodiac.Body]int {
	return map[zodiac.Body]int{
		zodiac.Jupiter:   3,
		zodiac.Venus:     2,
		zodiac.Sun:       1,
		zodiac.Moon:      1,
		zodiac.Mercury:   0,
		zodiac.Uranus:    0,
		zodiac.Neptune:   0,
		zodiac.Mars:      -1,
		zodiac.Saturn:    -2,
		zodiac.Pluto:     -1,
		zodiac.NorthNode: 1,
		zodiac.SouthNode: -1,
	}
}

// DefaultAspectWeights is the per-aspect weight table.
func DefaultAspectWeights() map[zodiac.Aspect]int {
	return map[zodiac.Aspect]int{
		zodiac.Trine:       2,
		zodiac.Sextile:     2,
		zodiac.Conjunction: 0,
		zodiac.Square:      -2,
		zodiac.Opposition:  -2,
	}
}

// Result is the outcome of scoring one subject/day.
type Result struct {
	Score  int    `json:"score"`
	Tier   Tier   `json:"tier"`
	Label  string `json:"rating"`
	Events int    `json:"events"`
}

// Active reports whether any event contributed to the result.
func (r Result) Active() bool { return r.Tier != TierNone }

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithPlanetWeights overrides entries of the planet weight table.
func WithPlanetWeights(weights map[zodiac.Body]int) Option {
	return func(e *Engine) {
		// Copy to avoid external modifications
		maps.Copy(e.planetWeights, weights)
	}
}

// WithAspectWeights overrides entries of the aspect weight table.
func WithAspectWeights(weights map[zodiac.Aspect]int) Option {
	return func(e *Engine) {
		maps.Copy(e.aspectWeights, weights)
	}
}

// Engine scores raw events. It is safe for concurrent use once built.
type Engine struct {
	planetWeights map[zodiac.Body]int
	aspectWeights map[zodiac.Aspect]int
}

// NewEngine creates an Engine with the default tables plus overrides.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		planetWeights: DefaultPlanetWeights(),
		aspectWeights: DefaultAspectWeights(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Contribution returns the score delta of a single event. Unknown bodies and
// aspects weigh zero.
func (e *Engine) Contribution(transit zodiac.Body, aspect zodiac.Aspect) int {
	pw := e.planetWeights[transit]
	aw := e.aspectWeights[aspect]
	if aspect == zodiac.Conjunction {
		switch {
		case pw > 0:
			aw = conjunctionBoost
		case pw < 0:
			aw = -conjunctionBoost
		default:
			aw = 0
		}
	}
	return pw + aw
}

// Score sums the contribution of every raw event and rates the total.
// An empty input yields the TierNone result.
func (e *Engine) Score(events []model.AspectEvent) Result {
	if len(events) == 0 {
		return Result{Tier: TierNone, Label: TierNone.Label()}
	}
	total := 0
	for _, ev := range events {
		total += e.Contribution(ev.TransitBody, ev.Aspect)
	}
	tier := Rate(total)
	return Result{Score: total, Tier: tier, Label: tier.Label(), Events: len(events)}
}

// Rate maps a score onto the 1-5 tier scale.
func Rate(score int) Tier {
	switch {
	case score >= goldenThreshold:
		return TierGolden
	case score >= strongThreshold:
		return TierStrong
	case score >= moderateThreshold:
		return TierModerate
	case score >= cautionThreshold:
		return TierCaution
	default:
		return TierRisk
	}
}
