package zodiac

import (
	"math"
	"strings"
)

// DefaultOrb is the tolerance, in degrees, applied to every canonical angle.
const DefaultOrb = 1.0

// Aspect names a canonical angular relationship.
type Aspect uint8

// Aspects. The zero value means no aspect.
const (
	AspectNone Aspect = iota
	Conjunction
	Sextile
	Square
	Trine
	Opposition
)

var aspectNames = [...]string{
	AspectNone:  "",
	Conjunction: "conjunction",
	Sextile:     "sextile",
	Square:      "square",
	Trine:       "trine",
	Opposition:  "opposition",
}

func (a Aspect) String() string {
	if int(a) < len(aspectNames) {
		return aspectNames[a]
	}
	return ""
}

// MarshalText encodes the aspect by name.
func (a Aspect) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

// ParseAspect resolves an aspect name, case-insensitively.
func ParseAspect(s string) (Aspect, bool) {
	s = strings.TrimSpace(s)
	for i, name := range aspectNames {
		if name != "" && strings.EqualFold(name, s) {
			return Aspect(i), true
		}
	}
	return AspectNone, false
}

// AspectDef is one row of the canonical aspect table.
type AspectDef struct {
	Aspect Aspect
	Exact  float64
	Symbol string
}

// aspectTable is scanned in order; the first row within orb wins.
var aspectTable = []AspectDef{
	{Aspect: Conjunction, Exact: 0, Symbol: "🔥"},
	{Aspect: Sextile, Exact: 60, Symbol: "🟢"},
	{Aspect: Square, Exact: 90, Symbol: "🔴"},
	{Aspect: Trine, Exact: 120, Symbol: "🟢"},
	{Aspect: Opposition, Exact: 180, Symbol: "🔴"},
}

// Aspects returns a copy of the canonical table in scan order.
func Aspects() []AspectDef {
	out := make([]AspectDef, len(aspectTable))
	copy(out, aspectTable)
	return out
}

// Symbol returns the display symbol of the aspect.
func (a Aspect) Symbol() string {
	for _, def := range aspectTable {
		if def.Aspect == a {
			return def.Symbol
		}
	}
	return ""
}

// Match is a successful classification.
type Match struct {
	Aspect    Aspect
	Exact     float64
	Deviation float64
	Symbol    string
}

// Distance returns the shortest circular separation of a and b, in [0,180].
func Distance(a, b float64) float64 {
	d := math.Abs(Normalize(a) - Normalize(b))
	if d > fullCircle/2 {
		d = fullCircle - d
	}
	return d
}

// Classify maps a separation to the first canonical aspect within orb.
func Classify(separation, orb float64) (Match, bool) {
	for _, def := range aspectTable {
		dev := math.Abs(separation - def.Exact)
		if dev <= orb {
			return Match{Aspect: def.Aspect, Exact: def.Exact, Deviation: dev, Symbol: def.Symbol}, true
		}
	}
	return Match{}, false
}
