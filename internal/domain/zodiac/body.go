// Package zodiac holds the closed vocabularies of the engine (bodies, signs,
// aspects, dignities) and the pure angle arithmetic built on them.
package zodiac

import "strings"

// Body identifies a tracked celestial body.
type Body uint8

// Tracked bodies. The zero value is not a valid body.
const (
	BodyUnknown Body = iota
	Sun
	Moon
	Mercury
	Venus
	Mars
	Jupiter
	Saturn
	Uranus
	Neptune
	Pluto
	NorthNode
	SouthNode
)

// Bodies lists every tracked body in canonical order.
var Bodies = []Body{
	Sun, Moon, Mercury, Venus, Mars, Jupiter,
	Saturn, Uranus, Neptune, Pluto, NorthNode, SouthNode,
}

var bodyNames = [...]string{
	BodyUnknown: "",
	Sun:         "Sun",
	Moon:        "Moon",
	Mercury:     "Mercury",
	Venus:       "Venus",
	Mars:        "Mars",
	Jupiter:     "Jupiter",
	Saturn:      "Saturn",
	Uranus:      "Uranus",
	Neptune:     "Neptune",
	Pluto:       "Pluto",
	NorthNode:   "North Node",
	SouthNode:   "South Node",
}

// bodyAliases maps lowercased spellings found in source workbooks to bodies.
var bodyAliases = map[string]Body{
	"sun":              Sun,
	"moon":             Moon,
	"mercury":          Mercury,
	"venus":            Venus,
	"mars":             Mars,
	"jupiter":          Jupiter,
	"saturn":           Saturn,
	"uranus":           Uranus,
	"neptune":          Neptune,
	"pluto":            Pluto,
	"north node":       NorthNode,
	"northnode":        NorthNode,
	"true node":        NorthNode,
	"south node":       SouthNode,
	"southnode":        SouthNode,
	"الشمس":            Sun,
	"القمر":            Moon,
	"عطارد":            Mercury,
	"الزهرة":           Venus,
	"المريخ":           Mars,
	"المشتري":          Jupiter,
	"زحل":              Saturn,
	"أورانوس":          Uranus,
	"نبتون":            Neptune,
	"بلوتو":            Pluto,
	"العقدة الشمالية":  NorthNode,
	"العقدة الجنوبية":  SouthNode,
}

// String returns the display name of the body.
func (b Body) String() string {
	if int(b) < len(bodyNames) {
		return bodyNames[b]
	}
	return ""
}

// Valid reports whether b is one of the tracked bodies.
func (b Body) Valid() bool { return b > BodyUnknown && b <= SouthNode }

// MarshalText encodes the body by name.
func (b Body) MarshalText() ([]byte, error) { return []byte(b.String()), nil }

// ParseBody resolves a body name, case-insensitively, including the
// spellings used by the source workbooks.
func ParseBody(s string) (Body, bool) {
	b, ok := bodyAliases[strings.ToLower(strings.Join(strings.Fields(s), " "))]
	return b, ok
}
