package zodiac

import "slices"

// Dignity qualifies a body's relationship to the sign it occupies.
type Dignity uint8

// Dignities. DignityNone carries no annotation.
const (
	DignityNone Dignity = iota
	Home
	Exaltation
	Fall
	Detriment
)

var dignityNames = [...]string{
	DignityNone: "",
	Home:        "home",
	Exaltation:  "exaltation",
	Fall:        "fall",
	Detriment:   "detriment",
}

func (d Dignity) String() string {
	if int(d) < len(dignityNames) {
		return dignityNames[d]
	}
	return ""
}

// MarshalText encodes the dignity by name.
func (d Dignity) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

type dignitySets struct {
	home, exaltation, fall, detriment []Sign
}

// Only the seven classical bodies carry dignities.
var dignities = map[Body]dignitySets{
	Sun:     {home: []Sign{Leo}, exaltation: []Sign{Aries}, fall: []Sign{Libra}, detriment: []Sign{Aquarius}},
	Moon:    {home: []Sign{Cancer}, exaltation: []Sign{Taurus}, fall: []Sign{Scorpio}, detriment: []Sign{Capricorn}},
	Mercury: {home: []Sign{Gemini, Virgo}, exaltation: []Sign{Virgo}, fall: []Sign{Pisces}, detriment: []Sign{Sagittarius, Pisces}},
	Venus:   {home: []Sign{Taurus, Libra}, exaltation: []Sign{Pisces}, fall: []Sign{Virgo}, detriment: []Sign{Scorpio, Aries}},
	Mars:    {home: []Sign{Aries, Scorpio}, exaltation: []Sign{Capricorn}, fall: []Sign{Cancer}, detriment: []Sign{Libra, Taurus}},
	Jupiter: {home: []Sign{Sagittarius, Pisces}, exaltation: []Sign{Cancer}, fall: []Sign{Capricorn}, detriment: []Sign{Gemini, Virgo}},
	Saturn:  {home: []Sign{Capricorn, Aquarius}, exaltation: []Sign{Libra}, fall: []Sign{Aries}, detriment: []Sign{Cancer, Leo}},
}

// DignityOf returns the first matching dignity of body in sign, checked
// home, exaltation, fall, detriment. Bodies outside the table get none.
func DignityOf(body Body, sign Sign) Dignity {
	d, ok := dignities[body]
	if !ok {
		return DignityNone
	}
	switch {
	case slices.Contains(d.home, sign):
		return Home
	case slices.Contains(d.exaltation, sign):
		return Exaltation
	case slices.Contains(d.fall, sign):
		return Fall
	case slices.Contains(d.detriment, sign):
		return Detriment
	}
	return DignityNone
}

var timeframes = map[Body]string{
	Moon:      "15m / 1H",
	Sun:       "4H / 10H",
	Mercury:   "1H / 4H",
	Venus:     "1H / 4H",
	Mars:      "4H / 1Day",
	Jupiter:   "1W",
	Saturn:    "1W",
	Uranus:    "1M",
	Neptune:   "1M",
	Pluto:     "1M",
	NorthNode: "1W",
	SouthNode: "1W",
}

// TimeframeOf returns the chart timeframe suggested for a transit body.
func TimeframeOf(body Body) string { return timeframes[body] }
