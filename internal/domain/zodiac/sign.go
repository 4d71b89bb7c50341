package zodiac

import (
	"math"
	"strings"
)

// Sign is one of the twelve 30-degree sectors, Aries first.
type Sign uint8

// Signs in ecliptic order; the value equals the sign index.
const (
	Aries Sign = iota
	Taurus
	Gemini
	Cancer
	Leo
	Virgo
	Libra
	Scorpio
	Sagittarius
	Capricorn
	Aquarius
	Pisces
)

const (
	signCount  = 12
	signWidth  = 30.0
	fullCircle = 360.0
)

var signNames = [signCount]string{
	"Aries", "Taurus", "Gemini", "Cancer", "Leo", "Virgo",
	"Libra", "Scorpio", "Sagittarius", "Capricorn", "Aquarius", "Pisces",
}

var signAliases = map[string]Sign{
	"الحمل":   Aries,
	"الثور":   Taurus,
	"الجوزاء": Gemini,
	"السرطان": Cancer,
	"الأسد":   Leo,
	"العذراء": Virgo,
	"الميزان": Libra,
	"العقرب":  Scorpio,
	"القوس":   Sagittarius,
	"الجدي":   Capricorn,
	"الدلو":   Aquarius,
	"الحوت":   Pisces,
}

func init() {
	for i, name := range signNames {
		signAliases[strings.ToLower(name)] = Sign(i)
	}
}

func (s Sign) String() string {
	if int(s) < signCount {
		return signNames[s]
	}
	return ""
}

// MarshalText encodes the sign by name.
func (s Sign) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// ParseSign resolves a sign name case-insensitively.
func ParseSign(s string) (Sign, bool) {
	sign, ok := signAliases[strings.ToLower(strings.TrimSpace(s))]
	return sign, ok
}

// Normalize maps any angle into [0,360).
func Normalize(angle float64) float64 {
	a := math.Mod(angle, fullCircle)
	if a < 0 {
		a += fullCircle
	}
	return a
}

// SignOf returns the sign containing angle: floor(angle/30) mod 12.
func SignOf(angle float64) Sign {
	return Sign(int(math.Floor(Normalize(angle)/signWidth)) % signCount)
}

// DegreeInSign returns the position within the sign, angle mod 30.
func DegreeInSign(angle float64) float64 {
	return math.Mod(Normalize(angle), signWidth)
}
