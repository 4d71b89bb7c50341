// Package model contains domain models passed between layers.
package model

import (
	"time"

	"github.com/cccmmm5858-cpu/astro-web/internal/domain/zodiac"
)

// NatalPlacement is a subject's fixed reference position for one body.
type NatalPlacement struct {
	Subject string
	Body    zodiac.Body
	Sign    zodiac.Sign // derived from Degree
	Degree  float64     // [0,360)
}

// TransitSample is a snapshot of transit positions at one instant.
// A body missing from Positions had no usable value in the source.
type TransitSample struct {
	Timestamp time.Time // timezone-naive, carried as UTC
	Positions map[zodiac.Body]float64
}

// AspectEvent is one raw match between a placement and a transit body.
type AspectEvent struct {
	Subject       string
	NatalBody     zodiac.Body
	NatalSign     zodiac.Sign
	NatalDegree   float64
	TransitBody   zodiac.Body
	Aspect        zodiac.Aspect
	ExactAngle    float64
	Deviation     float64 // >= 0
	TransitDegree float64
	Timestamp     time.Time
}

// NewPlacement builds a placement with its sign derived from degree.
func NewPlacement(subject string, body zodiac.Body, degree float64) NatalPlacement {
	deg := zodiac.Normalize(degree)
	return NatalPlacement{
		Subject: subject,
		Body:    body,
		Sign:    zodiac.SignOf(deg),
		Degree:  deg,
	}
}
