package ingest

import (
	"math"
	"strings"
	"time"

	"github.com/cccmmm5858-cpu/astro-web/internal/domain/zodiac"
	"github.com/spf13/cast"
	"github.com/xuri/excelize/v2"
)

// timestampLayouts are tried in order for text timestamps.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006/01/02 15:04:05",
	"2006/01/02 15:04",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"1/2/06 15:04",
	"2006-01-02",
}

// transitColumns maps each tracked body to its transit workbook header.
var transitColumns = map[zodiac.Body]string{
	zodiac.Sun:       "Sun Lng",
	zodiac.Moon:      "Moon Lng",
	zodiac.Mercury:   "Mercury Lng",
	zodiac.Venus:     "Venus Lng",
	zodiac.Mars:      "Mars Lng",
	zodiac.Jupiter:   "Jupiter Lng",
	zodiac.Saturn:    "Saturn Lng",
	zodiac.Uranus:    "Uranus Lng",
	zodiac.Neptune:   "Neptune Lng",
	zodiac.Pluto:     "Pluto Lng",
	zodiac.NorthNode: "Lunar North Node (True) Lng",
	zodiac.SouthNode: "Lunar South Node (True) Lng",
}

const datetimeColumn = "Datetime"

// TransitColumn returns the header expected for body in the transit workbook.
func TransitColumn(body zodiac.Body) string { return transitColumns[body] }

// parseAngle coerces a cell into a finite angle normalized to [0,360).
func parseAngle(cell string) (float64, bool) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return 0, false
	}
	v, err := cast.ToFloat64E(cell)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return zodiac.Normalize(v), true
}

// parseTimestamp accepts an Excel serial date or a text timestamp and
// returns a timezone-naive time carried in UTC.
func parseTimestamp(cell string) (time.Time, bool) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return time.Time{}, false
	}
	if serial, err := cast.ToFloat64E(cell); err == nil {
		if serial <= 0 || math.IsNaN(serial) || math.IsInf(serial, 0) {
			return time.Time{}, false
		}
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, false
		}
		return t.UTC().Round(time.Second), true
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, cell, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// normalizeHeader folds header spelling differences (case, repeated spaces).
func normalizeHeader(h string) string {
	return strings.ToLower(strings.Join(strings.Fields(h), " "))
}

// cellAt returns row[i] or "" when the row is shorter.
func cellAt(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
