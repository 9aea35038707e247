package toxplan

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// ParseElapsed converts free-text time since exposure into hours. ok is false
// for "unknown", empty text and anything it cannot read, including units it
// does not know; callers treat all of those the same way.
func ParseElapsed(text string) (hours float64, ok bool) {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" || text == "unknown" {
		return 0, false
	}

	fields := strings.Fields(text)
	if v, err := strconv.ParseFloat(fields[0], 64); err == nil {
		switch len(fields) {
		case 1:
			return validHours(v)
		case 2:
			perUnit, known := secondsPerUnit(fields[1])
			if !known {
				return 0, false
			}
			return validHours(v * perUnit / 3600)
		default:
			return 0, false
		}
	}

	if d, err := time.ParseDuration(strings.Join(fields, "")); err == nil {
		return validHours(d.Hours())
	}

	return 0, false
}

func secondsPerUnit(unit string) (float64, bool) {
	switch strings.TrimRight(unit, ".,") {
	case "s", "sec", "secs", "second", "seconds":
		return 1, true
	case "m", "min", "mins", "minute", "minutes":
		return 60, true
	case "h", "hr", "hrs", "hour", "hours":
		return 3600, true
	case "d", "day", "days":
		return 86400, true
	}
	return 0, false
}

func validHours(v float64) (float64, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, false
	}
	return v, true
}
