// Package utils provides small helpers for the HTTP layer that carry no
// domain knowledge.
package utils

import (
	"errors"
	"strconv"
)

// Clamp bounds v to [lo, hi]. A hi below lo leaves v unbounded above.
func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if hi >= lo && v > hi {
		return hi
	}
	return v
}

// ParseBounded parses an optional integer query value. An empty string
// yields def. The result is clamped with Clamp(n, lo, hi), so out-of-range
// numbers (including ones that overflow int) are bounded rather than
// rejected. Only a value that is not an integer at all is an error.
//
// Example:
//
//	n, _ := utils.ParseBounded("", 10, 1, 20)   // 10
//	n, _ = utils.ParseBounded("50", 10, 1, 20)  // 20
//	_, err := utils.ParseBounded("x", 10, 1, 20) // err != nil
func ParseBounded(raw string, def, lo, hi int) (int, error) {
	if raw == "" {
		return Clamp(def, lo, hi), nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, err
	}
	return Clamp(n, lo, hi), nil
}
