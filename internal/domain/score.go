package domain

import (
	"math"
	"strconv"
	"strings"
)

// ParseScoreOrDefault converts a stored score column to a float. Metric and
// recency columns come from upstream jobs and occasionally hold garbage; a
// bad value must degrade to the fallback instead of aborting a whole run.
func ParseScoreOrDefault(value string, fallback float64) float64 {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}

	parsed, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
		return fallback
	}

	return parsed
}

// FormatScore renders a score with a fixed number of decimals for storage.
func FormatScore(value float64, decimals int) string {
	return strconv.FormatFloat(value, 'f', decimals, 64)
}

// RoundScore rounds to the given number of decimals.
func RoundScore(value float64, decimals int) float64 {
	shift := math.Pow(10, float64(decimals))
	return math.Round(value*shift) / shift
}

// Clamp01 pins a score into the [0,1] range.
func Clamp01(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}
