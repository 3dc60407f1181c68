package analyzer

import (
	"strconv"
	"strings"
)

// LengthTarget is an inclusive word-count window.
type LengthTarget struct {
	Min int
	Max int
}

var fallbackTarget = LengthTarget{Min: 250, Max: 350}

// ParseWordRange parses "min-max". Anything malformed, including min > max or
// non-positive bounds, yields the 250-350 fallback.
func ParseWordRange(value string) LengthTarget {
	parts := strings.Split(strings.TrimSpace(value), "-")
	if len(parts) != 2 {
		return fallbackTarget
	}
	lo, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return fallbackTarget
	}
	hi, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return fallbackTarget
	}
	if lo <= 0 || hi < lo {
		return fallbackTarget
	}
	return LengthTarget{Min: lo, Max: hi}
}

func (t LengthTarget) String() string {
	return strconv.Itoa(t.Min) + "-" + strconv.Itoa(t.Max)
}

// WordCountFor picks the word range for a video of the given length. The
// first rule whose threshold is strictly greater than the duration wins.
func (o Options) WordCountFor(durationMinutes float64) string {
	if !o.DynamicWordCount {
		return o.DefaultWordCount
	}
	for _, rule := range sortedRules(o.WordCountRules) {
		if durationMinutes < rule.MaxMinutes {
			return rule.WordCount
		}
	}
	return o.DefaultWordCount
}
