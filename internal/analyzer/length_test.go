package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWordCountForDefaultRules(t *testing.T) {
	opts := DefaultOptions()

	tests := []struct {
		minutes float64
		want    string
	}{
		{0, "100-150"},
		{3, "100-150"},
		{5, "200-300"}, // thresholds are exclusive
		{12, "300-400"},
		{30, "400-500"},
		{500, "500-600"},
		{1000, "300-400"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, opts.WordCountFor(tt.minutes), "minutes=%v", tt.minutes)
	}
}

func TestWordCountForDisabled(t *testing.T) {
	opts := DefaultOptions()
	opts.DynamicWordCount = false
	opts.DefaultWordCount = "250-275"

	for _, minutes := range []float64{0, 4, 45, 2000} {
		assert.Equal(t, "250-275", opts.WordCountFor(minutes))
	}
}

func TestWordCountForUnsortedRules(t *testing.T) {
	opts := Options{
		DefaultWordCount: "300-400",
		DynamicWordCount: true,
		WordCountRules: []WordCountRule{
			{MaxMinutes: 30, WordCount: "400-500"},
			{MaxMinutes: 10, WordCount: "150-200"},
		},
	}

	assert.Equal(t, "150-200", opts.WordCountFor(7))
	assert.Equal(t, "400-500", opts.WordCountFor(15))
	assert.Equal(t, "300-400", opts.WordCountFor(30))
}

func TestWordCountMonotonic(t *testing.T) {
	opts := DefaultOptions()
	opts.DefaultWordCount = "600-700"

	prev := LengthTarget{}
	for minutes := 0.0; minutes < 1200; minutes += 0.5 {
		target := ParseWordRange(opts.WordCountFor(minutes))
		assert.GreaterOrEqual(t, target.Min, prev.Min, "minutes=%v", minutes)
		prev = target
	}
}

func TestParseWordRange(t *testing.T) {
	assert.Equal(t, LengthTarget{Min: 100, Max: 150}, ParseWordRange("100-150"))
	assert.Equal(t, LengthTarget{Min: 100, Max: 150}, ParseWordRange(" 100 - 150 "))
	assert.Equal(t, LengthTarget{Min: 200, Max: 200}, ParseWordRange("200-200"))

	for _, bad := range []string{"", "abc", "100", "200-100", "0-10", "1-2-3", "a-b"} {
		assert.Equal(t, fallbackTarget, ParseWordRange(bad), "value=%q", bad)
	}
	assert.Equal(t, "250-350", fallbackTarget.String())
}
