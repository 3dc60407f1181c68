package analyzer

import (
	"cmp"
	"slices"
)

// WordCountRule maps an exclusive upper bound in minutes to a "min-max"
// word range.
type WordCountRule struct {
	MaxMinutes float64
	WordCount  string
}

// Options is the immutable tuning for one Analyzer. Build it once from the
// loaded configuration and pass it to New.
type Options struct {
	MaxTranscriptLength int
	DefaultWordCount    string
	DynamicWordCount    bool
	WordCountRules      []WordCountRule
	NumThemes           string
	TrimThreshold       float64
	MinRetention        float64
	ParallelStages      bool
}

func DefaultOptions() Options {
	return Options{
		MaxTranscriptLength: 15000,
		DefaultWordCount:    "300-400",
		DynamicWordCount:    true,
		WordCountRules: []WordCountRule{
			{MaxMinutes: 5, WordCount: "100-150"},
			{MaxMinutes: 10, WordCount: "200-300"},
			{MaxMinutes: 20, WordCount: "300-400"},
			{MaxMinutes: 40, WordCount: "400-500"},
			{MaxMinutes: 999, WordCount: "500-600"},
		},
		NumThemes:      "3-5",
		TrimThreshold:  1.3,
		MinRetention:   0.7,
		ParallelStages: true,
	}
}

// normalized fills zero values from the defaults and returns a copy whose
// rule table is sorted by threshold.
func (o Options) normalized() Options {
	defaults := DefaultOptions()
	if o.MaxTranscriptLength <= 0 {
		o.MaxTranscriptLength = defaults.MaxTranscriptLength
	}
	if o.DefaultWordCount == "" {
		o.DefaultWordCount = defaults.DefaultWordCount
	}
	if o.NumThemes == "" {
		o.NumThemes = defaults.NumThemes
	}
	if o.TrimThreshold <= 0 {
		o.TrimThreshold = defaults.TrimThreshold
	}
	if o.MinRetention <= 0 {
		o.MinRetention = defaults.MinRetention
	}
	o.WordCountRules = sortedRules(o.WordCountRules)
	return o
}

func sortedRules(rules []WordCountRule) []WordCountRule {
	sorted := slices.Clone(rules)
	slices.SortStableFunc(sorted, func(a, b WordCountRule) int {
		return cmp.Compare(a.MaxMinutes, b.MaxMinutes)
	})
	return sorted
}
