package analyzer

import (
	"regexp"
	"strings"

	"video-analyzer/internal/types"
)

const (
	maxDescriptionLength = 80
	sampleCount          = 7
)

var timestampLine = regexp.MustCompile(`^\[(\d+:\d{2})\]\s*(.+)$`)

type timestampedLine struct {
	timestamp string
	text      string
}

// parseTimestampLines reads back "[MM:SS] text" lines. Lines that do not
// match are skipped.
func parseTimestampLines(transcript string) []timestampedLine {
	if transcript == "" {
		return nil
	}
	var parsed []timestampedLine
	for _, line := range strings.Split(transcript, "\n") {
		match := timestampLine.FindStringSubmatch(strings.TrimRight(line, "\r"))
		if match == nil {
			continue
		}
		parsed = append(parsed, timestampedLine{timestamp: match[1], text: strings.TrimSpace(match[2])})
	}
	return parsed
}

// sampleIndices spreads up to seven points over n entries, always including
// the first and last entry. Repeated indices on short inputs are dropped.
func sampleIndices(n int) []int {
	if n <= 0 {
		return nil
	}
	candidates := [sampleCount]int{0, n / 6, n / 3, n / 2, 2 * n / 3, 5 * n / 6, n - 1}
	indices := make([]int, 0, sampleCount)
	for _, idx := range candidates {
		if idx >= n {
			continue
		}
		if len(indices) > 0 && idx <= indices[len(indices)-1] {
			continue
		}
		indices = append(indices, idx)
	}
	return indices
}

// ExtractKeyTimestamps samples key moments from a rendered transcript. It
// never calls the engine and returns an empty slice when nothing parses.
func ExtractKeyTimestamps(transcript string) []types.TimestampSample {
	lines := parseTimestampLines(transcript)
	samples := make([]types.TimestampSample, 0, sampleCount)
	for _, idx := range sampleIndices(len(lines)) {
		samples = append(samples, types.TimestampSample{
			Timestamp:   lines[idx].timestamp,
			Description: truncateRunes(lines[idx].text, maxDescriptionLength),
		})
	}
	return samples
}
