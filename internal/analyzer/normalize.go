package analyzer

import (
	"fmt"
	"strings"

	"video-analyzer/internal/types"
)

// FormatTimestamp renders an offset in seconds as zero-padded MM:SS.
// Minutes are not wrapped into hours.
func FormatTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// FormatTranscript renders entries as "[MM:SS] text" lines in input order.
func FormatTranscript(entries []types.TranscriptEntry) string {
	if len(entries) == 0 {
		return ""
	}
	var builder strings.Builder
	for i, entry := range entries {
		if i > 0 {
			builder.WriteByte('\n')
		}
		builder.WriteByte('[')
		builder.WriteString(FormatTimestamp(entry.Start))
		builder.WriteString("] ")
		builder.WriteString(entry.Text)
	}
	return builder.String()
}

// TranscriptDuration is the end of the last entry in minutes. Entries are
// assumed to be chronological and are not sorted.
func TranscriptDuration(entries []types.TranscriptEntry) float64 {
	if len(entries) == 0 {
		return 0
	}
	last := entries[len(entries)-1]
	return (last.Start + last.Duration) / 60
}

// NormalizeTranscript returns the rendered text together with its duration.
func NormalizeTranscript(entries []types.TranscriptEntry) (string, float64) {
	return FormatTranscript(entries), TranscriptDuration(entries)
}
