package cli

import (
	"fmt"
	"io"
	"strings"

	"video-analyzer/internal/types"
)

var (
	heavyRule = strings.Repeat("=", 80)
	lightRule = strings.Repeat("-", 80)
)

// PrintAnalysis writes the human-readable report. The word-count target is
// the range the summary was generated for and is omitted when unknown.
func PrintAnalysis(w io.Writer, analysis *types.VideoAnalysis) {
	fmt.Fprintln(w, heavyRule)
	fmt.Fprintf(w, "VIDEO ANALYSIS: %s\n", analysis.Title)
	fmt.Fprintln(w, heavyRule)
	fmt.Fprintf(w, "\nDuration: %s\n\n", analysis.Duration)

	fmt.Fprintln(w, "SUMMARY")
	fmt.Fprintln(w, lightRule)
	fmt.Fprintln(w, analysis.Summary)
	words := len(strings.Fields(analysis.Summary))
	if target := analysis.SummaryTarget; target != "" {
		fmt.Fprintf(w, "\n[Word count: %d words, target %s]\n", words, target)
	} else {
		fmt.Fprintf(w, "\n[Word count: %d words]\n", words)
	}

	fmt.Fprintln(w, "\n\nKEY TIMESTAMPS")
	fmt.Fprintln(w, lightRule)
	if len(analysis.KeyTimestamps) == 0 {
		fmt.Fprintln(w, "  No timestamps extracted")
	}
	for _, ts := range analysis.KeyTimestamps {
		fmt.Fprintf(w, "  [%s] %s\n", ts.Timestamp, ts.Description)
	}

	fmt.Fprintln(w, "\n\nMAIN THEMES")
	fmt.Fprintln(w, lightRule)
	if len(analysis.Themes) == 0 {
		fmt.Fprintln(w, "  No themes identified")
	}
	for i, theme := range analysis.Themes {
		fmt.Fprintf(w, "  %d. %s\n", i+1, theme)
	}

	fmt.Fprintln(w, "\n\nCONTENT BREAKDOWN")
	fmt.Fprintln(w, lightRule)
	sections := []struct{ name, text string }{
		{"INTRODUCTION", analysis.ContentBreakdown.Introduction},
		{"MAIN CONTENT", analysis.ContentBreakdown.MainContent},
		{"CONCLUSION", analysis.ContentBreakdown.Conclusion},
	}
	for _, s := range sections {
		fmt.Fprintf(w, "\n%s:\n  %s\n", s.name, s.text)
	}
	fmt.Fprintln(w, "\n"+heavyRule)
}
