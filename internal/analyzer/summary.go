package analyzer

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"video-analyzer/log"
)

// expansionRatio is the fraction of the minimum below which a summary is
// considered significantly short.
const expansionRatio = 0.75

// GenerateSummary asks the engine for a summary within wordCount ("min-max")
// and corrects it once in each direction: one expansion when it is far too
// short, one deterministic trim when it is far too long. Only the initial
// request can fail.
func (a *Analyzer) GenerateSummary(ctx context.Context, transcript, wordCount string) (string, error) {
	target := ParseWordRange(wordCount)
	excerpt := truncateRunes(transcript, a.opts.MaxTranscriptLength)

	summary, err := a.engine.ChatCompletion(ctx, summarySystemPrompt,
		fmt.Sprintf(summaryPrompt, target.Min, target.Max, excerpt))
	if err != nil {
		return "", fmt.Errorf("generate summary: %w", err)
	}
	summary = strings.TrimSpace(summary)
	words := countWords(summary)
	log.GetLogger().Debug("summary generated",
		zap.Int("word_count", words), zap.String("target", target.String()))

	if float64(words) < float64(target.Min)*expansionRatio {
		a.metrics.ObserveSummaryCorrection("expand")
		expanded, expandErr := a.engine.ChatCompletion(ctx, summarySystemPrompt,
			fmt.Sprintf(expandSummaryPrompt, words, target.Min, target.Max, summary, excerpt))
		expanded = strings.TrimSpace(expanded)
		switch {
		case expandErr != nil:
			log.GetLogger().Warn("summary expansion failed, keeping original", zap.Error(expandErr))
		case expanded == "":
			log.GetLogger().Warn("summary expansion returned empty text, keeping original")
		default:
			summary = expanded
			words = countWords(summary)
			log.GetLogger().Debug("summary expanded", zap.Int("word_count", words))
		}
	}

	if float64(words) > float64(target.Max)*a.opts.TrimThreshold {
		a.metrics.ObserveSummaryCorrection("trim")
		summary = trimToWordLimit(summary, target.Max, a.opts.MinRetention)
		log.GetLogger().Debug("summary trimmed", zap.Int("word_count", countWords(summary)))
	}

	return summary, nil
}

// trimToWordLimit keeps the first limit words, then backs off to the last
// sentence end if that still keeps limit*minRetention words. Otherwise the
// cut is marked with an ellipsis.
func trimToWordLimit(text string, limit int, minRetention float64) string {
	words := strings.Fields(text)
	if len(words) <= limit {
		return text
	}
	trimmed := strings.Join(words[:limit], " ")

	if end := lastSentenceEnd(trimmed); end >= 0 {
		kept := trimmed[:end+1]
		if float64(countWords(kept)) >= float64(limit)*minRetention {
			return kept
		}
	}
	return trimmed + "..."
}
