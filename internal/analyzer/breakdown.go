package analyzer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"video-analyzer/internal/types"
	"video-analyzer/log"
)

// Tier names one strategy in the breakdown cascade.
type Tier string

const (
	TierStructured Tier = "structured"
	TierProse      Tier = "prose"
	TierExtraction Tier = "extraction"
)

const (
	placeholderIntroduction = "The video begins by introducing the main topic and setting the context for the discussion."
	placeholderMainContent  = "The video covers the main points and key concepts through detailed discussion and examples."
	placeholderConclusion   = "The video concludes by summarizing the key takeaways and final thoughts on the topic."
)

// Minimum field lengths, in characters, per tier.
const (
	structuredMinField = 50

	proseMinIntro      = 30
	proseMinMain       = 50
	proseMinConclusion = 30

	extractionMinIntro      = 50
	extractionMinMain       = 80
	extractionMinConclusion = 50
)

var (
	fenceJSONPrefix = regexp.MustCompile("^```json\\s*")
	fencePrefix     = regexp.MustCompile("^```\\s*")
	fenceSuffix     = regexp.MustCompile("```\\s*$")

	strictBreakdownObject = regexp.MustCompile(`\{[^{}]*"introduction"[^{}]*"main_content"[^{}]*"conclusion"[^{}]*\}`)
	looseBreakdownObject  = regexp.MustCompile(`(?s)\{.*?"introduction".*?\}`)
)

type tierVerdict struct {
	accepted bool
	reason   string
}

func accept() tierVerdict { return tierVerdict{accepted: true} }

func reject(format string, args ...any) tierVerdict {
	return tierVerdict{reason: fmt.Sprintf(format, args...)}
}

type breakdownStrategy struct {
	tier    Tier
	attempt func(ctx context.Context, transcript string) (types.ContentBreakdown, tierVerdict)
}

// breakdownStrategies lists the cascade from most to least engine-dependent.
// The last strategy never rejects.
func (a *Analyzer) breakdownStrategies() []breakdownStrategy {
	return []breakdownStrategy{
		{tier: TierStructured, attempt: a.structuredBreakdown},
		{tier: TierProse, attempt: a.proseBreakdown},
		{tier: TierExtraction, attempt: extractionBreakdown},
	}
}

// CreateContentBreakdown runs the cascade and reports which tier produced
// the result. It never fails.
func (a *Analyzer) CreateContentBreakdown(ctx context.Context, transcript string) (types.ContentBreakdown, Tier) {
	for _, strategy := range a.breakdownStrategies() {
		breakdown, verdict := strategy.attempt(ctx, transcript)
		a.metrics.ObserveBreakdownTier(string(strategy.tier), verdict.accepted)
		if verdict.accepted {
			log.GetLogger().Info("content breakdown ready", zap.String("tier", string(strategy.tier)))
			return breakdown, strategy.tier
		}
		log.GetLogger().Warn("breakdown tier rejected",
			zap.String("tier", string(strategy.tier)), zap.String("reason", verdict.reason))
	}
	return placeholderBreakdown(), TierExtraction
}

func (a *Analyzer) structuredBreakdown(ctx context.Context, transcript string) (types.ContentBreakdown, tierVerdict) {
	runes := []rune(transcript)
	n := len(runes)
	opening := runeWindow(runes, 0, 5000)
	middle := runeWindow(runes, n/2-1500, n/2+1500)
	closing := runeWindow(runes, n-3000, n)

	response, err := a.engine.ChatCompletion(ctx, breakdownSystemPrompt,
		fmt.Sprintf(structuredBreakdownPrompt, opening, middle, closing))
	if err != nil {
		return types.ContentBreakdown{}, reject("engine error: %v", err)
	}

	breakdown, err := parseStructuredBreakdown(response)
	if err != nil {
		return types.ContentBreakdown{}, reject("unparseable response: %v", err)
	}

	breakdown.Introduction = strings.TrimSpace(breakdown.Introduction)
	breakdown.MainContent = strings.TrimSpace(breakdown.MainContent)
	breakdown.Conclusion = strings.TrimSpace(breakdown.Conclusion)

	fields := []struct{ name, value string }{
		{"introduction", breakdown.Introduction},
		{"main_content", breakdown.MainContent},
		{"conclusion", breakdown.Conclusion},
	}
	for _, f := range fields {
		if runeLen(f.value) <= structuredMinField {
			return types.ContentBreakdown{}, reject("%s too short (%d chars)", f.name, runeLen(f.value))
		}
		if !endsWithTerminal(f.value) {
			return types.ContentBreakdown{}, reject("%s does not end a sentence", f.name)
		}
	}
	return breakdown, accept()
}

var errNoBreakdownObject = errors.New("no breakdown object found")

// parseStructuredBreakdown pulls the {introduction, main_content, conclusion}
// object out of an engine response that may be fenced or wrapped in prose.
func parseStructuredBreakdown(response string) (types.ContentBreakdown, error) {
	cleaned := strings.TrimSpace(response)
	cleaned = fenceJSONPrefix.ReplaceAllString(cleaned, "")
	cleaned = fencePrefix.ReplaceAllString(cleaned, "")
	cleaned = fenceSuffix.ReplaceAllString(cleaned, "")
	cleaned = strings.TrimSpace(cleaned)

	span := strictBreakdownObject.FindString(cleaned)
	if span == "" {
		span = looseBreakdownObject.FindString(cleaned)
	}
	if span == "" {
		if !strings.HasPrefix(cleaned, "{") {
			return types.ContentBreakdown{}, errNoBreakdownObject
		}
		span = cleaned
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(span), &raw); err != nil {
		return types.ContentBreakdown{}, fmt.Errorf("decode breakdown: %w", err)
	}

	field := func(key string) (string, error) {
		value, ok := raw[key]
		if !ok {
			return "", fmt.Errorf("missing key %q", key)
		}
		text, ok := value.(string)
		if !ok {
			return "", fmt.Errorf("key %q is not text", key)
		}
		return text, nil
	}

	var breakdown types.ContentBreakdown
	var err error
	if breakdown.Introduction, err = field("introduction"); err != nil {
		return types.ContentBreakdown{}, err
	}
	if breakdown.MainContent, err = field("main_content"); err != nil {
		return types.ContentBreakdown{}, err
	}
	if breakdown.Conclusion, err = field("conclusion"); err != nil {
		return types.ContentBreakdown{}, err
	}
	return breakdown, nil
}

// proseBreakdown spends three plain-prose requests on separate slices of the
// transcript. Any failure rejects the whole tier.
func (a *Analyzer) proseBreakdown(ctx context.Context, transcript string) (types.ContentBreakdown, tierVerdict) {
	runes := []rune(transcript)
	n := len(runes)
	opening := runeWindow(runes, 0, 3000)
	middle := truncateRunes(runeWindow(runes, n/3, 2*n/3), 4000)
	closing := runeWindow(runes, n-3000, n)

	requests := []struct {
		name   string
		prompt string
		minLen int
	}{
		{name: "introduction", prompt: fmt.Sprintf(introProsePrompt, opening), minLen: proseMinIntro},
		{name: "main_content", prompt: fmt.Sprintf(mainProsePrompt, middle), minLen: proseMinMain},
		{name: "conclusion", prompt: fmt.Sprintf(conclusionProsePrompt, closing), minLen: proseMinConclusion},
	}

	results := make([]string, len(requests))
	for i, req := range requests {
		response, err := a.engine.ChatCompletion(ctx, breakdownSystemPrompt, req.prompt)
		if err != nil {
			return types.ContentBreakdown{}, reject("%s request failed: %v", req.name, err)
		}
		results[i] = completeSentence(response)
	}

	for i, req := range requests {
		if runeLen(results[i]) <= req.minLen {
			return types.ContentBreakdown{}, reject("%s too short (%d chars)", req.name, runeLen(results[i]))
		}
	}

	return types.ContentBreakdown{
		Introduction: results[0],
		MainContent:  results[1],
		Conclusion:   results[2],
	}, accept()
}

// completeSentence drops a trailing sentence fragment when an earlier
// sentence end exists.
func completeSentence(text string) string {
	text = strings.TrimSpace(text)
	if endsWithTerminal(text) {
		return text
	}
	if end := lastSentenceEnd(text); end > 0 {
		return text[:end+1]
	}
	return text
}

// extractionBreakdown builds the breakdown from transcript lines alone.
func extractionBreakdown(_ context.Context, transcript string) (types.ContentBreakdown, tierVerdict) {
	lines := strings.Split(transcript, "\n")
	total := len(lines)

	introWindow := lines[:min(total, max(30, int(float64(total)*0.03)))]
	introLines := firstLines(cleanTranscriptLines(introWindow), 15)

	middleStart := int(float64(total) * 0.4)
	middleEnd := int(float64(total) * 0.6)
	middleLines := sampleEvenly(cleanTranscriptLines(lines[middleStart:middleEnd]), 20)

	endStart := int(float64(total) * 0.97)
	endLines := firstLines(cleanTranscriptLines(lines[endStart:]), 15)

	breakdown := types.ContentBreakdown{
		Introduction: orPlaceholder(finalizeExtract(strings.Join(introLines, " ")), extractionMinIntro, placeholderIntroduction),
		MainContent:  orPlaceholder(finalizeExtract(strings.Join(middleLines, " ")), extractionMinMain, placeholderMainContent),
		Conclusion:   orPlaceholder(finalizeExtract(strings.Join(endLines, " ")), extractionMinConclusion, placeholderConclusion),
	}
	return breakdown, accept()
}

// cleanTranscriptLines strips the "[MM:SS]" marker and keeps lines with more
// than ten characters of text.
func cleanTranscriptLines(lines []string) []string {
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		text := line
		if idx := strings.Index(line, "]"); idx >= 0 {
			text = line[idx+1:]
		}
		text = strings.TrimSpace(text)
		if runeLen(text) > 10 {
			cleaned = append(cleaned, text)
		}
	}
	return cleaned
}

func firstLines(lines []string, n int) []string {
	if len(lines) > n {
		return lines[:n]
	}
	return lines
}

// sampleEvenly picks up to n lines spread across the input.
func sampleEvenly(lines []string, n int) []string {
	if len(lines) <= n {
		return lines
	}
	step := len(lines) / n
	sampled := make([]string, 0, n)
	for i := 0; i < len(lines) && len(sampled) < n; i += step {
		sampled = append(sampled, lines[i])
	}
	return sampled
}

// finalizeExtract makes joined caption text end on a sentence: cut back to
// the last sentence end when that keeps at least 60% of the text, otherwise
// add a period.
func finalizeExtract(text string) string {
	if text == "" || endsWithTerminal(text) {
		return text
	}
	if end := lastSentenceEnd(text); end >= 0 && float64(end+1) >= float64(len(text))*0.6 {
		return text[:end+1]
	}
	return text + "."
}

func orPlaceholder(text string, minLen int, placeholder string) string {
	if runeLen(text) <= minLen {
		return placeholder
	}
	return text
}

func placeholderBreakdown() types.ContentBreakdown {
	return types.ContentBreakdown{
		Introduction: placeholderIntroduction,
		MainContent:  placeholderMainContent,
		Conclusion:   placeholderConclusion,
	}
}
