package analyzer

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"video-analyzer/log"
)

const maxThemes = 5

// Boilerplate the engine tends to put in front of the list.
var themeIntroPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?im)^Here are the.*?:\s*\n*`),
	regexp.MustCompile(`(?im)^The themes? (?:are|include):\s*\n*`),
	regexp.MustCompile(`(?im)^Themes?:\s*\n*`),
	regexp.MustCompile(`(?im)^Main topics?:\s*\n*`),
	regexp.MustCompile(`(?im)^\d+\.\s*`),
	regexp.MustCompile(`(?im)^-\s*`),
	regexp.MustCompile(`(?im)^\*\s*`),
}

var (
	themeNumbering = regexp.MustCompile(`^\d+[\.\)]\s*`)
	themeBullet    = regexp.MustCompile(`^[-\*]\s*`)
)

// IdentifyThemes asks the engine for a short theme list and cleans it. Engine
// errors are returned as is; there is no fallback list.
func (a *Analyzer) IdentifyThemes(ctx context.Context, transcript string) ([]string, error) {
	excerpt := truncateRunes(transcript, a.opts.MaxTranscriptLength)
	response, err := a.engine.ChatCompletion(ctx, themesSystemPrompt,
		fmt.Sprintf(themesPrompt, a.opts.NumThemes, excerpt))
	if err != nil {
		return nil, fmt.Errorf("identify themes: %w", err)
	}

	themes := cleanThemes(response)
	log.GetLogger().Debug("themes extracted", zap.Strings("themes", themes))
	return themes, nil
}

// cleanThemes turns a loosely formatted engine answer into at most five
// labels longer than three characters.
func cleanThemes(response string) []string {
	cleaned := strings.TrimSpace(response)
	for _, pattern := range themeIntroPatterns {
		cleaned = pattern.ReplaceAllString(cleaned, "")
	}

	separator := "\n"
	if strings.Contains(cleaned, ",") {
		separator = ","
	}

	themes := lo.FilterMap(strings.Split(cleaned, separator), func(candidate string, _ int) (string, bool) {
		theme := strings.TrimSpace(candidate)
		theme = themeNumbering.ReplaceAllString(theme, "")
		theme = themeBullet.ReplaceAllString(theme, "")
		theme = strings.TrimSpace(strings.Trim(strings.TrimSpace(theme), `"'`))
		if runeLen(theme) <= 3 || strings.HasPrefix(strings.ToLower(theme), "here") {
			return "", false
		}
		return theme, true
	})

	if len(themes) > maxThemes {
		themes = themes[:maxThemes]
	}
	return themes
}
