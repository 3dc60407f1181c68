package analyzer

import (
	"strings"
	"unicode/utf8"
)

const sentenceTerminals = ".!?"

func countWords(text string) int {
	return len(strings.Fields(text))
}

func runeLen(text string) int {
	return utf8.RuneCountInString(text)
}

// truncateRunes caps text at limit characters without splitting a rune.
func truncateRunes(text string, limit int) string {
	if limit <= 0 {
		return ""
	}
	count := 0
	for i := range text {
		if count == limit {
			return text[:i]
		}
		count++
	}
	return text
}

// runeWindow returns the characters in [start, end), clamped to the text.
func runeWindow(runes []rune, start, end int) string {
	start = max(0, min(start, len(runes)))
	end = max(start, min(end, len(runes)))
	return string(runes[start:end])
}

func endsWithTerminal(text string) bool {
	if text == "" {
		return false
	}
	return strings.ContainsRune(sentenceTerminals, rune(text[len(text)-1]))
}

// lastSentenceEnd returns the byte index of the last '.', '!' or '?' in
// text, or -1. Any terminal counts, including one inside "3.5" or before a
// closing quote.
func lastSentenceEnd(text string) int {
	return strings.LastIndexAny(text, sentenceTerminals)
}
