package analyzer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"video-analyzer/internal/mocks"
	"video-analyzer/internal/types"
)

const (
	structuredMarker = "Return ONLY a JSON object"
	introMarker      = "describe how this video begins"
	mainMarker       = "describe the main content"
	conclusionMarker = "describe how this video concludes"
)

var goodBreakdown = types.ContentBreakdown{
	Introduction: "The video opens with a short overview of the topic and the goals of the talk.",
	MainContent:  "The speaker walks through the core ideas in detail and gives several worked examples.",
	Conclusion:   "The video closes by recapping the main lessons and suggesting next steps for viewers.",
}

func longTranscript(lines int) string {
	entries := make([]types.TranscriptEntry, lines)
	for i := range entries {
		entries[i] = types.TranscriptEntry{
			Text:     fmt.Sprintf("This is sentence number %d of the talk.", i),
			Start:    float64(i * 5),
			Duration: 5,
		}
	}
	return FormatTranscript(entries)
}

func assertCompleteBreakdown(t *testing.T, b types.ContentBreakdown) {
	t.Helper()
	for name, field := range map[string]string{
		"introduction": b.Introduction,
		"main_content": b.MainContent,
		"conclusion":   b.Conclusion,
	} {
		assert.NotEmpty(t, field, name)
		assert.True(t, endsWithTerminal(field), "%s does not end a sentence: %q", name, field)
	}
}

func TestParseStructuredBreakdown(t *testing.T) {
	raw, err := json.Marshal(goodBreakdown)
	require.NoError(t, err)

	tests := map[string]string{
		"bare":        string(raw),
		"json fence":  "```json\n" + string(raw) + "\n```",
		"plain fence": "```\n" + string(raw) + "\n```",
		"with prose":  "Sure! Here is the breakdown:\n" + string(raw) + "\nHope this helps.",
		"reordered keys": fmt.Sprintf(`{"introduction": %q, "conclusion": %q, "main_content": %q}`,
			goodBreakdown.Introduction, goodBreakdown.Conclusion, goodBreakdown.MainContent),
	}
	for name, response := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := parseStructuredBreakdown(response)
			require.NoError(t, err)
			assert.Equal(t, goodBreakdown, got)
		})
	}
}

func TestParseStructuredBreakdownErrors(t *testing.T) {
	for name, response := range map[string]string{
		"no object":   "I cannot do that.",
		"missing key": `{"introduction": "a", "main_content": "b"}`,
		"not text":    `{"introduction": 1, "main_content": "b", "conclusion": "c"}`,
		"broken json": `{"introduction": "a", "main_content": "b", "conclusion": }`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := parseStructuredBreakdown(response)
			assert.Error(t, err)
		})
	}
}

func TestCreateContentBreakdownStructured(t *testing.T) {
	raw, _ := json.Marshal(goodBreakdown)
	engine := new(mocks.MockChatCompleter)
	engine.On("ChatCompletion", mock.Anything, breakdownSystemPrompt, promptContains(structuredMarker)).
		Return("```json\n"+string(raw)+"\n```", nil).Once()

	a := New(engine, DefaultOptions())
	breakdown, tier := a.CreateContentBreakdown(context.Background(), longTranscript(200))

	assert.Equal(t, TierStructured, tier)
	assert.Equal(t, goodBreakdown, breakdown)
	engine.AssertNumberOfCalls(t, "ChatCompletion", 1)
}

func TestStructuredExcerpts(t *testing.T) {
	transcript := strings.Repeat("a", 5000) + strings.Repeat("b", 2000) + "MIDDLE" + strings.Repeat("c", 2000) + strings.Repeat("d", 3000)

	engine := new(mocks.MockChatCompleter)
	engine.On("ChatCompletion", mock.Anything, breakdownSystemPrompt, mock.MatchedBy(func(prompt string) bool {
		return strings.Contains(prompt, "MIDDLE") && strings.Contains(prompt, strings.Repeat("d", 3000))
	})).Return("not json", nil).Once()
	engine.On("ChatCompletion", mock.Anything, breakdownSystemPrompt, mock.Anything).Return("", errors.New("stop"))

	a := New(engine, DefaultOptions())
	_, tier := a.CreateContentBreakdown(context.Background(), transcript)

	assert.Equal(t, TierExtraction, tier)
	engine.AssertExpectations(t)
}

func TestCreateContentBreakdownGateFallsBackToProse(t *testing.T) {
	engine := new(mocks.MockChatCompleter)
	engine.On("ChatCompletion", mock.Anything, breakdownSystemPrompt, promptContains(structuredMarker)).
		Return(`{"introduction": "Short.", "main_content": "Short.", "conclusion": "Short."}`, nil).Once()
	engine.On("ChatCompletion", mock.Anything, breakdownSystemPrompt, promptContains(introMarker)).
		Return(goodBreakdown.Introduction+" And then it", nil).Once()
	engine.On("ChatCompletion", mock.Anything, breakdownSystemPrompt, promptContains(mainMarker)).
		Return(goodBreakdown.MainContent, nil).Once()
	engine.On("ChatCompletion", mock.Anything, breakdownSystemPrompt, promptContains(conclusionMarker)).
		Return("  "+goodBreakdown.Conclusion+"\n", nil).Once()

	a := New(engine, DefaultOptions())
	breakdown, tier := a.CreateContentBreakdown(context.Background(), longTranscript(200))

	assert.Equal(t, TierProse, tier)
	assert.Equal(t, goodBreakdown, breakdown)
	engine.AssertExpectations(t)
}

func TestStructuredBreakdownTrimsFields(t *testing.T) {
	response := fmt.Sprintf(`{"introduction": %q, "main_content": %q, "conclusion": %q}`,
		"\n  "+goodBreakdown.Introduction+"  ",
		" "+goodBreakdown.MainContent+"\n",
		"\t"+goodBreakdown.Conclusion+" ")

	engine := new(mocks.MockChatCompleter)
	engine.On("ChatCompletion", mock.Anything, breakdownSystemPrompt, mock.Anything).Return(response, nil).Once()

	a := New(engine, DefaultOptions())
	breakdown, verdict := a.structuredBreakdown(context.Background(), "[00:00] text")

	require.True(t, verdict.accepted, verdict.reason)
	assert.Equal(t, goodBreakdown, breakdown)
}

func TestStructuredGateRequiresTerminal(t *testing.T) {
	unfinished := goodBreakdown
	unfinished.Conclusion = strings.TrimSuffix(unfinished.Conclusion, ".")
	raw, _ := json.Marshal(unfinished)

	engine := new(mocks.MockChatCompleter)
	engine.On("ChatCompletion", mock.Anything, breakdownSystemPrompt, mock.Anything).Return(string(raw), nil)

	a := New(engine, DefaultOptions())
	_, verdict := a.structuredBreakdown(context.Background(), "[00:00] text")

	assert.False(t, verdict.accepted)
	assert.Contains(t, verdict.reason, "conclusion")
}

func TestCreateContentBreakdownProseErrorFallsBackToExtraction(t *testing.T) {
	engine := new(mocks.MockChatCompleter)
	engine.On("ChatCompletion", mock.Anything, breakdownSystemPrompt, promptContains(structuredMarker)).
		Return("I am unable to produce JSON.", nil).Once()
	engine.On("ChatCompletion", mock.Anything, breakdownSystemPrompt, promptContains(introMarker)).
		Return("", errors.New("timeout")).Once()

	a := New(engine, DefaultOptions())
	breakdown, tier := a.CreateContentBreakdown(context.Background(), longTranscript(100))

	assert.Equal(t, TierExtraction, tier)
	assertCompleteBreakdown(t, breakdown)
	assert.True(t, strings.HasPrefix(breakdown.Introduction, "This is sentence number 0 of the talk."))
	assert.Contains(t, breakdown.Conclusion, "number 99")
	// The remaining prose requests are not sent once one fails.
	engine.AssertNumberOfCalls(t, "ChatCompletion", 2)
}

func TestCreateContentBreakdownEngineAlwaysFails(t *testing.T) {
	engine := new(mocks.MockChatCompleter)
	engine.On("ChatCompletion", mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("offline"))

	a := New(engine, DefaultOptions())
	for _, transcript := range []string{"", "[00:00] Hello world", longTranscript(3), longTranscript(1000)} {
		breakdown, tier := a.CreateContentBreakdown(context.Background(), transcript)
		assert.Equal(t, TierExtraction, tier)
		assertCompleteBreakdown(t, breakdown)
	}
}

func TestExtractionBreakdownPlaceholders(t *testing.T) {
	breakdown, verdict := extractionBreakdown(context.Background(), "[00:00] Hello world")

	assert.True(t, verdict.accepted)
	assert.Equal(t, placeholderBreakdown(), breakdown)
}

func TestExtractionBreakdownWindows(t *testing.T) {
	breakdown, verdict := extractionBreakdown(context.Background(), longTranscript(100))

	require.True(t, verdict.accepted)
	// Intro comes from the first 30 lines, capped at 15.
	assert.Contains(t, breakdown.Introduction, "number 14 ")
	assert.NotContains(t, breakdown.Introduction, "number 15 ")
	// Middle spans lines 40-59.
	assert.True(t, strings.HasPrefix(breakdown.MainContent, "This is sentence number 40 "))
	assert.Contains(t, breakdown.MainContent, "number 59 ")
	// End starts at line 97.
	assert.True(t, strings.HasPrefix(breakdown.Conclusion, "This is sentence number 97 "))
}

func TestCompleteSentence(t *testing.T) {
	assert.Equal(t, "Done.", completeSentence("  Done.  "))
	assert.Equal(t, "First sentence here.", completeSentence("First sentence here. Second one dangling"))
	assert.Equal(t, "no terminal at all", completeSentence("no terminal at all"))
	assert.Equal(t, `She said "stop.`, completeSentence(`She said "stop." then`))
	assert.Equal(t, "Growth was 3.", completeSentence("Growth was 3.5x last year and then"))
}

func TestFinalizeExtract(t *testing.T) {
	assert.Equal(t, "", finalizeExtract(""))
	assert.Equal(t, "Ends well.", finalizeExtract("Ends well."))
	assert.Equal(t, "One sentence here. and then a fragment.", finalizeExtract("One sentence here. and then a fragment"))
	assert.Equal(t, "A much longer first sentence that goes on.", finalizeExtract("A much longer first sentence that goes on. tail"))
}

func TestSampleEvenly(t *testing.T) {
	lines := make([]string, 45)
	for i := range lines {
		lines[i] = fmt.Sprintf("line %d", i)
	}

	sampled := sampleEvenly(lines, 20)

	assert.Len(t, sampled, 20)
	assert.Equal(t, "line 0", sampled[0])
	assert.Equal(t, "line 38", sampled[19])
	assert.Equal(t, lines[:5], sampleEvenly(lines[:5], 20))
}

func TestCleanTranscriptLines(t *testing.T) {
	got := cleanTranscriptLines([]string{"[00:01] short", "[00:02]   long enough text  ", "no marker but long", ""})
	assert.Equal(t, []string{"long enough text", "no marker but long"}, got)
}
