package analyzer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"video-analyzer/internal/mocks"
)

func TestCleanThemes(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     []string
	}{
		{
			name:     "colon groups split on commas",
			response: "Theme One: AI, Theme Two: Ethics, Theme Three: Policy",
			want:     []string{"Theme One: AI", "Theme Two: Ethics", "Theme Three: Policy"},
		},
		{
			name:     "numbered lines with intro",
			response: "Here are the main themes:\n1. Artificial Intelligence\n2. Data Privacy\n3. AI",
			want:     []string{"Artificial Intelligence", "Data Privacy"},
		},
		{
			name:     "bullets",
			response: "- Climate Change\n* Renewable Energy\n- Carbon Markets",
			want:     []string{"Climate Change", "Renewable Energy", "Carbon Markets"},
		},
		{
			name:     "quotes stripped",
			response: `"Machine Learning", 'Robotics'`,
			want:     []string{"Machine Learning", "Robotics"},
		},
		{
			name:     "here prefix dropped",
			response: "Here is one, Climate Policy",
			want:     []string{"Climate Policy"},
		},
		{
			name:     "capped at five",
			response: "Alpha One, Beta Two, Gamma Three, Delta Four, Epsilon Five, Zeta Six",
			want:     []string{"Alpha One", "Beta Two", "Gamma Three", "Delta Four", "Epsilon Five"},
		},
		{
			name:     "themes label",
			response: "Themes: Space Travel, Mars Colonies",
			want:     []string{"Space Travel", "Mars Colonies"},
		},
		{
			name:     "nothing usable",
			response: "AI, ML, VR",
			want:     []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cleanThemes(tt.response)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, len(got), maxThemes)
			for _, theme := range got {
				assert.Greater(t, runeLen(theme), 3)
			}
		})
	}
}

func TestIdentifyThemes(t *testing.T) {
	engine := new(mocks.MockChatCompleter)
	engine.On("ChatCompletion", mock.Anything, themesSystemPrompt, promptContains("Identify 3-5 main themes")).
		Return("Theme One: AI, Theme Two: Ethics, Theme Three: Policy", nil).Once()

	a := New(engine, DefaultOptions())
	themes, err := a.IdentifyThemes(context.Background(), "[00:00] transcript")

	require.NoError(t, err)
	assert.Equal(t, []string{"Theme One: AI", "Theme Two: Ethics", "Theme Three: Policy"}, themes)
	engine.AssertExpectations(t)
}

func TestIdentifyThemesPropagatesEngineError(t *testing.T) {
	cause := errors.New("quota exceeded")
	engine := new(mocks.MockChatCompleter)
	engine.On("ChatCompletion", mock.Anything, mock.Anything, mock.Anything).Return("", cause)

	a := New(engine, DefaultOptions())
	themes, err := a.IdentifyThemes(context.Background(), "[00:00] transcript")

	assert.Nil(t, themes)
	assert.ErrorIs(t, err, cause)
}
