package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"video-analyzer/internal/types"
)

func TestChatCompletion(t *testing.T) {
	var got openai.ChatCompletionRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: "  a summary \n"}},
			},
		})
	}))
	defer server.Close()

	client := NewClient(Options{
		BaseUrl:     server.URL,
		ApiKey:      "test-key",
		Model:       "llama-3.1-70b",
		Temperature: 0.7,
		MaxTokens:   2000,
		Timeout:     5 * time.Second,
	})

	text, err := client.ChatCompletion(context.Background(), "system", "user")

	require.NoError(t, err)
	assert.Equal(t, "a summary", text)
	assert.Equal(t, "llama-3.1-70b", got.Model)
	assert.Equal(t, 2000, got.MaxTokens)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, got.Messages[0].Role)
	assert.Equal(t, "user", got.Messages[1].Content)
}

func TestChatCompletionServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"rate limited"}}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(Options{BaseUrl: server.URL, ApiKey: "k", Model: "m"})
	_, err := client.ChatCompletion(context.Background(), "s", "u")

	assert.Error(t, err)
}

func TestSegmentsToEntriesTextOnly(t *testing.T) {
	entries := segmentsToEntries(openai.AudioResponse{Text: " hello there ", Duration: 3.5})
	assert.Equal(t, []types.TranscriptEntry{{Text: "hello there", Start: 0, Duration: 3.5}}, entries)

	assert.Nil(t, segmentsToEntries(openai.AudioResponse{}))
}
