package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatCompletion(t *testing.T) {
	var got generateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"model":"llama3.1:8b","response":" Themes here \n","done":true}`))
	}))
	defer server.Close()

	client := NewClient(server.URL+"/api/generate", "llama3.1:8b", 0.7, 2000, 5*time.Second)
	text, err := client.ChatCompletion(context.Background(), "You are helpful.", "List themes.")

	require.NoError(t, err)
	assert.Equal(t, "Themes here", text)
	assert.Equal(t, "llama3.1:8b", got.Model)
	assert.False(t, got.Stream)
	assert.Equal(t, "You are helpful.\n\nList themes.", got.Prompt)
	assert.Equal(t, 2000, got.Options.NumPredict)
}

func TestChatCompletionStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL, "missing", 0.7, 0, 5*time.Second)
	_, err := client.ChatCompletion(context.Background(), "", "hi")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestChatCompletionBodyError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"error":"out of memory"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "m", 0.7, 0, 5*time.Second)
	_, err := client.ChatCompletion(context.Background(), "", "hi")

	assert.ErrorContains(t, err, "out of memory")
}
