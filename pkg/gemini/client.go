package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"video-analyzer/log"
)

var ErrEmptyResponse = errors.New("empty response from Gemini")

type Client struct {
	client      *genai.Client
	model       string
	temperature float32
	maxTokens   int
}

func NewClient(ctx context.Context, apiKey, model string, temperature float32, maxTokens int, timeout time.Duration) (*Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: timeout},
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Client{
		client:      client,
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
	}, nil
}

func (c *Client) ChatCompletion(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(c.temperature),
	}
	if c.maxTokens > 0 {
		cfg.MaxOutputTokens = int32(c.maxTokens)
	}
	if systemPrompt != "" {
		cfg.SystemInstruction = genai.NewContentFromText(systemPrompt, genai.RoleUser)
	}

	result, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(userPrompt), cfg)
	if err != nil {
		log.GetLogger().Error("gemini generate content failed", zap.String("model", c.model), zap.Error(err))
		return "", fmt.Errorf("generate content: %w", err)
	}

	text := responseText(result)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

func responseText(result *genai.GenerateContentResponse) string {
	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return ""
	}
	var builder strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" {
			builder.WriteString(part.Text)
		}
	}
	return strings.TrimSpace(builder.String())
}
