package ollama

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"video-analyzer/log"
)

// Client calls a local Ollama server's /api/generate endpoint.
type Client struct {
	http        *resty.Client
	url         string
	model       string
	temperature float32
	maxTokens   int
}

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	Temperature float32 `json:"temperature"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type generateResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
	Error    string `json:"error"`
}

func NewClient(url, model string, temperature float32, maxTokens int, timeout time.Duration) *Client {
	return &Client{
		http:        resty.New().SetTimeout(timeout),
		url:         url,
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
	}
}

// ChatCompletion folds the system prompt into the prompt body since
// /api/generate takes a single prompt.
func (c *Client) ChatCompletion(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	prompt := userPrompt
	if systemPrompt != "" {
		prompt = systemPrompt + "\n\n" + userPrompt
	}

	var result generateResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(generateRequest{
			Model:  c.model,
			Prompt: prompt,
			Stream: false,
			Options: generateOptions{
				Temperature: c.temperature,
				NumPredict:  c.maxTokens,
			},
		}).
		SetResult(&result).
		Post(c.url)
	if err != nil {
		log.GetLogger().Error("ollama request failed", zap.String("url", c.url), zap.Error(err))
		return "", fmt.Errorf("ollama request: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("ollama returned status %d: %s", resp.StatusCode(), strings.TrimSpace(resp.String()))
	}
	if result.Error != "" {
		return "", fmt.Errorf("ollama error: %s", result.Error)
	}

	return strings.TrimSpace(result.Response), nil
}
