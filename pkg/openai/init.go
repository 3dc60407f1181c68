package openai

import (
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"

	"video-analyzer/config"
)

// Client talks to any OpenAI-compatible endpoint (OpenAI, Groq).
type Client struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
}

type Options struct {
	BaseUrl     string
	ApiKey      string
	ProxyAddr   string
	Model       string
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration
}

func NewClient(opts Options) *Client {
	cfg := openai.DefaultConfig(opts.ApiKey)
	if opts.BaseUrl != "" {
		cfg.BaseURL = opts.BaseUrl
	}

	transport := &http.Transport{}
	if opts.ProxyAddr != "" {
		transport.Proxy = http.ProxyURL(config.Conf.App.ParsedProxy)
	}

	cfg.HTTPClient = &http.Client{
		Transport: transport,
		Timeout:   opts.Timeout,
	}

	return &Client{
		client:      openai.NewClientWithConfig(cfg),
		model:       opts.Model,
		temperature: opts.Temperature,
		maxTokens:   opts.MaxTokens,
	}
}
