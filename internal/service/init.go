package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"video-analyzer/config"
	"video-analyzer/internal/analyzer"
	"video-analyzer/internal/metrics"
	"video-analyzer/internal/storage"
	"video-analyzer/internal/types"
	"video-analyzer/log"
	"video-analyzer/pkg/gemini"
	"video-analyzer/pkg/ollama"
	"video-analyzer/pkg/openai"
	"video-analyzer/pkg/ytdlp"
)

type Service struct {
	Engine   types.ChatCompleter
	Captions types.CaptionFetcher
	Metadata types.MetadataFetcher
	Analyzer *analyzer.Analyzer

	transcriber      func() (types.Transcriber, error)
	cache            *storage.TranscriptStore
	metrics          *metrics.PipelineMetrics
	failOnStageError bool
}

// Deps are the collaborators of a Service. Transcriber is resolved on first
// use; a nil Transcriber disables the speech-to-text fallback.
type Deps struct {
	Engine           types.ChatCompleter
	Captions         types.CaptionFetcher
	Metadata         types.MetadataFetcher
	Transcriber      func() (types.Transcriber, error)
	Cache            *storage.TranscriptStore
	Metrics          *metrics.PipelineMetrics
	AnalyzerOptions  analyzer.Options
	FailOnStageError bool
}

func New(deps Deps) *Service {
	return &Service{
		Engine:           deps.Engine,
		Captions:         deps.Captions,
		Metadata:         deps.Metadata,
		Analyzer:         analyzer.New(deps.Engine, deps.AnalyzerOptions, analyzer.WithMetrics(deps.Metrics)),
		transcriber:      deps.Transcriber,
		cache:            deps.Cache,
		metrics:          deps.Metrics,
		failOnStageError: deps.FailOnStageError,
	}
}

// NewService builds a Service from config.Conf.
func NewService() (*Service, error) {
	engine, err := newEngine(context.Background())
	if err != nil {
		return nil, err
	}
	log.GetLogger().Info("generative engine selected",
		zap.String("provider", config.Conf.Llm.Provider),
		zap.String("model", config.Conf.Llm.Model))

	yt := ytdlp.New(ytdlp.Options{
		BinPath:     storage.YtdlpPath,
		FfmpegPath:  storage.FfmpegPath,
		Proxy:       config.Conf.App.Proxy,
		CookiesPath: config.Conf.App.CookiesPath,
		Languages:   config.Conf.Transcribe.CaptionLanguages,
	})

	var transcriber func() (types.Transcriber, error)
	if config.Conf.App.EnableWhisper {
		transcriber = sync.OnceValues(func() (types.Transcriber, error) {
			return newTranscriber(yt)
		})
	} else {
		log.GetLogger().Info("speech-to-text fallback disabled")
	}

	var cache *storage.TranscriptStore
	if storage.DB != nil {
		cache = storage.NewTranscriptStore(storage.DB)
	}

	m := metrics.Default()
	return New(Deps{
		Engine:           &meteredEngine{next: engine, provider: config.Conf.Llm.Provider, metrics: m},
		Captions:         yt,
		Metadata:         yt,
		Transcriber:      transcriber,
		Cache:            cache,
		Metrics:          m,
		AnalyzerOptions:  AnalyzerOptionsFromConfig(config.Conf),
		FailOnStageError: config.Conf.Analysis.FailOnStageError,
	}), nil
}

// AnalyzerOptionsFromConfig converts the [analysis] config section.
func AnalyzerOptionsFromConfig(conf config.Config) analyzer.Options {
	rules := make([]analyzer.WordCountRule, 0, len(conf.Analysis.WordCountRules))
	for _, r := range conf.Analysis.WordCountRules {
		rules = append(rules, analyzer.WordCountRule{MaxMinutes: r.MaxMinutes, WordCount: r.WordCount})
	}
	return analyzer.Options{
		MaxTranscriptLength: conf.App.MaxTranscriptLength,
		DefaultWordCount:    conf.Analysis.SummaryWordCount,
		DynamicWordCount:    conf.Analysis.EnableDynamicWordCount,
		WordCountRules:      rules,
		NumThemes:           conf.Analysis.NumThemes,
		TrimThreshold:       conf.Analysis.TrimThreshold,
		MinRetention:        conf.Analysis.MinRetention,
		ParallelStages:      conf.Analysis.ParallelStages,
	}
}

func newEngine(ctx context.Context) (types.ChatCompleter, error) {
	llm := config.Conf.Llm
	timeout := time.Duration(llm.TimeoutSeconds) * time.Second

	switch llm.Provider {
	case config.ProviderOllama:
		return ollama.NewClient(llm.OllamaUrl, llm.Model, llm.Temperature, llm.MaxTokens, timeout), nil
	case config.ProviderGroq, config.ProviderOpenai:
		return openai.NewClient(openai.Options{
			BaseUrl:     llm.BaseUrl,
			ApiKey:      llm.ApiKey,
			ProxyAddr:   config.Conf.App.Proxy,
			Model:       llm.Model,
			Temperature: llm.Temperature,
			MaxTokens:   llm.MaxTokens,
			Timeout:     timeout,
		}), nil
	case config.ProviderGemini:
		client, err := gemini.NewClient(ctx, llm.ApiKey, llm.Model, llm.Temperature, llm.MaxTokens, timeout)
		if err != nil {
			return nil, fmt.Errorf("create gemini client: %w", err)
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", llm.Provider)
	}
}

// meteredEngine counts engine requests per provider and outcome.
type meteredEngine struct {
	next     types.ChatCompleter
	provider string
	metrics  *metrics.PipelineMetrics
}

func (e *meteredEngine) ChatCompletion(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	out, err := e.next.ChatCompletion(ctx, systemPrompt, userPrompt)
	e.metrics.ObserveEngineRequest(e.provider, err)
	return out, err
}
