package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"

	"video-analyzer/internal/appdirs"
	"video-analyzer/log"
)

type App struct {
	Proxy               string   `toml:"proxy"`
	MaxTranscriptLength int      `toml:"max_transcript_length"`
	EnableWhisper       bool     `toml:"enable_whisper"`
	CookiesPath         string   `toml:"cookies_path"`
	Debug               bool     `toml:"debug"`
	ParsedProxy         *url.URL `toml:"-"`
}

type Llm struct {
	Provider       string  `toml:"provider"`
	BaseUrl        string  `toml:"base_url"`
	ApiKey         string  `toml:"api_key"`
	Model          string  `toml:"model"`
	OllamaUrl      string  `toml:"ollama_url"`
	Temperature    float32 `toml:"temperature"`
	MaxTokens      int     `toml:"max_tokens"`
	TimeoutSeconds int     `toml:"timeout_seconds"`
}

// WordCountRule maps an upper bound in minutes to a "min-max" word range.
type WordCountRule struct {
	MaxMinutes float64 `toml:"max_minutes"`
	WordCount  string  `toml:"word_count"`
}

type Analysis struct {
	SummaryWordCount       string          `toml:"summary_word_count"`
	NumThemes              string          `toml:"num_themes"`
	EnableDynamicWordCount bool            `toml:"enable_dynamic_word_count"`
	WordCountRules         []WordCountRule `toml:"word_count_rules"`
	TrimThreshold          float64         `toml:"trim_threshold"`
	MinRetention           float64         `toml:"min_retention"`
	ParallelStages         bool            `toml:"parallel_stages"`
	FailOnStageError       bool            `toml:"fail_on_stage_error"`
}

type Whispercpp struct {
	BinPath string `toml:"bin_path"`
	Model   string `toml:"model"`
}

type OpenaiWhisper struct {
	BaseUrl string `toml:"base_url"`
	ApiKey  string `toml:"api_key"`
	Model   string `toml:"model"`
}

type Transcribe struct {
	Provider         string        `toml:"provider"`
	CaptionLanguages []string      `toml:"caption_languages"`
	Whispercpp       Whispercpp    `toml:"whispercpp"`
	Openai           OpenaiWhisper `toml:"openai"`
}

type Export struct {
	SaveJson        bool   `toml:"save_json"`
	FilenamePattern string `toml:"filename_pattern"`
	Format          string `toml:"format"`
	Dir             string `toml:"dir"`
}

type Server struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

type Queue struct {
	Enabled       bool   `toml:"enabled"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	Concurrency   int    `toml:"concurrency"`
}

type Config struct {
	App        App        `toml:"app"`
	Llm        Llm        `toml:"llm"`
	Analysis   Analysis   `toml:"analysis"`
	Transcribe Transcribe `toml:"transcribe"`
	Export     Export     `toml:"export"`
	Server     Server     `toml:"server"`
	Queue      Queue      `toml:"queue"`
}

var Conf = defaultConfig()

var resolveConfigPath = ResolveConfigPath

var getenv = os.Getenv

const (
	ProviderOllama = "ollama"
	ProviderGroq   = "groq"
	ProviderOpenai = "openai"
	ProviderGemini = "gemini"

	groqBaseUrl = "https://api.groq.com/openai/v1"
)

func defaultConfig() Config {
	return Config{
		App: App{
			MaxTranscriptLength: 15000,
			EnableWhisper:       true,
		},
		Llm: Llm{
			Provider:       ProviderOllama,
			Model:          "llama3.1:8b",
			OllamaUrl:      "http://localhost:11434/api/generate",
			Temperature:    0.7,
			MaxTokens:      2000,
			TimeoutSeconds: 60,
		},
		Analysis: Analysis{
			SummaryWordCount:       "300-400",
			NumThemes:              "3-5",
			EnableDynamicWordCount: true,
			WordCountRules:         DefaultWordCountRules(),
			TrimThreshold:          1.3,
			MinRetention:           0.7,
			ParallelStages:         true,
			FailOnStageError:       true,
		},
		Transcribe: Transcribe{
			Provider:         "whispercpp",
			CaptionLanguages: []string{"en"},
			Whispercpp: Whispercpp{
				Model: "models/ggml-base.bin",
			},
			Openai: OpenaiWhisper{
				Model: "whisper-1",
			},
		},
		Export: Export{
			SaveJson:        true,
			FilenamePattern: "analysis_{timestamp}.json",
			Format:          "json",
		},
		Server: Server{
			Host: "127.0.0.1",
			Port: 8888,
		},
		Queue: Queue{
			RedisAddr:   "localhost:6379",
			Concurrency: 2,
		},
	}
}

// DefaultWordCountRules is the breakpoint table used when the config file
// does not provide one. The last threshold acts as "no upper bound".
func DefaultWordCountRules() []WordCountRule {
	return []WordCountRule{
		{MaxMinutes: 5, WordCount: "100-150"},
		{MaxMinutes: 10, WordCount: "200-300"},
		{MaxMinutes: 20, WordCount: "300-400"},
		{MaxMinutes: 40, WordCount: "400-500"},
		{MaxMinutes: 999, WordCount: "500-600"},
	}
}

// DefaultModelFor returns the model name used when the config leaves it empty.
func DefaultModelFor(provider string) string {
	switch provider {
	case ProviderGroq:
		return "llama-3.1-70b"
	case ProviderOpenai:
		return "gpt-4o-mini"
	case ProviderGemini:
		return "gemini-2.0-flash"
	default:
		return "llama3.1:8b"
	}
}

// ResolveConfigPath returns the config file location for the current layout.
func ResolveConfigPath() (string, error) {
	layout, err := appdirs.Resolve()
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(layout.ConfigFile) == "" {
		return filepath.Join("config", "config.toml"), nil
	}
	return layout.ConfigFile, nil
}

// LoadOrCreateConfig reads the config file into Conf, writing the defaults
// first when no file exists. created reports whether a new file was written.
func LoadOrCreateConfig() (created bool, err error) {
	configPath, err := resolveConfigPath()
	if err != nil {
		return false, err
	}

	if _, statErr := os.Stat(configPath); os.IsNotExist(statErr) {
		Conf = defaultConfig()
		if err = SaveConfig(); err != nil {
			return false, err
		}
		log.GetLogger().Info("config file not found, wrote defaults", zap.String("path", configPath))
		return true, nil
	}

	loaded := defaultConfig()
	if _, err = toml.DecodeFile(configPath, &loaded); err != nil {
		return false, fmt.Errorf("decode config %s: %w", configPath, err)
	}
	Conf = loaded
	log.GetLogger().Info("config loaded", zap.String("path", configPath))
	return false, nil
}

// LoadConfig loads the config, applies environment overrides and validates
// it. It returns false when startup should not continue.
func LoadConfig() bool {
	if _, err := LoadOrCreateConfig(); err != nil {
		log.GetLogger().Error("failed to load config", zap.Error(err))
		return false
	}
	ApplyEnvOverrides(getenv)
	if err := CheckConfig(); err != nil {
		log.GetLogger().Error("invalid config", zap.Error(err))
		return false
	}
	log.SetDebug(Conf.App.Debug)
	return true
}

// SaveConfig writes Conf to the resolved path, creating parent dirs.
func SaveConfig() error {
	configPath, err := resolveConfigPath()
	if err != nil {
		return err
	}
	if err = os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	file, err := os.Create(configPath)
	if err != nil {
		return fmt.Errorf("create config file: %w", err)
	}
	defer file.Close()

	if err = toml.NewEncoder(file).Encode(Conf); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}

// ApplyEnvOverrides lets credentials and the provider come from the
// environment (typically a .env file) without editing config.toml.
func ApplyEnvOverrides(getenv func(string) string) {
	if provider := strings.TrimSpace(getenv("LLM_PROVIDER")); provider != "" {
		Conf.Llm.Provider = strings.ToLower(provider)
	}
	if ollamaUrl := strings.TrimSpace(getenv("OLLAMA_URL")); ollamaUrl != "" {
		Conf.Llm.OllamaUrl = ollamaUrl
	}
	if Conf.Llm.ApiKey == "" {
		switch Conf.Llm.Provider {
		case ProviderGroq:
			Conf.Llm.ApiKey = getenv("GROQ_API_KEY")
		case ProviderOpenai:
			Conf.Llm.ApiKey = getenv("OPENAI_API_KEY")
		case ProviderGemini:
			Conf.Llm.ApiKey = getenv("GEMINI_API_KEY")
		}
	}
	if Conf.Transcribe.Openai.ApiKey == "" {
		Conf.Transcribe.Openai.ApiKey = getenv("OPENAI_API_KEY")
	}
}

// CheckConfig validates Conf and fills derived fields.
func CheckConfig() error {
	Conf.Llm.Provider = strings.ToLower(strings.TrimSpace(Conf.Llm.Provider))
	switch Conf.Llm.Provider {
	case ProviderOllama:
		if Conf.Llm.OllamaUrl == "" {
			return errors.New("llm.ollama_url is required for the ollama provider")
		}
	case ProviderGroq, ProviderOpenai, ProviderGemini:
		if Conf.Llm.ApiKey == "" {
			return fmt.Errorf("llm.api_key is required for the %s provider", Conf.Llm.Provider)
		}
	default:
		return fmt.Errorf("unsupported llm provider %q", Conf.Llm.Provider)
	}
	if Conf.Llm.Model == "" {
		Conf.Llm.Model = DefaultModelFor(Conf.Llm.Provider)
	}
	if Conf.Llm.Provider == ProviderGroq && Conf.Llm.BaseUrl == "" {
		Conf.Llm.BaseUrl = groqBaseUrl
	}

	if Conf.App.MaxTranscriptLength <= 0 {
		return errors.New("app.max_transcript_length must be positive")
	}
	if Conf.App.Proxy != "" {
		parsed, err := url.Parse(Conf.App.Proxy)
		if err != nil {
			return fmt.Errorf("invalid app.proxy: %w", err)
		}
		Conf.App.ParsedProxy = parsed
	}

	if _, _, err := ParseRange(Conf.Analysis.SummaryWordCount); err != nil {
		return fmt.Errorf("analysis.summary_word_count: %w", err)
	}
	for _, rule := range Conf.Analysis.WordCountRules {
		if _, _, err := ParseRange(rule.WordCount); err != nil {
			return fmt.Errorf("analysis.word_count_rules[%v]: %w", rule.MaxMinutes, err)
		}
	}
	sort.SliceStable(Conf.Analysis.WordCountRules, func(i, j int) bool {
		return Conf.Analysis.WordCountRules[i].MaxMinutes < Conf.Analysis.WordCountRules[j].MaxMinutes
	})
	if Conf.Analysis.TrimThreshold < 1 {
		return errors.New("analysis.trim_threshold must be >= 1")
	}
	if Conf.Analysis.MinRetention <= 0 || Conf.Analysis.MinRetention > 1 {
		return errors.New("analysis.min_retention must be in (0, 1]")
	}

	switch Conf.Transcribe.Provider {
	case "whispercpp", "openai":
	default:
		return fmt.Errorf("unsupported transcribe provider %q", Conf.Transcribe.Provider)
	}

	switch Conf.Export.Format {
	case "", "json", "docx":
	default:
		return fmt.Errorf("unsupported export format %q", Conf.Export.Format)
	}
	return nil
}

// ParseRange parses a "min-max" string such as "300-400".
func ParseRange(value string) (int, int, error) {
	parts := strings.Split(strings.TrimSpace(value), "-")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("range %q is not min-max", value)
	}
	lo, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("range %q: %w", value, err)
	}
	hi, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("range %q: %w", value, err)
	}
	if lo <= 0 || hi < lo {
		return 0, 0, fmt.Errorf("range %q must satisfy 0 < min <= max", value)
	}
	return lo, hi, nil
}
