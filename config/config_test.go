package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useConfigPathForTest(t *testing.T, configPath string) {
	t.Helper()

	old := resolveConfigPath
	oldConf := Conf
	resolveConfigPath = func() (string, error) { return configPath, nil }
	t.Cleanup(func() {
		resolveConfigPath = old
		Conf = oldConf
	})
}

func TestLoadOrCreateConfigMissingCreatesDefault(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config", "config.toml")
	useConfigPathForTest(t, configPath)

	if _, err := os.Stat(configPath); err == nil {
		t.Fatalf("expected config file to be missing")
	}

	created, err := LoadOrCreateConfig()
	if err != nil {
		t.Fatalf("LoadOrCreateConfig() error: %v", err)
	}
	if !created {
		t.Fatalf("LoadOrCreateConfig() created=false, want true")
	}

	var got Config
	if _, err := toml.DecodeFile(configPath, &got); err != nil {
		t.Fatalf("decode created config: %v", err)
	}
	if got.Server.Host != "127.0.0.1" {
		t.Fatalf("default server host = %q, want %q", got.Server.Host, "127.0.0.1")
	}
	if got.Server.Port != 8888 {
		t.Fatalf("default server port = %d, want %d", got.Server.Port, 8888)
	}
	assert.Equal(t, "300-400", got.Analysis.SummaryWordCount)
	assert.Equal(t, 15000, got.App.MaxTranscriptLength)
	assert.Len(t, got.Analysis.WordCountRules, 5)
	assert.Equal(t, "analysis_{timestamp}.json", got.Export.FilenamePattern)
}

func TestSaveConfigCreatesParentDirs(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "deep", "nest", "config.toml")
	useConfigPathForTest(t, configPath)

	Conf = defaultConfig()
	Conf.Server.Port = 9999

	if err := SaveConfig(); err != nil {
		t.Fatalf("SaveConfig() error: %v", err)
	}

	var got Config
	if _, err := toml.DecodeFile(configPath, &got); err != nil {
		t.Fatalf("decode saved config: %v", err)
	}
	if got.Server.Port != 9999 {
		t.Fatalf("saved server port = %d, want %d", got.Server.Port, 9999)
	}
}

func TestLoadOrCreateConfigKeepsDefaultsForMissingKeys(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	useConfigPathForTest(t, configPath)

	content := `
[llm]
provider = "groq"
api_key = "gsk_test"

[analysis]
summary_word_count = "150-200"
enable_dynamic_word_count = false
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o644))

	created, err := LoadOrCreateConfig()
	require.NoError(t, err)
	assert.False(t, created)

	assert.Equal(t, "groq", Conf.Llm.Provider)
	assert.Equal(t, "150-200", Conf.Analysis.SummaryWordCount)
	assert.False(t, Conf.Analysis.EnableDynamicWordCount)
	assert.Equal(t, 1.3, Conf.Analysis.TrimThreshold)
	assert.Equal(t, 8888, Conf.Server.Port)
}

func TestApplyEnvOverrides(t *testing.T) {
	oldConf := Conf
	t.Cleanup(func() { Conf = oldConf })

	Conf = defaultConfig()
	env := map[string]string{
		"LLM_PROVIDER":   "Groq",
		"GROQ_API_KEY":   "gsk_env",
		"OPENAI_API_KEY": "sk_env",
	}
	ApplyEnvOverrides(func(key string) string { return env[key] })

	assert.Equal(t, ProviderGroq, Conf.Llm.Provider)
	assert.Equal(t, "gsk_env", Conf.Llm.ApiKey)
	assert.Equal(t, "sk_env", Conf.Transcribe.Openai.ApiKey)
}

func TestCheckConfig(t *testing.T) {
	oldConf := Conf
	t.Cleanup(func() { Conf = oldConf })

	testCases := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "defaults are valid", mutate: func(c *Config) {}},
		{
			name:    "unknown provider",
			mutate:  func(c *Config) { c.Llm.Provider = "claude" },
			wantErr: "unsupported llm provider",
		},
		{
			name:    "groq requires key",
			mutate:  func(c *Config) { c.Llm.Provider = ProviderGroq },
			wantErr: "api_key is required",
		},
		{
			name:    "bad default range",
			mutate:  func(c *Config) { c.Analysis.SummaryWordCount = "lots" },
			wantErr: "summary_word_count",
		},
		{
			name: "bad rule range",
			mutate: func(c *Config) {
				c.Analysis.WordCountRules = []WordCountRule{{MaxMinutes: 5, WordCount: "200-100"}}
			},
			wantErr: "word_count_rules",
		},
		{
			name:    "trim threshold below one",
			mutate:  func(c *Config) { c.Analysis.TrimThreshold = 0.9 },
			wantErr: "trim_threshold",
		},
		{
			name:    "retention out of range",
			mutate:  func(c *Config) { c.Analysis.MinRetention = 1.5 },
			wantErr: "min_retention",
		},
		{
			name:    "unknown export format",
			mutate:  func(c *Config) { c.Export.Format = "pdf" },
			wantErr: "export format",
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			Conf = defaultConfig()
			tc.mutate(&Conf)
			err := CheckConfig()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestCheckConfigFillsGroqDefaultsAndSortsRules(t *testing.T) {
	oldConf := Conf
	t.Cleanup(func() { Conf = oldConf })

	Conf = defaultConfig()
	Conf.Llm.Provider = ProviderGroq
	Conf.Llm.ApiKey = "gsk"
	Conf.Llm.Model = ""
	Conf.Analysis.WordCountRules = []WordCountRule{
		{MaxMinutes: 999, WordCount: "500-600"},
		{MaxMinutes: 5, WordCount: "100-150"},
	}

	require.NoError(t, CheckConfig())
	assert.Equal(t, groqBaseUrl, Conf.Llm.BaseUrl)
	assert.Equal(t, "llama-3.1-70b", Conf.Llm.Model)
	assert.Equal(t, 5.0, Conf.Analysis.WordCountRules[0].MaxMinutes)
}

func TestParseRange(t *testing.T) {
	lo, hi, err := ParseRange(" 300 - 400 ")
	require.NoError(t, err)
	assert.Equal(t, 300, lo)
	assert.Equal(t, 400, hi)

	for _, bad := range []string{"", "300", "a-b", "0-10", "400-300", "1-2-3"} {
		_, _, err := ParseRange(bad)
		assert.Error(t, err, bad)
	}
}
