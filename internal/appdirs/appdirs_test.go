package appdirs

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envOf(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestResolveLayouts(t *testing.T) {
	exePath := filepath.Join("/", "apps", "VideoAnalyzer", "VideoAnalyzer.exe")
	portableData := filepath.Join("/", "apps", "VideoAnalyzer", "data")
	configRoot := filepath.Join("C:", "Users", "alice", "AppData", "Roaming")
	cacheRoot := filepath.Join("C:", "Users", "alice", "AppData", "Local")
	volume := filepath.Join("/", "srv", "analyzer")

	portable := Layout{
		Portable:   true,
		ConfigFile: filepath.Join(portableData, "config", "config.toml"),
		LogDir:     filepath.Join(portableData, "logs"),
		ExportDir:  filepath.Join(portableData, "exports"),
		CacheDir:   filepath.Join(portableData, "cache"),
		AudioDir:   filepath.Join(portableData, "cache", "audio"),
		DBPath:     filepath.Join(portableData, "cache", "analyzer.db"),
	}

	tests := []struct {
		name string
		goos string
		env  map[string]string
		want Layout
	}{
		{
			name: "portable when forced on linux",
			goos: "linux",
			env:  map[string]string{PortableEnv: "true"},
			want: portable,
		},
		{
			name: "windows defaults to portable",
			goos: "windows",
			want: portable,
		},
		{
			name: "windows per-user dirs when portable is off",
			goos: "windows",
			env:  map[string]string{PortableEnv: "0"},
			want: Layout{
				ConfigFile: filepath.Join(configRoot, "VideoAnalyzer", "config.toml"),
				LogDir:     filepath.Join(cacheRoot, "VideoAnalyzer", "logs"),
				ExportDir:  filepath.Join(cacheRoot, "VideoAnalyzer", "exports"),
				CacheDir:   filepath.Join(cacheRoot, "VideoAnalyzer", "cache"),
				AudioDir:   filepath.Join(cacheRoot, "VideoAnalyzer", "cache", "audio"),
				DBPath:     filepath.Join(cacheRoot, "VideoAnalyzer", "cache", "analyzer.db"),
			},
		},
		{
			name: "relative to the working dir elsewhere",
			goos: "darwin",
			want: Layout{
				ConfigFile: filepath.Join("config", "config.toml"),
				LogDir:     "logs",
				ExportDir:  "exports",
				CacheDir:   "cache",
				AudioDir:   filepath.Join("cache", "audio"),
				DBPath:     filepath.Join("cache", "analyzer.db"),
			},
		},
		{
			name: "data dir wins over portable",
			goos: "windows",
			env:  map[string]string{DataDirEnv: " " + volume + " ", PortableEnv: "1"},
			want: Layout{
				ConfigFile: filepath.Join(volume, "config", "config.toml"),
				LogDir:     filepath.Join(volume, "logs"),
				ExportDir:  filepath.Join(volume, "exports"),
				CacheDir:   filepath.Join(volume, "cache"),
				AudioDir:   filepath.Join(volume, "cache", "audio"),
				DBPath:     filepath.Join(volume, "cache", "analyzer.db"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolve(host{
				goos:          tt.goos,
				getenv:        envOf(tt.env),
				executable:    func() (string, error) { return exePath, nil },
				userConfigDir: func() (string, error) { return configRoot, nil },
				userCacheDir:  func() (string, error) { return cacheRoot, nil },
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveOnlyQueriesWhatTheLayoutNeeds(t *testing.T) {
	var exeCalls, userCalls int
	h := host{
		goos:          "linux",
		getenv:        envOf(nil),
		executable:    func() (string, error) { exeCalls++; return "/bin/analyzer", nil },
		userConfigDir: func() (string, error) { userCalls++; return "/home/u/.config", nil },
		userCacheDir:  func() (string, error) { userCalls++; return "/home/u/.cache", nil },
	}

	_, err := resolve(h)
	require.NoError(t, err)
	assert.Zero(t, exeCalls)
	assert.Zero(t, userCalls)
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		name    string
		h       host
		wantErr string
	}{
		{
			name: "portable executable lookup fails",
			h: host{
				goos:       "linux",
				getenv:     envOf(map[string]string{PortableEnv: "1"}),
				executable: func() (string, error) { return "", errors.New("no executable") },
			},
			wantErr: "no executable",
		},
		{
			name: "blank user config dir",
			h: host{
				goos:          "windows",
				getenv:        envOf(map[string]string{PortableEnv: "false"}),
				userConfigDir: func() (string, error) { return "  ", nil },
			},
			wantErr: "user config dir is empty",
		},
		{
			name: "blank user cache dir",
			h: host{
				goos:          "windows",
				getenv:        envOf(map[string]string{PortableEnv: "false"}),
				userConfigDir: func() (string, error) { return "/cfg", nil },
				userCacheDir:  func() (string, error) { return "", nil },
			},
			wantErr: "user cache dir is empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := resolve(tt.h)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestPortableFlagParsing(t *testing.T) {
	tests := []struct {
		value   string
		enabled bool
		off     bool
	}{
		{"", false, false},
		{"0", false, true},
		{"1", true, false},
		{"TRUE", true, false},
		{"  true  ", true, false},
		{"false", false, true},
		{"yes", false, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.enabled, isPortableEnabled(tt.value), tt.value)
		assert.Equal(t, tt.off, isPortableDisabled(tt.value), tt.value)
	}
}
