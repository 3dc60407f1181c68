package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"video-analyzer/internal/appdirs"
)

func diagnoseLines(t *testing.T, resolveLayout func() (appdirs.Layout, error)) map[string]string {
	t.Helper()
	var buf bytes.Buffer
	writeDiagnose(&buf, resolveLayout)

	lines := make(map[string]string)
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		key, value, ok := strings.Cut(line, ": ")
		require.True(t, ok, "malformed line %q", line)
		lines[key] = value
	}
	return lines
}

func TestWriteDiagnoseReportsLayout(t *testing.T) {
	root := t.TempDir()
	layout := appdirs.Layout{
		ConfigFile: filepath.Join(root, "config", "config.toml"),
		ExportDir:  filepath.Join(root, "exports"),
		AudioDir:   filepath.Join(root, "cache", "audio"),
		DBPath:     filepath.Join(root, "cache", "analyzer.db"),
	}
	require.NoError(t, os.MkdirAll(layout.ExportDir, 0o755))

	lines := diagnoseLines(t, func() (appdirs.Layout, error) { return layout, nil })

	assert.Equal(t, "false", lines["layout.portable"])
	assert.Equal(t, layout.ExportDir+" (exists)", lines["path.exports"])
	assert.Equal(t, layout.DBPath+" (missing)", lines["path.database"])
	assert.Equal(t, layout.AudioDir+" (missing)", lines["path.audio"])
	assert.Contains(t, lines, "path.effective_log_dir")
	for _, bin := range []string{"yt-dlp", "ffmpeg", "whisper-cli"} {
		status := lines["dependency."+bin]
		assert.True(t, status == "missing" || strings.HasPrefix(status, "found ("), "dependency.%s: %q", bin, status)
	}
}

func TestWriteDiagnoseReportsLayoutError(t *testing.T) {
	lines := diagnoseLines(t, func() (appdirs.Layout, error) {
		return appdirs.Layout{}, errors.New("user config dir is empty")
	})

	assert.Equal(t, "<error: user config dir is empty>", lines["path.layout"])
	assert.Equal(t, "<unresolved>", lines["path.exports"])
	assert.Equal(t, "<unresolved>", lines["path.database"])
	assert.Contains(t, lines, "dependency.yt-dlp")
}
