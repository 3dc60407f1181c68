package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"video-analyzer/internal/types"
	"video-analyzer/log"
)

const (
	FormatJSON = "json"
	FormatDocx = "docx"

	TimestampLayout = "20060102_150405"
	DefaultPattern  = "analysis_{timestamp}.json"
)

type Options struct {
	Dir     string
	Pattern string
	Format  string
	Now     func() time.Time
}

// Filename expands {timestamp} in pattern and gives it the extension of
// format.
func Filename(pattern, format string, now time.Time) string {
	if strings.TrimSpace(pattern) == "" {
		pattern = DefaultPattern
	}
	if format == "" {
		format = FormatJSON
	}
	name := strings.ReplaceAll(pattern, "{timestamp}", now.Format(TimestampLayout))
	return strings.TrimSuffix(name, filepath.Ext(name)) + "." + format
}

// Save writes the analysis into opts.Dir and returns the file path.
func Save(analysis *types.VideoAnalysis, opts Options) (string, error) {
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	format := strings.ToLower(opts.Format)
	if format == "" {
		format = FormatJSON
	}

	dir := opts.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(dir, Filename(opts.Pattern, format, now()))

	var err error
	switch format {
	case FormatJSON:
		err = SaveJSON(analysis, path)
	case FormatDocx:
		err = SaveDocx(analysis, path)
	default:
		return "", fmt.Errorf("unsupported export format %q", opts.Format)
	}
	if err != nil {
		return "", err
	}
	log.GetLogger().Info("analysis saved", zap.String("path", path), zap.String("format", format))
	return path, nil
}

// SaveJSON writes the analysis as a flat JSON document indented by two
// spaces.
func SaveJSON(analysis *types.VideoAnalysis, path string) error {
	if analysis == nil {
		return fmt.Errorf("nothing to export")
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(analysis); err != nil {
		return fmt.Errorf("encode analysis: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
