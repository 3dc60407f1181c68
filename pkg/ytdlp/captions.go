package ytdlp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.uber.org/zap"

	"video-analyzer/internal/types"
	"video-analyzer/log"
)

// json3 is YouTube's timed-text format as written by yt-dlp.
type json3 struct {
	Events []json3Event `json:"events"`
}

type json3Event struct {
	TStartMs    *int64     `json:"tStartMs,omitempty"`
	DDurationMs *int64     `json:"dDurationMs,omitempty"`
	Segs        []json3Seg `json:"segs,omitempty"`
}

type json3Seg struct {
	Utf8 string `json:"utf8"`
}

// FetchCaptions downloads manual or automatic captions in the configured
// languages, falling back to any available language.
func (c *Client) FetchCaptions(ctx context.Context, videoId string) ([]types.TranscriptEntry, error) {
	dir, err := os.MkdirTemp(c.opts.WorkDir, "captions-")
	if err != nil {
		return nil, fmt.Errorf("create caption dir: %w", err)
	}
	defer os.RemoveAll(dir)

	attempts := []string{strings.Join(c.opts.Languages, ","), "all"}
	for _, langs := range attempts {
		file, err := c.downloadCaptions(ctx, videoId, dir, langs)
		if err != nil {
			return nil, err
		}
		if file == "" {
			log.GetLogger().Debug("no captions for languages", zap.String("video_id", videoId), zap.String("langs", langs))
			continue
		}

		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read captions: %w", err)
		}
		entries, err := parseJSON3(data)
		if err != nil {
			return nil, err
		}
		if len(entries) == 0 {
			continue
		}
		log.GetLogger().Info("captions fetched",
			zap.String("video_id", videoId),
			zap.String("file", filepath.Base(file)),
			zap.Int("entries", len(entries)))
		return entries, nil
	}
	return nil, ErrNoCaptions
}

func (c *Client) downloadCaptions(ctx context.Context, videoId, dir, langs string) (string, error) {
	_, err := c.exec(ctx, videoId,
		"--skip-download",
		"--write-subs",
		"--write-auto-subs",
		"--sub-langs", langs,
		"--sub-format", "json3",
		"-o", filepath.Join(dir, "%(id)s.%(ext)s"),
	)
	if err != nil {
		return "", err
	}
	files, err := filepath.Glob(filepath.Join(dir, "*.json3"))
	if err != nil {
		return "", err
	}
	return pickCaptionFile(files, c.opts.Languages), nil
}

// pickCaptionFile prefers files named <id>.<lang>.json3 in language order,
// then the first file by name.
func pickCaptionFile(files, languages []string) string {
	if len(files) == 0 {
		return ""
	}
	for _, lang := range languages {
		suffix := "." + lang + ".json3"
		for _, f := range files {
			if strings.HasSuffix(f, suffix) {
				return f
			}
		}
	}
	sorted := slices.Clone(files)
	slices.Sort(sorted)
	return sorted[0]
}

func parseJSON3(data []byte) ([]types.TranscriptEntry, error) {
	var raw json3
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse json3 captions: %w", err)
	}

	entries := make([]types.TranscriptEntry, 0, len(raw.Events))
	for _, event := range raw.Events {
		if event.TStartMs == nil || len(event.Segs) == 0 {
			continue
		}
		var builder strings.Builder
		for _, seg := range event.Segs {
			builder.WriteString(seg.Utf8)
		}
		text := strings.Join(strings.Fields(builder.String()), " ")
		if text == "" {
			continue
		}
		entry := types.TranscriptEntry{
			Text:  text,
			Start: float64(*event.TStartMs) / 1000,
		}
		if event.DDurationMs != nil {
			entry.Duration = float64(*event.DDurationMs) / 1000
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
