package ytdlp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"video-analyzer/internal/types"
)

type videoInfo struct {
	Id        string  `json:"id"`
	Title     string  `json:"title"`
	Duration  float64 `json:"duration"`
	Uploader  string  `json:"uploader"`
	ViewCount *int64  `json:"view_count"`
}

var viewPrinter = message.NewPrinter(language.English)

// FetchMetadata reads title, length, uploader and views without downloading
// the video.
func (c *Client) FetchMetadata(ctx context.Context, videoId string) (types.VideoMetadata, error) {
	out, err := c.exec(ctx, videoId, "--skip-download", "--dump-json")
	if err != nil {
		return types.VideoMetadata{}, err
	}
	info, err := parseVideoInfo(out)
	if err != nil {
		return types.VideoMetadata{}, err
	}
	return metadataFromInfo(videoId, info), nil
}

// parseVideoInfo decodes the first JSON object line of --dump-json output.
func parseVideoInfo(out []byte) (videoInfo, error) {
	scanner := bufio.NewScanner(bytes.NewReader(out))
	scanner.Buffer(make([]byte, 0, 1024*1024), 64*1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 || line[0] != '{' {
			continue
		}
		var info videoInfo
		if err := json.Unmarshal(line, &info); err != nil {
			return videoInfo{}, fmt.Errorf("decode yt-dlp metadata: %w", err)
		}
		return info, nil
	}
	if err := scanner.Err(); err != nil {
		return videoInfo{}, fmt.Errorf("read yt-dlp metadata: %w", err)
	}
	return videoInfo{}, errors.New("yt-dlp returned no metadata")
}

func metadataFromInfo(videoId string, info videoInfo) types.VideoMetadata {
	meta := types.VideoMetadata{
		VideoId:  videoId,
		Title:    info.Title,
		Duration: types.UnknownDuration,
		Author:   info.Uploader,
		Views:    "Unknown",
	}
	if meta.Title == "" {
		meta.Title = "Unknown"
	}
	if meta.Author == "" {
		meta.Author = "Unknown"
	}
	if minutes := int(info.Duration) / 60; minutes > 0 {
		meta.Duration = fmt.Sprintf("%d minutes", minutes)
	}
	if info.ViewCount != nil && *info.ViewCount > 0 {
		meta.Views = viewPrinter.Sprintf("%d", *info.ViewCount)
	}
	return meta
}
