package ytdlp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// DownloadAudio extracts the best audio track into dir as <id>.<format>.
func (c *Client) DownloadAudio(ctx context.Context, videoId, dir, format string) (string, error) {
	if format == "" {
		format = "mp3"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create audio dir: %w", err)
	}

	_, err := c.exec(ctx, videoId,
		"-f", "bestaudio/best",
		"-x",
		"--audio-format", format,
		"--audio-quality", "192K",
		"-o", filepath.Join(dir, "%(id)s.%(ext)s"),
	)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, videoId+"."+format)
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("downloaded audio not found: %w", err)
	}
	return path, nil
}
