package ytdlp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"slices"
	"strings"

	"go.uber.org/zap"

	"video-analyzer/log"
	"video-analyzer/pkg/util"
)

var ErrNoCaptions = errors.New("no captions available")

// runner executes a command and returns stdout and stderr separately, so
// yt-dlp warnings never end up in the JSON we parse.
type runner func(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

type Options struct {
	BinPath     string
	FfmpegPath  string
	Proxy       string
	CookiesPath string
	// Caption languages in preference order.
	Languages []string
	// Parent dir for temporary caption downloads; "" uses the OS default.
	WorkDir string
}

// Client wraps the yt-dlp binary for metadata, captions and audio.
type Client struct {
	opts Options
	run  runner
}

func New(opts Options) *Client {
	if opts.BinPath == "" {
		opts.BinPath = "yt-dlp"
	}
	if len(opts.Languages) == 0 {
		opts.Languages = []string{"en"}
	}
	return &Client{opts: opts, run: execRunner}
}

func (c *Client) commonArgs() []string {
	args := []string{"--no-playlist", "--encoding", "utf-8"}
	if c.opts.Proxy != "" {
		args = append(args, "--proxy", c.opts.Proxy)
	}
	if c.opts.CookiesPath != "" {
		args = append(args, "--cookies", c.opts.CookiesPath)
	}
	if c.opts.FfmpegPath != "" && c.opts.FfmpegPath != "ffmpeg" {
		args = append(args, "--ffmpeg-location", c.opts.FfmpegPath)
	}
	return args
}

func (c *Client) exec(ctx context.Context, videoId string, args ...string) ([]byte, error) {
	full := slices.Concat(args, c.commonArgs(), []string{util.WatchURL(videoId)})

	stdout, stderr, err := c.run(ctx, c.opts.BinPath, full...)
	if err != nil {
		log.GetLogger().Error("yt-dlp failed",
			zap.String("video_id", videoId),
			zap.Strings("args", args),
			zap.String("stderr", lastLines(string(stderr), 5)),
			zap.Error(err))
		return nil, fmt.Errorf("yt-dlp: %w: %s", err, lastLines(string(stderr), 2))
	}
	return stdout, nil
}

func lastLines(text string, n int) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, " | ")
}
