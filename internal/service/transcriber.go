package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"go.uber.org/zap"

	"video-analyzer/config"
	"video-analyzer/internal/appdirs"
	"video-analyzer/internal/storage"
	"video-analyzer/internal/types"
	"video-analyzer/log"
	"video-analyzer/pkg/openai"
	"video-analyzer/pkg/util"
	"video-analyzer/pkg/whispercpp"
)

type audioDownloader interface {
	DownloadAudio(ctx context.Context, videoId, dir, format string) (string, error)
}

// audioTranscriber downloads a video's audio track and hands the file to a
// speech-to-text backend. The audio is removed afterwards.
type audioTranscriber struct {
	downloader audioDownloader
	workDir    string
	format     string
	transcribe func(ctx context.Context, audioFile, workDir string) ([]types.TranscriptEntry, error)
}

func (t *audioTranscriber) TranscribeVideo(ctx context.Context, videoId string) ([]types.TranscriptEntry, error) {
	log.GetLogger().Info("downloading audio for transcription", zap.String("video_id", videoId))
	audioFile, err := t.downloader.DownloadAudio(ctx, videoId, t.workDir, t.format)
	if err != nil {
		return nil, fmt.Errorf("download audio: %w", err)
	}
	defer os.Remove(audioFile)

	entries, err := t.transcribe(ctx, audioFile, t.workDir)
	if err != nil {
		return nil, fmt.Errorf("transcribe audio: %w", err)
	}
	log.GetLogger().Info("transcription finished", zap.String("video_id", videoId), zap.Int("entries", len(entries)))
	return entries, nil
}

func newTranscriber(downloader audioDownloader) (types.Transcriber, error) {
	layout, err := appdirs.Resolve()
	if err != nil {
		return nil, err
	}
	workDir := layout.AudioDir
	if err = os.MkdirAll(workDir, 0o755); err != nil {
		return nil, fmt.Errorf("create audio dir: %w", err)
	}

	switch config.Conf.Transcribe.Provider {
	case "openai":
		conf := config.Conf.Transcribe.Openai
		if conf.ApiKey == "" {
			return nil, errors.New("transcribe.openai.api_key is not set")
		}
		client := openai.NewClient(openai.Options{
			BaseUrl:   conf.BaseUrl,
			ApiKey:    conf.ApiKey,
			ProxyAddr: config.Conf.App.Proxy,
		})
		log.GetLogger().Info("speech-to-text ready", zap.String("provider", "openai"), zap.String("model", conf.Model))
		return &audioTranscriber{
			downloader: downloader,
			workDir:    workDir,
			format:     "mp3",
			transcribe: func(ctx context.Context, audioFile, _ string) ([]types.TranscriptEntry, error) {
				return client.Transcribe(ctx, audioFile, conf.Model)
			},
		}, nil
	default:
		conf := config.Conf.Transcribe.Whispercpp
		bin := conf.BinPath
		if bin == "" {
			bin = storage.WhispercppPath
		}
		if _, err = exec.LookPath(bin); err != nil {
			return nil, fmt.Errorf("whisper.cpp binary %q not found: %w", bin, err)
		}
		if _, err = os.Stat(conf.Model); err != nil {
			return nil, fmt.Errorf("whisper.cpp model %q: %w", conf.Model, err)
		}
		adapter := whispercpp.New(bin, conf.Model)
		log.GetLogger().Info("speech-to-text ready", zap.String("provider", "whispercpp"), zap.String("model", filepath.Base(conf.Model)))
		return &audioTranscriber{
			downloader: downloader,
			workDir:    workDir,
			format:     "mp3",
			transcribe: func(ctx context.Context, audioFile, workDir string) ([]types.TranscriptEntry, error) {
				wav, err := util.ToMono16kWav(ctx, audioFile)
				if err != nil {
					return nil, err
				}
				defer os.Remove(wav)
				return adapter.Transcribe(ctx, wav, workDir)
			},
		}, nil
	}
}
