package util

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"video-analyzer/internal/storage"
	"video-analyzer/log"
)

// MonoWavPath is where ToMono16kWav writes its output for a given input.
func MonoWavPath(filePath string) string {
	return strings.TrimSuffix(filePath, filepath.Ext(filePath)) + "_mono_16k.wav"
}

// ToMono16kWav converts an audio file to the single channel 16 kHz WAV that
// whisper.cpp expects.
func ToMono16kWav(ctx context.Context, filePath string) (string, error) {
	dest := MonoWavPath(filePath)
	cmdArgs := []string{"-y", "-i", filePath, "-vn", "-ac", "1", "-ar", "16000", "-f", "wav", dest}
	cmd := exec.CommandContext(ctx, storage.FfmpegPath, cmdArgs...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		log.GetLogger().Error("convert audio failed", zap.Error(err), zap.String("audio file", filePath), zap.String("output", string(output)))
		return "", fmt.Errorf("ffmpeg convert audio: %w", err)
	}
	return dest, nil
}
