package openai

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"video-analyzer/internal/types"
	"video-analyzer/log"
)

// Transcribe sends an audio file to the Whisper endpoint and returns its
// timed segments.
func (c *Client) Transcribe(ctx context.Context, audioFile, model string) ([]types.TranscriptEntry, error) {
	if model == "" {
		model = openai.Whisper1
	}
	resp, err := c.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    model,
		FilePath: audioFile,
		Format:   openai.AudioResponseFormatVerboseJSON,
	})
	if err != nil {
		log.GetLogger().Error("openai transcription failed", zap.String("file", audioFile), zap.Error(err))
		return nil, fmt.Errorf("transcription: %w", err)
	}
	return segmentsToEntries(resp), nil
}

func segmentsToEntries(resp openai.AudioResponse) []types.TranscriptEntry {
	if len(resp.Segments) == 0 {
		text := strings.TrimSpace(resp.Text)
		if text == "" {
			return nil
		}
		return []types.TranscriptEntry{{Text: text, Start: 0, Duration: resp.Duration}}
	}

	entries := make([]types.TranscriptEntry, 0, len(resp.Segments))
	for _, seg := range resp.Segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		entries = append(entries, types.TranscriptEntry{
			Text:     text,
			Start:    seg.Start,
			Duration: max(0, seg.End-seg.Start),
		})
	}
	return entries
}
