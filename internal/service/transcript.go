package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"video-analyzer/internal/types"
	"video-analyzer/log"
	"video-analyzer/pkg/errors"
)

// GetTranscript returns the video's transcript, trying the cache, then
// captions, then speech-to-text over the audio track.
func (s *Service) GetTranscript(ctx context.Context, videoId string) ([]types.TranscriptEntry, types.TranscriptSource, error) {
	logger := log.GetLogger().With(zap.String("video_id", videoId))

	if s.cache != nil {
		entries, source, found, err := s.cache.GetTranscript(videoId)
		if err != nil {
			logger.Warn("transcript cache lookup failed", zap.Error(err))
		} else if found && len(entries) > 0 {
			logger.Info("transcript served from cache", zap.String("source", string(source)), zap.Int("entries", len(entries)))
			s.metrics.ObserveTranscriptSource(string(types.TranscriptSourceCache))
			return entries, source, nil
		}
	}

	logger.Info("fetching captions")
	entries, captionErr := s.Captions.FetchCaptions(ctx, videoId)
	if captionErr == nil && len(entries) == 0 {
		captionErr = fmt.Errorf("caption track for %s is empty", videoId)
	}
	if captionErr == nil {
		logger.Info("captions found", zap.Int("entries", len(entries)))
		s.remember(videoId, types.TranscriptSourceCaptions, entries)
		return entries, types.TranscriptSourceCaptions, nil
	}
	logger.Warn("captions unavailable", zap.Error(captionErr))

	transcriber, initErr := s.speechToText()
	if initErr != nil {
		return nil, "", errors.Wrap(errors.CodeCaptionsUnavailable,
			fmt.Sprintf("Video has no captions and Whisper is not available.\nError: %v", captionErr),
			initErr)
	}

	logger.Info("captions failed, switching to speech-to-text")
	entries, whisperErr := transcriber.TranscribeVideo(ctx, videoId)
	if whisperErr == nil && len(entries) == 0 {
		whisperErr = fmt.Errorf("transcription of %s produced no segments", videoId)
	}
	if whisperErr != nil {
		return nil, "", errors.Wrap(errors.CodeTranscriptUnavailable,
			fmt.Sprintf("Both caption and Whisper transcription failed.\nCaption error: %v\nWhisper error: %v", captionErr, whisperErr),
			whisperErr)
	}

	s.remember(videoId, types.TranscriptSourceWhisper, entries)
	return entries, types.TranscriptSourceWhisper, nil
}

func (s *Service) speechToText() (types.Transcriber, error) {
	if s.transcriber == nil {
		return nil, fmt.Errorf("speech-to-text fallback is disabled")
	}
	t, err := s.transcriber()
	if err != nil {
		log.GetLogger().Warn("speech-to-text initialization failed", zap.Error(err))
		return nil, err
	}
	return t, nil
}

func (s *Service) remember(videoId string, source types.TranscriptSource, entries []types.TranscriptEntry) {
	s.metrics.ObserveTranscriptSource(string(source))
	if s.cache == nil {
		return
	}
	if err := s.cache.SaveTranscript(videoId, source, entries); err != nil {
		log.GetLogger().Warn("failed to cache transcript", zap.String("video_id", videoId), zap.Error(err))
	}
}
