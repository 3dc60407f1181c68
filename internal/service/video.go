package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"video-analyzer/internal/analyzer"
	"video-analyzer/internal/types"
	"video-analyzer/log"
	"video-analyzer/pkg/errors"
	"video-analyzer/pkg/util"
)

// GetVideoMetadata never fails: when the host cannot be reached the video
// is reported under a generic title with unknown details.
func (s *Service) GetVideoMetadata(ctx context.Context, videoId string) types.VideoMetadata {
	metadata, err := s.Metadata.FetchMetadata(ctx, videoId)
	if err != nil {
		log.GetLogger().Warn("metadata fetch failed, using fallback", zap.String("video_id", videoId), zap.Error(err))
		return fallbackMetadata(videoId)
	}
	if metadata.VideoId == "" {
		metadata.VideoId = videoId
	}
	return metadata
}

func fallbackMetadata(videoId string) types.VideoMetadata {
	return types.VideoMetadata{
		VideoId:  videoId,
		Title:    fmt.Sprintf("YouTube Video (%s)", videoId),
		Duration: types.UnknownDuration,
		Author:   "Unknown",
		Views:    "Unknown",
	}
}

// AnalyzeVideo runs the whole pipeline for one video URL.
func (s *Service) AnalyzeVideo(ctx context.Context, link string) (*types.VideoAnalysis, error) {
	started := time.Now()
	analysis, err := s.analyzeVideo(ctx, link)
	status := "ok"
	if err != nil {
		status = "error"
	}
	s.metrics.ObserveAnalysis(status, time.Since(started).Seconds())
	return analysis, err
}

func (s *Service) analyzeVideo(ctx context.Context, link string) (*types.VideoAnalysis, error) {
	videoId := util.GetYouTubeID(link)
	if videoId == "" {
		return nil, errors.New(errors.CodeInvalidURL, "Invalid YouTube URL")
	}
	logger := log.GetLogger().With(zap.String("video_id", videoId))
	logger.Info("video analysis started", zap.String("url", link))

	metadata := s.GetVideoMetadata(ctx, videoId)
	logger.Info("metadata retrieved", zap.String("title", metadata.Title))

	entries, source, err := s.GetTranscript(ctx, videoId)
	if err != nil {
		logger.Error("transcript acquisition failed", zap.Error(err))
		return nil, err
	}
	logger.Info("transcript obtained", zap.String("source", string(source)), zap.Int("entries", len(entries)))

	analysis, err := s.Analyzer.Analyze(ctx, entries, metadata)
	if err == nil {
		return analysis, nil
	}

	pe, ok := analyzer.AsPipelineError(err)
	if !ok {
		return nil, errors.Wrap(errors.CodeStageFailed, "analysis failed", err)
	}
	if !s.failOnStageError {
		logger.Warn("returning partial analysis", zap.Error(pe))
		return analysis, nil
	}
	if pe.Failed(analyzer.StageThemes) && len(pe.Stages) == 1 {
		return nil, errors.Wrap(errors.CodeThemeExtraction, "theme extraction failed", err)
	}
	if pe.Failed(analyzer.StageSummary) && len(pe.Stages) == 1 {
		return nil, errors.Wrap(errors.CodeSummaryFailed, "summary generation failed", err)
	}
	return nil, errors.Wrap(errors.CodeStageFailed, "analysis stages failed", err)
}
