package service

import (
	"context"

	"go.uber.org/zap"

	"video-analyzer/internal/appcore"
	"video-analyzer/log"
	"video-analyzer/pkg/errors"
)

// RunJob executes a stored job and records its outcome in store.
func (s *Service) RunJob(ctx context.Context, store *appcore.Store, jobId string) error {
	job, ok := store.Get(jobId)
	if !ok {
		return appcore.ErrJobNotFound
	}
	if job.Stage.IsTerminal() {
		log.GetLogger().Info("job already finished, skipping", zap.String("task_id", jobId), zap.String("stage", job.Stage.String()))
		return nil
	}

	_ = store.SetStage(jobId, appcore.JobStageProcessing, "analyzing video")
	analysis, err := s.AnalyzeVideo(ctx, job.URL)
	if err != nil {
		_ = store.Fail(jobId, errors.GetCode(err), err)
		return err
	}
	return store.Succeed(jobId, analysis)
}
