package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"video-analyzer/internal/appcore"
	"video-analyzer/internal/service"
	"video-analyzer/log"
	apperrors "video-analyzer/pkg/errors"
)

// TaskHandlers runs queued analysis jobs against the in-process job store.
type TaskHandlers struct {
	services func() (*service.Service, error)
	store    *appcore.Store
}

func NewTaskHandlers(services func() (*service.Service, error), store *appcore.Store) *TaskHandlers {
	return &TaskHandlers{services: services, store: store}
}

// HandleAnalysisTask processes one analysis job. Analysis failures are
// recorded on the job and not retried; only a missing service is retried.
func (h *TaskHandlers) HandleAnalysisTask(ctx context.Context, t *asynq.Task) error {
	var payload AnalysisPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w: %w", err, asynq.SkipRetry)
	}

	log.GetLogger().Info("[Queue] Processing analysis task",
		zap.String("task_id", payload.TaskID),
		zap.String("url", payload.URL))

	svc, err := h.services()
	if err != nil {
		_ = h.store.Fail(payload.TaskID, apperrors.CodeEngineNotReady, err)
		return err
	}

	if err = svc.RunJob(ctx, h.store, payload.TaskID); err != nil {
		return fmt.Errorf("%w: %w", err, asynq.SkipRetry)
	}

	log.GetLogger().Info("[Queue] Analysis task completed",
		zap.String("task_id", payload.TaskID))
	return nil
}

// RegisterHandlers registers all task handlers with the Asynq server mux
func (h *TaskHandlers) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeAnalysisTask, h.HandleAnalysisTask)
}

// StartWorker runs the Asynq worker until the server is shut down.
func StartWorker(q *Queue, handlers *TaskHandlers) error {
	mux := asynq.NewServeMux()
	handlers.RegisterHandlers(mux)

	log.GetLogger().Info("[Queue] Starting worker",
		zap.String("redis_addr", q.config.RedisAddr),
		zap.Int("concurrency", q.config.Concurrency))

	return q.server.Run(mux)
}
