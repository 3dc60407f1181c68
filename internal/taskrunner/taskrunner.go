package taskrunner

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"video-analyzer/internal/appcore"
	"video-analyzer/internal/service"
	"video-analyzer/log"
	apperrors "video-analyzer/pkg/errors"
)

const (
	defaultQueueSize   = 128
	defaultConcurrency = 2
)

var (
	ErrRunnerStopped = errors.New("task runner stopped")
	ErrQueueFull     = errors.New("task queue is full")
)

// Config controls in-process task runner behavior.
type Config struct {
	QueueSize   int
	Concurrency int
}

// DefaultConfig returns a desktop-friendly default config.
func DefaultConfig() Config {
	return Config{
		QueueSize:   defaultQueueSize,
		Concurrency: defaultConcurrency,
	}
}

// AnalysisTaskPayload identifies a stored job to analyze.
type AnalysisTaskPayload struct {
	TaskID string `json:"task_id"`
	URL    string `json:"url"`
}

// ServiceSource returns the service to run a task with. It is called per
// task so a reloaded config takes effect for the next job.
type ServiceSource func() (*service.Service, error)

// Runner executes queued tasks with in-memory workers.
type Runner struct {
	services ServiceSource
	store    *appcore.Store
	config   Config

	queue  chan AnalysisTaskPayload
	ctx    context.Context
	cancel context.CancelFunc

	workerWg sync.WaitGroup
	closed   atomic.Bool
}

var _ appcore.Submitter = (*Runner)(nil)

// New creates and starts a task runner.
func New(services ServiceSource, store *appcore.Store, cfg Config) *Runner {
	cfg = normalizeConfig(cfg)
	ctx, cancel := context.WithCancel(context.Background())

	runner := &Runner{
		services: services,
		store:    store,
		config:   cfg,
		queue:    make(chan AnalysisTaskPayload, cfg.QueueSize),
		ctx:      ctx,
		cancel:   cancel,
	}

	for i := 0; i < cfg.Concurrency; i++ {
		runner.workerWg.Add(1)
		go runner.worker(i + 1)
	}

	return runner
}

func normalizeConfig(cfg Config) Config {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = defaultQueueSize
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultConcurrency
	}
	return cfg
}

func (r *Runner) Submit(job appcore.Job) error {
	return r.SubmitAnalysisTask(AnalysisTaskPayload{TaskID: job.ID, URL: job.URL})
}

// SubmitAnalysisTask queues a video analysis job.
func (r *Runner) SubmitAnalysisTask(payload AnalysisTaskPayload) error {
	if payload.TaskID == "" {
		return errors.New("analysis task id is required")
	}
	if r.closed.Load() {
		return ErrRunnerStopped
	}

	select {
	case <-r.ctx.Done():
		return ErrRunnerStopped
	case r.queue <- payload:
		log.GetLogger().Info("[TaskRunner] task submitted",
			zap.String("task_id", payload.TaskID),
			zap.String("url", payload.URL))
		return nil
	default:
		return ErrQueueFull
	}
}

func (r *Runner) worker(workerID int) {
	defer r.workerWg.Done()

	for {
		select {
		case <-r.ctx.Done():
			return
		default:
		}

		select {
		case <-r.ctx.Done():
			return
		case task := <-r.queue:
			r.processTask(workerID, task)
		}
	}
}

func (r *Runner) processTask(workerID int, task AnalysisTaskPayload) {
	err := r.runAnalysis(task)
	if err != nil {
		log.GetLogger().Error("[TaskRunner] task failed",
			zap.Int("worker_id", workerID),
			zap.String("task_id", task.TaskID),
			zap.Error(err))
		return
	}

	log.GetLogger().Info("[TaskRunner] task completed",
		zap.Int("worker_id", workerID),
		zap.String("task_id", task.TaskID))
}

func (r *Runner) runAnalysis(task AnalysisTaskPayload) error {
	svc, err := r.services()
	if err != nil {
		_ = r.store.Fail(task.TaskID, apperrors.CodeEngineNotReady, err)
		return err
	}
	return svc.RunJob(r.ctx, r.store, task.TaskID)
}

// Close stops workers and rejects new tasks.
func (r *Runner) Close() {
	if !r.closed.CompareAndSwap(false, true) {
		return
	}

	r.cancel()
	r.workerWg.Wait()
}

// Pending returns the number of queued tasks waiting for workers.
func (r *Runner) Pending() int {
	return len(r.queue)
}
