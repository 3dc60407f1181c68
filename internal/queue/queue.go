// Package queue runs analysis jobs through Asynq when a Redis instance is
// configured.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"video-analyzer/config"
	"video-analyzer/internal/appcore"
	"video-analyzer/log"
)

// Task type names
const (
	TypeAnalysisTask = "analysis:run"
)

// AnalysisPayload identifies the job to analyze.
type AnalysisPayload struct {
	TaskID string `json:"task_id"`
	URL    string `json:"url"`
}

// QueueConfig holds Redis configuration for Asynq
type QueueConfig struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	Concurrency   int
}

// Queue manages task enqueueing and processing
type Queue struct {
	client *asynq.Client
	server *asynq.Server
	config QueueConfig
}

var _ appcore.Submitter = (*Queue)(nil)

func ConfigFromConf(conf config.Queue) QueueConfig {
	cfg := QueueConfig{
		RedisAddr:     conf.RedisAddr,
		RedisPassword: conf.RedisPassword,
		RedisDB:       conf.RedisDB,
		Concurrency:   conf.Concurrency,
	}
	if cfg.RedisAddr == "" {
		cfg.RedisAddr = "localhost:6379"
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 2
	}
	return cfg
}

// NewQueue creates a new Queue instance
func NewQueue(cfg QueueConfig) *Queue {
	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}

	client := asynq.NewClient(redisOpt)

	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: cfg.Concurrency,
			Queues: map[string]int{
				"default": 1,
			},
			RetryDelayFunc: retryDelay,
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				log.GetLogger().Error("Task failed",
					zap.String("type", task.Type()),
					zap.ByteString("payload", task.Payload()),
					zap.Error(err))
			}),
		},
	)

	return &Queue{
		client: client,
		server: server,
		config: cfg,
	}
}

// Exponential backoff: 10s, 20s, 40s, ...
func retryDelay(n int, _ error, _ *asynq.Task) time.Duration {
	return time.Duration(10<<uint(n)) * time.Second
}

func newAnalysisTask(payload AnalysisPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	return asynq.NewTask(TypeAnalysisTask, data,
		asynq.MaxRetry(1),
		asynq.Timeout(30*time.Minute),
		asynq.Queue("default"),
	), nil
}

func (q *Queue) Submit(job appcore.Job) error {
	return q.EnqueueAnalysisTask(AnalysisPayload{TaskID: job.ID, URL: job.URL})
}

// EnqueueAnalysisTask adds a video analysis task to the queue
func (q *Queue) EnqueueAnalysisTask(payload AnalysisPayload) error {
	task, err := newAnalysisTask(payload)
	if err != nil {
		return err
	}

	info, err := q.client.Enqueue(task)
	if err != nil {
		return fmt.Errorf("failed to enqueue task: %w", err)
	}

	log.GetLogger().Info("Task enqueued",
		zap.String("task_id", payload.TaskID),
		zap.String("queue_id", info.ID),
		zap.String("queue", info.Queue))

	return nil
}

// Close gracefully shuts down the queue
func (q *Queue) Close() error {
	if err := q.client.Close(); err != nil {
		return err
	}
	q.server.Shutdown()
	return nil
}
