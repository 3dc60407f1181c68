package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"video-analyzer/config"
	"video-analyzer/internal/analyzer"
	"video-analyzer/internal/appcore"
	"video-analyzer/internal/mocks"
	"video-analyzer/internal/service"
	"video-analyzer/internal/types"
)

func TestConfigFromConfDefaults(t *testing.T) {
	cfg := ConfigFromConf(config.Queue{})
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 2, cfg.Concurrency)

	cfg = ConfigFromConf(config.Queue{RedisAddr: "redis:6380", RedisDB: 3, Concurrency: 5})
	assert.Equal(t, QueueConfig{RedisAddr: "redis:6380", RedisDB: 3, Concurrency: 5}, cfg)
}

func TestNewAnalysisTask(t *testing.T) {
	task, err := newAnalysisTask(AnalysisPayload{TaskID: "t1", URL: "https://youtu.be/x"})
	require.NoError(t, err)
	assert.Equal(t, TypeAnalysisTask, task.Type())

	var payload AnalysisPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	assert.Equal(t, "t1", payload.TaskID)
}

func TestRetryDelay(t *testing.T) {
	assert.Equal(t, 10*time.Second, retryDelay(0, nil, nil))
	assert.Equal(t, 40*time.Second, retryDelay(2, nil, nil))
}

func TestHandleAnalysisTaskFailureSkipsRetry(t *testing.T) {
	captions := &mocks.MockCaptionFetcher{}
	captions.On("FetchCaptions", mock.Anything, mock.Anything).Return(nil, errors.New("no captions"))
	meta := &mocks.MockMetadataFetcher{}
	meta.On("FetchMetadata", mock.Anything, mock.Anything).Return(types.VideoMetadata{}, nil)
	svc := service.New(service.Deps{
		Engine:          &mocks.MockChatCompleter{},
		Captions:        captions,
		Metadata:        meta,
		AnalyzerOptions: analyzer.DefaultOptions(),
	})

	store := appcore.NewStore()
	job := store.Create("https://youtu.be/abc")
	handlers := NewTaskHandlers(func() (*service.Service, error) { return svc, nil }, store)

	task, err := newAnalysisTask(AnalysisPayload{TaskID: job.ID, URL: job.URL})
	require.NoError(t, err)

	err = handlers.HandleAnalysisTask(context.Background(), task)
	require.Error(t, err)
	assert.ErrorIs(t, err, asynq.SkipRetry)

	got, _ := store.Get(job.ID)
	assert.Equal(t, appcore.JobStageFailed, got.Stage)
}

func TestHandleAnalysisTaskBadPayload(t *testing.T) {
	handlers := NewTaskHandlers(nil, appcore.NewStore())
	err := handlers.HandleAnalysisTask(context.Background(), asynq.NewTask(TypeAnalysisTask, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}
