package taskrunner

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"video-analyzer/internal/analyzer"
	"video-analyzer/internal/appcore"
	"video-analyzer/internal/mocks"
	"video-analyzer/internal/service"
	"video-analyzer/internal/types"
	apperrors "video-analyzer/pkg/errors"
)

func entries(n int) []types.TranscriptEntry {
	out := make([]types.TranscriptEntry, n)
	for i := range out {
		out[i] = types.TranscriptEntry{Text: fmt.Sprintf("Sentence number %d about the subject.", i), Start: float64(i * 5), Duration: 5}
	}
	return out
}

func testService(captionErr error) *service.Service {
	engine := &mocks.MockChatCompleter{}
	engine.On("ChatCompletion", mock.Anything, mock.Anything, mock.Anything).Return("Go basics, Tooling, Testing", nil)
	captions := &mocks.MockCaptionFetcher{}
	if captionErr != nil {
		captions.On("FetchCaptions", mock.Anything, mock.Anything).Return(nil, captionErr)
	} else {
		captions.On("FetchCaptions", mock.Anything, mock.Anything).Return(entries(20), nil)
	}
	meta := &mocks.MockMetadataFetcher{}
	meta.On("FetchMetadata", mock.Anything, mock.Anything).Return(types.VideoMetadata{Title: "Video"}, nil)

	return service.New(service.Deps{
		Engine:           engine,
		Captions:         captions,
		Metadata:         meta,
		AnalyzerOptions:  analyzer.DefaultOptions(),
		FailOnStageError: true,
	})
}

func waitTerminal(t *testing.T, store *appcore.Store, id string) appcore.Job {
	t.Helper()
	var job appcore.Job
	require.Eventually(t, func() bool {
		job, _ = store.Get(id)
		return job.Stage.IsTerminal()
	}, 5*time.Second, 10*time.Millisecond)
	return job
}

func TestRunnerCompletesJob(t *testing.T) {
	store := appcore.NewStore()
	svc := testService(nil)
	runner := New(func() (*service.Service, error) { return svc, nil }, store, Config{Concurrency: 1})
	defer runner.Close()

	job := store.Create("https://www.youtube.com/watch?v=abc123")
	require.NoError(t, runner.Submit(job))

	done := waitTerminal(t, store, job.ID)
	assert.Equal(t, appcore.JobStageSucceeded, done.Stage)
	require.NotNil(t, done.Analysis)
	assert.Equal(t, "Video", done.Analysis.Title)
}

func TestRunnerRecordsFailure(t *testing.T) {
	store := appcore.NewStore()
	svc := testService(errors.New("no captions"))
	runner := New(func() (*service.Service, error) { return svc, nil }, store, Config{Concurrency: 1})
	defer runner.Close()

	job := store.Create("https://youtu.be/abc123")
	require.NoError(t, runner.Submit(job))

	done := waitTerminal(t, store, job.ID)
	assert.Equal(t, appcore.JobStageFailed, done.Stage)
	assert.Equal(t, apperrors.CodeCaptionsUnavailable, done.ErrCode)
	assert.Contains(t, done.Err, "Whisper is not available")
	assert.Nil(t, done.Analysis)
}

func TestRunnerServiceUnavailable(t *testing.T) {
	store := appcore.NewStore()
	runner := New(func() (*service.Service, error) { return nil, errors.New("bad config") }, store, Config{Concurrency: 1})
	defer runner.Close()

	job := store.Create("https://youtu.be/abc123")
	require.NoError(t, runner.Submit(job))

	done := waitTerminal(t, store, job.ID)
	assert.Equal(t, appcore.JobStageFailed, done.Stage)
	assert.Equal(t, "bad config", done.Err)
}

func TestSubmitAfterClose(t *testing.T) {
	store := appcore.NewStore()
	runner := New(nil, store, Config{})
	runner.Close()

	err := runner.SubmitAnalysisTask(AnalysisTaskPayload{TaskID: "x"})
	assert.ErrorIs(t, err, ErrRunnerStopped)
}

func TestSubmitRequiresTaskID(t *testing.T) {
	runner := New(nil, appcore.NewStore(), Config{})
	defer runner.Close()

	assert.Error(t, runner.SubmitAnalysisTask(AnalysisTaskPayload{URL: "u"}))
}

func TestNormalizeConfig(t *testing.T) {
	assert.Equal(t, DefaultConfig(), normalizeConfig(Config{}))
	assert.Equal(t, Config{QueueSize: 4, Concurrency: 1}, normalizeConfig(Config{QueueSize: 4, Concurrency: 1}))
}
