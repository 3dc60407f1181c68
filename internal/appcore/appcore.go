package appcore

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"video-analyzer/internal/types"
)

var ErrJobNotFound = errors.New("job not found")

type JobStage uint8

const (
	JobStageQueued JobStage = iota + 1
	JobStagePreparing
	JobStageProcessing
	JobStageFinalizing
	JobStageSucceeded
	JobStageFailed
	JobStageCanceled
)

func (s JobStage) String() string {
	switch s {
	case JobStageQueued:
		return "queued"
	case JobStagePreparing:
		return "preparing"
	case JobStageProcessing:
		return "processing"
	case JobStageFinalizing:
		return "finalizing"
	case JobStageSucceeded:
		return "succeeded"
	case JobStageFailed:
		return "failed"
	case JobStageCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

func (s JobStage) IsTerminal() bool {
	return s == JobStageSucceeded || s == JobStageFailed || s == JobStageCanceled
}

// Job is one submitted video analysis. Analysis is set only once the job
// has succeeded; a failed job never carries a partial record.
type Job struct {
	ID         string
	URL        string
	Stage      JobStage
	Message    string
	Analysis   *types.VideoAnalysis
	ErrCode    int
	Err        string
	ExportPath string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Submitter hands a queued job to a background executor.
type Submitter interface {
	Submit(job Job) error
}

// Store keeps jobs in memory for the lifetime of the process.
type Store struct {
	mu   sync.RWMutex
	jobs map[string]*Job
	now  func() time.Time
}

func NewStore() *Store {
	return &Store{jobs: make(map[string]*Job), now: time.Now}
}

// Create registers a queued job for url and returns a copy of it.
func (s *Store) Create(url string) Job {
	now := s.now()
	job := &Job{
		ID:        uuid.NewString(),
		URL:       url,
		Stage:     JobStageQueued,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	s.jobs[job.ID] = job
	s.mu.Unlock()
	return *job
}

func (s *Store) Get(id string) (Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	if !ok {
		return Job{}, false
	}
	return *job, true
}

// Update applies fn to the stored job under the store lock.
func (s *Store) Update(id string, fn func(job *Job)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return ErrJobNotFound
	}
	fn(job)
	job.UpdatedAt = s.now()
	return nil
}

func (s *Store) SetStage(id string, stage JobStage, message string) error {
	return s.Update(id, func(job *Job) {
		job.Stage = stage
		job.Message = message
	})
}

func (s *Store) Succeed(id string, analysis *types.VideoAnalysis) error {
	return s.Update(id, func(job *Job) {
		job.Stage = JobStageSucceeded
		job.Message = "analysis complete"
		job.Analysis = analysis
	})
}

func (s *Store) Fail(id string, code int, err error) error {
	return s.Update(id, func(job *Job) {
		job.Stage = JobStageFailed
		job.Message = "analysis failed"
		job.Analysis = nil
		job.ErrCode = code
		job.Err = err.Error()
	})
}

func (s *Store) Delete(id string) {
	s.mu.Lock()
	delete(s.jobs, id)
	s.mu.Unlock()
}
