package handler

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"video-analyzer/internal/appcore"
	"video-analyzer/internal/service"
	"video-analyzer/log"
)

// ServiceHolder builds the service lazily and rebuilds it on the next use
// after the config changed.
type ServiceHolder struct {
	build func() (*service.Service, error)

	mu    sync.Mutex
	svc   *service.Service
	stale atomic.Bool
}

func NewServiceHolder(build func() (*service.Service, error)) *ServiceHolder {
	h := &ServiceHolder{build: build}
	h.stale.Store(true)
	return h
}

// MarkStale is the config watcher callback.
func (h *ServiceHolder) MarkStale() {
	h.stale.Store(true)
}

func (h *ServiceHolder) Get() (*service.Service, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.svc != nil && !h.stale.Load() {
		return h.svc, nil
	}

	if h.svc != nil {
		log.GetLogger().Info("config changed, rebuilding service")
	}
	svc, err := h.build()
	if err != nil {
		log.GetLogger().Error("failed to build service", zap.Error(err))
		return nil, err
	}
	h.svc = svc
	h.stale.Store(false)
	return svc, nil
}

// TranscriptEvicter drops a cached transcript so the next analysis of the
// video fetches it again.
type TranscriptEvicter interface {
	DeleteTranscript(videoId string) (bool, error)
}

type Handler struct {
	Jobs      *appcore.Store
	Submitter appcore.Submitter
	// Transcripts is nil when the server runs without a cache database.
	Transcripts TranscriptEvicter
}

func NewHandler(jobs *appcore.Store, submitter appcore.Submitter) Handler {
	return Handler{Jobs: jobs, Submitter: submitter}
}
