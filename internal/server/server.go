package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"video-analyzer/config"
	"video-analyzer/internal/appcore"
	"video-analyzer/internal/handler"
	"video-analyzer/internal/queue"
	"video-analyzer/internal/router"
	"video-analyzer/internal/service"
	"video-analyzer/internal/storage"
	"video-analyzer/internal/taskrunner"
	"video-analyzer/log"
)

const shutdownTimeout = 10 * time.Second

// Backend is the assembled HTTP API with its job executor.
type Backend struct {
	Engine   *gin.Engine
	Services *handler.ServiceHolder
	Jobs     *appcore.Store

	submitter appcore.Submitter
	closers   []func()
}

// NewBackend wires the job store, executor and routes. build creates the
// service and is called again after each config reload.
func NewBackend(build func() (*service.Service, error)) *Backend {
	if !config.Conf.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	b := &Backend{
		Services: handler.NewServiceHolder(build),
		Jobs:     appcore.NewStore(),
	}

	if config.Conf.Queue.Enabled {
		q := queue.NewQueue(queue.ConfigFromConf(config.Conf.Queue))
		handlers := queue.NewTaskHandlers(b.Services.Get, b.Jobs)
		go func() {
			if err := queue.StartWorker(q, handlers); err != nil {
				log.GetLogger().Error("queue worker stopped", zap.Error(err))
			}
		}()
		b.submitter = q
		b.closers = append(b.closers, func() { _ = q.Close() })
		log.GetLogger().Info("jobs run on the redis queue", zap.String("redis_addr", config.Conf.Queue.RedisAddr))
	} else {
		runner := taskrunner.New(b.Services.Get, b.Jobs, taskrunner.Config{Concurrency: config.Conf.Queue.Concurrency})
		b.submitter = runner
		b.closers = append(b.closers, runner.Close)
	}

	b.Engine = gin.New()
	b.Engine.Use(gin.Recovery())
	hdl := handler.NewHandler(b.Jobs, b.submitter)
	if storage.DB != nil {
		hdl.Transcripts = storage.NewTranscriptStore(storage.DB)
	}
	router.SetupRouter(b.Engine, hdl)
	return b
}

func (b *Backend) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
}

// StartBackend serves the API until SIGINT or SIGTERM.
func StartBackend() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backend := NewBackend(service.NewService)
	defer backend.Close()

	if err := config.Watch(ctx, backend.Services.MarkStale); err != nil {
		log.GetLogger().Warn("config hot reload disabled", zap.Error(err))
	}

	addr := fmt.Sprintf("%s:%d", config.Conf.Server.Host, config.Conf.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           backend.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.GetLogger().Info("backend listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.GetLogger().Info("shutting down backend")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
