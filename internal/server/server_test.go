package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"video-analyzer/config"
	"video-analyzer/internal/appcore"
	"video-analyzer/internal/dto"
	"video-analyzer/internal/service"
	apperrors "video-analyzer/pkg/errors"
)

func newTestBackend(t *testing.T, build func() (*service.Service, error)) *Backend {
	t.Helper()
	gin.SetMode(gin.TestMode)
	prev := config.Conf
	t.Cleanup(func() { config.Conf = prev })
	config.Conf.Queue.Enabled = false

	b := NewBackend(build)
	t.Cleanup(b.Close)
	return b
}

func TestBackendServesConfigAndMetrics(t *testing.T) {
	b := newTestBackend(t, func() (*service.Service, error) { return nil, errors.New("unused") })

	for _, path := range []string{"/api/config", "/metrics"} {
		w := httptest.NewRecorder()
		b.Engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestBackendFailsJobWhenServiceCannotBuild(t *testing.T) {
	b := newTestBackend(t, func() (*service.Service, error) { return nil, errors.New("no engine") })

	w := httptest.NewRecorder()
	body := strings.NewReader(`{"url":"https://www.youtube.com/watch?v=dQw4w9WgXcQ"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/analysis", body)
	req.Header.Set("Content-Type", "application/json")
	b.Engine.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Error int32                     `json:"error"`
		Data  dto.SubmitAnalysisResData `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Zero(t, resp.Error)
	require.NotEmpty(t, resp.Data.TaskId)

	require.Eventually(t, func() bool {
		job, ok := b.Jobs.Get(resp.Data.TaskId)
		return ok && job.Stage.IsTerminal()
	}, 2*time.Second, 10*time.Millisecond)

	job, _ := b.Jobs.Get(resp.Data.TaskId)
	assert.Equal(t, appcore.JobStageFailed, job.Stage)
	assert.Equal(t, apperrors.CodeEngineNotReady, job.ErrCode)
}
