package handler

import (
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"video-analyzer/config"
	"video-analyzer/internal/appcore"
	"video-analyzer/internal/dto"
	"video-analyzer/internal/export"
	"video-analyzer/internal/response"
	"video-analyzer/log"
	apperrors "video-analyzer/pkg/errors"
	"video-analyzer/pkg/util"
)

func (h Handler) SubmitAnalysis(c *gin.Context) {
	var req dto.SubmitAnalysisReq
	if err := c.ShouldBindJSON(&req); err != nil {
		log.GetLogger().Error("SubmitAnalysis ShouldBindJSON err", zap.Error(err))
		response.ErrorResponse(c, apperrors.Wrap(apperrors.CodeInvalidParams, "Invalid parameters", err))
		return
	}
	if util.GetYouTubeID(req.Url) == "" {
		response.ErrorResponse(c, apperrors.New(apperrors.CodeInvalidURL, "Invalid YouTube URL"))
		return
	}

	job := h.Jobs.Create(strings.TrimSpace(req.Url))
	if err := h.Submitter.Submit(job); err != nil {
		h.Jobs.Delete(job.ID)
		log.GetLogger().Error("SubmitAnalysis submit err", zap.String("task_id", job.ID), zap.Error(err))
		response.ErrorResponse(c, apperrors.Wrap(apperrors.CodeQueueFull, "Failed to queue analysis", err))
		return
	}

	log.GetLogger().Info("SubmitAnalysis queued", zap.String("task_id", job.ID), zap.String("url", job.URL))
	response.Success(c, dto.SubmitAnalysisResData{TaskId: job.ID, Status: job.Stage.String()})
}

func (h Handler) GetAnalysis(c *gin.Context) {
	job, ok := h.Jobs.Get(c.Param("taskId"))
	if !ok {
		response.ErrorResponse(c, apperrors.New(apperrors.CodeNotFound, "Task not found"))
		return
	}
	response.Success(c, toTaskRes(job))
}

func (h Handler) ExportAnalysis(c *gin.Context) {
	var req dto.ExportAnalysisReq
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.ErrorResponse(c, apperrors.Wrap(apperrors.CodeInvalidParams, "Invalid parameters", err))
			return
		}
	}

	job, ok := h.Jobs.Get(c.Param("taskId"))
	if !ok {
		response.ErrorResponse(c, apperrors.New(apperrors.CodeNotFound, "Task not found"))
		return
	}
	if job.Stage != appcore.JobStageSucceeded || job.Analysis == nil {
		response.ErrorResponse(c, apperrors.New(apperrors.CodeInvalidParams, "Task has no finished analysis"))
		return
	}

	format := req.Format
	if format == "" {
		format = config.Conf.Export.Format
	}
	root := exportRoot()
	path, err := export.Save(job.Analysis, export.Options{
		Dir:     filepath.Join(root, job.ID),
		Pattern: config.Conf.Export.FilenamePattern,
		Format:  format,
	})
	if err != nil {
		log.GetLogger().Error("ExportAnalysis save err", zap.String("task_id", job.ID), zap.Error(err))
		response.ErrorResponse(c, apperrors.Wrap(apperrors.CodeExportFailed, "Export failed", err))
		return
	}
	_ = h.Jobs.Update(job.ID, func(j *appcore.Job) { j.ExportPath = path })

	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = filepath.Base(path)
	}
	response.Success(c, dto.ExportAnalysisResData{
		Path:        path,
		DownloadUrl: "/api/file/" + exportAlias + "/" + filepath.ToSlash(rel),
	})
}

func (h Handler) GetConfig(c *gin.Context) {
	conf := config.Conf
	response.Success(c, dto.ConfigResData{
		LlmProvider:            conf.Llm.Provider,
		LlmModel:               conf.Llm.Model,
		TranscribeProvider:     conf.Transcribe.Provider,
		EnableWhisper:          conf.App.EnableWhisper,
		MaxTranscriptLength:    conf.App.MaxTranscriptLength,
		SummaryWordCount:       conf.Analysis.SummaryWordCount,
		EnableDynamicWordCount: conf.Analysis.EnableDynamicWordCount,
		NumThemes:              conf.Analysis.NumThemes,
		ParallelStages:         conf.Analysis.ParallelStages,
		FailOnStageError:       conf.Analysis.FailOnStageError,
		ExportFormat:           conf.Export.Format,
		QueueEnabled:           conf.Queue.Enabled,
	})
}

func toTaskRes(job appcore.Job) dto.AnalysisTaskResData {
	res := dto.AnalysisTaskResData{
		TaskId:     job.ID,
		Url:        job.URL,
		Status:     job.Stage.String(),
		Message:    job.Message,
		ErrCode:    job.ErrCode,
		Error:      job.Err,
		Analysis:   job.Analysis,
		ExportPath: job.ExportPath,
		CreatedAt:  job.CreatedAt.Unix(),
		UpdatedAt:  job.UpdatedAt.Unix(),
	}
	if job.Analysis != nil {
		res.WordTarget = job.Analysis.SummaryTarget
	}
	return res
}
