package handler

import (
	"regexp"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"video-analyzer/internal/dto"
	"video-analyzer/internal/response"
	"video-analyzer/log"
	apperrors "video-analyzer/pkg/errors"
)

var videoIdPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// EvictTranscript drops the cached transcript for a video, for example after
// the uploader fixed its captions.
func (h Handler) EvictTranscript(c *gin.Context) {
	videoId := c.Param("videoId")
	if !videoIdPattern.MatchString(videoId) {
		response.ErrorResponse(c, apperrors.New(apperrors.CodeInvalidParams, "Invalid video id"))
		return
	}
	if h.Transcripts == nil {
		response.ErrorResponse(c, apperrors.New(apperrors.CodeDBError, "Transcript cache is disabled"))
		return
	}

	deleted, err := h.Transcripts.DeleteTranscript(videoId)
	if err != nil {
		log.GetLogger().Error("EvictTranscript delete err", zap.String("video_id", videoId), zap.Error(err))
		response.ErrorResponse(c, apperrors.Wrap(apperrors.CodeDBError, "Failed to evict transcript", err))
		return
	}
	if !deleted {
		response.ErrorResponse(c, apperrors.New(apperrors.CodeNotFound, "Transcript not cached"))
		return
	}

	log.GetLogger().Info("EvictTranscript evicted", zap.String("video_id", videoId))
	response.Success(c, dto.EvictTranscriptResData{VideoId: videoId, Deleted: true})
}
