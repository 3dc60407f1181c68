package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"video-analyzer/internal/handler"
)

func SetupRouter(r *gin.Engine, hdl handler.Handler) {
	api := r.Group("/api")
	{
		api.POST("/analysis", hdl.SubmitAnalysis)
		api.GET("/analysis/:taskId", hdl.GetAnalysis)
		api.POST("/analysis/:taskId/export", hdl.ExportAnalysis)
		api.GET("/file/*filepath", hdl.DownloadFile)
		api.HEAD("/file/*filepath", hdl.DownloadFile)
		api.DELETE("/cache/:videoId", hdl.EvictTranscript)
		api.GET("/config", hdl.GetConfig)
		// yt-dlp cookie jar
		api.GET("/cookie/status", hdl.GetCookieStatus)
		api.POST("/cookie/upload", hdl.UploadCookie)
		api.POST("/cookie/validate", hdl.ValidateCookie)
	}

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
