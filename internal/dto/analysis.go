package dto

import "video-analyzer/internal/types"

type SubmitAnalysisReq struct {
	Url string `json:"url" binding:"required"`
}

type SubmitAnalysisResData struct {
	TaskId string `json:"task_id"`
	Status string `json:"status"`
}

type AnalysisTaskResData struct {
	TaskId     string               `json:"task_id"`
	Url        string               `json:"url"`
	Status     string               `json:"status"`
	Message    string               `json:"message"`
	ErrCode    int                  `json:"err_code,omitempty"`
	Error      string               `json:"error,omitempty"`
	Analysis   *types.VideoAnalysis `json:"analysis,omitempty"`
	WordTarget string               `json:"word_target,omitempty"`
	ExportPath string               `json:"export_path,omitempty"`
	CreatedAt  int64                `json:"created_at"`
	UpdatedAt  int64                `json:"updated_at"`
}

type ExportAnalysisReq struct {
	Format string `json:"format"`
}

type ExportAnalysisResData struct {
	Path        string `json:"path"`
	DownloadUrl string `json:"download_url"`
}

// ConfigResData is the non-secret part of the running configuration.
type ConfigResData struct {
	LlmProvider            string `json:"llm_provider"`
	LlmModel               string `json:"llm_model"`
	TranscribeProvider     string `json:"transcribe_provider"`
	EnableWhisper          bool   `json:"enable_whisper"`
	MaxTranscriptLength    int    `json:"max_transcript_length"`
	SummaryWordCount       string `json:"summary_word_count"`
	EnableDynamicWordCount bool   `json:"enable_dynamic_word_count"`
	NumThemes              string `json:"num_themes"`
	ParallelStages         bool   `json:"parallel_stages"`
	FailOnStageError       bool   `json:"fail_on_stage_error"`
	ExportFormat           string `json:"export_format"`
	QueueEnabled           bool   `json:"queue_enabled"`
}

type CookieStatusResData struct {
	Exists           bool   `json:"exists"`
	Path             string `json:"path"`
	LastModified     string `json:"last_modified,omitempty"`
	CookieCount      int    `json:"cookie_count"`
	EarliestExpiry   string `json:"earliest_expiry,omitempty"`
	EarliestExpiryTs int64  `json:"earliest_expiry_ts,omitempty"`
	DaysUntilExpiry  int    `json:"days_until_expiry"`
	Status           string `json:"status"` // valid, expiring_soon, expired, not_found
	StatusMsg        string `json:"status_msg"`
}

type EvictTranscriptResData struct {
	VideoId string `json:"video_id"`
	Deleted bool   `json:"deleted"`
}
