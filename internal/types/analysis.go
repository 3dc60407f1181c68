package types

// VideoMetadata is what the video host reports about a video. Duration is a
// display string such as "12 minutes" or "Unknown".
type VideoMetadata struct {
	VideoId  string `json:"video_id"`
	Title    string `json:"title"`
	Duration string `json:"duration"`
	Author   string `json:"author"`
	Views    string `json:"views"`
}

const UnknownDuration = "Unknown"

type TimestampSample struct {
	Timestamp   string `json:"timestamp"`
	Description string `json:"description"`
}

type ContentBreakdown struct {
	Introduction string `json:"introduction"`
	MainContent  string `json:"main_content"`
	Conclusion   string `json:"conclusion"`
}

// VideoAnalysis is the final report. It is built once and not modified.
type VideoAnalysis struct {
	Title            string            `json:"title"`
	Duration         string            `json:"duration"`
	Summary          string            `json:"summary"`
	KeyTimestamps    []TimestampSample `json:"key_timestamps"`
	Themes           []string          `json:"themes"`
	ContentBreakdown ContentBreakdown  `json:"content_breakdown"`

	// SummaryTarget is the "min-max" word range the summary was generated
	// for. It is not part of the exported document.
	SummaryTarget string `json:"-"`
}
