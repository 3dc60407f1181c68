package types

// TranscriptEntry is one timed caption or speech segment. Start and Duration
// are in seconds.
type TranscriptEntry struct {
	Text     string  `json:"text"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
}

// TranscriptSource records where a transcript came from.
type TranscriptSource string

const (
	TranscriptSourceCaptions TranscriptSource = "captions"
	TranscriptSourceWhisper  TranscriptSource = "whisper"
	TranscriptSourceCache    TranscriptSource = "cache"
)

// TranscriptCache persists an acquired transcript per video so repeated
// analyses of the same video skip caption download and transcription.
type TranscriptCache struct {
	Id         uint64 `gorm:"primaryKey;autoIncrement"`
	VideoId    string `gorm:"uniqueIndex;size:32"`
	Source     string
	Entries    string `gorm:"type:text"`
	EntryCount int
	CreateTime int64 `gorm:"autoCreateTime"`
	UpdateTime int64 `gorm:"autoUpdateTime"`
}
