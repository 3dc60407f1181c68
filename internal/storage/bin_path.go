package storage

// External binaries. Empty or bare names are looked up on PATH; the deps
// resolver and the config layer may replace them with absolute paths.
var (
	YtdlpPath      = "yt-dlp"
	FfmpegPath     = "ffmpeg"
	WhispercppPath = "whisper-cli"
)
