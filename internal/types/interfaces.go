package types

import "context"

// ChatCompleter is the generative engine: one blocking prompt in, raw text out.
type ChatCompleter interface {
	ChatCompletion(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

type CaptionFetcher interface {
	FetchCaptions(ctx context.Context, videoId string) ([]TranscriptEntry, error)
}

// Transcriber produces a transcript from the video's audio when captions are
// unavailable.
type Transcriber interface {
	TranscribeVideo(ctx context.Context, videoId string) ([]TranscriptEntry, error)
}

type MetadataFetcher interface {
	FetchMetadata(ctx context.Context, videoId string) (VideoMetadata, error)
}
