// Package mocks provides mock implementations of core interfaces for testing.
package mocks

import (
	"context"

	"video-analyzer/internal/types"

	"github.com/stretchr/testify/mock"
)

// MockChatCompleter is a mock implementation of types.ChatCompleter
type MockChatCompleter struct {
	mock.Mock
}

func (m *MockChatCompleter) ChatCompletion(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	args := m.Called(ctx, systemPrompt, userPrompt)
	return args.String(0), args.Error(1)
}

// MockCaptionFetcher is a mock implementation of types.CaptionFetcher
type MockCaptionFetcher struct {
	mock.Mock
}

func (m *MockCaptionFetcher) FetchCaptions(ctx context.Context, videoId string) ([]types.TranscriptEntry, error) {
	args := m.Called(ctx, videoId)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.TranscriptEntry), args.Error(1)
}

// MockTranscriber is a mock implementation of types.Transcriber
type MockTranscriber struct {
	mock.Mock
}

func (m *MockTranscriber) TranscribeVideo(ctx context.Context, videoId string) ([]types.TranscriptEntry, error) {
	args := m.Called(ctx, videoId)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.TranscriptEntry), args.Error(1)
}

// MockMetadataFetcher is a mock implementation of types.MetadataFetcher
type MockMetadataFetcher struct {
	mock.Mock
}

func (m *MockMetadataFetcher) FetchMetadata(ctx context.Context, videoId string) (types.VideoMetadata, error) {
	args := m.Called(ctx, videoId)
	return args.Get(0).(types.VideoMetadata), args.Error(1)
}
