package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"video-analyzer/internal/types"
)

// TranscriptStore caches acquired transcripts by video id. Analyses
// themselves are never stored.
type TranscriptStore struct {
	db *gorm.DB
}

func NewTranscriptStore(db *gorm.DB) *TranscriptStore {
	return &TranscriptStore{db: db}
}

func (s *TranscriptStore) SaveTranscript(videoId string, source types.TranscriptSource, entries []types.TranscriptEntry) error {
	if s == nil || s.db == nil {
		return errors.New("database not initialized")
	}
	payload, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode transcript: %w", err)
	}

	record := types.TranscriptCache{
		VideoId:    videoId,
		Source:     string(source),
		Entries:    string(payload),
		EntryCount: len(entries),
	}

	var existing types.TranscriptCache
	result := s.db.Where("video_id = ?", videoId).First(&existing)
	if result.Error == nil {
		record.Id = existing.Id
		record.CreateTime = existing.CreateTime
		return s.db.Save(&record).Error
	} else if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return s.db.Create(&record).Error
	}
	return result.Error
}

// GetTranscript returns the cached entries and their original source.
// found is false when the video has not been cached.
func (s *TranscriptStore) GetTranscript(videoId string) (entries []types.TranscriptEntry, source types.TranscriptSource, found bool, err error) {
	if s == nil || s.db == nil {
		return nil, "", false, errors.New("database not initialized")
	}

	var record types.TranscriptCache
	result := s.db.Where("video_id = ?", videoId).First(&record)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, "", false, nil
	}
	if result.Error != nil {
		return nil, "", false, result.Error
	}

	if err = json.Unmarshal([]byte(record.Entries), &entries); err != nil {
		return nil, "", false, fmt.Errorf("decode cached transcript: %w", err)
	}
	return entries, types.TranscriptSource(record.Source), true, nil
}

// DeleteTranscript evicts a cached transcript. deleted is false when
// nothing was cached for videoId.
func (s *TranscriptStore) DeleteTranscript(videoId string) (deleted bool, err error) {
	if s == nil || s.db == nil {
		return false, errors.New("database not initialized")
	}
	result := s.db.Where("video_id = ?", videoId).Delete(&types.TranscriptCache{})
	return result.RowsAffected > 0, result.Error
}
