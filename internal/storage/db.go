package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"video-analyzer/internal/appdirs"
	"video-analyzer/internal/types"
	"video-analyzer/log"
)

var DB *gorm.DB
var appDirsResolver = appdirs.Resolve

// InitDB opens the transcript cache in the resolved cache dir. It is fatal
// on failure; callers that can run without a cache use OpenDB directly.
func InitDB() {
	dbPath, err := resolveDBPath()
	if err != nil {
		log.GetLogger().Fatal("failed to resolve database path", zap.Error(err))
	}

	DB, err = OpenDB(dbPath)
	if err != nil {
		log.GetLogger().Fatal("failed to open database", zap.String("path", dbPath), zap.Error(err))
	}

	log.GetLogger().Info("Database initialized successfully", zap.String("path", dbPath))
}

// OpenDB opens (creating if needed) a sqlite database at path and migrates
// the schema.
func OpenDB(path string) (*gorm.DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create database directory %s: %w", dir, err)
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if err = db.AutoMigrate(&types.TranscriptCache{}); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return db, nil
}

func resolveDBPath() (string, error) {
	layout, err := appDirsResolver()
	if err != nil {
		return "", err
	}
	return layout.DBPath, nil
}
