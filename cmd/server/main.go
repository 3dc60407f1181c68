package main

import (
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"video-analyzer/config"
	"video-analyzer/internal/deps"
	"video-analyzer/internal/server"
	"video-analyzer/internal/storage"
	"video-analyzer/log"
)

func main() {
	_ = godotenv.Load()
	log.InitLogger()
	defer log.GetLogger().Sync()

	var err error
	if !config.LoadConfig() {
		return
	}

	if err = config.CheckConfig(); err != nil {
		log.GetLogger().Error("invalid configuration", zap.Error(err))
		return
	}

	// transcript cache
	storage.InitDB()

	if err = deps.CheckDependency(); err != nil {
		log.GetLogger().Error("dependency check failed", zap.Error(err))
		return
	}
	if err = server.StartBackend(); err != nil {
		log.GetLogger().Error("backend exited", zap.Error(err))
		os.Exit(1)
	}
}
