package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"video-analyzer/log"
)

const reloadDebounce = 300 * time.Millisecond

// Watch reloads Conf whenever the config file is written and calls onChange
// after a successful reload. The parent directory is watched because editors
// often replace the file instead of writing it in place.
func Watch(ctx context.Context, onChange func()) error {
	configPath, err := resolveConfigPath()
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err = watcher.Add(filepath.Dir(configPath)); err != nil {
		watcher.Close()
		return fmt.Errorf("add watch path: %w", err)
	}

	go func() {
		defer watcher.Close()
		var pending <-chan time.Time

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != filepath.Clean(configPath) {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
					pending = time.After(reloadDebounce)
				}
			case <-pending:
				pending = nil
				if !reload() {
					continue
				}
				log.GetLogger().Info("config reloaded", zap.String("path", configPath))
				if onChange != nil {
					onChange()
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.GetLogger().Warn("config watcher error", zap.Error(err))
			}
		}
	}()
	return nil
}

func reload() bool {
	previous := Conf
	if _, err := LoadOrCreateConfig(); err != nil {
		log.GetLogger().Warn("config reload failed, keeping previous config", zap.Error(err))
		Conf = previous
		return false
	}
	ApplyEnvOverrides(getenv)
	if err := CheckConfig(); err != nil {
		log.GetLogger().Warn("reloaded config is invalid, keeping previous config", zap.Error(err))
		Conf = previous
		return false
	}
	log.SetDebug(Conf.App.Debug)
	return true
}
