package log

import (
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"video-analyzer/internal/appdirs"
)

var Logger *zap.Logger

const logFileName = "app.log"

var appDirsResolver = appdirs.Resolve

// consoleLevel is shared with the console core so debug mode can be toggled
// after the config is loaded.
var consoleLevel = zap.NewAtomicLevelAt(zap.InfoLevel)

func InitLogger() {
	logDir, err := ResolveLogDir()
	if err != nil {
		panic("cannot resolve log dir: " + err.Error())
	}

	if err = os.MkdirAll(logDir, 0o755); err != nil {
		panic("cannot create log dir: " + err.Error())
	}

	logFilePath := filepath.Join(logDir, logFileName)
	file, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
	if err != nil {
		panic("cannot open log file: " + err.Error())
	}

	fileSyncer := zapcore.AddSync(file)
	consoleSyncer := zapcore.AddSync(os.Stderr)

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), fileSyncer, zap.DebugLevel),
		zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), consoleSyncer, consoleLevel),
	)

	Logger = zap.New(core, zap.AddCaller())
}

// SetDebug raises console verbosity to debug, mirroring the file core.
func SetDebug(enabled bool) {
	if enabled {
		consoleLevel.SetLevel(zap.DebugLevel)
		return
	}
	consoleLevel.SetLevel(zap.InfoLevel)
}

// SetQuiet limits the console to warnings, used by the interactive CLI so
// log lines do not interleave with the printed report.
func SetQuiet() {
	consoleLevel.SetLevel(zap.WarnLevel)
}

func ResolveLogDir() (string, error) {
	dirs, err := appDirsResolver()
	if err != nil {
		return "", err
	}

	logDir := strings.TrimSpace(dirs.LogDir)
	if logDir == "" {
		return ".", nil
	}

	return logDir, nil
}

func ResolveLogFilePath() (string, error) {
	logDir, err := ResolveLogDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(logDir, logFileName), nil
}

// GetLogger returns the process logger. Packages used from tests without an
// InitLogger call get a no-op logger.
func GetLogger() *zap.Logger {
	if Logger == nil {
		return zap.NewNop()
	}
	return Logger
}
