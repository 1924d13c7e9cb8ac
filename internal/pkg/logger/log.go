package logger

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu    sync.Mutex
	level = zap.NewAtomicLevelAt(zap.InfoLevel)
	root  *zap.Logger
)

// GetLogger returns the shared process logger, building it on first use.
// Packages are expected to grab it once into a package-level variable.
func GetLogger() *zap.Logger {
	mu.Lock()
	defer mu.Unlock()
	if root == nil {
		cfg := zap.NewProductionEncoderConfig()
		cfg.EncodeTime = zapcore.RFC3339TimeEncoder
		cfg.EncodeLevel = zapcore.CapitalLevelEncoder
		core := zapcore.NewCore(
			zapcore.NewConsoleEncoder(cfg),
			zapcore.Lock(os.Stderr),
			level,
		)
		root = zap.New(core)
	}
	return root
}

// SetLevel adjusts verbosity for all loggers handed out by GetLogger.
func SetLevel(l zapcore.Level) {
	level.SetLevel(l)
}
