package utils

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var Log *zap.Logger

// InitLogger builds the global logger. APP_ENV=production switches to the
// JSON production config.
func InitLogger() {
	var err error
	if os.Getenv("APP_ENV") == "production" {
		Log, err = zap.NewProduction()
	} else {
		cfg := zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		Log, err = cfg.Build()
	}
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
}

// SyncLogger flushes buffered log entries. Call on shutdown.
func SyncLogger() {
	if Log != nil {
		_ = Log.Sync()
	}
}
