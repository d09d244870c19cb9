// Package logger builds the zap core behind the process-wide slog logger.
package logger

import (
	"log/slog"

	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
	"go.uber.org/zap/zapcore"
)

func New(env string) (*zap.Logger, error) {
	var config zap.Config

	if env == "production" {
		config = zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	} else {
		config = zap.NewDevelopmentConfig()
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder

	return config.Build()
}

// NewSlog returns a slog.Logger writing through core.
func NewSlog(core zapcore.Core) *slog.Logger {
	return slog.New(zapslog.NewHandler(core, zapslog.WithCaller(true)))
}

// Setup installs a zap-backed slog default for env. Call Sync on the
// returned logger before exiting.
func Setup(env string) (*zap.Logger, error) {
	zl, err := New(env)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(NewSlog(zl.Core()))
	return zl, nil
}
