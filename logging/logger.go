// Package logging builds the zap loggers shared by the service components.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	gormlogger "gorm.io/gorm/logger"
)

// New returns a production JSON logger at the given level ("debug", "info",
// "warn", "error"). An empty level means info.
func New(level string) (*zap.Logger, error) {
	lvl := zapcore.InfoLevel
	if strings.TrimSpace(level) != "" {
		if err := lvl.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
			return nil, fmt.Errorf("parse log level %q: %w", level, err)
		}
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(lvl)
	config.EncoderConfig.TimeKey = "ts"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return config.Build()
}

// Gorm routes gorm's SQL log through zap. Slow queries and errors are
// reported at warn; statement tracing only at debug.
func Gorm(logger *zap.Logger) gormlogger.Interface {
	level := gormlogger.Warn
	if logger.Core().Enabled(zapcore.DebugLevel) {
		level = gormlogger.Info
	}
	writer := zap.NewStdLog(logger.Named("gorm"))
	return gormlogger.New(writer, gormlogger.Config{
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}
