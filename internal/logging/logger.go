// Package logging builds the zap logger used across tsnorm.
//
// Logs always go to stderr by default: stdout may be carrying the converted
// CSV stream.
package logging

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds logging configuration.
type Config struct {
	Level      string
	Format     string // "console" or "json"
	OutputPath string
}

// New builds a logger. Unknown or empty levels fall back to info.
func New(cfg Config) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()

	level, err := zap.ParseAtomicLevel(strings.ToLower(strings.TrimSpace(cfg.Level)))
	if err != nil || strings.TrimSpace(cfg.Level) == "" {
		level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	zcfg.Level = level

	if strings.EqualFold(cfg.Format, "json") {
		zcfg.Encoding = "json"
	} else {
		zcfg.Encoding = "console"
		zcfg.EncoderConfig = zap.NewDevelopmentEncoderConfig()
		zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	out := "stderr"
	if p := strings.TrimSpace(cfg.OutputPath); p != "" {
		out = p
	}
	zcfg.OutputPaths = []string{out}
	zcfg.ErrorOutputPaths = []string{"stderr"}

	// Every dropped row gets its own warning.
	zcfg.Sampling = nil
	zcfg.DisableStacktrace = true
	zcfg.DisableCaller = true

	return zcfg.Build()
}

// NewDefault returns an info-level console logger, or a no-op logger if
// stderr cannot be opened.
func NewDefault() *zap.Logger {
	logger, err := New(Config{Level: "info", Format: "console"})
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
