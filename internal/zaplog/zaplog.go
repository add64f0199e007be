// Package zaplog adapts a zap logger to the core service's Logger interface.
package zaplog

import (
	"go.uber.org/zap"

	"liminalcore/internal/core"
)

// Logger wraps a zap.SugaredLogger so it satisfies core.Logger.
type Logger struct {
	sugar *zap.SugaredLogger
}

// New builds a Logger from the given zap logger.
func New(base *zap.Logger) *Logger {
	return &Logger{sugar: base.Sugar()}
}

// NewDevelopment builds a Logger backed by zap's development config.
// Verbose enables debug-level output.
func NewDevelopment(verbose bool) (*Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	base, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return New(base), nil
}

var _ core.Logger = (*Logger)(nil)

func (l *Logger) Debug(msg string, args ...any) { l.sugar.Debugw(msg, args...) }
func (l *Logger) Info(msg string, args ...any)  { l.sugar.Infow(msg, args...) }
func (l *Logger) Warn(msg string, args ...any)  { l.sugar.Warnw(msg, args...) }
func (l *Logger) Error(msg string, args ...any) { l.sugar.Errorw(msg, args...) }

// Sync flushes buffered log entries.
func (l *Logger) Sync() error { return l.sugar.Sync() }
