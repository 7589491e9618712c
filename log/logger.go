// Package log provides the leveled logging facade used throughout the
// picnic3 core. It keeps the exported-function shape of sphinx-core's
// hand-rolled logger (Debugf/Infof/Warnf/Errorf/SetLevel) but is backed
// by zap, so round/party indices and byte lengths can be attached as
// structured fields instead of being interpolated into a format string.
//
// Secret material (seeds, tapes, aux bits, key shares, masked keys) must
// never be passed to any of these functions — only public metadata
// (round index, party index, digest sizes, error causes) belongs here.
package log

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu    sync.RWMutex
	sugar *zap.SugaredLogger
	level = zap.NewAtomicLevelAt(zap.InfoLevel)
)

func init() {
	cfg := zap.NewProductionConfig()
	cfg.Level = level
	cfg.Encoding = "console"
	cfg.DisableStacktrace = true
	logger, err := cfg.Build()
	if err != nil {
		// Fall back to a no-op logger rather than panic on init.
		logger = zap.NewNop()
	}
	sugar = logger.Sugar()
}

// LogLevel mirrors zapcore.Level's ordering so callers don't need to
// import zap directly.
type LogLevel int8

const (
	DEBUG LogLevel = LogLevel(zapcore.DebugLevel)
	INFO  LogLevel = LogLevel(zapcore.InfoLevel)
	WARN  LogLevel = LogLevel(zapcore.WarnLevel)
	ERROR LogLevel = LogLevel(zapcore.ErrorLevel)
)

// SetLevel sets the minimum level that will be emitted.
func SetLevel(lvl LogLevel) {
	level.SetLevel(zapcore.Level(lvl))
}

// Debugf logs a formatted message at DEBUG level.
func Debugf(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	sugar.Debugf(format, args...)
}

// Infof logs a formatted message at INFO level.
func Infof(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	sugar.Infof(format, args...)
}

// Warnf logs a formatted message at WARN level.
func Warnf(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	sugar.Warnf(format, args...)
}

// Errorf logs a formatted message at ERROR level.
func Errorf(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	sugar.Errorf(format, args...)
}

// Fatalf logs at FATAL level and terminates the process.
func Fatalf(format string, args ...any) {
	mu.RLock()
	s := sugar
	mu.RUnlock()
	s.Fatalf(format, args...)
}

// Round returns a child logger with the round index attached as a
// structured field, for the common case of tracing per-round work.
func Round(t int) *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return sugar.With("round", t)
}

// RoundParty returns a child logger with both round and party indices
// attached.
func RoundParty(t, j int) *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return sugar.With("round", t, "party", j)
}

// Sync flushes any buffered log entries, matching zap.Logger.Sync.
func Sync() error {
	mu.RLock()
	defer mu.RUnlock()
	return sugar.Sync()
}
