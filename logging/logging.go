// Package logging builds the process-wide logger. It is configured
// once, at startup, from the level named in the environment.
package logging

import (
	"fmt"
	"log"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a logger at the named level ("debug", "info", "warn",
// "error"). An empty level means info.
func New(level string) (*zap.Logger, error) {
	if level == "" {
		level = "info"
	}
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = lvl
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.Sampling = nil
	return cfg.Build()
}

// Install makes l the destination of the standard library's log
// package, so that log.Printf call sites share its output. It returns
// a function that restores the previous state.
func Install(l *zap.Logger) func() {
	undoGlobals := zap.ReplaceGlobals(l)
	undoStd := zap.RedirectStdLog(l)
	return func() {
		undoStd()
		undoGlobals()
	}
}

// Must is New for main packages: it falls back to a no-op logger and
// reports the problem through the standard log package.
func Must(level string) *zap.Logger {
	l, err := New(level)
	if err != nil {
		log.Printf("logging: %v; using info", err)
		l, err = New("info")
		if err != nil {
			return zap.NewNop()
		}
	}
	return l
}
