// Package logging provides the four-level logger used by the loader, the
// dispatcher and handler modules. It is a thin layer over zap.
package logging

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the only logging surface the bot core depends on.
type Logger interface {
	Error(message string)
	Warn(message string)
	Info(message string)
	Verbose(message string)
}

// ZapLogger implements Logger on top of a named zap logger.
// Verbose messages are written at debug level and only when verbose is set.
type ZapLogger struct {
	zl      *zap.Logger
	verbose bool
}

// New builds a console (or json) logger labelled with name.
func New(name, format string, verbose bool) (*ZapLogger, error) {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	if format != "json" {
		format = "console"
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Development:      false,
		Encoding:         format,
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}
	config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	zl, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	return Wrap(zl.Named(name), verbose), nil
}

// Wrap adapts an existing zap logger.
func Wrap(zl *zap.Logger, verbose bool) *ZapLogger {
	return &ZapLogger{zl: zl, verbose: verbose}
}

func (l *ZapLogger) Error(message string) { l.zl.Error(message) }
func (l *ZapLogger) Warn(message string)  { l.zl.Warn(message) }
func (l *ZapLogger) Info(message string)  { l.zl.Info(message) }

func (l *ZapLogger) Verbose(message string) {
	if !l.verbose {
		return
	}
	l.zl.Debug(message)
}

// Sync flushes buffered entries.
func (l *ZapLogger) Sync() error {
	return l.zl.Sync()
}

// Fatal logs message to stderr and exits. Used before a logger exists.
func Fatal(message string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", message, err)
	os.Exit(1)
}

// Nop discards everything.
func Nop() *ZapLogger {
	return Wrap(zap.NewNop(), false)
}
