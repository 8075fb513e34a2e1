package utils

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/lmittmann/tint"
)

const logTimeFormat = "2006-01-02 15:04:05"

// Logger provides leveled, printf-style logging throughout the application.
// Records are rendered by tint; errors go to stderr, everything else to stdout.
type Logger struct {
	level *slog.LevelVar
	out   *slog.Logger
	err   *slog.Logger
}

// NewLogger creates a Logger writing to stdout/stderr at info level.
func NewLogger() *Logger {
	_, noColor := os.LookupEnv("NO_COLOR")
	return newLogger(os.Stdout, os.Stderr, noColor)
}

func newLogger(out, errOut io.Writer, noColor bool) *Logger {
	level := new(slog.LevelVar)
	handler := func(w io.Writer) slog.Handler {
		return tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: logTimeFormat,
			NoColor:    noColor,
		})
	}
	return &Logger{
		level: level,
		out:   slog.New(handler(out)),
		err:   slog.New(handler(errOut)),
	}
}

// SetLevel accepts debug, info, warn or error. Unknown values keep the
// current level.
func (l *Logger) SetLevel(name string) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		l.level.Set(slog.LevelDebug)
	case "info":
		l.level.Set(slog.LevelInfo)
	case "warn", "warning":
		l.level.Set(slog.LevelWarn)
	case "error":
		l.level.Set(slog.LevelError)
	}
}

func (l *Logger) Info(format string, args ...any) {
	l.out.Log(context.Background(), slog.LevelInfo, fmt.Sprintf(format, args...))
}

func (l *Logger) Warn(format string, args ...any) {
	l.out.Log(context.Background(), slog.LevelWarn, fmt.Sprintf(format, args...))
}

func (l *Logger) Error(format string, args ...any) {
	l.err.Log(context.Background(), slog.LevelError, fmt.Sprintf(format, args...))
}

func (l *Logger) Debug(format string, args ...any) {
	l.out.Log(context.Background(), slog.LevelDebug, fmt.Sprintf(format, args...))
}
