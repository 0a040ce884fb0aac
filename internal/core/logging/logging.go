// Package logging builds the process logger.
//
// Components depend on the glog.Logger contract from go-logger and default to
// glog.Nop(). The binary wires a log/slog backed implementation selected by
// the --log-level and --log-format flags.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	glog "github.com/goliatone/go-logger/glog"
)

// Logger is the logging contract used across nexusgate.
type Logger = glog.Logger

// LevelTrace sits below slog's debug level.
const LevelTrace = slog.LevelDebug - 4

// Nop returns a logger that discards everything.
func Nop() Logger {
	return glog.Nop()
}

// New creates a logger writing to w.
// level is one of trace, debug, info, warn, error; format is json or text.
func New(w io.Writer, level, format string) (Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: lvl}

	var h slog.Handler
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "":
		h = slog.NewJSONHandler(w, opts)
	case "text":
		h = slog.NewTextHandler(w, opts)
	default:
		return nil, fmt.Errorf("unsupported log format %q (expected json or text)", format)
	}
	return &slogLogger{l: slog.New(h), ctx: context.Background()}, nil
}

// ParseLevel maps a level name to a slog level.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return LevelTrace, nil
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unsupported log level %q (expected trace, debug, info, warn or error)", level)
	}
}

type slogLogger struct {
	l   *slog.Logger
	ctx context.Context
}

func (s *slogLogger) Trace(msg string, args ...any) { s.l.Log(s.ctx, LevelTrace, msg, args...) }
func (s *slogLogger) Debug(msg string, args ...any) { s.l.DebugContext(s.ctx, msg, args...) }
func (s *slogLogger) Info(msg string, args ...any)  { s.l.InfoContext(s.ctx, msg, args...) }
func (s *slogLogger) Warn(msg string, args ...any)  { s.l.WarnContext(s.ctx, msg, args...) }
func (s *slogLogger) Error(msg string, args ...any) { s.l.ErrorContext(s.ctx, msg, args...) }

func (s *slogLogger) Fatal(msg string, args ...any) {
	s.l.ErrorContext(s.ctx, msg, args...)
	os.Exit(1)
}

func (s *slogLogger) WithContext(ctx context.Context) glog.Logger {
	if ctx == nil {
		ctx = context.Background()
	}
	return &slogLogger{l: s.l, ctx: ctx}
}
