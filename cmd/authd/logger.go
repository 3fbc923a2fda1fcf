package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	auth "github.com/goliatone/go-login"
	"github.com/goliatone/go-login/activitymap"
)

// slogLogger adapts a *slog.Logger to auth.Logger
type slogLogger struct {
	l *slog.Logger
}

var _ auth.Logger = (*slogLogger)(nil)

func newSlogLogger(w io.Writer, debug bool) *slogLogger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return &slogLogger{l: slog.New(handler).With("service", "authd")}
}

func (s *slogLogger) Debug(format string, args ...any) {
	s.log(slog.LevelDebug, format, args...)
}

func (s *slogLogger) Info(format string, args ...any) {
	s.log(slog.LevelInfo, format, args...)
}

func (s *slogLogger) Warn(format string, args ...any) {
	s.log(slog.LevelWarn, format, args...)
}

func (s *slogLogger) Error(format string, args ...any) {
	s.log(slog.LevelError, format, args...)
}

func (s *slogLogger) log(level slog.Level, format string, args ...any) {
	ctx := context.Background()
	if !s.l.Enabled(ctx, level) {
		return
	}
	s.l.Log(ctx, level, fmt.Sprintf(format, args...))
}

// activityLogger writes normalized activity records to the log. Passwords
// never reach an ActivityEvent so nothing needs scrubbing here.
func activityLogger(logger auth.Logger) auth.ActivitySink {
	return auth.ActivitySinkFunc(func(_ context.Context, event auth.ActivityEvent) error {
		record := activitymap.Normalize(event)
		reason, _ := record.Metadata[activitymap.MetadataKeyReason].(string)
		if reason == "" {
			logger.Info("activity verb=%s actor=%q channel=%s", record.Verb, record.ActorID, record.Channel)
			return nil
		}
		logger.Info("activity verb=%s actor=%q channel=%s reason=%s", record.Verb, record.ActorID, record.Channel, reason)
		return nil
	})
}
