package logger

import (
	"context"
	"log/slog"
)

type ctxKey int

const (
	mailoutIDKey ctxKey = iota
	runIDKey
)

// WithMailoutID stores the mailout identifier in the context so every log
// line emitted while processing that mailout carries it.
func WithMailoutID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, mailoutIDKey, id)
}

// WithRunID stores the pipeline run identifier in the context.
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey, id)
}

// MailoutIDExtractor emits a mailout_id attribute when present in context.
func MailoutIDExtractor(ctx context.Context) (slog.Attr, bool) {
	if id, ok := ctx.Value(mailoutIDKey).(string); ok && id != "" {
		return slog.String("mailout_id", id), true
	}
	return slog.Attr{}, false
}

// RunIDExtractor emits a run_id attribute when present in context.
func RunIDExtractor(ctx context.Context) (slog.Attr, bool) {
	if id, ok := ctx.Value(runIDKey).(string); ok && id != "" {
		return slog.String("run_id", id), true
	}
	return slog.Attr{}, false
}
