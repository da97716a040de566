package slogx

import (
	"context"
	"log/slog"
)

type ctxKey struct{}

func WithContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

func FromContext(ctx context.Context) *slog.Logger {
	l, ok := ctx.Value(ctxKey{}).(*slog.Logger)
	if !ok {
		return slog.Default()
	}
	return l
}

// WithStore tags the context logger with the store name so every action
// logged inside a store carries its origin.
func WithStore(ctx context.Context, store string) context.Context {
	l := FromContext(ctx)
	return WithContext(ctx, l.With("store", store))
}
