package logging

import (
	"context"

	"github.com/charmbracelet/log"
)

type contextKey struct{}

// FromContext returns the logger attached to ctx, or the default logger.
func FromContext(ctx context.Context) *log.Logger {
	if logger, ok := Attached(ctx); ok {
		return logger
	}
	return Default()
}

// Attached returns the logger attached to ctx, if any. Library code uses it
// to stay silent when the caller did not ask for logging.
func Attached(ctx context.Context) (*log.Logger, bool) {
	if ctx == nil {
		return nil, false
	}
	logger, ok := ctx.Value(contextKey{}).(*log.Logger)
	return logger, ok && logger != nil
}

// WithLogger returns a context carrying logger.
func WithLogger(ctx context.Context, logger *log.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, contextKey{}, logger)
}

// WithFields attaches a child of logger carrying keyvals, for example the
// file a batch worker is compiling. A nil logger leaves ctx unchanged.
func WithFields(ctx context.Context, logger *log.Logger, keyvals ...any) context.Context {
	if logger == nil {
		return ctx
	}
	return WithLogger(ctx, logger.With(keyvals...))
}
