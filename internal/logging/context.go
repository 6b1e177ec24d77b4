package logging

import (
	"context"

	"github.com/go-logr/logr"
)

// WithLogger stores a logger in the context.
func WithLogger(ctx context.Context, logger logr.Logger) context.Context {
	return logr.NewContext(ctx, logger)
}

// FromContext retrieves a logger from the context.
// If no logger is found, it returns a logger that discards everything.
func FromContext(ctx context.Context) logr.Logger {
	return logr.FromContextOrDiscard(ctx)
}
