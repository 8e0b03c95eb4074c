// Package application composes use cases with cross-cutting behavior.
package application

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/clearline/submission-engine/internal/domain/valueobject"
)

// Handler is one use-case entry point after DTO binding.
type Handler[Req, Resp any] func(ctx context.Context, req Req) (Resp, error)

// Middleware wraps a handler with cross-cutting behavior.
type Middleware[Req, Resp any] func(Handler[Req, Resp]) Handler[Req, Resp]

// Chain applies middlewares so the first listed runs outermost.
func Chain[Req, Resp any](h Handler[Req, Resp], mws ...Middleware[Req, Resp]) Handler[Req, Resp] {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// WithLogging logs each invocation with its duration and outcome.
func WithLogging[Req, Resp any](logger *slog.Logger, operation string) Middleware[Req, Resp] {
	return func(next Handler[Req, Resp]) Handler[Req, Resp] {
		return func(ctx context.Context, req Req) (Resp, error) {
			start := time.Now()
			resp, err := next(ctx, req)
			attrs := []any{
				"operation", operation,
				"duration_ms", time.Since(start).Milliseconds(),
			}
			if err != nil {
				logger.Error("operation failed", append(attrs, "error", err)...)
			} else {
				logger.Info("operation completed", attrs...)
			}
			return resp, err
		}
	}
}

// WithConflictRetry re-runs the handler when the save lost an optimistic
// concurrency race, reloading state on each attempt. Retries are bounded and
// only apply to conflict errors; everything else returns immediately.
func WithConflictRetry[Req, Resp any](attempts int) Middleware[Req, Resp] {
	if attempts < 1 {
		attempts = 1
	}
	return func(next Handler[Req, Resp]) Handler[Req, Resp] {
		return func(ctx context.Context, req Req) (Resp, error) {
			var resp Resp
			var err error
			for i := 0; i < attempts; i++ {
				resp, err = next(ctx, req)
				if err == nil || !errors.Is(err, valueobject.ErrConflict) {
					return resp, err
				}
				if ctx.Err() != nil {
					return resp, err
				}
			}
			return resp, err
		}
	}
}
