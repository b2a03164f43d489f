package middleware

import (
	"context"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/google/uuid"

	"github.com/forgo/raidsign/internal/model"
)

// HandlerFunc handles one parsed command. A nil or empty response means
// nothing is sent back.
type HandlerFunc func(ctx context.Context, req *model.Request) *model.Response

// Middleware is a function that wraps a HandlerFunc
type Middleware func(HandlerFunc) HandlerFunc

// Chain applies middlewares to a handler in order
func Chain(handler HandlerFunc, middlewares ...Middleware) HandlerFunc {
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}
	return handler
}

// contextKey is a type for context keys to avoid collisions
type contextKey string

const (
	RequestIDKey contextKey = "requestID"
)

// RequestID adds a unique request ID to each command
func RequestID(next HandlerFunc) HandlerFunc {
	return func(ctx context.Context, req *model.Request) *model.Response {
		if GetRequestID(ctx) == "" {
			ctx = context.WithValue(ctx, RequestIDKey, uuid.New().String())
		}
		return next(ctx, req)
	}
}

// GetRequestID extracts the request ID from context
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}

// Logger logs command details using structured logging
func Logger(next HandlerFunc) HandlerFunc {
	return func(ctx context.Context, req *model.Request) *model.Response {
		start := time.Now()

		resp := next(ctx, req)

		kind := "none"
		switch {
		case resp.IsEmpty():
		case len(resp.Embeds) > 0:
			kind = "embed"
		default:
			kind = "text"
		}

		slog.InfoContext(ctx, "command",
			slog.String("keyword", req.Keyword),
			slog.Int("args", len(req.Args)),
			slog.String("author_id", req.AuthorID),
			slog.String("channel_id", req.ChannelID),
			slog.String("response", kind),
			slog.Duration("duration", time.Since(start)),
			slog.String("request_id", GetRequestID(ctx)),
		)
		return resp
	}
}

// Recovery recovers from panics and replies with a generic failure
func Recovery(next HandlerFunc) HandlerFunc {
	return func(ctx context.Context, req *model.Request) (resp *model.Response) {
		defer func() {
			if err := recover(); err != nil {
				slog.ErrorContext(ctx, "panic recovered",
					slog.Any("error", err),
					slog.String("keyword", req.Keyword),
					slog.String("request_id", GetRequestID(ctx)),
					slog.String("stack", string(debug.Stack())),
				)
				resp = model.TextResponse(model.NewInternalError("").Detail)
			}
		}()

		return next(ctx, req)
	}
}

// Timeout bounds each command with a deadline
func Timeout(d time.Duration) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		if d <= 0 {
			return next
		}
		return func(ctx context.Context, req *model.Request) *model.Response {
			ctx, cancel := context.WithTimeout(ctx, d)
			defer cancel()
			return next(ctx, req)
		}
	}
}
