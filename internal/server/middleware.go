package server

import (
	"context"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware"
	"github.com/go-kratos/kratos/v2/transport"
	"github.com/google/uuid"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-Id"

type requestIDKey struct{}

// RequestID reuses the caller's X-Request-Id or assigns a new one, echoes it
// on the reply and stores it in the context for logging.
func RequestID() middleware.Middleware {
	return func(handler middleware.Handler) middleware.Handler {
		return func(ctx context.Context, req interface{}) (interface{}, error) {
			tr, ok := transport.FromServerContext(ctx)
			if !ok {
				return handler(ctx, req)
			}

			id := tr.RequestHeader().Get(RequestIDHeader)
			if id == "" {
				v7, err := uuid.NewV7()
				if err != nil {
					return nil, errors.InternalServer("REQUEST_ID", "failed to generate request id")
				}
				id = v7.String()
			}
			tr.ReplyHeader().Set(RequestIDHeader, id)

			return handler(context.WithValue(ctx, requestIDKey{}, id), req)
		}
	}
}

// RequestIDFromContext returns the id set by RequestID, or "".
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// RequestIDValuer adds the request id to log lines written with a request context.
func RequestIDValuer() log.Valuer {
	return func(ctx context.Context) interface{} {
		if ctx == nil {
			return ""
		}
		return RequestIDFromContext(ctx)
	}
}
