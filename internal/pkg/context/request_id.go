package context

import (
	"context"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
)

type ctxKey int

const requestIDKey ctxKey = iota

// WithRequestID stores the id set by the RequestID middleware. It is echoed
// in error bodies and stamped on access and failure logs.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

func GetRequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// Logger returns the global logger tagged with the request id, if any.
func Logger(ctx context.Context) zerolog.Logger {
	id := GetRequestID(ctx)
	if id == "" {
		return zlog.Logger
	}
	return zlog.With().Str("request_id", id).Logger()
}
