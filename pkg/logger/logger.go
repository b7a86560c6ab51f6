// Package logger provides the structured, levelled logger used across the
// service, built on log/slog.
//
// Handlers get a request-scoped logger via WithCtx; it carries the
// request_id attached by the access-log middleware:
//
//	log := logger.WithCtx(r.Context())
//	log.Info("order created", "order_id", order.ID)
package logger

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/AkaOko/react-trpo/config"
)

var L *slog.Logger

func init() {
	L = slog.New(baseHandler(config.AppEnv()))
	slog.SetDefault(L)
}

func baseHandler(env string) slog.Handler {
	switch env {
	case "production", "prod":
		return slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	case "test":
		return slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn})
	default:
		return slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
}

// EnableMongo fans every record out to a MongoDB collection in addition to
// stdout. The returned func flushes and disconnects the sink.
func EnableMongo(uri, database, collection string) (func(), error) {
	sink, err := NewMongoHandler(uri, database, collection)
	if err != nil {
		return func() {}, fmt.Errorf("logger: %w", err)
	}

	L = slog.New(NewMultiHandler(L.Handler(), sink))
	slog.SetDefault(L)
	return sink.Close, nil
}

type ctxKey struct{}

// WithCtx returns the request logger stored in ctx, or the base logger.
func WithCtx(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return L
	}
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return L
}

// InjectLogger stores a request-scoped logger in ctx.
func InjectLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

func Debug(msg string, args ...any) { L.Debug(msg, args...) }

func Info(msg string, args ...any) { L.Info(msg, args...) }

func Warn(msg string, args ...any) { L.Warn(msg, args...) }

func Error(msg string, args ...any) { L.Error(msg, args...) }
