package logger

import (
	"context"

	"github.com/Gunvolt24/printshop_console/pkg/ctxmeta"
	"go.uber.org/zap"
)

// ZapLogger — реализация ports.Logger поверх zap.SugaredLogger.
// Из контекста подмешиваются request_id и session_id, если они есть.
type ZapLogger struct {
	base   *zap.Logger
	sugar  *zap.SugaredLogger
	isProd bool
}

func NewZapLogger(isProd bool) (*ZapLogger, func() error, error) {
	var (
		logger *zap.Logger
		err    error
	)

	if isProd {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, nil, err
	}

	return wrap(logger, isProd), func() error { return logger.Sync() }, nil
}

// NewNop — логгер без вывода (тесты, CLI).
func NewNop() *ZapLogger { return wrap(zap.NewNop(), false) }

func wrap(logger *zap.Logger, isProd bool) *ZapLogger {
	return &ZapLogger{base: logger, sugar: logger.Sugar(), isProd: isProd}
}

func (z *ZapLogger) Infof(ctx context.Context, format string, args ...any) {
	z.withCtx(ctx).Infof(format, args...)
}

func (z *ZapLogger) Warnf(ctx context.Context, format string, args ...any) {
	z.withCtx(ctx).Warnf(format, args...)
}

func (z *ZapLogger) Errorf(ctx context.Context, format string, args ...any) {
	z.withCtx(ctx).Errorf(format, args...)
}

func (z *ZapLogger) Base() *zap.Logger           { return z.base }
func (z *ZapLogger) Sugared() *zap.SugaredLogger { return z.sugar }

func (z *ZapLogger) withCtx(ctx context.Context) *zap.SugaredLogger {
	var kv []any
	if rid, ok := ctxmeta.RequestIDFromContext(ctx); ok {
		kv = append(kv, "request_id", rid)
	}
	if sid, ok := ctxmeta.SessionIDFromContext(ctx); ok {
		kv = append(kv, "session_id", sid)
	}
	if len(kv) == 0 {
		return z.sugar
	}
	return z.sugar.With(kv...)
}
