package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Logged returns a Service that logs every call to inner at debug level,
// and every failed readiness check or call at warn level.
func Logged[Req, Resp any](inner Service[Req, Resp], logger *zap.Logger) Service[Req, Resp] {
	return &logged[Req, Resp]{
		inner:  inner,
		logger: logger,
	}
}

// WithLogger is the Middleware form of Logged.
func WithLogger[Req, Resp any](logger *zap.Logger) Middleware[Req, Resp] {
	return func(inner Service[Req, Resp]) Service[Req, Resp] {
		return Logged(inner, logger)
	}
}

type logged[Req, Resp any] struct {
	inner  Service[Req, Resp]
	logger *zap.Logger
}

func (l *logged[Req, Resp]) Ready(ctx context.Context) error {
	err := l.inner.Ready(ctx)
	if err != nil {
		l.logger.Warn("service not ready", zap.Error(err))
	}
	return err
}

func (l *logged[Req, Resp]) Call(ctx context.Context, req Req) (Resp, error) {
	start := time.Now()
	resp, err := l.inner.Call(ctx, req)
	fields := []zap.Field{
		zap.String("request", fmt.Sprintf("%T", req)),
		zap.Duration("duration", time.Since(start)),
	}
	if err != nil {
		l.logger.Warn("call failed", append(fields, zap.Error(err))...)
	} else {
		l.logger.Debug("call served", fields...)
	}
	return resp, err
}
