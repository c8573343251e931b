package service

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimit returns a Service whose Ready waits for a token from limiter
// before checking inner.
func RateLimit[Req, Resp any](inner Service[Req, Resp], limiter *rate.Limiter) Service[Req, Resp] {
	return &rateLimited[Req, Resp]{
		inner:   inner,
		limiter: limiter,
	}
}

// WithRateLimit is the Middleware form of RateLimit.
func WithRateLimit[Req, Resp any](limiter *rate.Limiter) Middleware[Req, Resp] {
	return func(inner Service[Req, Resp]) Service[Req, Resp] {
		return RateLimit(inner, limiter)
	}
}

type rateLimited[Req, Resp any] struct {
	inner   Service[Req, Resp]
	limiter *rate.Limiter
}

func (r *rateLimited[Req, Resp]) Ready(ctx context.Context) error {
	if err := r.limiter.Wait(ctx); err != nil {
		return err
	}
	return r.inner.Ready(ctx)
}

func (r *rateLimited[Req, Resp]) Call(ctx context.Context, req Req) (Resp, error) {
	return r.inner.Call(ctx, req)
}
