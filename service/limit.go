package service

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// ConcurrencyLimit returns a Service admitting at most n calls to inner at
// a time.
//
// Ready reserves a slot, waiting for one to free up, and the following Call
// uses it. A Call made without a prior Ready acquires its own slot.
func ConcurrencyLimit[Req, Resp any](inner Service[Req, Resp], n int64) Service[Req, Resp] {
	return &limited[Req, Resp]{
		inner: inner,
		sem:   semaphore.NewWeighted(n),
	}
}

// WithConcurrencyLimit is the Middleware form of ConcurrencyLimit.
func WithConcurrencyLimit[Req, Resp any](n int64) Middleware[Req, Resp] {
	return func(inner Service[Req, Resp]) Service[Req, Resp] {
		return ConcurrencyLimit(inner, n)
	}
}

type limited[Req, Resp any] struct {
	inner Service[Req, Resp]
	sem   *semaphore.Weighted

	// slots acquired by Ready and not yet consumed by Call
	reserved atomic.Int64
}

func (l *limited[Req, Resp]) Ready(ctx context.Context) error {
	if err := l.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	if err := l.inner.Ready(ctx); err != nil {
		l.sem.Release(1)
		return err
	}
	l.reserved.Add(1)
	return nil
}

func (l *limited[Req, Resp]) Call(ctx context.Context, req Req) (Resp, error) {
	if !l.take() {
		if err := l.sem.Acquire(ctx, 1); err != nil {
			var zero Resp
			return zero, err
		}
	}
	defer l.sem.Release(1)
	return l.inner.Call(ctx, req)
}

func (l *limited[Req, Resp]) take() bool {
	for {
		n := l.reserved.Load()
		if n <= 0 {
			return false
		}
		if l.reserved.CompareAndSwap(n, n-1) {
			return true
		}
	}
}
