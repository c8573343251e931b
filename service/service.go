// Package service defines the capability every generated dispatcher
// provides, and middleware that wraps it.
//
// A generated FooService interface has the same method set as
// Service[FooRequest, R], so anything in this package can wrap a generated
// dispatcher and be handed to a generated client:
//
//	svc := service.ConcurrencyLimit[FooRequest, R](NewFooDispatcher(impl), 8)
//	client := NewFooClient(svc)
package service

import "context"

// Service serves requests of type Req with responses of type Resp.
//
// Callers invoke Ready before every Call. A Ready that returns nil admits
// exactly one Call; implementations may rely on that pairing to hold
// resources between the two.
type Service[Req, Resp any] interface {
	// Ready blocks until the service can accept a call. It returns an
	// error when it cannot, typically because ctx is done.
	Ready(ctx context.Context) error

	// Call serves req. Errors returned by the underlying handler are
	// returned unchanged.
	Call(ctx context.Context, req Req) (Resp, error)
}

// Func adapts a function to a Service that is always ready.
type Func[Req, Resp any] func(ctx context.Context, req Req) (Resp, error)

var _ Service[any, any] = Func[any, any](nil)

// Ready always returns nil.
func (f Func[Req, Resp]) Ready(ctx context.Context) error {
	return nil
}

// Call returns f(ctx, req).
func (f Func[Req, Resp]) Call(ctx context.Context, req Req) (Resp, error) {
	return f(ctx, req)
}

// Middleware wraps a Service.
type Middleware[Req, Resp any] func(Service[Req, Resp]) Service[Req, Resp]

// Chain wraps svc in mws. The first middleware is the outermost one.
func Chain[Req, Resp any](svc Service[Req, Resp], mws ...Middleware[Req, Resp]) Service[Req, Resp] {
	for i := len(mws) - 1; i >= 0; i-- {
		svc = mws[i](svc)
	}
	return svc
}
