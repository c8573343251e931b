package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrDuplicateID is returned by Pending.Register for an ID that is already
// waiting for its response.
var ErrDuplicateID = errors.New("request ID already pending")

// Pending routes responses that arrive out of band, such as over a
// connection shared by many callers, to the caller waiting for each of them
// by request ID.
//
// Register a request before sending it, then Wait on the returned channel.
// Whatever reads responses off the transport hands each one to Resolve.
type Pending[ID comparable, Resp any] struct {
	mu      sync.Mutex
	waiting map[ID]chan Resp
}

// NewPending returns a Pending with no registered requests.
func NewPending[ID comparable, Resp any]() *Pending[ID, Resp] {
	return &Pending[ID, Resp]{waiting: make(map[ID]chan Resp)}
}

// Register records that the response to the request with the given id is
// awaited. The returned channel receives that response once.
func (p *Pending[ID, Resp]) Register(id ID) (<-chan Resp, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.waiting[id]; ok {
		return nil, fmt.Errorf("%w: %v", ErrDuplicateID, id)
	}
	ch := make(chan Resp, 1)
	p.waiting[id] = ch
	return ch, nil
}

// Resolve hands resp to the request registered under id and forgets the
// request. A response nobody waits for is dropped, and Resolve reports false.
func (p *Pending[ID, Resp]) Resolve(id ID, resp Resp) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	ch, ok := p.waiting[id]
	if !ok {
		return false
	}
	delete(p.waiting, id)
	ch <- resp
	return true
}

// Cancel forgets the request registered under id and reports whether there
// was one.
func (p *Pending[ID, Resp]) Cancel(id ID) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	_, ok := p.waiting[id]
	delete(p.waiting, id)
	return ok
}

// Len returns the number of requests still waiting for a response.
func (p *Pending[ID, Resp]) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.waiting)
}

// Wait blocks until the response registered under id arrives on ch, or ctx
// is done. In the latter case the request is canceled, unless its response
// raced in first.
func (p *Pending[ID, Resp]) Wait(ctx context.Context, id ID, ch <-chan Resp) (Resp, error) {
	select {
	case resp := <-ch:
		return resp, nil
	case <-ctx.Done():
	}

	if !p.Cancel(id) {
		select {
		case resp := <-ch:
			return resp, nil
		default:
		}
	}
	var zero Resp
	return zero, ctx.Err()
}
