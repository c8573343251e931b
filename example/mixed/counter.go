// Package mixed is an example of a type whose methods return different
// success types, for which dispatchgen generates a response union.
package mixed

import (
	"context"
	"errors"
	"sync"
)

//go:generate go run github.com/grafana/dispatchgen/cmd/dispatchgen -t Counter

// ErrNegative is returned by Add when the counter would drop below zero.
var ErrNegative = errors.New("counter would drop below zero")

// Counter is a named, non-negative counter.
type Counter struct {
	mu    sync.Mutex
	name  string
	value int
}

func NewCounter(name string) *Counter {
	return &Counter{name: name}
}

// Add adds delta to the counter and returns the new value.
func (c *Counter) Add(ctx context.Context, delta int) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.value+delta < 0 {
		return c.value, ErrNegative
	}
	c.value += delta
	return c.value, nil
}

func (c *Counter) Name(ctx context.Context) (string, error) {
	return c.name, nil
}

// Reset sets the counter back to zero.
func (c *Counter) Reset(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	c.value = 0
	c.mu.Unlock()
	return nil
}

// Value returns the current value without going through a service.
//
//dispatchgen:ignore
func (c *Counter) Value() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}
