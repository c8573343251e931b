// Package example shows the code dispatchgen generates for a small type and
// how it is used.
package example

import (
	"context"
	"errors"
)

//go:generate go run github.com/grafana/dispatchgen/cmd/dispatchgen -t Example

// ErrEmptyString is returned for an empty input.
var ErrEmptyString = errors.New("empty string")

// Example echoes and reverses strings.
type Example struct{}

// Echo returns its input unchanged.
func (Example) Echo(ctx context.Context, string string) (string, error) {
	if string == "" {
		return "", ErrEmptyString
	}
	return string, nil
}

// Reverse returns its input with the characters in reverse order.
func (Example) Reverse(ctx context.Context, string string) (string, error) {
	if string == "" {
		return "", ErrEmptyString
	}
	return reverse(string), nil
}

func reverse(s string) string {
	r := []rune(s)
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
	return string(r)
}
