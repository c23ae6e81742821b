// Package session carries the dashboard session id through request contexts.
package session

import (
	"context"
	"errors"
)

// ErrNoSession is returned when a context carries no session id.
var ErrNoSession = errors.New("no dashboard session in context")

type ctxKey struct{}

// WithID returns a copy of ctx carrying the session id.
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the session id stored in ctx.
func FromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ctxKey{}).(string)
	return id, ok && id != ""
}

// Require returns the session id or ErrNoSession.
func Require(ctx context.Context) (string, error) {
	id, ok := FromContext(ctx)
	if !ok {
		return "", ErrNoSession
	}
	return id, nil
}
