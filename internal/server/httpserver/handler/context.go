package handler

import (
	"context"

	"github.com/yndnr/corex-go/pkg/account"
)

type contextKey struct{}

// WithCaller stores the calling account in ctx.
func WithCaller(ctx context.Context, caller account.ID) context.Context {
	return context.WithValue(ctx, contextKey{}, caller)
}

// CallerFromContext returns the calling account, or account.Anonymous when
// none was stored.
func CallerFromContext(ctx context.Context) account.ID {
	if id, ok := ctx.Value(contextKey{}).(account.ID); ok {
		return id
	}
	return account.Anonymous
}
