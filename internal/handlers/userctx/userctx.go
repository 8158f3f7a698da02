// Package userctx passes the authenticated user from the auth middleware to
// the handlers through the request context.
package userctx

import (
	"context"

	"github.com/pcarvalho/editassist/internal/models"
)

type key struct{}

func New(ctx context.Context, u models.User) context.Context {
	return context.WithValue(ctx, key{}, u)
}

// FromContext returns the user set by the auth middleware.
// ok is false on requests that never went through it.
func FromContext(ctx context.Context) (models.User, bool) {
	u, ok := ctx.Value(key{}).(models.User)
	return u, ok
}
