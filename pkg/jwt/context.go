package jwt

import (
	"context"

	"github.com/google/uuid"
)

type claimsKey struct{}

func WithClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, c)
}

func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(*Claims)
	return c, ok && c != nil
}

// AccountIDFromContext returns the authenticated account id or uuid.Nil.
func AccountIDFromContext(ctx context.Context) uuid.UUID {
	c, ok := ClaimsFromContext(ctx)
	if !ok {
		return uuid.Nil
	}
	id, err := c.AccountID()
	if err != nil {
		return uuid.Nil
	}
	return id
}
