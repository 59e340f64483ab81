package jwt

import "context"

type ctxKey struct{}

// WithClaims guarda las claims verificadas en el contexto.
func WithClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, ctxKey{}, c)
}

// ClaimsFrom devuelve las claims del contexto (nil si no hay).
func ClaimsFrom(ctx context.Context) *Claims {
	c, _ := ctx.Value(ctxKey{}).(*Claims)
	return c
}
