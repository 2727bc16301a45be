package realm

import "context"

type (
	key byte
)

var (
	principalKey = key(1)
)

// WithPrincipal marks ctx as belonging to an authenticated principal.
func WithPrincipal(ctx context.Context, principal string) context.Context {
	return context.WithValue(ctx, principalKey, principal)
}

func PrincipalFrom(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(principalKey).(string)
	return v, ok
}
