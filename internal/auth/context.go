package auth

import (
	"context"

	"github.com/openboard-dev/openboard/internal/model"
)

type ctxKey byte

const principalKey ctxKey = 1

// ContextWithPrincipal attaches the authenticated principal to ctx.
// The value is set once by the request authenticator and never
// mutated afterwards.
func ContextWithPrincipal(ctx context.Context, p model.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

func PrincipalFromContext(ctx context.Context) (model.Principal, bool) {
	p, ok := ctx.Value(principalKey).(model.Principal)
	return p, ok
}
