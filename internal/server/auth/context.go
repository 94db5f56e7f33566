package auth

import (
	"context"

	"github.com/bulkassi/webProg2/internal/server/models"
)

type ctxKey string

const identityKey ctxKey = "identity"

// ContextWithIdentity stores the verified caller identity in ctx.
func ContextWithIdentity(ctx context.Context, identity models.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// IdentityFromContext returns the identity stored by ContextWithIdentity.
func IdentityFromContext(ctx context.Context) (models.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(models.Identity)
	return identity, ok
}
