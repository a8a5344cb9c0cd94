package auth

import "context"

type contextKey string

const identityKey contextKey = "identity"

// Identity is the authenticated operator attached to a request. The full name
// is what gets stamped into created_by on imported records.
type Identity struct {
	ID             int64  `json:"id"`
	NombreCompleto string `json:"nombre_completo"`
}

// ContextWithIdentity returns a new context carrying the authenticated
// operator.
func ContextWithIdentity(ctx context.Context, identity Identity) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, identityKey, identity)
}

// IdentityFromContext retrieves the authenticated operator, if any.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	if ctx == nil {
		return Identity{}, false
	}
	identity, ok := ctx.Value(identityKey).(Identity)
	if !ok || identity.NombreCompleto == "" {
		return Identity{}, false
	}
	return identity, true
}
