package middleware

import (
	"context"

	"github.com/google/uuid"

	"github.com/ekomart/ekomart-backend/pkg/enums"
)

type contextKey string

const ctxPrincipal contextKey = "principal"

// Principal is the authenticated caller extracted from a verified token.
type Principal struct {
	UserID    uuid.UUID
	Role      enums.UserRole
	SessionID string
}

func (p Principal) IsAdmin() bool {
	return p.Role == enums.UserRoleAdmin
}

// WithPrincipal injects the authenticated principal into the context.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxPrincipal, p)
}

// PrincipalFromContext returns the authenticated principal, if present.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	if ctx == nil {
		return Principal{}, false
	}
	p, ok := ctx.Value(ctxPrincipal).(Principal)
	return p, ok
}

func UserIDFromContext(ctx context.Context) uuid.UUID {
	p, ok := PrincipalFromContext(ctx)
	if !ok {
		return uuid.Nil
	}
	return p.UserID
}
