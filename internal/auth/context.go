package auth

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/registre-medical/registry-api/internal/domain"
)

const principalKey = "auth_principal"

type contextKey int

const principalCtxKey contextKey = iota

// Principal represents the authenticated caller of one request.
type Principal struct {
	UserID    int64
	Subject   string
	Role      domain.Role
	TokenID   string
	ExpiresAt time.Time
}

// WithPrincipal returns a context carrying p.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalCtxKey, p)
}

// PrincipalFromContext retrieves the caller attached to ctx.
func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	if ctx == nil {
		return nil, false
	}
	p, ok := ctx.Value(principalCtxKey).(*Principal)
	return p, ok && p != nil
}

// CurrentCallerID resolves the numeric identity of the request's caller.
func CurrentCallerID(ctx context.Context) (int64, error) {
	p, ok := PrincipalFromContext(ctx)
	if !ok {
		return 0, ErrUnauthenticated
	}
	return p.UserID, nil
}

// CurrentPrincipal retrieves the authenticated entity from fiber locals.
func CurrentPrincipal(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok && principal != nil
}

func attachPrincipal(c *fiber.Ctx, p *Principal) {
	c.Locals(principalKey, p)
	c.SetUserContext(WithPrincipal(c.UserContext(), p))
}
