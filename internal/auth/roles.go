package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/registre-medical/registry-api/internal/domain"
	apperrors "github.com/registre-medical/registry-api/pkg/util"
)

// RequireRole checks that the caller's role is one of allowed.
func RequireRole(p *Principal, allowed domain.RoleSet) error {
	if p == nil {
		return ErrUnauthenticated
	}
	if !allowed.Contains(p.Role) {
		return ErrForbidden
	}
	return nil
}

// RequireAuthenticated rejects requests without a resolved principal.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := CurrentPrincipal(c); !ok {
			return apperrors.WrapUnauthorized("authentication required", ErrUnauthenticated)
		}
		return c.Next()
	}
}

// RequireRoles ensures the principal has one of the allowed roles.
func RequireRoles(allowed ...domain.Role) fiber.Handler {
	allowedSet := domain.NewRoleSet(allowed...)

	return func(c *fiber.Ctx) error {
		principal, _ := CurrentPrincipal(c)
		switch err := RequireRole(principal, allowedSet); err {
		case nil:
			return c.Next()
		case ErrUnauthenticated:
			return apperrors.WrapUnauthorized("authentication required", err)
		default:
			return apperrors.WrapForbidden("insufficient role", err)
		}
	}
}
