package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/registre-medical/registry-api/internal/domain"
	apperrors "github.com/registre-medical/registry-api/pkg/util"
)

func TestRequireRole(t *testing.T) {
	allowed := domain.NewRoleSet(domain.RoleAdmin, domain.RoleRegionalDirector)

	assert.ErrorIs(t, RequireRole(nil, allowed), ErrUnauthenticated)
	assert.ErrorIs(t, RequireRole(&Principal{UserID: 1, Role: domain.RoleDoctor}, allowed), ErrForbidden)
	assert.NoError(t, RequireRole(&Principal{UserID: 1, Role: domain.RoleAdmin}, allowed))
	assert.NoError(t, RequireRole(&Principal{UserID: 1, Role: domain.RoleRegionalDirector}, allowed))
	assert.ErrorIs(t, RequireRole(&Principal{UserID: 1, Role: domain.Role("GHOST")}, allowed), ErrForbidden)
}

func gateApp(principal *Principal, gate fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.SendStatus(apperrors.ToDomainError(err).HTTPStatus)
		},
	})
	app.Use(func(c *fiber.Ctx) error {
		if principal != nil {
			attachPrincipal(c, principal)
		}
		return c.Next()
	})
	app.Get("/", gate, func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})
	return app
}

func TestRoleGates(t *testing.T) {
	doctor := &Principal{UserID: 2, Subject: "doc@example.com", Role: domain.RoleDoctor}

	cases := []struct {
		name      string
		principal *Principal
		gate      fiber.Handler
		want      int
	}{
		{"authenticated without principal", nil, RequireAuthenticated(), http.StatusUnauthorized},
		{"authenticated with principal", doctor, RequireAuthenticated(), http.StatusOK},
		{"roles without principal", nil, RequireRoles(domain.RoleAdmin), http.StatusUnauthorized},
		{"roles with wrong role", doctor, RequireRoles(domain.RoleAdmin), http.StatusForbidden},
		{"roles with allowed role", doctor, RequireRoles(domain.RoleAdmin, domain.RoleDoctor), http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := gateApp(tc.principal, tc.gate).Test(httptest.NewRequest(http.MethodGet, "/", nil))
			require.NoError(t, err)
			assert.Equal(t, tc.want, resp.StatusCode)
		})
	}
}
