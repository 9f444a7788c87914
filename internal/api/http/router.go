package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/registre-medical/registry-api/internal/api/http/handlers"
	"github.com/registre-medical/registry-api/internal/auth"
	"github.com/registre-medical/registry-api/internal/domain"
	"github.com/registre-medical/registry-api/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health  *handlers.HealthHandler
	Auth    *handlers.AuthHandler
	Users   *handlers.UsersHandler
	Guard   *auth.Guard
	Metrics *observability.Metrics
}

// RegisterRoutes wires HTTP routes. The guard runs for every route registered
// after it; individual routes add the gate they need.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", cfg.Metrics.Handler())
	}

	api := app.Group("/api", cfg.Guard.Handle)
	api.Get("/health", cfg.Health.Status)

	authGroup := api.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Get("/roles", cfg.Auth.Roles)
	authGroup.Get("/profile", auth.RequireAuthenticated(), cfg.Auth.Profile)
	authGroup.Post("/logout", auth.RequireAuthenticated(), cfg.Auth.Logout)
	authGroup.Post("/password/change", auth.RequireAuthenticated(), cfg.Auth.ChangePassword)

	users := api.Group("/users")
	users.Get("/", auth.RequireRoles(domain.RoleAdmin, domain.RoleRegionalDirector), cfg.Users.List)
	users.Get("/:id", auth.RequireAuthenticated(), cfg.Users.Get)
	users.Delete("/:id", auth.RequireRoles(domain.RoleAdmin), cfg.Users.Deactivate)
}
