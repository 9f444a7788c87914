package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/registre-medical/registry-api/internal/observability"
	"github.com/registre-medical/registry-api/internal/repository"
)

// Paths the guard never inspects.
var defaultSkipPaths = []string{"/api/auth/login", "/api/auth/register"}

// Outcome labels a single request's authentication result.
type Outcome string

const (
	OutcomeAuthenticated    Outcome = "authenticated"
	OutcomeNoToken          Outcome = "no_token"
	OutcomeMalformed        Outcome = "malformed"
	OutcomeInvalidSignature Outcome = "invalid_signature"
	OutcomeExpired          Outcome = "expired"
	OutcomeUnknownUser      Outcome = "unknown_user"
	OutcomeRevoked          Outcome = "revoked"
	OutcomeLookupFailed     Outcome = "lookup_failed"
)

// GuardOption customizes a Guard.
type GuardOption func(*Guard)

// WithRevoker enables revocation checks.
func WithRevoker(r Revoker) GuardOption {
	return func(g *Guard) { g.revoker = r }
}

// WithLogger sets the guard logger.
func WithLogger(l *zap.Logger) GuardOption {
	return func(g *Guard) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithMetrics records one decision per inspected request.
func WithMetrics(m *observability.Metrics) GuardOption {
	return func(g *Guard) { g.metrics = m }
}

// WithSkipPaths adds paths the guard does not inspect.
func WithSkipPaths(paths ...string) GuardOption {
	return func(g *Guard) {
		for _, p := range paths {
			g.skip[normalizePath(p)] = struct{}{}
		}
	}
}

// Guard resolves bearer tokens into request principals. It never rejects a
// request itself; handlers opt in with RequireAuthenticated or RequireRoles.
type Guard struct {
	tokens  *TokenService
	users   repository.UserRepository
	revoker Revoker
	logger  *zap.Logger
	metrics *observability.Metrics
	skip    map[string]struct{}
}

// NewGuard constructs the middleware.
func NewGuard(tokens *TokenService, users repository.UserRepository, opts ...GuardOption) *Guard {
	g := &Guard{
		tokens: tokens,
		users:  users,
		logger: zap.NewNop(),
		skip:   make(map[string]struct{}),
	}
	WithSkipPaths(defaultSkipPaths...)(g)
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Handle attaches a principal when the request carries a usable token.
func (g *Guard) Handle(c *fiber.Ctx) error {
	if _, skip := g.skip[normalizePath(c.Path())]; skip {
		return c.Next()
	}

	token, ok := BearerToken(c.Get(fiber.HeaderAuthorization))
	if !ok {
		g.metrics.RecordAuthDecision(string(OutcomeNoToken))
		return c.Next()
	}

	principal, err := g.Resolve(c.UserContext(), token)
	outcome := OutcomeFor(err)
	g.metrics.RecordAuthDecision(string(outcome))
	if err != nil {
		g.logger.Debug("bearer token rejected",
			zap.String("path", c.Path()),
			zap.String("outcome", string(outcome)),
			zap.Error(err))
		return c.Next()
	}

	attachPrincipal(c, principal)
	return c.Next()
}

// Resolve verifies a raw token and checks that its subject is a known,
// active user and that it has not been revoked.
func (g *Guard) Resolve(ctx context.Context, token string) (*Principal, error) {
	identity, err := g.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	user, err := g.users.GetByID(ctx, identity.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: unknown user %d", ErrUnauthenticated, identity.UserID)
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	if !user.Active {
		return nil, fmt.Errorf("%w: user %d inactive", ErrUnauthenticated, user.ID)
	}
	if !strings.EqualFold(user.Email, identity.Subject) {
		return nil, fmt.Errorf("%w: subject mismatch for user %d", ErrUnauthenticated, user.ID)
	}

	if g.revoker != nil {
		revoked, err := g.revoker.IsRevoked(ctx, identity.TokenID)
		if err != nil {
			return nil, fmt.Errorf("check revocation: %w", err)
		}
		if revoked {
			return nil, ErrRevoked
		}
	}

	return &Principal{
		UserID:    identity.UserID,
		Subject:   identity.Subject,
		Role:      identity.Role,
		TokenID:   identity.TokenID,
		ExpiresAt: identity.ExpiresAt,
	}, nil
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

// OutcomeFor maps a Resolve error to its decision label.
func OutcomeFor(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeAuthenticated
	case errors.Is(err, ErrExpired):
		return OutcomeExpired
	case errors.Is(err, ErrInvalidSignature):
		return OutcomeInvalidSignature
	case errors.Is(err, ErrMalformed):
		return OutcomeMalformed
	case errors.Is(err, ErrRevoked):
		return OutcomeRevoked
	case errors.Is(err, ErrUnauthenticated):
		return OutcomeUnknownUser
	default:
		return OutcomeLookupFailed
	}
}

func normalizePath(p string) string {
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
	}
	return p
}
