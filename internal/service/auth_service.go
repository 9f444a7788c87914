package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/registre-medical/registry-api/internal/auth"
	"github.com/registre-medical/registry-api/internal/domain"
	"github.com/registre-medical/registry-api/internal/events"
	"github.com/registre-medical/registry-api/internal/repository"
	apperrors "github.com/registre-medical/registry-api/pkg/util"
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 8

var errInvalidCredentials = apperrors.NewUnauthorized("invalid credentials")

// RegisterInput carries the fields of a registration request.
type RegisterInput struct {
	Email     string
	Password  string
	LastName  string
	FirstName string
	Phone     string
	Role      string
}

// AuthResult is returned by login and registration.
type AuthResult struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

// AuthService coordinates registration and login flows.
type AuthService struct {
	users      repository.UserRepository
	tokens     *auth.TokenService
	revoker    auth.Revoker
	dispatcher events.Dispatcher
	logger     *zap.Logger
	bcryptCost int
}

// AuthDependencies encapsulates collaborators of the auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	Tokens     *auth.TokenService
	Revoker    auth.Revoker
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(bcryptCost int, deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:      deps.UserRepo,
		tokens:     deps.Tokens,
		revoker:    deps.Revoker,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		bcryptCost: bcryptCost,
	}
}

// Register creates a new account and logs it in.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	email, err := validateEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if len(in.Password) < MinPasswordLength {
		return nil, apperrors.NewValidationError("password too short", map[string]any{"min_length": MinPasswordLength})
	}
	if strings.TrimSpace(in.LastName) == "" {
		return nil, apperrors.NewValidationError("nom is required", nil)
	}
	role, err := domain.ParseRole(in.Role)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid role", map[string]any{"role": in.Role})
	}
	if role == domain.RoleAdmin {
		return nil, apperrors.WrapForbidden("administrator accounts cannot self-register", auth.ErrForbidden)
	}

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.NewConflict("email already registered", nil)
	}

	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return nil, apperrors.NewValidationError(err.Error(), nil)
		}
		return nil, err
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: hash,
		LastName:     strings.TrimSpace(in.LastName),
		FirstName:    strings.TrimSpace(in.FirstName),
		Phone:        strings.TrimSpace(in.Phone),
		Role:         role,
		Active:       true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if repository.IsDuplicateEmail(err) {
			return nil, apperrors.NewConflict("email already registered", nil)
		}
		return nil, err
	}
	s.publish(ctx, events.New(events.EventUserRegistered, user.ID, events.UserRegisteredPayload{Email: user.Email, Role: user.Role}))

	return s.issue(user)
}

// Login authenticates by email and password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.loginFailed(ctx, email, "unknown_email")
			return nil, errInvalidCredentials
		}
		return nil, err
	}
	if !user.Active {
		s.loginFailed(ctx, email, "inactive")
		return nil, errInvalidCredentials
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		s.loginFailed(ctx, email, "bad_password")
		return nil, errInvalidCredentials
	}

	result, err := s.issue(user)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.New(events.EventUserLoggedIn, user.ID, events.LoginPayload{Email: user.Email}))
	return result, nil
}

// Logout revokes the caller's current token when a revocation list is
// configured. Without one, logout is a client-side discard.
func (s *AuthService) Logout(ctx context.Context, principal *auth.Principal) error {
	if principal == nil {
		return apperrors.WrapUnauthorized("authentication required", auth.ErrUnauthenticated)
	}
	if s.revoker == nil {
		return nil
	}
	if err := s.revoker.Revoke(ctx, principal.TokenID, principal.ExpiresAt); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	s.publish(ctx, events.New(events.EventTokenRevoked, principal.UserID, events.TokenRevokedPayload{
		TokenID:   principal.TokenID,
		ExpiresAt: principal.ExpiresAt,
	}))
	return nil
}

// Profile returns the caller's account.
func (s *AuthService) Profile(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, err
	}
	return user, nil
}

// ChangePassword verifies current password before updating to new hash.
func (s *AuthService) ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error {
	if len(newPassword) < MinPasswordLength {
		return apperrors.NewValidationError("password too short", map[string]any{"min_length": MinPasswordLength})
	}
	user, err := s.Profile(ctx, userID)
	if err != nil {
		return err
	}
	if err := auth.ComparePassword(user.PasswordHash, currentPassword); err != nil {
		return errInvalidCredentials
	}
	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return apperrors.NewValidationError(err.Error(), nil)
		}
		return err
	}
	user.PasswordHash = hash
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}
	s.publish(ctx, events.New(events.EventPasswordChanged, user.ID, nil))
	return nil
}

func (s *AuthService) issue(user *domain.User) (*AuthResult, error) {
	token, exp, err := s.tokens.Issue(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &AuthResult{User: user, Token: token, ExpiresAt: exp}, nil
}

func (s *AuthService) loginFailed(ctx context.Context, email, reason string) {
	s.publish(ctx, events.New(events.EventLoginFailed, 0, events.LoginPayload{Email: email, Reason: reason}))
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

func validateEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || len(email) > 50 {
		return "", apperrors.NewValidationError("invalid email", map[string]any{"email": raw})
	}
	return email, nil
}
