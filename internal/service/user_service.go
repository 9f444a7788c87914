package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/registre-medical/registry-api/internal/auth"
	"github.com/registre-medical/registry-api/internal/domain"
	"github.com/registre-medical/registry-api/internal/events"
	"github.com/registre-medical/registry-api/internal/repository"
	apperrors "github.com/registre-medical/registry-api/pkg/util"
)

// UserService serves the user directory.
type UserService struct {
	users      repository.UserRepository
	dispatcher events.Dispatcher
}

// NewUserService builds the service.
func NewUserService(users repository.UserRepository, dispatcher events.Dispatcher) *UserService {
	return &UserService{users: users, dispatcher: dispatcher}
}

// List returns accounts, optionally restricted to one role.
func (s *UserService) List(ctx context.Context, role *domain.Role, limit, offset int) ([]domain.User, error) {
	return s.users.List(ctx, repository.UserFilter{Role: role, Limit: limit, Offset: offset})
}

// Get returns an account visible to the caller: their own, or any for ADMIN.
func (s *UserService) Get(ctx context.Context, caller *auth.Principal, id int64) (*domain.User, error) {
	if caller == nil {
		return nil, apperrors.WrapUnauthorized("authentication required", auth.ErrUnauthenticated)
	}
	if caller.UserID != id && caller.Role != domain.RoleAdmin {
		return nil, apperrors.WrapForbidden("not allowed to view this user", auth.ErrForbidden)
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"id": id})
		}
		return nil, err
	}
	return user, nil
}

// Deactivate soft-deletes an account. Outstanding tokens of that account stop
// resolving immediately.
func (s *UserService) Deactivate(ctx context.Context, actor *auth.Principal, id int64) error {
	if actor == nil {
		return apperrors.WrapUnauthorized("authentication required", auth.ErrUnauthenticated)
	}
	if actor.UserID == id {
		return apperrors.NewValidationError("cannot deactivate your own account", nil)
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user", map[string]any{"id": id})
		}
		return err
	}
	if !user.Active {
		return nil
	}
	user.Active = false
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}
	if s.dispatcher != nil {
		event := events.New(events.EventUserDeactivated, id, nil)
		event.ActorID = actor.UserID
		_ = s.dispatcher.Publish(ctx, event)
	}
	return nil
}
