package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/netdesk/internal/auth"
	"github.com/spec-kit/netdesk/internal/domain"
	"github.com/spec-kit/netdesk/internal/repository"
	apperrors "github.com/spec-kit/netdesk/pkg/util"
)

// UserService exposes directory-style user reads.
type UserService struct {
	users repository.UserRepository
}

// NewUserService constructs the service.
func NewUserService(users repository.UserRepository) *UserService {
	return &UserService{users: users}
}

// List returns users, optionally filtered by role. Admin only.
func (s *UserService) List(ctx context.Context, caller *domain.User, role *domain.Role) ([]domain.User, error) {
	if !auth.Allowed(auth.OpUserList, caller.Role) {
		return nil, apperrors.NewForbidden("only admins can list users")
	}
	users, err := s.users.List(ctx, role)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return users, nil
}

// Get fetches one user. Staff may look up anyone; customers only
// themselves.
func (s *UserService) Get(ctx context.Context, caller *domain.User, id int64) (*domain.User, error) {
	if caller.Role == domain.RoleCustomer && caller.ID != id {
		return nil, apperrors.NewForbidden("access denied")
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return user, nil
}
