package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/netdesk/internal/auth"
	"github.com/spec-kit/netdesk/internal/domain"
	"github.com/spec-kit/netdesk/internal/repository"
	apperrors "github.com/spec-kit/netdesk/pkg/util"
)

// CategoryService manages issue-category reference data.
type CategoryService struct {
	categories repository.IssueCategoryRepository
}

// NewCategoryService constructs the service.
func NewCategoryService(categories repository.IssueCategoryRepository) *CategoryService {
	return &CategoryService{categories: categories}
}

// Create adds a category; names are unique.
func (s *CategoryService) Create(ctx context.Context, caller *domain.User, name string) (*domain.IssueCategory, error) {
	if !auth.Allowed(auth.OpCategoryManage, caller.Role) {
		return nil, apperrors.NewForbidden("role not permitted to manage categories")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("category name required", nil)
	}
	if _, err := s.categories.GetByName(ctx, name); err == nil {
		return nil, apperrors.NewConflict("category name already exists", map[string]any{"name": name})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	category := &domain.IssueCategory{Name: name}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, apperrors.MapError(err)
	}
	return category, nil
}

// Update renames a category, keeping names unique.
func (s *CategoryService) Update(ctx context.Context, caller *domain.User, id int64, name string) (*domain.IssueCategory, error) {
	if !auth.Allowed(auth.OpCategoryManage, caller.Role) {
		return nil, apperrors.NewForbidden("role not permitted to manage categories")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("category name required", nil)
	}
	if existing, err := s.categories.GetByName(ctx, name); err == nil && existing.ID != id {
		return nil, apperrors.NewConflict("another category with this name already exists", map[string]any{"name": name})
	} else if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("category", map[string]any{"category_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	category.Name = name
	if err := s.categories.Update(ctx, category); err != nil {
		return nil, apperrors.MapError(err)
	}
	return category, nil
}

// Delete removes a category.
func (s *CategoryService) Delete(ctx context.Context, caller *domain.User, id int64) error {
	if !auth.Allowed(auth.OpCategoryManage, caller.Role) {
		return apperrors.NewForbidden("role not permitted to manage categories")
	}
	if err := s.categories.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("category", map[string]any{"category_id": id})
		}
		return apperrors.MapError(err)
	}
	return nil
}

// List returns all categories; any authenticated caller may read them.
func (s *CategoryService) List(ctx context.Context) ([]domain.IssueCategory, error) {
	categories, err := s.categories.ListAll(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return categories, nil
}
