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

// SLAService manages the SLA lookup table.
type SLAService struct {
	slas repository.SLARepository
}

// NewSLAService constructs the service.
func NewSLAService(slas repository.SLARepository) *SLAService {
	return &SLAService{slas: slas}
}

// SLAInput describes an SLA create/update payload.
type SLAInput struct {
	Severity    domain.Severity
	Priority    domain.Priority
	TimeLimitHr int
}

// Create adds an SLA record. Admin only.
func (s *SLAService) Create(ctx context.Context, caller *domain.User, input SLAInput) (*domain.SLA, error) {
	if !auth.Allowed(auth.OpSLAManage, caller.Role) {
		return nil, apperrors.NewForbidden("only admins can manage SLAs")
	}
	if input.TimeLimitHr <= 0 {
		return nil, apperrors.NewValidationError("time limit must be positive", nil)
	}
	sla := &domain.SLA{
		Severity:    input.Severity,
		Priority:    input.Priority,
		TimeLimitHr: input.TimeLimitHr,
	}
	if err := s.slas.Create(ctx, sla); err != nil {
		return nil, apperrors.MapError(err)
	}
	return sla, nil
}

// Update rewrites an SLA record. Admin only.
func (s *SLAService) Update(ctx context.Context, caller *domain.User, id int64, input SLAInput) (*domain.SLA, error) {
	if !auth.Allowed(auth.OpSLAManage, caller.Role) {
		return nil, apperrors.NewForbidden("only admins can manage SLAs")
	}
	if input.TimeLimitHr <= 0 {
		return nil, apperrors.NewValidationError("time limit must be positive", nil)
	}
	sla, err := s.slas.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("sla", map[string]any{"sla_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	sla.Severity = input.Severity
	sla.Priority = input.Priority
	sla.TimeLimitHr = input.TimeLimitHr
	if err := s.slas.Update(ctx, sla); err != nil {
		return nil, apperrors.MapError(err)
	}
	return sla, nil
}

// Delete removes an SLA record. Admin only.
func (s *SLAService) Delete(ctx context.Context, caller *domain.User, id int64) error {
	if !auth.Allowed(auth.OpSLAManage, caller.Role) {
		return apperrors.NewForbidden("only admins can manage SLAs")
	}
	if err := s.slas.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("sla", map[string]any{"sla_id": id})
		}
		return apperrors.MapError(err)
	}
	return nil
}

// List returns the SLA table for staff classification screens.
func (s *SLAService) List(ctx context.Context, caller *domain.User) ([]domain.SLA, error) {
	if !auth.Allowed(auth.OpSLAList, caller.Role) {
		return nil, apperrors.NewForbidden("role not permitted to list SLAs")
	}
	slas, err := s.slas.ListAll(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return slas, nil
}
