package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/netdesk/internal/domain"
	"github.com/spec-kit/netdesk/internal/repository"
	apperrors "github.com/spec-kit/netdesk/pkg/util"
)

// AddressService manages customer service addresses.
type AddressService struct {
	addresses repository.AddressRepository
	users     repository.UserRepository
}

// NewAddressService constructs the service.
func NewAddressService(addresses repository.AddressRepository, users repository.UserRepository) *AddressService {
	return &AddressService{addresses: addresses, users: users}
}

// AddressInput describes an address payload.
type AddressInput struct {
	Street     string
	City       string
	State      string
	PostalCode string
	Country    string
}

func (in AddressInput) validate() error {
	missing := []string{}
	for field, value := range map[string]string{
		"street":      in.Street,
		"city":        in.City,
		"state":       in.State,
		"postal_code": in.PostalCode,
		"country":     in.Country,
	} {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return apperrors.NewValidationError("missing required fields", map[string]any{"fields": missing})
	}
	return nil
}

// Create adds an address for ownerID. Customers may only create their
// own addresses; admins may create for any existing user.
func (s *AddressService) Create(ctx context.Context, caller *domain.User, ownerID int64, input AddressInput) (*domain.Address, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	if caller.Role != domain.RoleAdmin && ownerID != caller.ID {
		return nil, apperrors.NewForbidden("cannot create addresses for another user")
	}
	if ownerID != caller.ID {
		if _, err := s.users.GetByID(ctx, ownerID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewValidationError("user does not exist", map[string]any{"user_id": ownerID})
			}
			return nil, apperrors.MapError(err)
		}
	}

	address := &domain.Address{
		UserID:     ownerID,
		Street:     input.Street,
		City:       input.City,
		State:      input.State,
		PostalCode: input.PostalCode,
		Country:    input.Country,
	}
	if err := s.addresses.Create(ctx, address); err != nil {
		return nil, apperrors.MapError(err)
	}
	return address, nil
}

// Update rewrites an address; owner or admin only.
func (s *AddressService) Update(ctx context.Context, caller *domain.User, id int64, input AddressInput) (*domain.Address, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	address, err := s.getOwned(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	address.Street = input.Street
	address.City = input.City
	address.State = input.State
	address.PostalCode = input.PostalCode
	address.Country = input.Country
	if err := s.addresses.Update(ctx, address); err != nil {
		return nil, apperrors.MapError(err)
	}
	return address, nil
}

// Delete removes an address; owner or admin only.
func (s *AddressService) Delete(ctx context.Context, caller *domain.User, id int64) error {
	address, err := s.getOwned(ctx, caller, id)
	if err != nil {
		return err
	}
	return apperrors.MapError(s.addresses.Delete(ctx, address.ID))
}

// ListByUser returns a user's addresses; customers only see their own.
func (s *AddressService) ListByUser(ctx context.Context, caller *domain.User, userID int64) ([]domain.Address, error) {
	if caller.Role == domain.RoleCustomer && userID != caller.ID {
		return nil, apperrors.NewForbidden("access denied")
	}
	addresses, err := s.addresses.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return addresses, nil
}

func (s *AddressService) getOwned(ctx context.Context, caller *domain.User, id int64) (*domain.Address, error) {
	address, err := s.addresses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("address", map[string]any{"address_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	if caller.Role != domain.RoleAdmin && address.UserID != caller.ID {
		return nil, apperrors.NewForbidden("access denied")
	}
	return address, nil
}
