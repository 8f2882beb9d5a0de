package dto

import (
	"time"

	"github.com/spec-kit/netdesk/internal/domain"
)

// SLARequest is an SLA create/update payload.
type SLARequest struct {
	Severity    string `json:"severity"`
	Priority    string `json:"priority"`
	TimeLimitHr int    `json:"time_limit_hr"`
}

// SLAResponse is the external SLA representation.
type SLAResponse struct {
	ID          int64  `json:"sla_id"`
	Severity    string `json:"severity"`
	Priority    string `json:"priority"`
	TimeLimitHr int    `json:"time_limit_hr"`
}

// NewSLAResponse maps a domain SLA.
func NewSLAResponse(sla *domain.SLA) SLAResponse {
	return SLAResponse{
		ID:          sla.ID,
		Severity:    string(sla.Severity),
		Priority:    string(sla.Priority),
		TimeLimitHr: sla.TimeLimitHr,
	}
}

// AddressRequest is an address payload.
type AddressRequest struct {
	UserID     int64  `json:"user_id,omitempty"`
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// AddressResponse is the external address representation.
type AddressResponse struct {
	ID         int64     `json:"address_id"`
	UserID     int64     `json:"user_id"`
	Street     string    `json:"street"`
	City       string    `json:"city"`
	State      string    `json:"state"`
	PostalCode string    `json:"postal_code"`
	Country    string    `json:"country"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewAddressResponse maps a domain address.
func NewAddressResponse(address *domain.Address) AddressResponse {
	return AddressResponse{
		ID:         address.ID,
		UserID:     address.UserID,
		Street:     address.Street,
		City:       address.City,
		State:      address.State,
		PostalCode: address.PostalCode,
		Country:    address.Country,
		CreatedAt:  address.CreatedAt,
	}
}

// CategoryRequest is an issue-category payload.
type CategoryRequest struct {
	CategoryName string `json:"category_name"`
}

// CategoryResponse is the external category representation.
type CategoryResponse struct {
	ID           int64  `json:"category_id"`
	CategoryName string `json:"category_name"`
}

// NewCategoryResponse maps a domain category.
func NewCategoryResponse(category *domain.IssueCategory) CategoryResponse {
	return CategoryResponse{ID: category.ID, CategoryName: category.Name}
}
