package dto

import (
	"time"

	"github.com/spec-kit/netdesk/internal/domain"
)

// SignupRequest registers a customer account.
type SignupRequest struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	ContactNumber string `json:"contact_number"`
	Location      string `json:"location"`
}

// CreateUserRequest registers an account with an explicit role (admin).
type CreateUserRequest struct {
	SignupRequest
	Role string `json:"role"`
}

// LoginRequest carries credentials.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest exchanges a refresh token.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// SessionResponse returns issued credentials.
type SessionResponse struct {
	AccessToken  string    `json:"access_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	RefreshToken string    `json:"refresh_token"`
}

// UserResponse is the external user representation.
type UserResponse struct {
	ID            int64     `json:"user_id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Role          string    `json:"role"`
	ContactNumber string    `json:"contact_number,omitempty"`
	Location      string    `json:"location,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewUserResponse maps a domain user.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:            user.ID,
		Name:          user.Name,
		Email:         user.Email,
		Role:          string(user.Role),
		ContactNumber: user.ContactNumber,
		Location:      user.Location,
		CreatedAt:     user.CreatedAt,
	}
}
