package domain

import (
	"fmt"
	"strings"
	"time"
)

// Role enumerates the closed set of user roles. A user is created with
// exactly one role and never changes it.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAgent    Role = "agent"
	RoleEngineer Role = "engineer"
	RoleManager  Role = "manager"
	RoleAdmin    Role = "admin"
)

// ParseRole normalizes external input into a Role.
func ParseRole(raw string) (Role, error) {
	role := Role(strings.ToLower(strings.TrimSpace(raw)))
	switch role {
	case RoleCustomer, RoleAgent, RoleEngineer, RoleManager, RoleAdmin:
		return role, nil
	}
	return "", fmt.Errorf("unknown role %q", raw)
}

// IsStaff reports whether the role belongs to internal personnel.
func (r Role) IsStaff() bool {
	return r != RoleCustomer && r != ""
}

// User is the domain model for every actor in the system.
type User struct {
	ID            int64
	Name          string
	Email         string
	Role          Role
	ContactNumber string
	Location      string
	PasswordHash  string
	CreatedAt     time.Time
}
