package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/netdesk/internal/api/dto"
	"github.com/spec-kit/netdesk/internal/domain"
	"github.com/spec-kit/netdesk/internal/service"
	apperrors "github.com/spec-kit/netdesk/pkg/util"
)

// UsersHandler serves the user directory.
type UsersHandler struct {
	users *service.UserService
	auth  *service.AuthService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(userService *service.UserService, authService *service.AuthService) *UsersHandler {
	return &UsersHandler{users: userService, auth: authService}
}

// Me GET /user/me.
func (h *UsersHandler) Me(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "profile", dto.NewUserResponse(p.User))
}

// GetUser GET /user/:id.
func (h *UsersHandler) GetUser(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	user, err := h.users.Get(c.Context(), p.User, id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "user", dto.NewUserResponse(user))
}

// ListUsers GET /user.
func (h *UsersHandler) ListUsers(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var roleFilter *domain.Role
	if raw := c.Query("role"); raw != "" {
		role, err := domain.ParseRole(raw)
		if err != nil {
			return apperrors.NewValidationError(err.Error(), nil)
		}
		roleFilter = &role
	}
	users, err := h.users.List(c.Context(), p.User, roleFilter)
	if err != nil {
		return err
	}
	items := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, dto.NewUserResponse(&users[i]))
	}
	return respond(c, http.StatusOK, "users", items)
}

// CreateUser POST /user. Admin provisioning of staff accounts.
func (h *UsersHandler) CreateUser(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validateSignup(req.SignupRequest); err != nil {
		return err
	}
	role, err := domain.ParseRole(req.Role)
	if err != nil {
		return apperrors.NewValidationError(err.Error(), nil)
	}
	user, err := h.auth.CreateUser(c.Context(), p.User, service.SignupInput{
		Name:          req.Name,
		Email:         req.Email,
		Password:      req.Password,
		ContactNumber: req.ContactNumber,
		Location:      req.Location,
	}, role)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "user created", dto.NewUserResponse(user))
}
