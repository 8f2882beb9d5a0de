package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/netdesk/internal/api/dto"
	"github.com/spec-kit/netdesk/internal/service"
	apperrors "github.com/spec-kit/netdesk/pkg/util"
)

// AuthHandler serves signup, login, refresh and logout.
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{service: authService}
}

// Signup POST /auth/signup.
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validateSignup(req); err != nil {
		return err
	}
	user, err := h.service.Signup(c.Context(), service.SignupInput{
		Name:          req.Name,
		Email:         req.Email,
		Password:      req.Password,
		ContactNumber: req.ContactNumber,
		Location:      req.Location,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "account created", dto.NewUserResponse(user))
}

// Login POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}
	user, session, err := h.service.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "login successful", fiber.Map{
		"user":    dto.NewUserResponse(user),
		"session": sessionResponse(session),
	})
}

// Refresh POST /auth/refresh.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.RefreshToken == "" {
		return apperrors.NewValidationError("refresh_token required", nil)
	}
	user, session, err := h.service.Refresh(c.Context(), req.RefreshToken)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "session refreshed", fiber.Map{
		"user":    dto.NewUserResponse(user),
		"session": sessionResponse(session),
	})
}

// Logout POST /auth/logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	if err := h.service.Logout(c.Context(), p); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "logged out", nil)
}

func sessionResponse(session *service.Session) dto.SessionResponse {
	return dto.SessionResponse{
		AccessToken:  session.AccessToken,
		ExpiresAt:    session.ExpiresAt,
		RefreshToken: session.RefreshToken,
	}
}

func validateSignup(req dto.SignupRequest) error {
	missing := []string{}
	if strings.TrimSpace(req.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(req.Email) == "" {
		missing = append(missing, "email")
	}
	if req.Password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return apperrors.NewValidationError("missing required fields", fiber.Map{"fields": missing})
	}
	return nil
}
