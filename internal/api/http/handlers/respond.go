package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/netdesk/internal/api/dto"
	"github.com/spec-kit/netdesk/internal/auth"
	apperrors "github.com/spec-kit/netdesk/pkg/util"
)

func respond(c *fiber.Ctx, httpStatus int, message string, data any) error {
	return c.Status(httpStatus).JSON(dto.Envelope{
		Status:  "success",
		Message: message,
		Data:    data,
	})
}

func principal(c *fiber.Ctx) (*auth.Principal, error) {
	p, ok := auth.PrincipalFromContext(c)
	if !ok || p.User == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	return p, nil
}

func paramQueryID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid user_id", nil)
	}
	return id, nil
}

func paramID(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid "+name, nil)
	}
	return id, nil
}
