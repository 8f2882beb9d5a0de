package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/netdesk/internal/domain"
	apperrors "github.com/spec-kit/netdesk/pkg/util"
)

// RequireRole ensures the principal holds one of the allowed roles.
// An empty list only requires authentication.
func RequireRole(allowed ...domain.Role) fiber.Handler {
	allowedSet := make(map[domain.Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.User == nil {
			return apperrors.NewUnauthorized("authentication required")
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[principal.User.Role]; !exists {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}

// RequireOperation gates a route on the authorization-policy table.
func RequireOperation(op Operation) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.User == nil {
			return apperrors.NewUnauthorized("authentication required")
		}
		if !Allowed(op, principal.User.Role) {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}
