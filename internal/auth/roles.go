package auth

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/event-ticketing/internal/domain"
)

// RequireAuthenticated ensures a principal is present.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
		}
		return c.Next()
	}
}

// RequireOrganizer ensures the caller holds the organizer role.
func RequireOrganizer() fiber.Handler {
	return requireRole(domain.UserRoleOrganizer, "organizer role required")
}

// RequireAttendee ensures the caller holds the attendee role.
func RequireAttendee() fiber.Handler {
	return requireRole(domain.UserRoleAttendee, "attendee role required")
}

func requireRole(role domain.UserRole, message string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.User == nil {
			return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
		}
		if principal.User.Role != role {
			return fiber.NewError(http.StatusForbidden, message)
		}
		return c.Next()
	}
}
