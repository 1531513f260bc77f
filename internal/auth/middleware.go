package auth

import (
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// LocalsUserID is the fiber.Locals key holding the authenticated user id.
const LocalsUserID = "auth.user_id"

// UserIDFromContext returns the authenticated user id of the request.
func UserIDFromContext(c fiber.Ctx) (uuid.UUID, bool) {
	id, ok := c.Locals(LocalsUserID).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, false
	}

	return id, true
}

func unauthorized(c fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
}

func forbidden(c fiber.Ctx) error {
	return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": ErrAccessDenied.Error()})
}

func internalError(c fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
}

// RequirePermission creates Fiber middleware that requires a specific permission.
func RequirePermission(authService *Service, permission Permission) fiber.Handler {
	code := permission.Code()

	return func(c fiber.Ctx) error {
		userID, ok := UserIDFromContext(c)
		if !ok {
			return unauthorized(c)
		}

		hasPermission, err := authService.HasPermission(c.Context(), userID, code)
		if err != nil {
			log.Error().Err(err).Str("user_id", userID.String()).Str("permission", code).
				Msg("Failed to check permission")

			return internalError(c)
		}

		if !hasPermission {
			log.Warn().Str("user_id", userID.String()).Str("permission", code).
				Msg("User lacks required permission")
			accessDenials.WithLabelValues(code).Inc()

			return forbidden(c)
		}

		return c.Next()
	}
}

// RequireAnyPermission creates Fiber middleware that requires at least one of the given permissions.
func RequireAnyPermission(authService *Service, permissions ...Permission) fiber.Handler {
	codes := Codes(permissions...)

	return func(c fiber.Ctx) error {
		userID, ok := UserIDFromContext(c)
		if !ok {
			return unauthorized(c)
		}

		hasPermission, err := authService.HasAnyPermission(c.Context(), userID, codes)
		if err != nil {
			log.Error().Err(err).Str("user_id", userID.String()).Strs("permissions", codes).
				Msg("Failed to check permissions")

			return internalError(c)
		}

		if !hasPermission {
			log.Warn().Str("user_id", userID.String()).Strs("permissions", codes).
				Msg("User lacks required permissions")
			accessDenials.WithLabelValues(strings.Join(codes, "|")).Inc()

			return forbidden(c)
		}

		return c.Next()
	}
}

// RequireAllPermissions creates Fiber middleware that requires all the given permissions.
func RequireAllPermissions(authService *Service, permissions ...Permission) fiber.Handler {
	codes := Codes(permissions...)

	return func(c fiber.Ctx) error {
		userID, ok := UserIDFromContext(c)
		if !ok {
			return unauthorized(c)
		}

		hasPermissions, err := authService.HasAllPermissions(c.Context(), userID, codes)
		if err != nil {
			log.Error().Err(err).Str("user_id", userID.String()).Strs("permissions", codes).
				Msg("Failed to check permissions")

			return internalError(c)
		}

		if !hasPermissions {
			log.Warn().Str("user_id", userID.String()).Strs("permissions", codes).
				Msg("User lacks required permissions")
			accessDenials.WithLabelValues(strings.Join(codes, "&")).Inc()

			return forbidden(c)
		}

		return c.Next()
	}
}

// RequireAuthenticated rejects requests without an authenticated user.
func RequireAuthenticated() fiber.Handler {
	return func(c fiber.Ctx) error {
		if _, ok := UserIDFromContext(c); !ok {
			return unauthorized(c)
		}

		return c.Next()
	}
}
