package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/FleetRent-Admin/FleetRent-Admin/internal/auth"
)

// ErrInvalidID is returned when a path parameter is not a uuid.
var ErrInvalidID = errors.New("invalid id")

// StatusFor maps a domain error to its http status code.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, ErrInvalidID), errors.Is(err, auth.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, auth.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, auth.ErrDuplicateName),
		errors.Is(err, auth.ErrAlreadyAssigned),
		errors.Is(err, auth.ErrRoleInUse):
		return fiber.StatusConflict
	case errors.Is(err, auth.ErrSystemRoleImmutable),
		errors.Is(err, auth.ErrDefaultRoleImmutable),
		errors.Is(err, auth.ErrAccessDenied):
		return fiber.StatusForbidden
	default:
		return fiber.StatusInternalServerError
	}
}

// Error writes err as a json error body. Infrastructure failures are logged
// and answered without details.
func Error(c fiber.Ctx, err error) error {
	status := StatusFor(err)

	if status == fiber.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Msg("request failed")

		return c.Status(status).JSON(fiber.Map{"error": MsgInternal})
	}

	if errors.Is(err, auth.ErrAccessDenied) {
		return c.Status(status).JSON(fiber.Map{"error": auth.ErrAccessDenied.Error()})
	}

	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

// ValidationFailed writes the validator findings as a 400 response.
func ValidationFailed(c fiber.Ctx, errs []ErrorResponse) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error":  MsgValidationFailed,
		"fields": errs,
	})
}

// BadBody writes a 400 response for an undecodable body.
func BadBody(c fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": MsgInvalidBody})
}

// UUIDParam parses the route parameter name as uuid.
func UUIDParam(c fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, ErrInvalidID
	}

	return id, nil
}

// UUIDQuery parses the query parameter name as uuid.
func UUIDQuery(c fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Query(name))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, ErrInvalidID
	}

	return id, nil
}

// Caller returns the authenticated user of the request.
func Caller(c fiber.Ctx) (uuid.UUID, error) {
	id, ok := auth.UserIDFromContext(c)
	if !ok {
		return uuid.Nil, auth.ErrAccessDenied
	}

	return id, nil
}
