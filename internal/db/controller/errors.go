// Package controller holds the gorm repositories of the access control core
// and the error translation they share.
package controller

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/FleetRent-Admin/FleetRent-Admin/internal/auth"
)

// ErrDBNil is returned when the database connection is nil.
var ErrDBNil = errors.New("database connection is nil")

// IsDuplicateKey reports whether err is a unique constraint violation.
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	msg := strings.ToLower(err.Error())

	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate entry") ||
		strings.Contains(msg, "duplicate key")
}

// Translate maps gorm errors onto the domain errors of package auth. A
// unique violation becomes conflict, a missing row auth.ErrNotFound and any
// other failure auth.ErrInfrastructure.
func Translate(err error, conflict error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return auth.ErrNotFound
	case conflict != nil && IsDuplicateKey(err):
		return conflict
	default:
		return auth.Infrastructure(err)
	}
}
