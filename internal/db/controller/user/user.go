// Package user provides the gorm backed user directory.
package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/FleetRent-Admin/FleetRent-Admin/internal/auth"
	"github.com/FleetRent-Admin/FleetRent-Admin/internal/db/controller"
	"github.com/FleetRent-Admin/FleetRent-Admin/internal/db/models"
)

// Directory implements auth.UserDirectory on top of gorm.
type Directory struct {
	db *gorm.DB
}

var _ auth.UserDirectory = (*Directory)(nil)

// New creates a user directory.
func New(db *gorm.DB) (*Directory, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	return &Directory{db: db}, nil
}

// FindUser returns the user with id.
func (d *Directory) FindUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User

	if err := d.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %s", auth.ErrNotFound, id)
		}

		return nil, controller.Translate(err, nil)
	}

	return &u, nil
}
