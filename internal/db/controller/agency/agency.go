// Package agency provides the gorm backed agency directory.
package agency

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

// Directory implements auth.AgencyDirectory on top of gorm.
type Directory struct {
	db *gorm.DB
}

var _ auth.AgencyDirectory = (*Directory)(nil)

// New creates an agency directory.
func New(db *gorm.DB) (*Directory, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	return &Directory{db: db}, nil
}

// FindAgency returns the agency with id.
func (d *Directory) FindAgency(ctx context.Context, id uuid.UUID) (*models.Agency, error) {
	var a models.Agency

	if err := d.db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: agency %s", auth.ErrNotFound, id)
		}

		return nil, controller.Translate(err, nil)
	}

	return &a, nil
}
