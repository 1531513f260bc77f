// Package role provides the gorm backed role repository.
package role

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

const orgQueryPattern = "organization_id = ?"

// Store implements auth.RoleRepository on top of gorm.
type Store struct {
	db *gorm.DB
}

var _ auth.RoleRepository = (*Store)(nil)

// New creates a role store.
func New(db *gorm.DB) (*Store, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	return &Store{db: db}, nil
}

// Create inserts role.
func (s *Store) Create(ctx context.Context, role *models.Role) error {
	return controller.Translate(s.db.WithContext(ctx).Create(role).Error, auth.ErrDuplicateName)
}

// Update saves every field of role.
func (s *Store) Update(ctx context.Context, role *models.Role) error {
	return controller.Translate(s.db.WithContext(ctx).Save(role).Error, auth.ErrDuplicateName)
}

// Delete removes the role with id.
func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Delete(&models.Role{}, "id = ?", id)
	if result.Error != nil {
		return controller.Translate(result.Error, nil)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: role %s", auth.ErrNotFound, id)
	}

	return nil
}

// FindByID returns the role with id.
func (s *Store) FindByID(ctx context.Context, id uuid.UUID) (*models.Role, error) {
	var role models.Role

	if err := s.db.WithContext(ctx).First(&role, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: role %s", auth.ErrNotFound, id)
		}

		return nil, controller.Translate(err, nil)
	}

	return &role, nil
}

// FindByOrganization returns the roles of an organization, highest priority first.
func (s *Store) FindByOrganization(ctx context.Context, organizationID uuid.UUID) ([]models.Role, error) {
	var roles []models.Role

	err := s.db.WithContext(ctx).
		Where(orgQueryPattern, organizationID).
		Order("priority DESC, name ASC").
		Find(&roles).Error

	return roles, controller.Translate(err, nil)
}

// ExistsByName reports whether name is taken inside the organization.
func (s *Store) ExistsByName(ctx context.Context, organizationID *uuid.UUID, name string) (bool, error) {
	var count int64

	q := s.db.WithContext(ctx).Model(&models.Role{}).Where("name = ?", name)
	if organizationID == nil {
		q = q.Where("organization_id IS NULL")
	} else {
		q = q.Where(orgQueryPattern, *organizationID)
	}

	if err := q.Count(&count).Error; err != nil {
		return false, controller.Translate(err, nil)
	}

	return count > 0, nil
}

// FindDefaults returns the default roles available to an organization, its
// own ones and the global ones.
func (s *Store) FindDefaults(ctx context.Context, organizationID uuid.UUID) ([]models.Role, error) {
	var roles []models.Role

	err := s.db.WithContext(ctx).
		Where("(organization_id = ? OR organization_id IS NULL) AND is_default_role = ?", organizationID, true).
		Order("priority DESC, name ASC").
		Find(&roles).Error

	return roles, controller.Translate(err, nil)
}

// FindSystem returns the system roles.
func (s *Store) FindSystem(ctx context.Context) ([]models.Role, error) {
	var roles []models.Role

	err := s.db.WithContext(ctx).
		Where("is_system_role = ?", true).
		Order("priority DESC, name ASC").
		Find(&roles).Error

	return roles, controller.Translate(err, nil)
}
