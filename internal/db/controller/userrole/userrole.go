// Package userrole provides the gorm backed role binding repository.
package userrole

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

const newestFirst = "assigned_at DESC, created_at DESC"

// Store implements auth.UserRoleRepository on top of gorm. The unique index
// on user_roles.active_key makes a second active binding of a pair fail at
// insert time, whatever the callers checked before.
type Store struct {
	db *gorm.DB
}

var _ auth.UserRoleRepository = (*Store)(nil)

// New creates a binding store.
func New(db *gorm.DB) (*Store, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	return &Store{db: db}, nil
}

// Create inserts binding after releasing the slot held by expired bindings of the pair.
func (s *Store) Create(ctx context.Context, binding *models.UserRole) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.UserRole{}).
			Where("user_id = ? AND role_id = ?", binding.UserID, binding.RoleID).
			Where("active_key IS NOT NULL AND expires_at IS NOT NULL AND expires_at <= ?", binding.AssignedAt).
			Update("active_key", gorm.Expr("NULL")).Error; err != nil {
			return err //nolint:wrapcheck
		}

		return tx.Create(binding).Error
	})

	return controller.Translate(err, auth.ErrAlreadyAssigned)
}

// Update saves every field of binding.
func (s *Store) Update(ctx context.Context, binding *models.UserRole) error {
	return controller.Translate(s.db.WithContext(ctx).Save(binding).Error, auth.ErrAlreadyAssigned)
}

// FindLatest returns the most recently assigned binding of the pair.
func (s *Store) FindLatest(ctx context.Context, userID, roleID uuid.UUID) (*models.UserRole, error) {
	var binding models.UserRole

	err := s.db.WithContext(ctx).
		Where("user_id = ? AND role_id = ?", userID, roleID).
		Order(newestFirst).
		First(&binding).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: no assignment of role %s to user %s", auth.ErrNotFound, roleID, userID)
		}

		return nil, controller.Translate(err, nil)
	}

	return &binding, nil
}

// FindActiveByUser returns the bindings of the user flagged active.
func (s *Store) FindActiveByUser(ctx context.Context, userID uuid.UUID) ([]models.UserRole, error) {
	var bindings []models.UserRole

	err := s.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		Order(newestFirst).
		Find(&bindings).Error

	return bindings, controller.Translate(err, nil)
}

// FindActiveByRole returns the bindings of the role flagged active.
func (s *Store) FindActiveByRole(ctx context.Context, roleID uuid.UUID) ([]models.UserRole, error) {
	var bindings []models.UserRole

	err := s.db.WithContext(ctx).
		Where("role_id = ? AND is_active = ?", roleID, true).
		Order(newestFirst).
		Find(&bindings).Error

	return bindings, controller.Translate(err, nil)
}

// FindByUser returns every binding of the user, newest first.
func (s *Store) FindByUser(ctx context.Context, userID uuid.UUID) ([]models.UserRole, error) {
	var bindings []models.UserRole

	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order(newestFirst).
		Find(&bindings).Error

	return bindings, controller.Translate(err, nil)
}

// CountActiveByRole counts the bindings of the role flagged active.
func (s *Store) CountActiveByRole(ctx context.Context, roleID uuid.UUID) (int64, error) {
	var count int64

	err := s.db.WithContext(ctx).Model(&models.UserRole{}).
		Where("role_id = ? AND is_active = ?", roleID, true).
		Count(&count).Error

	return count, controller.Translate(err, nil)
}
