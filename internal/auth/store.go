package auth

import (
	"context"

	"github.com/google/uuid"

	"github.com/FleetRent-Admin/FleetRent-Admin/internal/db/models"
)

// RoleRepository persists roles. Implementations return ErrNotFound for
// missing rows, ErrDuplicateName when the (organization, name) index is hit
// and wrap every other failure with Infrastructure.
type RoleRepository interface {
	Create(ctx context.Context, role *models.Role) error
	Update(ctx context.Context, role *models.Role) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Role, error)
	FindByOrganization(ctx context.Context, organizationID uuid.UUID) ([]models.Role, error)
	// ExistsByName looks up a name inside one organization, a nil
	// organization addresses the global roles.
	ExistsByName(ctx context.Context, organizationID *uuid.UUID, name string) (bool, error)
	FindDefaults(ctx context.Context, organizationID uuid.UUID) ([]models.Role, error)
	FindSystem(ctx context.Context) ([]models.Role, error)
}

// UserRoleRepository persists role bindings.
type UserRoleRepository interface {
	// Create inserts a binding that owns the active slot of its pair. Bindings
	// of the same pair whose expiry lies before binding.AssignedAt release the
	// slot first. ErrAlreadyAssigned is returned when the slot is taken.
	Create(ctx context.Context, binding *models.UserRole) error
	// Update saves a binding. ErrAlreadyAssigned is returned when an
	// activation collides with another active binding of the pair.
	Update(ctx context.Context, binding *models.UserRole) error
	// FindLatest returns the most recently assigned binding of the pair.
	FindLatest(ctx context.Context, userID, roleID uuid.UUID) (*models.UserRole, error)
	// FindActiveByUser returns the user's bindings flagged active, expired ones included.
	FindActiveByUser(ctx context.Context, userID uuid.UUID) ([]models.UserRole, error)
	// FindActiveByRole returns the role's bindings flagged active, expired ones included.
	FindActiveByRole(ctx context.Context, roleID uuid.UUID) ([]models.UserRole, error)
	// FindByUser returns every binding of the user, newest first.
	FindByUser(ctx context.Context, userID uuid.UUID) ([]models.UserRole, error)
	CountActiveByRole(ctx context.Context, roleID uuid.UUID) (int64, error)
}

// UserDirectory resolves accounts. ErrNotFound is returned for unknown ids.
type UserDirectory interface {
	FindUser(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// AgencyDirectory resolves agencies. ErrNotFound is returned for unknown ids.
type AgencyDirectory interface {
	FindAgency(ctx context.Context, id uuid.UUID) (*models.Agency, error)
}

// Invalidator drops memoized permission sets. Every write path that can
// change a user's effective permissions calls it.
type Invalidator interface {
	EvictUser(userID uuid.UUID)
	EvictAll()
}

// NopInvalidator discards evictions. It is used when no cache is configured.
type NopInvalidator struct{}

// EvictUser implements Invalidator.
func (NopInvalidator) EvictUser(uuid.UUID) {}

// EvictAll implements Invalidator.
func (NopInvalidator) EvictAll() {}
