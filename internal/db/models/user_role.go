package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRole binds one role to one user inside an organization, optionally
// restricted to a single agency. Bindings are never deleted, revoked ones
// stay for the assignment history.
type UserRole struct {
	// ID is the unique identifier for the binding.
	ID uuid.UUID `gorm:"type:varchar(36);primaryKey" json:"id"`
	// UserID is the user holding the role.
	UserID uuid.UUID `gorm:"type:varchar(36);not null;index:idx_user_roles_user_role" json:"userId"`
	// RoleID is the granted role. It may dangle after the role was deleted.
	RoleID uuid.UUID `gorm:"type:varchar(36);not null;index:idx_user_roles_user_role;index" json:"roleId"`
	// OrganizationID is the organization the grant applies to.
	OrganizationID uuid.UUID `gorm:"type:varchar(36);not null;index" json:"organizationId"`
	// AgencyID restricts the grant to one agency when set.
	AgencyID *uuid.UUID `gorm:"type:varchar(36)" json:"agencyId"`
	// AssignedAt is when the binding was created.
	AssignedAt time.Time `gorm:"not null" json:"assignedAt"`
	// AssignedBy is the user who created the binding.
	AssignedBy *uuid.UUID `gorm:"type:varchar(36)" json:"assignedBy"`
	// ExpiresAt ends the grant when set. Expiry is evaluated at read time.
	ExpiresAt *time.Time `json:"expiresAt"`
	// RevokedAt is set when the binding was revoked.
	RevokedAt *time.Time `json:"revokedAt"`
	// RevokedBy is the user who revoked the binding.
	RevokedBy *uuid.UUID `gorm:"type:varchar(36)" json:"revokedBy"`
	// IsActive is cleared by a revoke and set again by an activation.
	IsActive bool `gorm:"not null" json:"isActive"`
	// ActiveKey holds "<userId>:<roleId>" while the binding owns the single
	// active slot of its pair and is NULL otherwise. The unique index on it
	// keeps concurrent assignments from creating two active bindings.
	ActiveKey *string `gorm:"size:80;uniqueIndex:idx_user_roles_active_key" json:"-"`
	// CreatedAt is the timestamp when the row was created (managed by GORM).
	CreatedAt time.Time `json:"-"`
	// UpdatedAt is the timestamp when the row was last updated (managed by GORM).
	UpdatedAt time.Time `json:"-"`
}

// TableName specifies the database table name for the UserRole model.
func (UserRole) TableName() string {
	return "user_roles"
}

// BeforeCreate assigns a random id to new bindings.
func (ur *UserRole) BeforeCreate(_ *gorm.DB) error {
	if ur.ID == uuid.Nil {
		ur.ID = uuid.New()
	}

	return nil
}

// SlotKey returns the active slot key of the (user, role) pair.
func SlotKey(userID, roleID uuid.UUID) string {
	return userID.String() + ":" + roleID.String()
}

// IsExpired reports whether the binding's expiry lies at or before now.
func (ur *UserRole) IsExpired(now time.Time) bool {
	return ur.ExpiresAt != nil && !now.Before(*ur.ExpiresAt)
}

// IsCurrentlyActive reports whether the binding grants its role at now.
func (ur *UserRole) IsCurrentlyActive(now time.Time) bool {
	return ur.IsActive && !ur.IsExpired(now)
}

// IsRevoked reports whether revocation metadata is present.
func (ur *UserRole) IsRevoked() bool {
	return ur.RevokedAt != nil && ur.RevokedBy != nil
}

// Revoke deactivates the binding and stamps the revocation metadata.
// Revoking an already revoked binding stamps it again.
func (ur *UserRole) Revoke(by uuid.UUID, now time.Time) {
	ur.IsActive = false
	ur.RevokedAt = &now
	ur.RevokedBy = &by
	ur.ActiveKey = nil
}

// Activate clears the revocation and reclaims the active slot.
// ExpiresAt is kept.
func (ur *UserRole) Activate() {
	key := SlotKey(ur.UserID, ur.RoleID)

	ur.IsActive = true
	ur.RevokedAt = nil
	ur.RevokedBy = nil
	ur.ActiveKey = &key
}
