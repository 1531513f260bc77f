package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the read model of an account as seen by the access control core.
// Accounts are owned by the user directory, this core never changes them.
type User struct {
	// ID is the unique identifier for the user.
	ID uuid.UUID `gorm:"type:varchar(36);primaryKey" json:"id"`
	// Email is the user's email address.
	Email string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	// UserType is the account category used for tenant scoping.
	UserType UserType `gorm:"type:varchar(40);not null;default:'CLIENT'" json:"userType"`
	// OrganizationID is the organization the user belongs to, if any.
	OrganizationID *uuid.UUID `gorm:"type:varchar(36);index" json:"organizationId"`
	// AgencyID is the agency the user works at, if any.
	AgencyID *uuid.UUID `gorm:"type:varchar(36);index" json:"agencyId"`
	// IsActive indicates whether the account is enabled.
	IsActive bool `gorm:"not null" json:"isActive"`
	// CreatedAt is the timestamp when the user was created (managed by GORM).
	CreatedAt time.Time `json:"createdAt"`
	// UpdatedAt is the timestamp when the user was last updated (managed by GORM).
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the database table name for the User model.
func (User) TableName() string {
	return "users"
}

// BeforeCreate assigns a random id to new users.
func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}

	return nil
}
