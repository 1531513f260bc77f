package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is a named, organization scoped bundle of permission codes.
// Global roles (system roles) have no organization.
type Role struct {
	// ID is the unique identifier for the role.
	ID uuid.UUID `gorm:"type:varchar(36);primaryKey" json:"id"`
	// OrganizationID scopes the role to one organization (nil for global roles).
	OrganizationID *uuid.UUID `gorm:"type:varchar(36);uniqueIndex:idx_roles_org_name;index" json:"organizationId"`
	// Name is unique within the organization.
	Name string `gorm:"uniqueIndex:idx_roles_org_name;size:100;not null" json:"name"`
	// GlobalName mirrors Name for global roles only, so that their names are
	// unique too (NULL organization ids never collide in idx_roles_org_name).
	GlobalName *string `gorm:"size:100;uniqueIndex:idx_roles_global_name" json:"-"`
	// Description provides a human-readable description of the role's purpose.
	Description string `gorm:"size:255" json:"description"`
	// RoleType classifies the role.
	RoleType RoleType `gorm:"type:varchar(40);not null;default:'CUSTOM'" json:"roleType"`
	// IsSystemRole marks roles that can neither be changed nor deleted.
	IsSystemRole bool `gorm:"default:false;index" json:"isSystemRole"`
	// IsDefaultRole marks roles that can not be deleted.
	IsDefaultRole bool `gorm:"default:false" json:"isDefaultRole"`
	// Priority is an ordering hint for user interfaces only.
	Priority int `gorm:"default:0" json:"priority"`
	// Permissions holds the permission codes granted by the role.
	Permissions []string `gorm:"serializer:json;type:text" json:"permissions"`
	// Color is a #RRGGBB display color.
	Color string `gorm:"size:7" json:"color"`
	// Icon is a display icon name.
	Icon string `gorm:"size:50" json:"icon"`
	// IsActive is informational, inactive roles still count for decisions.
	IsActive bool `gorm:"not null" json:"isActive"`
	// CreatedBy is the user who created the role.
	CreatedBy *uuid.UUID `gorm:"type:varchar(36)" json:"createdBy"`
	// UpdatedBy is the user who last changed the role.
	UpdatedBy *uuid.UUID `gorm:"type:varchar(36)" json:"updatedBy"`
	// CreatedAt is the timestamp when the role was created (managed by GORM).
	CreatedAt time.Time `json:"createdAt"`
	// UpdatedAt is the timestamp when the role was last updated (managed by GORM).
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the database table name for the Role model.
func (Role) TableName() string {
	return "roles"
}

// BeforeCreate assigns a random id to new roles.
func (r *Role) BeforeCreate(_ *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}

	return nil
}

// BeforeSave keeps GlobalName in step with Name and OrganizationID.
func (r *Role) BeforeSave(_ *gorm.DB) error {
	r.GlobalName = nil

	if r.OrganizationID == nil {
		name := r.Name
		r.GlobalName = &name
	}

	return nil
}

// HasPermission reports whether code is part of the role's permission set.
func (r *Role) HasPermission(code string) bool {
	for _, p := range r.Permissions {
		if p == code {
			return true
		}
	}

	return false
}

// IsGlobal reports whether the role is not bound to an organization.
func (r *Role) IsGlobal() bool {
	return r.OrganizationID == nil
}
