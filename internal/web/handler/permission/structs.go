package permission

import (
	"github.com/google/uuid"

	"github.com/FleetRent-Admin/FleetRent-Admin/internal/auth"
)

type resourcePermissions struct {
	Resource    string                `json:"resource"`
	Permissions []auth.PermissionInfo `json:"permissions"`
	Count       int                   `json:"count"`
}

type userPermissions struct {
	UserID      uuid.UUID `json:"userId"`
	Permissions []string  `json:"permissions"`
	Count       int       `json:"count"`
}

type permissionCheck struct {
	UserID        uuid.UUID `json:"userId"`
	Permission    string    `json:"permission"`
	HasPermission bool      `json:"hasPermission"`
}

type checkMultipleRequest struct {
	Permissions []string `json:"permissions" validate:"required,min=1,dive,required"`
}

type multipleCheck struct {
	UserID            uuid.UUID `json:"userId"`
	Permissions       []string  `json:"permissions"`
	HasAllPermissions bool      `json:"hasAllPermissions"`
	HasAnyPermissions bool      `json:"hasAnyPermissions"`
}
