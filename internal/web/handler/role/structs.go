package role

import (
	"github.com/google/uuid"

	"github.com/FleetRent-Admin/FleetRent-Admin/internal/auth"
	"github.com/FleetRent-Admin/FleetRent-Admin/internal/db/models"
)

type createRequest struct {
	Name           string    `json:"name"           validate:"required,min=2,max=100"`
	Description    string    `json:"description"    validate:"max=255"`
	OrganizationID uuid.UUID `json:"organizationId" validate:"required"`
	RoleType       string    `json:"roleType"       validate:"omitempty,max=50"`
	Priority       *int      `json:"priority"       validate:"omitempty,min=0,max=100"`
	Permissions    []string  `json:"permissions"`
	Color          string    `json:"color"          validate:"omitempty,hexcolor,len=7"`
	Icon           string    `json:"icon"           validate:"max=50"`
}

func (r createRequest) input() auth.CreateRoleInput {
	return auth.CreateRoleInput{
		Name:           r.Name,
		Description:    r.Description,
		OrganizationID: r.OrganizationID,
		RoleType:       models.RoleType(r.RoleType),
		Priority:       r.Priority,
		Permissions:    r.Permissions,
		Color:          r.Color,
		Icon:           r.Icon,
	}
}

type updateRequest struct {
	Name        *string  `json:"name"        validate:"omitempty,min=2,max=100"`
	Description *string  `json:"description" validate:"omitempty,max=255"`
	Priority    *int     `json:"priority"    validate:"omitempty,min=0,max=100"`
	Permissions []string `json:"permissions"`
	Color       *string  `json:"color"       validate:"omitempty,hexcolor,len=7"`
	Icon        *string  `json:"icon"        validate:"omitempty,max=50"`
	IsActive    *bool    `json:"isActive"`
}

func (r updateRequest) patch() auth.RolePatch {
	return auth.RolePatch{
		Name:        r.Name,
		Description: r.Description,
		Priority:    r.Priority,
		Permissions: r.Permissions,
		Color:       r.Color,
		Icon:        r.Icon,
		IsActive:    r.IsActive,
	}
}

type cloneRequest struct {
	Name string `json:"name" validate:"required,min=2,max=100"`
}
