package daemon

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/FleetRent-Admin/FleetRent-Admin/internal/auth"
	"github.com/FleetRent-Admin/FleetRent-Admin/internal/db/models"
)

const (
	// SuperAdminRoleName is the name of the global super administrator role.
	SuperAdminRoleName = "Super Administrator"
	// ClientRoleName is the name of the global default client role.
	ClientRoleName = "Client"
)

// clientPermissions is the permission set of the default client role.
var clientPermissions = []auth.Permission{
	auth.VehicleRead,
	auth.RentalRead,
	auth.RentalWrite,
	auth.UserRead,
	auth.UserUpdate,
}

// systemRoles returns the global roles every installation starts with.
func systemRoles() []*models.Role {
	superAdmin := models.RoleTypeSuperAdmin.Info()
	client := models.RoleTypeClient.Info()

	return []*models.Role{
		{
			Name:         SuperAdminRoleName,
			Description:  "Full access to every organization",
			RoleType:     models.RoleTypeSuperAdmin,
			IsSystemRole: true,
			Priority:     superAdmin.Priority,
			Permissions:  auth.Codes(auth.AllPermissions()...),
			Color:        superAdmin.Color,
			Icon:         superAdmin.Icon,
			IsActive:     true,
		},
		{
			Name:          ClientRoleName,
			Description:   "Customer renting vehicles",
			RoleType:      models.RoleTypeClient,
			IsSystemRole:  true,
			IsDefaultRole: true,
			Priority:      client.Priority,
			Permissions:   auth.Codes(clientPermissions...),
			Color:         client.Color,
			Icon:          client.Icon,
			IsActive:      true,
		},
	}
}

// Seed makes sure the system roles exist. It can run on every start.
func Seed(ctx context.Context, roles *auth.RoleService) error {
	for _, role := range systemRoles() {
		created, err := roles.EnsureSystemRole(ctx, role)
		if err != nil {
			return err
		}

		if created {
			log.Info().Str("role", role.Name).Msg("system role created")
		}
	}

	return nil
}
