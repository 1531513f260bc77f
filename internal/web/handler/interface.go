package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/FleetRent-Admin/FleetRent-Admin/internal/auth"
	"github.com/FleetRent-Admin/FleetRent-Admin/internal/config"
)

// Deps bundles the services the api handlers work on.
type Deps struct {
	Engine      *auth.Service
	Roles       *auth.RoleService
	Assignments *auth.AssignmentService
	Tenant      *auth.TenantResolver
	Users       auth.UserDirectory
}

// Valid reports whether every dependency is set.
func (d *Deps) Valid() bool {
	return d != nil && d.Engine != nil && d.Roles != nil && d.Assignments != nil &&
		d.Tenant != nil && d.Users != nil
}

// Service is the interface for a web handler service.
type Service interface {
	Init(router fiber.Router, cfg *config.Config, deps *Deps)
}
