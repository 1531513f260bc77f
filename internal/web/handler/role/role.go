// Package role provides the json handlers for managing organization roles.
package role

import (
	"context"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/FleetRent-Admin/FleetRent-Admin/internal/auth"
	"github.com/FleetRent-Admin/FleetRent-Admin/internal/config"
	"github.com/FleetRent-Admin/FleetRent-Admin/internal/db/models"
	"github.com/FleetRent-Admin/FleetRent-Admin/internal/web/handler"
)

const (
	// Path is the base path for role management.
	Path = handler.RootPath + "roles"

	// RouteSystem lists the global system roles.
	RouteSystem = Path + "/system"
	// RouteDefaults lists the default roles of an organization.
	RouteDefaults = Path + "/defaults"
	// RouteRole addresses a single role.
	RouteRole = Path + "/:" + handler.ParamID
	// RoutePermissions lists the permission detail of a role.
	RoutePermissions = RouteRole + "/permissions"
	// RouteClone copies a role.
	RouteClone = RouteRole + "/clone"
)

// Service provides the role endpoints.
type Service struct {
	cfg       *config.Config
	roles     *auth.RoleService
	tenant    *auth.TenantResolver
	validator handler.XValidator
}

// Handler is the exported instance.
var Handler = Service{}

// Init registers routes.
func (s *Service) Init(router fiber.Router, cfg *config.Config, deps *handler.Deps) {
	if router == nil || cfg == nil || !deps.Valid() {
		log.Fatal().Msg(handler.ErrNilDepsFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.roles = deps.Roles
	s.tenant = deps.Tenant

	engine := deps.Engine

	router.Post(Path, auth.RequirePermission(engine, auth.RoleWrite), s.Create)
	router.Get(Path, auth.RequirePermission(engine, auth.RoleRead), s.List)
	router.Get(RouteSystem, auth.RequirePermission(engine, auth.RoleRead), s.System)
	router.Get(RouteDefaults, auth.RequirePermission(engine, auth.RoleRead), s.Defaults)
	router.Get(RouteRole, auth.RequirePermission(engine, auth.RoleRead), s.Get)
	router.Get(RoutePermissions, auth.RequirePermission(engine, auth.RoleRead), s.Permissions)
	router.Put(RouteRole, auth.RequirePermission(engine, auth.RoleUpdate), s.Update)
	router.Delete(RouteRole, auth.RequirePermission(engine, auth.RoleDelete), s.Delete)
	router.Post(RouteClone, auth.RequirePermission(engine, auth.RoleWrite), s.Clone)
}

// guard checks that the caller may act on the organization of role. Global
// roles are visible to everybody.
func (s *Service) guard(ctx context.Context, caller uuid.UUID, role *models.Role) error {
	if role.OrganizationID == nil {
		return nil
	}

	return s.tenant.ValidateOrganizationAccess(ctx, *role.OrganizationID, caller)
}

// loadGuarded fetches the role addressed by the id parameter and checks the
// caller's access to it.
func (s *Service) loadGuarded(c fiber.Ctx) (*models.Role, uuid.UUID, error) {
	caller, err := handler.Caller(c)
	if err != nil {
		return nil, uuid.Nil, err
	}

	id, err := handler.UUIDParam(c, handler.ParamID)
	if err != nil {
		return nil, uuid.Nil, err
	}

	role, err := s.roles.GetRole(c.Context(), id)
	if err != nil {
		return nil, uuid.Nil, err
	}

	if err = s.guard(c.Context(), caller, role); err != nil {
		return nil, uuid.Nil, err
	}

	return role, caller, nil
}

// Create handles POST /roles.
func (s *Service) Create(c fiber.Ctx) error {
	caller, err := handler.Caller(c)
	if err != nil {
		return handler.Error(c, err)
	}

	var in createRequest
	if err = c.Bind().Body(&in); err != nil {
		return handler.BadBody(c)
	}

	if errs := s.validator.Validate(in); len(errs) > 0 {
		return handler.ValidationFailed(c, errs)
	}

	if err = s.tenant.ValidateOrganizationAccess(c.Context(), in.OrganizationID, caller); err != nil {
		return handler.Error(c, err)
	}

	role, err := s.roles.CreateRole(c.Context(), in.input(), caller)
	if err != nil {
		return handler.Error(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(role)
}

// List handles GET /roles?organizationId=.
func (s *Service) List(c fiber.Ctx) error {
	caller, err := handler.Caller(c)
	if err != nil {
		return handler.Error(c, err)
	}

	orgID, err := handler.UUIDQuery(c, handler.QueryOrganizationID)
	if err != nil {
		return handler.Error(c, err)
	}

	if err = s.tenant.ValidateOrganizationAccess(c.Context(), orgID, caller); err != nil {
		return handler.Error(c, err)
	}

	roles, err := s.roles.RolesByOrganization(c.Context(), orgID)
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(roles)
}

// System handles GET /roles/system.
func (s *Service) System(c fiber.Ctx) error {
	roles, err := s.roles.SystemRoles(c.Context())
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(roles)
}

// Defaults handles GET /roles/defaults?organizationId=.
func (s *Service) Defaults(c fiber.Ctx) error {
	caller, err := handler.Caller(c)
	if err != nil {
		return handler.Error(c, err)
	}

	orgID, err := handler.UUIDQuery(c, handler.QueryOrganizationID)
	if err != nil {
		return handler.Error(c, err)
	}

	if err = s.tenant.ValidateOrganizationAccess(c.Context(), orgID, caller); err != nil {
		return handler.Error(c, err)
	}

	roles, err := s.roles.DefaultRoles(c.Context(), orgID)
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(roles)
}

// Get handles GET /roles/:id.
func (s *Service) Get(c fiber.Ctx) error {
	role, _, err := s.loadGuarded(c)
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(role)
}

// Permissions handles GET /roles/:id/permissions.
func (s *Service) Permissions(c fiber.Ctx) error {
	role, _, err := s.loadGuarded(c)
	if err != nil {
		return handler.Error(c, err)
	}

	detail, err := s.roles.RolePermissions(c.Context(), role.ID)
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(detail)
}

// Update handles PUT /roles/:id.
func (s *Service) Update(c fiber.Ctx) error {
	role, caller, err := s.loadGuarded(c)
	if err != nil {
		return handler.Error(c, err)
	}

	var in updateRequest
	if err = c.Bind().Body(&in); err != nil {
		return handler.BadBody(c)
	}

	if errs := s.validator.Validate(in); len(errs) > 0 {
		return handler.ValidationFailed(c, errs)
	}

	updated, err := s.roles.UpdateRole(c.Context(), role.ID, in.patch(), caller)
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(updated)
}

// Delete handles DELETE /roles/:id.
func (s *Service) Delete(c fiber.Ctx) error {
	role, _, err := s.loadGuarded(c)
	if err != nil {
		return handler.Error(c, err)
	}

	if err = s.roles.DeleteRole(c.Context(), role.ID); err != nil {
		return handler.Error(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// Clone handles POST /roles/:id/clone.
func (s *Service) Clone(c fiber.Ctx) error {
	role, caller, err := s.loadGuarded(c)
	if err != nil {
		return handler.Error(c, err)
	}

	var in cloneRequest
	if err = c.Bind().Body(&in); err != nil {
		return handler.BadBody(c)
	}

	if errs := s.validator.Validate(in); len(errs) > 0 {
		return handler.ValidationFailed(c, errs)
	}

	clone, err := s.roles.CloneRole(c.Context(), role.ID, in.Name, caller)
	if err != nil {
		return handler.Error(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(clone)
}
