// Package userrole provides the json handlers for binding roles to users.
package userrole

import (
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/FleetRent-Admin/FleetRent-Admin/internal/auth"
	"github.com/FleetRent-Admin/FleetRent-Admin/internal/config"
	"github.com/FleetRent-Admin/FleetRent-Admin/internal/web/handler"
)

const (
	// Path is the base path for user-role bindings.
	Path = handler.RootPath + "user-roles"

	// RouteUserRoles addresses the bindings of a user.
	RouteUserRoles = Path + "/:" + handler.ParamUserID + "/roles"
	// RouteUserRole addresses the binding of one role to a user.
	RouteUserRole = RouteUserRoles + "/:" + handler.ParamRoleID
	// RouteActivate reactivates a binding.
	RouteActivate = RouteUserRole + "/activate"
	// RouteExtend moves the expiry of a binding.
	RouteExtend = RouteUserRole + "/extend"
	// RouteHistory lists every binding of a user.
	RouteHistory = Path + "/:" + handler.ParamUserID + "/history"
	// RouteRoleUsers lists the holders of a role.
	RouteRoleUsers = Path + "/roles/:" + handler.ParamRoleID + "/users"
)

// Service provides the user-role endpoints.
type Service struct {
	cfg         *config.Config
	assignments *auth.AssignmentService
	roles       *auth.RoleService
	tenant      *auth.TenantResolver
	validator   handler.XValidator
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
	s.assignments = deps.Assignments
	s.roles = deps.Roles
	s.tenant = deps.Tenant

	var (
		manage = auth.RequirePermission(deps.Engine, auth.UserManageRoles)
		read   = auth.RequirePermission(deps.Engine, auth.UserRead)
	)

	router.Post(Path, manage, s.Assign)
	router.Get(RouteRoleUsers, read, s.Holders)
	router.Delete(RouteUserRoles, manage, s.RevokeAll)
	router.Get(RouteUserRoles, read, s.Active)
	router.Get(RouteHistory, read, s.History)
	router.Delete(RouteUserRole, manage, s.Revoke)
	router.Put(RouteActivate, manage, s.Activate)
	router.Put(RouteExtend, manage, s.Extend)
}

// pair resolves caller, target user and, when withRole is set, the role
// parameter of the request. It checks the caller's access to the target user
// and, with a role, to the organization of the pair's latest binding.
func (s *Service) pair(c fiber.Ctx, withRole bool) (caller, userID, roleID uuid.UUID, err error) {
	if caller, err = handler.Caller(c); err != nil {
		return
	}

	if userID, err = handler.UUIDParam(c, handler.ParamUserID); err != nil {
		return
	}

	if withRole {
		if roleID, err = handler.UUIDParam(c, handler.ParamRoleID); err != nil {
			return
		}
	}

	if err = handler.GuardUser(c.Context(), s.tenant, caller, userID); err != nil || !withRole {
		return
	}

	// the binding may belong to another organization than its user
	binding, err := s.assignments.Binding(c.Context(), userID, roleID)
	if err != nil {
		return
	}

	err = s.tenant.ValidateOrganizationAccess(c.Context(), binding.OrganizationID, caller)

	return
}

// Assign handles POST /user-roles.
func (s *Service) Assign(c fiber.Ctx) error {
	caller, err := handler.Caller(c)
	if err != nil {
		return handler.Error(c, err)
	}

	var in assignRequest
	if err = c.Bind().Body(&in); err != nil {
		return handler.BadBody(c)
	}

	if errs := s.validator.Validate(in); len(errs) > 0 {
		return handler.ValidationFailed(c, errs)
	}

	if err = s.tenant.ValidateOrganizationAccess(c.Context(), in.OrganizationID, caller); err != nil {
		return handler.Error(c, err)
	}

	if err = handler.GuardUser(c.Context(), s.tenant, caller, in.UserID); err != nil {
		return handler.Error(c, err)
	}

	binding, err := s.assignments.AssignRole(c.Context(), in.input(), caller)
	if err != nil {
		return handler.Error(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(binding)
}

// Revoke handles DELETE /user-roles/:userId/roles/:roleId.
func (s *Service) Revoke(c fiber.Ctx) error {
	caller, userID, roleID, err := s.pair(c, true)
	if err != nil {
		return handler.Error(c, err)
	}

	if err = s.assignments.RevokeRole(c.Context(), userID, roleID, caller); err != nil {
		return handler.Error(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// RevokeAll handles DELETE /user-roles/:userId/roles.
func (s *Service) RevokeAll(c fiber.Ctx) error {
	caller, userID, _, err := s.pair(c, false)
	if err != nil {
		return handler.Error(c, err)
	}

	if err = s.assignments.RevokeAllRoles(c.Context(), userID, caller); err != nil {
		return handler.Error(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// Activate handles PUT /user-roles/:userId/roles/:roleId/activate.
func (s *Service) Activate(c fiber.Ctx) error {
	_, userID, roleID, err := s.pair(c, true)
	if err != nil {
		return handler.Error(c, err)
	}

	binding, err := s.assignments.ActivateRole(c.Context(), userID, roleID)
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(binding)
}

// Extend handles PUT /user-roles/:userId/roles/:roleId/extend.
func (s *Service) Extend(c fiber.Ctx) error {
	_, userID, roleID, err := s.pair(c, true)
	if err != nil {
		return handler.Error(c, err)
	}

	var in extendRequest
	if err = c.Bind().Body(&in); err != nil {
		return handler.BadBody(c)
	}

	if errs := s.validator.Validate(in); len(errs) > 0 {
		return handler.ValidationFailed(c, errs)
	}

	binding, err := s.assignments.ExtendExpiration(c.Context(), userID, roleID, *in.ExpiresAt)
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(binding)
}

// Active handles GET /user-roles/:userId/roles.
func (s *Service) Active(c fiber.Ctx) error {
	_, userID, _, err := s.pair(c, false)
	if err != nil {
		return handler.Error(c, err)
	}

	bindings, err := s.assignments.ActiveRoles(c.Context(), userID)
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(bindings)
}

// History handles GET /user-roles/:userId/history.
func (s *Service) History(c fiber.Ctx) error {
	_, userID, _, err := s.pair(c, false)
	if err != nil {
		return handler.Error(c, err)
	}

	bindings, err := s.assignments.History(c.Context(), userID)
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(bindings)
}

// Holders handles GET /user-roles/roles/:roleId/users.
func (s *Service) Holders(c fiber.Ctx) error {
	caller, err := handler.Caller(c)
	if err != nil {
		return handler.Error(c, err)
	}

	roleID, err := handler.UUIDParam(c, handler.ParamRoleID)
	if err != nil {
		return handler.Error(c, err)
	}

	role, err := s.roles.GetRole(c.Context(), roleID)
	if err != nil {
		return handler.Error(c, err)
	}

	if role.OrganizationID != nil {
		err = s.tenant.ValidateOrganizationAccess(c.Context(), *role.OrganizationID, caller)
		if err != nil {
			return handler.Error(c, err)
		}
	}

	bindings, err := s.assignments.RoleHolders(c.Context(), roleID)
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(bindings)
}
