// Package permission serves the permission catalog and per-user permission checks.
package permission

import (
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/FleetRent-Admin/FleetRent-Admin/internal/auth"
	"github.com/FleetRent-Admin/FleetRent-Admin/internal/config"
	"github.com/FleetRent-Admin/FleetRent-Admin/internal/web/handler"
)

const (
	// Path is the base path of the permission endpoints.
	Path = handler.RootPath + "permissions"

	// ParamResource is the route parameter holding a resource name.
	ParamResource = "resource"
	// ParamFirst and ParamSecond hold the users to compare.
	ParamFirst  = "u1"
	ParamSecond = "u2"
	// QueryPermission is the query parameter holding the code to check.
	QueryPermission = "permission"

	// RouteResources lists the catalog resources.
	RouteResources = Path + "/resources"
	// RouteResource lists the permissions of one resource.
	RouteResource = RouteResources + "/:" + ParamResource
	// RouteUser lists the effective permissions of a user.
	RouteUser = Path + "/users/:" + handler.ParamUserID
	// RouteCheck checks one permission of a user.
	RouteCheck = RouteUser + "/check"
	// RouteCheckMultiple checks several permissions of a user.
	RouteCheckMultiple = RouteUser + "/check-multiple"
	// RouteCompare compares the permissions of two users.
	RouteCompare = Path + "/compare/:" + ParamFirst + "/:" + ParamSecond
)

// Service provides the permission endpoints.
type Service struct {
	cfg       *config.Config
	engine    *auth.Service
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
	s.engine = deps.Engine
	s.tenant = deps.Tenant

	authenticated := auth.RequireAuthenticated()
	read := auth.RequirePermission(deps.Engine, auth.UserRead)

	router.Get(Path, authenticated, s.List)
	router.Get(RouteResources, authenticated, s.Resources)
	router.Get(RouteResource, authenticated, s.Resource)
	router.Get(RouteUser, read, s.User)
	router.Get(RouteCheck, read, s.Check)
	router.Post(RouteCheckMultiple, read, s.CheckMultiple)
	router.Get(RouteCompare, read, s.Compare)
}

// target resolves the user parameter and checks the caller's access to it.
func (s *Service) target(c fiber.Ctx, param string) (uuid.UUID, error) {
	caller, err := handler.Caller(c)
	if err != nil {
		return uuid.Nil, err
	}

	userID, err := handler.UUIDParam(c, param)
	if err != nil {
		return uuid.Nil, err
	}

	if err = handler.GuardUser(c.Context(), s.tenant, caller, userID); err != nil {
		return uuid.Nil, err
	}

	return userID, nil
}

// List handles GET /permissions.
func (s *Service) List(c fiber.Ctx) error {
	perms := auth.AllPermissions()

	out := make([]auth.PermissionInfo, 0, len(perms))
	for _, p := range perms {
		out = append(out, p.Info())
	}

	return c.JSON(out)
}

// Resources handles GET /permissions/resources.
func (s *Service) Resources(c fiber.Ctx) error {
	return c.JSON(auth.AllResources())
}

// Resource handles GET /permissions/resources/:resource.
func (s *Service) Resource(c fiber.Ctx) error {
	resource := strings.ToUpper(c.Params(ParamResource))
	perms := auth.PermissionsForResource(resource)

	out := resourcePermissions{
		Resource:    resource,
		Permissions: make([]auth.PermissionInfo, 0, len(perms)),
		Count:       len(perms),
	}

	for _, p := range perms {
		out.Permissions = append(out.Permissions, p.Info())
	}

	return c.JSON(out)
}

// User handles GET /permissions/users/:userId.
func (s *Service) User(c fiber.Ctx) error {
	userID, err := s.target(c, handler.ParamUserID)
	if err != nil {
		return handler.Error(c, err)
	}

	set, err := s.engine.GetUserPermissions(c.Context(), userID)
	if err != nil {
		return handler.Error(c, err)
	}

	codes := set.Slice()

	return c.JSON(userPermissions{UserID: userID, Permissions: codes, Count: len(codes)})
}

// Check handles GET /permissions/users/:userId/check?permission=.
func (s *Service) Check(c fiber.Ctx) error {
	userID, err := s.target(c, handler.ParamUserID)
	if err != nil {
		return handler.Error(c, err)
	}

	perm, err := auth.ParsePermission(c.Query(QueryPermission))
	if err != nil {
		return handler.Error(c, err)
	}

	granted, err := s.engine.Can(c.Context(), userID, perm)
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(permissionCheck{UserID: userID, Permission: perm.Code(), HasPermission: granted})
}

// CheckMultiple handles POST /permissions/users/:userId/check-multiple.
func (s *Service) CheckMultiple(c fiber.Ctx) error {
	userID, err := s.target(c, handler.ParamUserID)
	if err != nil {
		return handler.Error(c, err)
	}

	var in checkMultipleRequest
	if err = c.Bind().Body(&in); err != nil {
		return handler.BadBody(c)
	}

	if errs := s.validator.Validate(in); len(errs) > 0 {
		return handler.ValidationFailed(c, errs)
	}

	codes, err := auth.ValidateCodes(in.Permissions)
	if err != nil {
		return handler.Error(c, err)
	}

	all, err := s.engine.HasAllPermissions(c.Context(), userID, codes)
	if err != nil {
		return handler.Error(c, err)
	}

	anyOf, err := s.engine.HasAnyPermission(c.Context(), userID, codes)
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(multipleCheck{
		UserID:            userID,
		Permissions:       codes,
		HasAllPermissions: all,
		HasAnyPermissions: anyOf,
	})
}

// Compare handles GET /permissions/compare/:u1/:u2.
func (s *Service) Compare(c fiber.Ctx) error {
	first, err := s.target(c, ParamFirst)
	if err != nil {
		return handler.Error(c, err)
	}

	second, err := s.target(c, ParamSecond)
	if err != nil {
		return handler.Error(c, err)
	}

	cmp, err := s.engine.ComparePermissions(c.Context(), first, second)
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(cmp)
}
