// Package tenant serves the scoping information of the calling user.
package tenant

import (
	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"

	"github.com/FleetRent-Admin/FleetRent-Admin/internal/auth"
	"github.com/FleetRent-Admin/FleetRent-Admin/internal/config"
	"github.com/FleetRent-Admin/FleetRent-Admin/internal/web/handler"
)

const (
	// Path is the base path of the caller's own resources.
	Path = handler.RootPath + "me"

	// RouteSecurityContext returns the security context of the caller.
	RouteSecurityContext = Path + "/security-context"
	// RouteTenantFilter returns the tenant filter of the caller.
	RouteTenantFilter = Path + "/tenant-filter"
)

// Service provides the /me endpoints.
type Service struct {
	cfg    *config.Config
	engine *auth.Service
	tenant *auth.TenantResolver
	users  auth.UserDirectory
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
	s.users = deps.Users

	router.Get(RouteSecurityContext, auth.RequireAuthenticated(), s.SecurityContext)
	router.Get(RouteTenantFilter, auth.RequireAuthenticated(), s.TenantFilter)
}

// SecurityContext handles GET /me/security-context.
func (s *Service) SecurityContext(c fiber.Ctx) error {
	caller, err := handler.Caller(c)
	if err != nil {
		return handler.Error(c, err)
	}

	user, err := s.users.FindUser(c.Context(), caller)
	if err != nil {
		return handler.Error(c, err)
	}

	sc, err := s.engine.BuildSecurityContext(c.Context(), user)
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(sc)
}

// TenantFilter handles GET /me/tenant-filter.
func (s *Service) TenantFilter(c fiber.Ctx) error {
	caller, err := handler.Caller(c)
	if err != nil {
		return handler.Error(c, err)
	}

	filter, err := s.tenant.TenantFilter(c.Context(), caller)
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(filter)
}
