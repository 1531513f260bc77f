package auth

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/FleetRent-Admin/FleetRent-Admin/internal/db/models"
)

// Service is the authorization decision engine. It derives a user's
// effective permissions from the currently active role bindings and answers
// permission and tenant questions on top of them.
//
// Boolean checks never fail for a negative answer, only store failures are
// returned as errors.
type Service struct {
	userRoles UserRoleRepository
	roles     RoleRepository
	cache     *PermissionCache
	now       func() time.Time
}

// NewService creates a new authorization service.
func NewService(userRoles UserRoleRepository, roles RoleRepository) *Service {
	return &Service{
		userRoles: userRoles,
		roles:     roles,
		now:       time.Now,
	}
}

// WithClock replaces the time source used to evaluate binding expiry.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// UseCache routes HasPermission and GetUserPermissions through cache.
func (s *Service) UseCache(cache *PermissionCache) {
	s.cache = cache
}

// Cache returns the attached permission cache, nil if none.
func (s *Service) Cache() *PermissionCache {
	return s.cache
}

// grant is one currently active binding together with its role.
type grant struct {
	binding models.UserRole
	role    *models.Role
}

// activeGrants loads the currently active bindings of userID and their
// roles. Bindings pointing to a role that no longer exists are skipped.
func (s *Service) activeGrants(ctx context.Context, userID uuid.UUID) ([]grant, error) {
	bindings, err := s.userRoles.FindActiveByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load role bindings of user %s: %w", userID, err)
	}

	var (
		now    = s.now()
		grants = make([]grant, 0, len(bindings))
	)

	for _, b := range bindings {
		if !b.IsCurrentlyActive(now) {
			continue
		}

		role, err := s.roles.FindByID(ctx, b.RoleID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				log.Warn().Str("user_id", userID.String()).Str("role_id", b.RoleID.String()).
					Msg("skipping binding to missing role")

				continue
			}

			return nil, fmt.Errorf("failed to load role %s: %w", b.RoleID, err)
		}

		grants = append(grants, grant{binding: b, role: role})
	}

	return grants, nil
}

// EffectivePermissions computes, without cache, the union of the permission
// sets of every currently active role of userID.
func (s *Service) EffectivePermissions(ctx context.Context, userID uuid.UUID) (PermissionSet, error) {
	grants, err := s.activeGrants(ctx, userID)
	if err != nil {
		return nil, err
	}

	perms := make(PermissionSet)
	for _, g := range grants {
		perms.Add(g.role.Permissions...)
	}

	return perms, nil
}

// GetUserPermissions returns the effective permissions of userID, served
// from the cache when one is attached.
func (s *Service) GetUserPermissions(ctx context.Context, userID uuid.UUID) (PermissionSet, error) {
	if s.cache != nil {
		return s.cache.GetUserPermissions(ctx, userID)
	}

	return s.EffectivePermissions(ctx, userID)
}

// HasPermission checks if a user has a specific permission code.
func (s *Service) HasPermission(ctx context.Context, userID uuid.UUID, code string) (bool, error) {
	perms, err := s.GetUserPermissions(ctx, userID)
	if err != nil {
		return false, err
	}

	return perms.Has(code), nil
}

// Can is the typed variant of HasPermission.
func (s *Service) Can(ctx context.Context, userID uuid.UUID, p Permission) (bool, error) {
	return s.HasPermission(ctx, userID, p.Code())
}

// HasResourcePermission checks the permission RESOURCE_ACTION built from resource and action.
func (s *Service) HasResourcePermission(ctx context.Context, userID uuid.UUID, resource, action string) (bool, error) {
	return s.HasPermission(ctx, userID, PermissionCode(resource, action))
}

// HasAnyPermission checks if a user has at least one of the given permissions.
// An empty list is never satisfied.
func (s *Service) HasAnyPermission(ctx context.Context, userID uuid.UUID, codes []string) (bool, error) {
	if len(codes) == 0 {
		return false, nil
	}

	perms, err := s.GetUserPermissions(ctx, userID)
	if err != nil {
		return false, err
	}

	for _, code := range codes {
		if perms.Has(code) {
			return true, nil
		}
	}

	return false, nil
}

// HasAllPermissions checks if a user has all of the given permissions.
// An empty list is always satisfied.
func (s *Service) HasAllPermissions(ctx context.Context, userID uuid.UUID, codes []string) (bool, error) {
	if len(codes) == 0 {
		return true, nil
	}

	perms, err := s.GetUserPermissions(ctx, userID)
	if err != nil {
		return false, err
	}

	for _, code := range codes {
		if !perms.Has(code) {
			return false, nil
		}
	}

	return true, nil
}

// CanAccessOrganization reports whether the user holds any active binding in organizationID.
func (s *Service) CanAccessOrganization(ctx context.Context, userID, organizationID uuid.UUID) (bool, error) {
	grants, err := s.activeGrants(ctx, userID)
	if err != nil {
		return false, err
	}

	for _, g := range grants {
		if g.binding.OrganizationID == organizationID {
			return true, nil
		}
	}

	return false, nil
}

// CanAccessAgency reports whether the user holds an active binding scoped to
// agencyID or one without agency scope.
func (s *Service) CanAccessAgency(ctx context.Context, userID, agencyID uuid.UUID) (bool, error) {
	grants, err := s.activeGrants(ctx, userID)
	if err != nil {
		return false, err
	}

	for _, g := range grants {
		if g.binding.AgencyID == nil || *g.binding.AgencyID == agencyID {
			return true, nil
		}
	}

	return false, nil
}

// HasHierarchicalPermission reports whether any active role of the user
// satisfies code for targetOrganizationID. Super admin roles satisfy every
// code, organization owner roles every code inside their own organization,
// all other roles only the codes they list.
func (s *Service) HasHierarchicalPermission(
	ctx context.Context,
	userID uuid.UUID,
	code string,
	targetOrganizationID uuid.UUID,
) (bool, error) {
	grants, err := s.activeGrants(ctx, userID)
	if err != nil {
		return false, err
	}

	for _, g := range grants {
		switch {
		case g.role.RoleType == models.RoleTypeSuperAdmin:
			return true, nil
		case g.role.RoleType == models.RoleTypeOrganizationOwner:
			if g.role.OrganizationID != nil && *g.role.OrganizationID == targetOrganizationID {
				return true, nil
			}

			if g.role.HasPermission(code) {
				return true, nil
			}
		case g.role.HasPermission(code):
			return true, nil
		}
	}

	return false, nil
}

// IsSuperAdmin reports whether the user holds an active super admin role.
func (s *Service) IsSuperAdmin(ctx context.Context, userID uuid.UUID) (bool, error) {
	grants, err := s.activeGrants(ctx, userID)
	if err != nil {
		return false, err
	}

	for _, g := range grants {
		if g.role.RoleType == models.RoleTypeSuperAdmin {
			return true, nil
		}
	}

	return false, nil
}

// SecurityContext summarizes what a user may do. It is computed per request
// and never stored.
type SecurityContext struct {
	UserID         uuid.UUID   `json:"userId"`
	Email          string      `json:"email"`
	OrganizationID *uuid.UUID  `json:"organizationId"`
	Permissions    []string    `json:"permissions"`
	Roles          []string    `json:"roles"`
	Organizations  []uuid.UUID `json:"organizations"`
	IsSuperAdmin   bool        `json:"isSuperAdmin"`
}

// BuildSecurityContext aggregates the security context of user from a single
// scan of the active bindings.
func (s *Service) BuildSecurityContext(ctx context.Context, user *models.User) (*SecurityContext, error) {
	if user == nil {
		return nil, fmt.Errorf("%w: user is required", ErrValidation)
	}

	grants, err := s.activeGrants(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	var (
		perms     = make(PermissionSet)
		roleTypes = make(map[string]bool)
		orgs      = make(map[uuid.UUID]bool)
		sc        = &SecurityContext{
			UserID:         user.ID,
			Email:          user.Email,
			OrganizationID: user.OrganizationID,
			Roles:          []string{},
			Organizations:  []uuid.UUID{},
		}
	)

	for _, g := range grants {
		perms.Add(g.role.Permissions...)

		if g.role.RoleType == models.RoleTypeSuperAdmin {
			sc.IsSuperAdmin = true
		}

		if !roleTypes[string(g.role.RoleType)] {
			roleTypes[string(g.role.RoleType)] = true
			sc.Roles = append(sc.Roles, string(g.role.RoleType))
		}

		if !orgs[g.binding.OrganizationID] {
			orgs[g.binding.OrganizationID] = true
			sc.Organizations = append(sc.Organizations, g.binding.OrganizationID)
		}
	}

	sc.Permissions = perms.Slice()
	sort.Strings(sc.Roles)

	return sc, nil
}

// PermissionComparison is the result of ComparePermissions.
type PermissionComparison struct {
	FirstUserID  uuid.UUID `json:"user1Id"`
	SecondUserID uuid.UUID `json:"user2Id"`
	Common       []string  `json:"commonPermissions"`
	OnlyFirst    []string  `json:"user1OnlyPermissions"`
	OnlySecond   []string  `json:"user2OnlyPermissions"`
	FirstTotal   int       `json:"user1TotalPermissions"`
	SecondTotal  int       `json:"user2TotalPermissions"`
	CommonTotal  int       `json:"commonPermissionsCount"`
}

// ComparePermissions splits the effective permissions of two users into the
// shared codes and the codes only one of them holds.
func (s *Service) ComparePermissions(ctx context.Context, first, second uuid.UUID) (*PermissionComparison, error) {
	a, err := s.GetUserPermissions(ctx, first)
	if err != nil {
		return nil, err
	}

	b, err := s.GetUserPermissions(ctx, second)
	if err != nil {
		return nil, err
	}

	cmp := &PermissionComparison{
		FirstUserID:  first,
		SecondUserID: second,
		Common:       []string{},
		OnlyFirst:    []string{},
		OnlySecond:   []string{},
		FirstTotal:   len(a),
		SecondTotal:  len(b),
	}

	for _, code := range a.Slice() {
		if b.Has(code) {
			cmp.Common = append(cmp.Common, code)
		} else {
			cmp.OnlyFirst = append(cmp.OnlyFirst, code)
		}
	}

	for _, code := range b.Slice() {
		if !a.Has(code) {
			cmp.OnlySecond = append(cmp.OnlySecond, code)
		}
	}

	cmp.CommonTotal = len(cmp.Common)

	return cmp, nil
}
