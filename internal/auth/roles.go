package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/FleetRent-Admin/FleetRent-Admin/internal/db/models"
)

const (
	roleNameMinLen = 2
	roleNameMaxLen = 100
	maxPriority    = 100
)

// RoleService manages roles and guards their invariants: names are unique
// per organization, permission codes come from the catalog, system roles are
// immutable and system or default roles can not be deleted.
type RoleService struct {
	roles       RoleRepository
	userRoles   UserRoleRepository
	invalidator Invalidator
}

// NewRoleService creates a new role service. A nil invalidator disables eviction.
func NewRoleService(roles RoleRepository, userRoles UserRoleRepository, invalidator Invalidator) *RoleService {
	if invalidator == nil {
		invalidator = NopInvalidator{}
	}

	return &RoleService{
		roles:       roles,
		userRoles:   userRoles,
		invalidator: invalidator,
	}
}

// CreateRoleInput holds the fields of a new role. Zero values of Priority,
// Color and Icon fall back to the defaults of RoleType.
type CreateRoleInput struct {
	Name           string
	Description    string
	OrganizationID uuid.UUID
	RoleType       models.RoleType
	Priority       *int
	Permissions    []string
	Color          string
	Icon           string
}

// RolePatch holds the fields to change on a role. Nil fields are left as they are.
type RolePatch struct {
	Name        *string
	Description *string
	Priority    *int
	Permissions []string
	Color       *string
	Icon        *string
	IsActive    *bool
}

func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)

	if n := utf8.RuneCountInString(name); n < roleNameMinLen || n > roleNameMaxLen {
		return "", fmt.Errorf("%w: role name must be between %d and %d characters",
			ErrValidation, roleNameMinLen, roleNameMaxLen)
	}

	return name, nil
}

func validatePriority(p int) error {
	if p < 0 || p > maxPriority {
		return fmt.Errorf("%w: priority must be between 0 and %d", ErrValidation, maxPriority)
	}

	return nil
}

func (s *RoleService) ensureNameFree(ctx context.Context, organizationID *uuid.UUID, name string) error {
	exists, err := s.roles.ExistsByName(ctx, organizationID, name)
	if err != nil {
		return err
	}

	if exists {
		return fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}

	return nil
}

// CreateRole creates an organization role. The name is checked before the
// permission codes.
func (s *RoleService) CreateRole(ctx context.Context, in CreateRoleInput, createdBy uuid.UUID) (*models.Role, error) {
	name, err := normalizeName(in.Name)
	if err != nil {
		return nil, err
	}

	if in.OrganizationID == uuid.Nil {
		return nil, fmt.Errorf("%w: organization is required", ErrValidation)
	}

	orgID := in.OrganizationID

	if err = s.ensureNameFree(ctx, &orgID, name); err != nil {
		return nil, err
	}

	perms, err := ValidateCodes(in.Permissions)
	if err != nil {
		return nil, err
	}

	roleType := in.RoleType
	if roleType == "" {
		roleType = models.RoleTypeCustom
	}

	if !roleType.Valid() {
		return nil, fmt.Errorf("%w: unknown role type %q", ErrValidation, roleType)
	}

	info := roleType.Info()

	// system role types are global and only come from EnsureSystemRole
	if info.IsSystemRole {
		return nil, fmt.Errorf("%w: role type %q is reserved for system roles", ErrValidation, roleType)
	}

	role := &models.Role{
		OrganizationID: &orgID,
		Name:           name,
		Description:    strings.TrimSpace(in.Description),
		RoleType:       roleType,
		Priority:       info.Priority,
		Permissions:    perms,
		Color:          info.Color,
		Icon:           info.Icon,
		IsActive:       true,
		CreatedBy:      &createdBy,
		UpdatedBy:      &createdBy,
	}

	if in.Priority != nil {
		if err = validatePriority(*in.Priority); err != nil {
			return nil, err
		}

		role.Priority = *in.Priority
	}

	if in.Color != "" {
		role.Color = in.Color
	}

	if in.Icon != "" {
		role.Icon = in.Icon
	}

	if err = s.roles.Create(ctx, role); err != nil {
		return nil, fmt.Errorf("failed to create role %q: %w", name, err)
	}

	log.Info().Str("role_id", role.ID.String()).Str("name", role.Name).
		Str("organization_id", orgID.String()).Msg("role created")

	return role, nil
}

// UpdateRole applies patch to the role. Changing the permission set evicts
// the cached permissions of every holder.
func (s *RoleService) UpdateRole(ctx context.Context, roleID uuid.UUID, patch RolePatch, updatedBy uuid.UUID) (*models.Role, error) {
	role, err := s.roles.FindByID(ctx, roleID)
	if err != nil {
		return nil, err
	}

	if role.IsSystemRole {
		return nil, fmt.Errorf("%w: %q", ErrSystemRoleImmutable, role.Name)
	}

	if patch.Name != nil {
		name, errName := normalizeName(*patch.Name)
		if errName != nil {
			return nil, errName
		}

		if name != role.Name {
			if err = s.ensureNameFree(ctx, role.OrganizationID, name); err != nil {
				return nil, err
			}

			role.Name = name
		}
	}

	if patch.Description != nil {
		role.Description = strings.TrimSpace(*patch.Description)
	}

	if patch.Priority != nil {
		if err = validatePriority(*patch.Priority); err != nil {
			return nil, err
		}

		role.Priority = *patch.Priority
	}

	permissionsChanged := false

	if patch.Permissions != nil {
		perms, errPerms := ValidateCodes(patch.Permissions)
		if errPerms != nil {
			return nil, errPerms
		}

		permissionsChanged = !NewPermissionSet(perms...).equal(NewPermissionSet(role.Permissions...))
		role.Permissions = perms
	}

	if patch.Color != nil {
		role.Color = *patch.Color
	}

	if patch.Icon != nil {
		role.Icon = *patch.Icon
	}

	if patch.IsActive != nil {
		role.IsActive = *patch.IsActive
	}

	role.UpdatedBy = &updatedBy

	if err = s.roles.Update(ctx, role); err != nil {
		return nil, fmt.Errorf("failed to update role %s: %w", roleID, err)
	}

	if permissionsChanged {
		s.evictHolders(ctx, roleID)
	}

	log.Info().Str("role_id", roleID.String()).Bool("permissions_changed", permissionsChanged).Msg("role updated")

	return role, nil
}

// evictHolders drops the cached permissions of every user bound to roleID.
// When the holders can not be listed the whole cache is dropped.
func (s *RoleService) evictHolders(ctx context.Context, roleID uuid.UUID) {
	bindings, err := s.userRoles.FindActiveByRole(ctx, roleID)
	if err != nil {
		log.Error().Err(err).Str("role_id", roleID.String()).Msg("failed to list role holders, evicting all")
		s.invalidator.EvictAll()

		return
	}

	for _, b := range bindings {
		s.invalidator.EvictUser(b.UserID)
	}
}

// DeleteRole deletes a role that is neither system nor default and that no
// active binding references.
func (s *RoleService) DeleteRole(ctx context.Context, roleID uuid.UUID) error {
	role, err := s.roles.FindByID(ctx, roleID)
	if err != nil {
		return err
	}

	switch {
	case role.IsSystemRole:
		return fmt.Errorf("%w: %q", ErrSystemRoleImmutable, role.Name)
	case role.IsDefaultRole:
		return fmt.Errorf("%w: %q", ErrDefaultRoleImmutable, role.Name)
	}

	inUse, err := s.userRoles.CountActiveByRole(ctx, roleID)
	if err != nil {
		return err
	}

	if inUse > 0 {
		return fmt.Errorf("%w: %q has %d active assignments", ErrRoleInUse, role.Name, inUse)
	}

	if err = s.roles.Delete(ctx, roleID); err != nil {
		return fmt.Errorf("failed to delete role %s: %w", roleID, err)
	}

	log.Info().Str("role_id", roleID.String()).Str("name", role.Name).Msg("role deleted")

	return nil
}

// CloneRole copies a role into the same organization under newName. The
// copy is always a custom, non-system, non-default role.
func (s *RoleService) CloneRole(ctx context.Context, roleID uuid.UUID, newName string, createdBy uuid.UUID) (*models.Role, error) {
	source, err := s.roles.FindByID(ctx, roleID)
	if err != nil {
		return nil, err
	}

	name, err := normalizeName(newName)
	if err != nil {
		return nil, err
	}

	if err = s.ensureNameFree(ctx, source.OrganizationID, name); err != nil {
		return nil, err
	}

	clone := &models.Role{
		OrganizationID: source.OrganizationID,
		Name:           name,
		Description:    "Clone of " + source.Name,
		RoleType:       models.RoleTypeCustom,
		IsSystemRole:   false,
		IsDefaultRole:  false,
		Priority:       source.Priority,
		Permissions:    append([]string(nil), source.Permissions...),
		Color:          source.Color,
		Icon:           source.Icon,
		IsActive:       true,
		CreatedBy:      &createdBy,
		UpdatedBy:      &createdBy,
	}

	if err = s.roles.Create(ctx, clone); err != nil {
		return nil, fmt.Errorf("failed to clone role %s: %w", roleID, err)
	}

	log.Info().Str("source_role_id", roleID.String()).Str("role_id", clone.ID.String()).Msg("role cloned")

	return clone, nil
}

// GetRole returns a role by id.
func (s *RoleService) GetRole(ctx context.Context, roleID uuid.UUID) (*models.Role, error) {
	return s.roles.FindByID(ctx, roleID) //nolint:wrapcheck
}

// RolesByOrganization returns the roles of an organization.
func (s *RoleService) RolesByOrganization(ctx context.Context, organizationID uuid.UUID) ([]models.Role, error) {
	return s.roles.FindByOrganization(ctx, organizationID) //nolint:wrapcheck
}

// DefaultRoles returns the default roles of an organization.
func (s *RoleService) DefaultRoles(ctx context.Context, organizationID uuid.UUID) ([]models.Role, error) {
	return s.roles.FindDefaults(ctx, organizationID) //nolint:wrapcheck
}

// SystemRoles returns the global system roles.
func (s *RoleService) SystemRoles(ctx context.Context) ([]models.Role, error) {
	return s.roles.FindSystem(ctx) //nolint:wrapcheck
}

// RolePermissions describes the permission set of a role.
type RolePermissions struct {
	RoleID      uuid.UUID        `json:"roleId"`
	RoleName    string           `json:"roleName"`
	Permissions []PermissionInfo `json:"permissions"`
	TotalCount  int              `json:"totalPermissions"`
}

// RolePermissions returns the catalog details of the role's permissions.
func (s *RoleService) RolePermissions(ctx context.Context, roleID uuid.UUID) (*RolePermissions, error) {
	role, err := s.roles.FindByID(ctx, roleID)
	if err != nil {
		return nil, err
	}

	out := &RolePermissions{
		RoleID:      role.ID,
		RoleName:    role.Name,
		Permissions: make([]PermissionInfo, 0, len(role.Permissions)),
	}

	for _, code := range role.Permissions {
		out.Permissions = append(out.Permissions, DescribeCode(code))
	}

	out.TotalCount = len(out.Permissions)

	return out, nil
}

// EnsureSystemRole creates the global role unless a global role of the same
// name exists. It reports whether the role was created.
func (s *RoleService) EnsureSystemRole(ctx context.Context, role *models.Role) (bool, error) {
	if role.OrganizationID != nil {
		return false, fmt.Errorf("%w: system roles are global", ErrValidation)
	}

	exists, err := s.roles.ExistsByName(ctx, nil, role.Name)
	if err != nil {
		return false, err
	}

	if exists {
		return false, nil
	}

	if role.Permissions, err = ValidateCodes(role.Permissions); err != nil {
		return false, err
	}

	if err = s.roles.Create(ctx, role); err != nil {
		if errors.Is(err, ErrDuplicateName) {
			return false, nil
		}

		return false, fmt.Errorf("failed to create system role %q: %w", role.Name, err)
	}

	return true, nil
}
