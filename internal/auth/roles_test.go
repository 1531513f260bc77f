package auth_test

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FleetRent-Admin/FleetRent-Admin/internal/auth"
	"github.com/FleetRent-Admin/FleetRent-Admin/internal/db/models"
)

func TestCreateRole(t *testing.T) {
	f := newFixture(t)

	r, err := f.roles.CreateRole(f.ctx, auth.CreateRoleInput{
		Name:           "  Fleet Manager ",
		Description:    "Runs the fleet",
		OrganizationID: f.org,
		RoleType:       models.RoleTypeAgencyManager,
		Permissions:    []string{"VEHICLE_READ", "VEHICLE_WRITE", "VEHICLE_READ"},
	}, f.admin)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, r.ID)
	assert.Equal(t, "Fleet Manager", r.Name)
	assert.Equal(t, []string{"VEHICLE_READ", "VEHICLE_WRITE"}, r.Permissions)
	assert.Equal(t, models.RoleTypeAgencyManager.Info().Priority, r.Priority)
	assert.Equal(t, models.RoleTypeAgencyManager.Info().Color, r.Color)
	assert.Equal(t, models.RoleTypeAgencyManager.Info().Icon, r.Icon)
	assert.False(t, r.IsSystemRole)
	assert.True(t, r.IsActive)
	require.NotNil(t, r.CreatedBy)
	assert.Equal(t, f.admin, *r.CreatedBy)

	stored, err := f.roles.GetRole(f.ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, r.Permissions, stored.Permissions)

	custom, err := f.roles.CreateRole(f.ctx, auth.CreateRoleInput{
		Name:           "Night Shift",
		OrganizationID: f.org,
		Priority:       ptr(42),
		Color:          "#123456",
		Icon:           "moon",
	}, f.admin)
	require.NoError(t, err)
	assert.Equal(t, models.RoleTypeCustom, custom.RoleType)
	assert.Equal(t, 42, custom.Priority)
	assert.Equal(t, "#123456", custom.Color)
	assert.Equal(t, "moon", custom.Icon)
	assert.Empty(t, custom.Permissions)
}

func TestCreateRoleValidation(t *testing.T) {
	f := newFixture(t)
	f.role(t, "Taken", auth.UserRead)

	testCases := []struct {
		name    string
		in      auth.CreateRoleInput
		wantErr error
	}{
		{"name too short", auth.CreateRoleInput{Name: "X", OrganizationID: f.org}, auth.ErrValidation},
		{"name too long", auth.CreateRoleInput{Name: strings.Repeat("x", 101), OrganizationID: f.org}, auth.ErrValidation},
		{"missing organization", auth.CreateRoleInput{Name: "Valid"}, auth.ErrValidation},
		{"unknown permission", auth.CreateRoleInput{
			Name: "Valid", OrganizationID: f.org, Permissions: []string{"USER_READ", "USER_FLY"},
		}, auth.ErrInvalidPermission},
		{"duplicate name", auth.CreateRoleInput{Name: "Taken", OrganizationID: f.org}, auth.ErrDuplicateName},
		{"duplicate name wins over bad permission", auth.CreateRoleInput{
			Name: "Taken", OrganizationID: f.org, Permissions: []string{"USER_FLY"},
		}, auth.ErrDuplicateName},
		{"unknown role type", auth.CreateRoleInput{Name: "Valid", OrganizationID: f.org, RoleType: "JANITOR"}, auth.ErrValidation},
		{"super admin type", auth.CreateRoleInput{
			Name: "Valid", OrganizationID: f.org, RoleType: models.RoleTypeSuperAdmin,
		}, auth.ErrValidation},
		{"client type", auth.CreateRoleInput{Name: "Valid", OrganizationID: f.org, RoleType: models.RoleTypeClient}, auth.ErrValidation},
		{"priority out of range", auth.CreateRoleInput{Name: "Valid", OrganizationID: f.org, Priority: ptr(101)}, auth.ErrValidation},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.roles.CreateRole(f.ctx, tc.in, f.admin)
			require.ErrorIs(t, err, tc.wantErr)
		})
	}

	t.Run("same name in another organization", func(t *testing.T) {
		_, err := f.roles.CreateRole(f.ctx, auth.CreateRoleInput{Name: "Taken", OrganizationID: uuid.New()}, f.admin)
		require.NoError(t, err)
	})
}

func TestUpdateRole(t *testing.T) {
	f := newFixture(t)
	r := f.role(t, "Desk", auth.RentalRead)
	f.role(t, "Counter")

	updated, err := f.roles.UpdateRole(f.ctx, r.ID, auth.RolePatch{
		Name:        ptr("Front Desk"),
		Description: ptr("Customer facing"),
		Icon:        ptr("bell"),
		IsActive:    ptr(false),
	}, f.admin)
	require.NoError(t, err)
	assert.Equal(t, "Front Desk", updated.Name)
	assert.Equal(t, "Customer facing", updated.Description)
	assert.Equal(t, "bell", updated.Icon)
	assert.False(t, updated.IsActive)
	assert.Equal(t, []string{"RENTAL_READ"}, updated.Permissions, "nil permissions leave the set alone")

	_, err = f.roles.UpdateRole(f.ctx, r.ID, auth.RolePatch{Name: ptr("Counter")}, f.admin)
	require.ErrorIs(t, err, auth.ErrDuplicateName)

	_, err = f.roles.UpdateRole(f.ctx, r.ID, auth.RolePatch{Permissions: []string{"NOPE"}}, f.admin)
	require.ErrorIs(t, err, auth.ErrInvalidPermission)

	cleared, err := f.roles.UpdateRole(f.ctx, r.ID, auth.RolePatch{Permissions: []string{}}, f.admin)
	require.NoError(t, err)
	assert.Empty(t, cleared.Permissions)

	_, err = f.roles.UpdateRole(f.ctx, uuid.New(), auth.RolePatch{}, f.admin)
	require.ErrorIs(t, err, auth.ErrNotFound)
}

func TestUpdateRolePermissionsTakeEffectImmediately(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, models.UserTypeRentalAgent, &f.org, nil)
	r := f.role(t, "Desk", auth.RentalRead)
	f.assign(t, u, r, nil)

	assert.True(t, f.has(t, u.ID, auth.RentalRead))
	assert.False(t, f.has(t, u.ID, auth.RentalApprove))

	_, err := f.roles.UpdateRole(f.ctx, r.ID, auth.RolePatch{
		Permissions: auth.Codes(auth.RentalRead, auth.RentalApprove),
	}, f.admin)
	require.NoError(t, err)

	assert.True(t, f.has(t, u.ID, auth.RentalApprove), "holders are evicted on permission change")
}

func TestSystemRoleIsImmutable(t *testing.T) {
	f := newFixture(t)

	system := &models.Role{
		Name:         "Platform Root",
		RoleType:     models.RoleTypeSuperAdmin,
		IsSystemRole: true,
		Permissions:  auth.Codes(auth.AllPermissions()...),
		IsActive:     true,
	}

	created, err := f.roles.EnsureSystemRole(f.ctx, system)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = f.roles.EnsureSystemRole(f.ctx, &models.Role{Name: "Platform Root", IsSystemRole: true})
	require.NoError(t, err)
	assert.False(t, created, "second run is a no-op")

	_, err = f.roles.EnsureSystemRole(f.ctx, &models.Role{Name: "Scoped", OrganizationID: &f.org})
	require.ErrorIs(t, err, auth.ErrValidation)

	_, err = f.roles.UpdateRole(f.ctx, system.ID, auth.RolePatch{Description: ptr("changed")}, f.admin)
	require.ErrorIs(t, err, auth.ErrSystemRoleImmutable)

	require.ErrorIs(t, f.roles.DeleteRole(f.ctx, system.ID), auth.ErrSystemRoleImmutable)

	systemRoles, err := f.roles.SystemRoles(f.ctx)
	require.NoError(t, err)
	require.Len(t, systemRoles, 1)
	assert.Equal(t, "Platform Root", systemRoles[0].Name)
}

func TestDeleteRole(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, models.UserTypeRentalAgent, &f.org, nil)

	unused := f.role(t, "Unused", auth.UserRead)
	require.NoError(t, f.roles.DeleteRole(f.ctx, unused.ID))

	_, err := f.roles.GetRole(f.ctx, unused.ID)
	require.ErrorIs(t, err, auth.ErrNotFound)
	require.ErrorIs(t, f.roles.DeleteRole(f.ctx, unused.ID), auth.ErrNotFound)

	used := f.role(t, "Used", auth.UserRead)
	f.assign(t, u, used, nil)
	require.ErrorIs(t, f.roles.DeleteRole(f.ctx, used.ID), auth.ErrRoleInUse)

	require.NoError(t, f.assignments.RevokeRole(f.ctx, u.ID, used.ID, f.admin))
	require.NoError(t, f.roles.DeleteRole(f.ctx, used.ID), "revoked bindings do not block deletion")

	def := &models.Role{OrganizationID: &f.org, Name: "Default", IsDefaultRole: true, IsActive: true}
	require.NoError(t, f.db.Create(def).Error)
	require.ErrorIs(t, f.roles.DeleteRole(f.ctx, def.ID), auth.ErrDefaultRoleImmutable)

	defaults, err := f.roles.DefaultRoles(f.ctx, f.org)
	require.NoError(t, err)
	require.Len(t, defaults, 1)
	assert.Equal(t, def.ID, defaults[0].ID)
}

func TestCloneRole(t *testing.T) {
	f := newFixture(t)
	source := f.typedRole(t, "Agent", models.RoleTypeRentalAgent, auth.RentalRead, auth.RentalWrite)

	clone, err := f.roles.CloneRole(f.ctx, source.ID, "Agent Copy", f.admin)
	require.NoError(t, err)

	assert.NotEqual(t, source.ID, clone.ID)
	assert.Equal(t, source.OrganizationID, clone.OrganizationID)
	assert.Equal(t, "Clone of Agent", clone.Description)
	assert.Equal(t, models.RoleTypeCustom, clone.RoleType)
	assert.Equal(t, source.Permissions, clone.Permissions)
	assert.Equal(t, source.Priority, clone.Priority)
	assert.False(t, clone.IsSystemRole)
	assert.False(t, clone.IsDefaultRole)

	_, err = f.roles.CloneRole(f.ctx, source.ID, "Agent", f.admin)
	require.ErrorIs(t, err, auth.ErrDuplicateName)

	_, err = f.roles.CloneRole(f.ctx, uuid.New(), "Whatever", f.admin)
	require.ErrorIs(t, err, auth.ErrNotFound)

	roles, err := f.roles.RolesByOrganization(f.ctx, f.org)
	require.NoError(t, err)
	assert.Len(t, roles, 2)
}

func TestRolePermissions(t *testing.T) {
	f := newFixture(t)
	r := f.role(t, "Reports", auth.ReportRead, auth.ReportExport)

	require.NoError(t, f.db.Exec("UPDATE roles SET permissions = ? WHERE id = ?",
		`["REPORT_READ","REPORT_EXPORT","LEGACY_CODE"]`, r.ID).Error)

	detail, err := f.roles.RolePermissions(f.ctx, r.ID)
	require.NoError(t, err)

	assert.Equal(t, r.ID, detail.RoleID)
	assert.Equal(t, "Reports", detail.RoleName)
	assert.Equal(t, 3, detail.TotalCount)
	require.Len(t, detail.Permissions, 3)
	assert.Equal(t, auth.ReportRead.Info(), detail.Permissions[0])
	assert.Equal(t, auth.ResourceUnknown, detail.Permissions[2].Resource)
}
