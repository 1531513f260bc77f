package web

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/FleetRent-Admin/FleetRent-Admin/internal/auth"
	"github.com/FleetRent-Admin/FleetRent-Admin/internal/config"
	"github.com/FleetRent-Admin/FleetRent-Admin/internal/db/controller/agency"
	"github.com/FleetRent-Admin/FleetRent-Admin/internal/db/controller/role"
	"github.com/FleetRent-Admin/FleetRent-Admin/internal/db/controller/user"
	"github.com/FleetRent-Admin/FleetRent-Admin/internal/db/controller/userrole"
	"github.com/FleetRent-Admin/FleetRent-Admin/internal/db/dbtest"
	"github.com/FleetRent-Admin/FleetRent-Admin/internal/db/models"
	"github.com/FleetRent-Admin/FleetRent-Admin/internal/web/handler"
	mwauth "github.com/FleetRent-Admin/FleetRent-Admin/internal/web/middleware/auth"
)

const testSecret = "web-test-secret"

type testEnv struct {
	t        *testing.T
	ctx      context.Context
	db       *gorm.DB
	deps     *handler.Deps
	service  *Service
	verifier *mwauth.Verifier
	org      uuid.UUID
	root     *models.User
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	ctx := context.Background()
	db := dbtest.Open(t)

	roleStore, err := role.New(db)
	require.NoError(t, err)
	userRoleStore, err := userrole.New(db)
	require.NoError(t, err)
	users, err := user.New(db)
	require.NoError(t, err)
	agencies, err := agency.New(db)
	require.NoError(t, err)

	engine := auth.NewService(userRoleStore, roleStore)
	cache, err := auth.NewPermissionCache(engine, auth.DefaultCacheTTL, 100)
	require.NoError(t, err)
	engine.UseCache(cache)

	deps := &handler.Deps{
		Engine:      engine,
		Roles:       auth.NewRoleService(roleStore, userRoleStore, cache),
		Assignments: auth.NewAssignmentService(users, roleStore, userRoleStore, cache),
		Tenant:      auth.NewTenantResolver(users, agencies),
		Users:       users,
	}

	cfg := &config.Config{
		Title: "FleetRent-Admin test",
		Auth:  config.Auth{JWTSecret: testSecret},
	}

	env := &testEnv{
		t:        t,
		ctx:      ctx,
		db:       db,
		deps:     deps,
		service:  New(cfg, deps),
		verifier: mwauth.NewVerifier(cfg.Auth),
		org:      uuid.New(),
	}

	superAdmin := &models.Role{
		Name:         "Super Administrator",
		RoleType:     models.RoleTypeSuperAdmin,
		IsSystemRole: true,
		Permissions:  auth.Codes(auth.AllPermissions()...),
		IsActive:     true,
	}
	_, err = deps.Roles.EnsureSystemRole(ctx, superAdmin)
	require.NoError(t, err)

	env.root = env.user(models.UserTypeSuperAdmin, nil)
	env.grant(env.root, superAdmin, uuid.New())

	return env
}

func (e *testEnv) user(userType models.UserType, org *uuid.UUID) *models.User {
	e.t.Helper()

	u := &models.User{
		Email:          uuid.NewString() + "@fleetrent.test",
		UserType:       userType,
		OrganizationID: org,
		IsActive:       true,
	}
	require.NoError(e.t, e.db.Create(u).Error)

	return u
}

func (e *testEnv) role(org uuid.UUID, name string, perms ...auth.Permission) *models.Role {
	e.t.Helper()

	r, err := e.deps.Roles.CreateRole(e.ctx, auth.CreateRoleInput{
		Name:           name,
		OrganizationID: org,
		Permissions:    auth.Codes(perms...),
	}, e.root.ID)
	require.NoError(e.t, err)

	return r
}

func (e *testEnv) grant(u *models.User, r *models.Role, org uuid.UUID) {
	e.t.Helper()

	_, err := e.deps.Assignments.AssignRole(e.ctx, auth.AssignInput{
		UserID:         u.ID,
		RoleID:         r.ID,
		OrganizationID: org,
	}, u.ID)
	require.NoError(e.t, err)
}

// do sends a request as caller, nil sends it without token. out receives
// the decoded json body when set.
func (e *testEnv) do(method, path string, caller *models.User, body any, out any) int {
	e.t.Helper()

	var reader io.Reader

	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(e.t, err)

		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if caller != nil {
		token, err := e.verifier.Issue(caller.ID, time.Minute)
		require.NoError(e.t, err)

		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.service.App.Test(req)
	require.NoError(e.t, err)

	defer resp.Body.Close()

	if out != nil {
		require.NoError(e.t, json.NewDecoder(resp.Body).Decode(out))
	}

	return resp.StatusCode
}

func TestCheckAliveAndMetrics(t *testing.T) {
	env := newTestEnv(t)

	assert.Equal(t, http.StatusServiceUnavailable, env.do(http.MethodGet, CheckAlivePath, nil, nil, nil),
		"not serving before start")

	env.service.alive.Store(true)
	assert.Equal(t, http.StatusOK, env.do(http.MethodGet, CheckAlivePath, nil, nil, nil))

	assert.Equal(t, http.StatusOK, env.do(http.MethodGet, MetricsPath, nil, nil, nil))
}

func TestNewPanicsOnMissingDependencies(t *testing.T) {
	assert.Panics(t, func() { New(nil, &handler.Deps{}) })
	assert.Panics(t, func() { New(&config.Config{}, nil) })
	assert.Panics(t, func() { New(&config.Config{}, &handler.Deps{}) })
}

func TestAPIRequiresToken(t *testing.T) {
	env := newTestEnv(t)
	client := env.user(models.UserTypeClient, nil)

	assert.Equal(t, http.StatusUnauthorized, env.do(http.MethodGet, "/api/v1/permissions", nil, nil, nil))

	var catalog []auth.PermissionInfo
	assert.Equal(t, http.StatusOK, env.do(http.MethodGet, "/api/v1/permissions", client, nil, &catalog))
	assert.Len(t, catalog, len(auth.AllPermissions()))

	var vehicle struct {
		Resource string `json:"resource"`
		Count    int    `json:"count"`
	}
	assert.Equal(t, http.StatusOK, env.do(http.MethodGet, "/api/v1/permissions/resources/vehicle", client, nil, &vehicle))
	assert.Equal(t, "VEHICLE", vehicle.Resource)
	assert.Equal(t, len(auth.PermissionsForResource("VEHICLE")), vehicle.Count)

	assert.Equal(t, http.StatusForbidden, env.do(http.MethodGet, "/api/v1/roles?organizationId="+env.org.String(),
		client, nil, nil), "no ROLE_READ")
}

func TestRolesOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	otherOrg := uuid.New()

	owner := env.user(models.UserTypeOrganizationOwner, &env.org)
	env.grant(owner, env.role(env.org, "Owners", auth.RoleRead, auth.RoleUpdate), env.org)

	outsider := env.user(models.UserTypeOrganizationOwner, &otherOrg)
	env.grant(outsider, env.role(otherOrg, "Owners", auth.RoleRead), otherOrg)

	var created models.Role
	status := env.do(http.MethodPost, "/api/v1/roles", env.root, map[string]any{
		"name":           "Fleet Manager",
		"organizationId": env.org,
		"permissions":    []string{"VEHICLE_READ", "VEHICLE_WRITE"},
		"color":          "#112233",
	}, &created)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "Fleet Manager", created.Name)
	assert.Equal(t, []string{"VEHICLE_READ", "VEHICLE_WRITE"}, created.Permissions)

	rolePath := "/api/v1/roles/" + created.ID.String()

	testCases := []struct {
		name     string
		method   string
		path     string
		caller   *models.User
		body     any
		expected int
	}{
		{"owner reads own organization role", http.MethodGet, rolePath, owner, nil, http.StatusOK},
		{"outsider reads foreign role", http.MethodGet, rolePath, outsider, nil, http.StatusForbidden},
		{"owner lacks ROLE_WRITE", http.MethodPost, "/api/v1/roles", owner,
			map[string]any{"name": "Sneaky", "organizationId": env.org}, http.StatusForbidden},
		{"invalid id", http.MethodGet, "/api/v1/roles/not-a-uuid", owner, nil, http.StatusBadRequest},
		{"unknown role", http.MethodGet, "/api/v1/roles/" + uuid.NewString(), owner, nil, http.StatusNotFound},
		{"unknown permission code", http.MethodPut, rolePath, owner,
			map[string]any{"permissions": []string{"VEHICLE_TELEPORT"}}, http.StatusBadRequest},
		{"invalid color", http.MethodPut, rolePath, owner, map[string]any{"color": "red"}, http.StatusBadRequest},
		{"duplicate name", http.MethodPost, "/api/v1/roles", env.root,
			map[string]any{"name": "Fleet Manager", "organizationId": env.org}, http.StatusConflict},
		{"missing organization", http.MethodPost, "/api/v1/roles", env.root,
			map[string]any{"name": "Nowhere"}, http.StatusBadRequest},
		{"update", http.MethodPut, rolePath, owner, map[string]any{"description": "Runs the fleet"}, http.StatusOK},
		{"role permissions", http.MethodGet, rolePath + "/permissions", owner, nil, http.StatusOK},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, env.do(tc.method, tc.path, tc.caller, tc.body, nil))
		})
	}

	var listed []models.Role
	require.Equal(t, http.StatusOK,
		env.do(http.MethodGet, "/api/v1/roles?organizationId="+env.org.String(), owner, nil, &listed))
	assert.Len(t, listed, 2)

	var system []models.Role
	require.Equal(t, http.StatusOK, env.do(http.MethodGet, "/api/v1/roles/system", owner, nil, &system))
	require.Len(t, system, 1)

	assert.Equal(t, http.StatusForbidden,
		env.do(http.MethodPut, "/api/v1/roles/"+system[0].ID.String(), env.root, map[string]any{"icon": "x"}, nil),
		"system roles are immutable")

	var clone models.Role
	require.Equal(t, http.StatusCreated,
		env.do(http.MethodPost, rolePath+"/clone", env.root, map[string]any{"name": "Fleet Copy"}, &clone))
	assert.Equal(t, created.Permissions, clone.Permissions)

	assert.Equal(t, http.StatusNoContent, env.do(http.MethodDelete, "/api/v1/roles/"+clone.ID.String(), env.root, nil, nil))
	assert.Equal(t, http.StatusNotFound, env.do(http.MethodDelete, "/api/v1/roles/"+clone.ID.String(), env.root, nil, nil))
}

func TestAssignmentsOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	otherOrg := uuid.New()

	manager := env.user(models.UserTypeOrganizationOwner, &env.org)
	env.grant(manager, env.role(env.org, "Managers", auth.UserManageRoles, auth.UserRead), env.org)

	agent := env.user(models.UserTypeRentalAgent, &env.org)
	stranger := env.user(models.UserTypeRentalAgent, &otherOrg)
	desk := env.role(env.org, "Desk", auth.RentalRead)

	assign := func(target *models.User) int {
		return env.do(http.MethodPost, "/api/v1/user-roles", manager, map[string]any{
			"userId":         target.ID,
			"roleId":         desk.ID,
			"organizationId": env.org,
		}, nil)
	}

	checkPath := "/api/v1/permissions/users/" + agent.ID.String() + "/check?permission=RENTAL_READ"
	hasRentalRead := func() bool {
		var out struct {
			HasPermission bool `json:"hasPermission"`
		}

		require.Equal(t, http.StatusOK, env.do(http.MethodGet, checkPath, manager, nil, &out))

		return out.HasPermission
	}

	assert.False(t, hasRentalRead())

	assert.Equal(t, http.StatusCreated, assign(agent))
	assert.Equal(t, http.StatusConflict, assign(agent), "second active binding")
	assert.Equal(t, http.StatusForbidden, assign(stranger), "target outside the organization")
	assert.True(t, hasRentalRead(), "visible without waiting for the cache ttl")

	var active []models.UserRole
	require.Equal(t, http.StatusOK,
		env.do(http.MethodGet, "/api/v1/user-roles/"+agent.ID.String()+"/roles", manager, nil, &active))
	require.Len(t, active, 1)
	assert.Equal(t, desk.ID, active[0].RoleID)

	var holders []models.UserRole
	require.Equal(t, http.StatusOK,
		env.do(http.MethodGet, "/api/v1/user-roles/roles/"+desk.ID.String()+"/users", manager, nil, &holders))
	assert.Len(t, holders, 1)

	bindingPath := "/api/v1/user-roles/" + agent.ID.String() + "/roles/" + desk.ID.String()

	assert.Equal(t, http.StatusBadRequest,
		env.do(http.MethodPut, bindingPath+"/extend", manager, map[string]any{}, nil))
	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodPut, bindingPath+"/extend", manager,
		map[string]any{"expiresAt": time.Now().Add(-time.Hour)}, nil), "expiry in the past")
	assert.Equal(t, http.StatusOK, env.do(http.MethodPut, bindingPath+"/extend", manager,
		map[string]any{"expiresAt": time.Now().Add(time.Hour)}, nil))

	assert.Equal(t, http.StatusNoContent, env.do(http.MethodDelete, bindingPath, manager, nil, nil))
	assert.False(t, hasRentalRead())

	assert.Equal(t, http.StatusOK, env.do(http.MethodPut, bindingPath+"/activate", manager, nil, nil))
	assert.True(t, hasRentalRead())

	assert.Equal(t, http.StatusNoContent,
		env.do(http.MethodDelete, "/api/v1/user-roles/"+agent.ID.String()+"/roles", manager, nil, nil))
	assert.False(t, hasRentalRead())

	var history []models.UserRole
	require.Equal(t, http.StatusOK,
		env.do(http.MethodGet, "/api/v1/user-roles/"+agent.ID.String()+"/history", manager, nil, &history))
	assert.Len(t, history, 1)

	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodGet,
		"/api/v1/permissions/users/"+agent.ID.String()+"/check?permission=RENTAL_TELEPORT", manager, nil, nil))
	assert.Equal(t, http.StatusForbidden, env.do(http.MethodGet,
		"/api/v1/permissions/users/"+stranger.ID.String(), manager, nil, nil))
}

func TestBindingOrganizationIsChecked(t *testing.T) {
	env := newTestEnv(t)
	otherOrg := uuid.New()

	manager := env.user(models.UserTypeOrganizationOwner, &env.org)
	env.grant(manager, env.role(env.org, "Managers", auth.UserManageRoles, auth.UserRead), env.org)

	client := &models.Role{
		Name:          "Client",
		RoleType:      models.RoleTypeClient,
		IsSystemRole:  true,
		IsDefaultRole: true,
		Permissions:   auth.Codes(auth.RentalRead),
		IsActive:      true,
	}
	_, err := env.deps.Roles.EnsureSystemRole(env.ctx, client)
	require.NoError(t, err)

	agent := env.user(models.UserTypeRentalAgent, &env.org)
	env.grant(agent, client, otherOrg)

	bindingPath := "/api/v1/user-roles/" + agent.ID.String() + "/roles/" + client.ID.String()
	extend := map[string]any{"expiresAt": time.Now().Add(time.Hour)}

	testCases := []struct {
		name     string
		method   string
		path     string
		body     any
		expected int
	}{
		{"extend", http.MethodPut, bindingPath + "/extend", extend, http.StatusForbidden},
		{"activate", http.MethodPut, bindingPath + "/activate", nil, http.StatusForbidden},
		{"revoke", http.MethodDelete, bindingPath, nil, http.StatusForbidden},
		{"unknown binding", http.MethodDelete,
			"/api/v1/user-roles/" + agent.ID.String() + "/roles/" + uuid.NewString(), nil, http.StatusNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, env.do(tc.method, tc.path, manager, tc.body, nil))
		})
	}

	assert.Equal(t, http.StatusNoContent, env.do(http.MethodDelete, bindingPath, env.root, nil, nil))
}

func TestCheckMultipleAndCompare(t *testing.T) {
	env := newTestEnv(t)

	reader := env.user(models.UserTypeOrganizationOwner, &env.org)
	env.grant(reader, env.role(env.org, "Readers", auth.UserRead, auth.RoleRead), env.org)

	agent := env.user(models.UserTypeRentalAgent, &env.org)
	env.grant(agent, env.role(env.org, "Agents", auth.RentalRead, auth.UserRead), env.org)

	var multiple struct {
		HasAll bool `json:"hasAllPermissions"`
		HasAny bool `json:"hasAnyPermissions"`
	}
	require.Equal(t, http.StatusOK, env.do(http.MethodPost,
		"/api/v1/permissions/users/"+agent.ID.String()+"/check-multiple", reader,
		map[string]any{"permissions": []string{"RENTAL_READ", "RENTAL_DELETE"}}, &multiple))
	assert.False(t, multiple.HasAll)
	assert.True(t, multiple.HasAny)

	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodPost,
		"/api/v1/permissions/users/"+agent.ID.String()+"/check-multiple", reader,
		map[string]any{"permissions": []string{}}, nil))

	var cmp auth.PermissionComparison
	require.Equal(t, http.StatusOK, env.do(http.MethodGet,
		"/api/v1/permissions/compare/"+reader.ID.String()+"/"+agent.ID.String(), reader, nil, &cmp))
	assert.Equal(t, []string{"USER_READ"}, cmp.Common)
	assert.Equal(t, []string{"ROLE_READ"}, cmp.OnlyFirst)
	assert.Equal(t, []string{"RENTAL_READ"}, cmp.OnlySecond)
}

func TestCallerContext(t *testing.T) {
	env := newTestEnv(t)

	agent := env.user(models.UserTypeRentalAgent, &env.org)
	env.grant(agent, env.role(env.org, "Agents", auth.RentalRead), env.org)

	var sc auth.SecurityContext
	require.Equal(t, http.StatusOK, env.do(http.MethodGet, "/api/v1/me/security-context", agent, nil, &sc))
	assert.Equal(t, agent.ID, sc.UserID)
	assert.Equal(t, []string{"RENTAL_READ"}, sc.Permissions)
	assert.False(t, sc.IsSuperAdmin)

	var filter auth.TenantFilter
	require.Equal(t, http.StatusOK, env.do(http.MethodGet, "/api/v1/me/tenant-filter", agent, nil, &filter))
	require.NotNil(t, filter.OrganizationID)
	assert.Equal(t, env.org, *filter.OrganizationID)
	assert.False(t, filter.IsGlobalAccess)

	require.Equal(t, http.StatusOK, env.do(http.MethodGet, "/api/v1/me/tenant-filter", env.root, nil, &filter))
	assert.True(t, filter.IsGlobalAccess)
}
