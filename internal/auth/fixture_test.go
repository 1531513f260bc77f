package auth_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/FleetRent-Admin/FleetRent-Admin/internal/auth"
	"github.com/FleetRent-Admin/FleetRent-Admin/internal/db/controller/agency"
	"github.com/FleetRent-Admin/FleetRent-Admin/internal/db/controller/role"
	"github.com/FleetRent-Admin/FleetRent-Admin/internal/db/controller/user"
	"github.com/FleetRent-Admin/FleetRent-Admin/internal/db/controller/userrole"
	"github.com/FleetRent-Admin/FleetRent-Admin/internal/db/dbtest"
	"github.com/FleetRent-Admin/FleetRent-Admin/internal/db/models"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)
}

// fixture wires the services on a fresh database the way the daemon does.
type fixture struct {
	ctx         context.Context
	db          *gorm.DB
	clock       *testClock
	engine      *auth.Service
	cache       *auth.PermissionCache
	roles       *auth.RoleService
	assignments *auth.AssignmentService
	tenant      *auth.TenantResolver
	org         uuid.UUID
	admin       uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := dbtest.Open(t)

	roleStore, err := role.New(db)
	require.NoError(t, err)
	userRoleStore, err := userrole.New(db)
	require.NoError(t, err)
	users, err := user.New(db)
	require.NoError(t, err)
	agencies, err := agency.New(db)
	require.NoError(t, err)

	clock := &testClock{now: time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)}

	engine := auth.NewService(userRoleStore, roleStore).WithClock(clock.Now)

	cache, err := auth.NewPermissionCache(engine, auth.DefaultCacheTTL, 100)
	require.NoError(t, err)
	cache.WithClock(clock.Now)
	engine.UseCache(cache)

	return &fixture{
		ctx:         context.Background(),
		db:          db,
		clock:       clock,
		engine:      engine,
		cache:       cache,
		roles:       auth.NewRoleService(roleStore, userRoleStore, cache),
		assignments: auth.NewAssignmentService(users, roleStore, userRoleStore, cache).WithClock(clock.Now),
		tenant:      auth.NewTenantResolver(users, agencies),
		org:         uuid.New(),
		admin:       uuid.New(),
	}
}

func (f *fixture) user(t *testing.T, userType models.UserType, org, agencyID *uuid.UUID) *models.User {
	t.Helper()

	u := &models.User{
		ID:             uuid.New(),
		Email:          uuid.NewString() + "@fleetrent.test",
		UserType:       userType,
		OrganizationID: org,
		AgencyID:       agencyID,
		IsActive:       true,
	}
	require.NoError(t, f.db.Create(u).Error)

	return u
}

func (f *fixture) agency(t *testing.T, org uuid.UUID) *models.Agency {
	t.Helper()

	a := &models.Agency{ID: uuid.New(), OrganizationID: org, Name: "Agency " + uuid.NewString()[:8]}
	require.NoError(t, f.db.Create(a).Error)

	return a
}

func (f *fixture) role(t *testing.T, name string, perms ...auth.Permission) *models.Role {
	t.Helper()

	r, err := f.roles.CreateRole(f.ctx, auth.CreateRoleInput{
		Name:           name,
		OrganizationID: f.org,
		Permissions:    auth.Codes(perms...),
	}, f.admin)
	require.NoError(t, err)

	return r
}

func (f *fixture) typedRole(t *testing.T, name string, roleType models.RoleType, perms ...auth.Permission) *models.Role {
	t.Helper()

	r, err := f.roles.CreateRole(f.ctx, auth.CreateRoleInput{
		Name:           name,
		OrganizationID: f.org,
		RoleType:       roleType,
		Permissions:    auth.Codes(perms...),
	}, f.admin)
	require.NoError(t, err)

	return r
}

func (f *fixture) systemRole(t *testing.T, name string, roleType models.RoleType, perms ...auth.Permission) *models.Role {
	t.Helper()

	r := &models.Role{
		Name:         name,
		RoleType:     roleType,
		IsSystemRole: true,
		Priority:     roleType.Info().Priority,
		Permissions:  auth.Codes(perms...),
		IsActive:     true,
	}

	created, err := f.roles.EnsureSystemRole(f.ctx, r)
	require.NoError(t, err)
	require.True(t, created)

	return r
}

func (f *fixture) assign(t *testing.T, u *models.User, r *models.Role, expiresAt *time.Time) *models.UserRole {
	t.Helper()

	b, err := f.assignments.AssignRole(f.ctx, auth.AssignInput{
		UserID:         u.ID,
		RoleID:         r.ID,
		OrganizationID: f.org,
		ExpiresAt:      expiresAt,
	}, f.admin)
	require.NoError(t, err)

	return b
}

func (f *fixture) has(t *testing.T, userID uuid.UUID, p auth.Permission) bool {
	t.Helper()

	ok, err := f.engine.Can(f.ctx, userID, p)
	require.NoError(t, err)

	return ok
}

func ptr[T any](v T) *T {
	return &v
}
