package daemon

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/FleetRent-Admin/FleetRent-Admin/internal/auth"
	"github.com/FleetRent-Admin/FleetRent-Admin/internal/config"
	"github.com/FleetRent-Admin/FleetRent-Admin/internal/db/controller/agency"
	"github.com/FleetRent-Admin/FleetRent-Admin/internal/db/controller/role"
	"github.com/FleetRent-Admin/FleetRent-Admin/internal/db/controller/user"
	"github.com/FleetRent-Admin/FleetRent-Admin/internal/db/controller/userrole"
	"github.com/FleetRent-Admin/FleetRent-Admin/internal/web"
	"github.com/FleetRent-Admin/FleetRent-Admin/internal/web/handler"
)

// Components holds the wired access control services.
type Components struct {
	Engine      *auth.Service
	Cache       *auth.PermissionCache
	Roles       *auth.RoleService
	Assignments *auth.AssignmentService
	Tenant      *auth.TenantResolver
	Users       auth.UserDirectory
}

// Deps returns the handler dependencies of the components.
func (c *Components) Deps() *handler.Deps {
	return &handler.Deps{
		Engine:      c.Engine,
		Roles:       c.Roles,
		Assignments: c.Assignments,
		Tenant:      c.Tenant,
		Users:       c.Users,
	}
}

// Wire builds the stores and services on db. The permission cache is
// attached to the decision engine and receives the evictions of every
// mutation.
func Wire(cfg *config.Config, db *gorm.DB) (*Components, error) {
	roleStore, err := role.New(db)
	if err != nil {
		return nil, err
	}

	userRoleStore, err := userrole.New(db)
	if err != nil {
		return nil, err
	}

	users, err := user.New(db)
	if err != nil {
		return nil, err
	}

	agencies, err := agency.New(db)
	if err != nil {
		return nil, err
	}

	engine := auth.NewService(userRoleStore, roleStore)

	cache, err := auth.NewPermissionCache(engine, cfg.Cache.TTL, cfg.Cache.MaxEntries)
	if err != nil {
		return nil, fmt.Errorf("failed to create permission cache: %w", err)
	}

	engine.UseCache(cache)

	return &Components{
		Engine:      engine,
		Cache:       cache,
		Roles:       auth.NewRoleService(roleStore, userRoleStore, cache),
		Assignments: auth.NewAssignmentService(users, roleStore, userRoleStore, cache),
		Tenant:      auth.NewTenantResolver(users, agencies),
		Users:       users,
	}, nil
}

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	webService *web.Service
	sweeper    *Sweeper
}

// Start starts the cache sweep and the web service and blocks until a
// shutdown signal arrives.
func (d *Daemon) Start() error {
	d.sweeper.Start()
	defer d.sweeper.Stop()

	errCh := make(chan error, 1)

	go func() {
		errCh <- d.webService.Start(":" + strconv.Itoa(d.cfg.Webserver.Port))
	}()

	d.webService.WaitShutdown()

	return <-errCh
}

// New creates a new Daemon instance with the provided configuration.
func New(cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		return nil, config.ErrConfigNil
	}

	db, err := OpenDB(cfg)
	if err != nil {
		return nil, err
	}

	if err = Migrate(db); err != nil {
		return nil, err
	}

	components, err := Wire(cfg, db)
	if err != nil {
		return nil, err
	}

	if err = Seed(context.Background(), components.Roles); err != nil {
		return nil, fmt.Errorf("failed to seed system roles: %w", err)
	}

	sweeper, err := NewSweeper(cfg.Cache.SweepSchedule, components.Cache)
	if err != nil {
		return nil, err
	}

	log.Info().Str("engine", cfg.DB.GormEngine).Dur("cache_ttl", components.Cache.TTL()).
		Msg("access control services ready")

	return &Daemon{
		cfg:        cfg,
		webService: web.New(cfg, components.Deps()),
		sweeper:    sweeper,
	}, nil
}
