package config

import (
	"time"

	"github.com/FleetRent-Admin/FleetRent-Admin/internal/logger"
)

// Config overall data structure.
type Config struct {
	DevMode   bool       `mapstructure:"devMode" toml:"devMode"` // enable dev mode for development
	Title     string     `mapstructure:"title" toml:"title"`
	DB        DB         `mapstructure:"db" toml:"db"`
	Log       logger.Log `mapstructure:"log" toml:"log"`
	Webserver Webserver  `mapstructure:"webserver" toml:"webserver"`
	Auth      Auth       `mapstructure:"auth" toml:"auth"`
	Cache     Cache      `mapstructure:"cache" toml:"cache"`
}

// Webserver implement webserver settings.
type Webserver struct {
	Port         int           `mapstructure:"port" toml:"port"`                 // listening port for the webserver
	URL          string        `mapstructure:"url" toml:"url"`                   // base url for the webserver
	ShutDownTime int           `mapstructure:"shutDownTime" toml:"shutDownTime"` // wait time for shutdown in seconds
	ReadTimeout  time.Duration `mapstructure:"readTimeout" toml:"readTimeout"`
	WriteTimeout time.Duration `mapstructure:"writeTimeout" toml:"writeTimeout"`
	// DisableRecover disables the recover middleware.
	DisableRecover bool `mapstructure:"disableRecover" toml:"disableRecover"`
}

// Auth holds the bearer token settings of the API.
type Auth struct {
	// JWTSecret verifies HS256 signed bearer tokens.
	JWTSecret string `mapstructure:"jwtSecret" toml:"jwtSecret" json:"-"`
	// JWTIssuer is the required iss claim, empty accepts any issuer.
	JWTIssuer string `mapstructure:"jwtIssuer" toml:"jwtIssuer"`
}

// Cache configures the permission cache.
type Cache struct {
	// TTL is how long a computed permission set is served.
	TTL time.Duration `mapstructure:"ttl" toml:"ttl"`
	// MaxEntries bounds the number of cached users.
	MaxEntries int `mapstructure:"maxEntries" toml:"maxEntries"`
	// SweepSchedule is the cron expression of the expired entry sweep,
	// empty disables the sweep.
	SweepSchedule string `mapstructure:"sweepSchedule" toml:"sweepSchedule"`
}
