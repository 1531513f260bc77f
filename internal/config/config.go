// Package config handles input from etc/main.toml and the environment.
package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"

	"github.com/FleetRent-Admin/FleetRent-Admin/internal/auth"
)

// EnvConfigJSON names the environment variable holding a JSON document that
// overrides values of the config file.
const EnvConfigJSON = "FLEETRENT_CONFIG_JSON"

// DefaultPath is used when no config path is given.
const DefaultPath = "./etc/"

func setDefaults(v *viper.Viper) {
	v.SetDefault("title", "FleetRent-Admin")
	v.SetDefault("db.gormEngine", EngineSQLite)
	v.SetDefault("db.name", "fleetrent.db")
	v.SetDefault("db.maxIdleConns", 5)
	v.SetDefault("db.maxOpenConns", 20)
	v.SetDefault("db.connMaxLifetime", "30m")
	v.SetDefault("log.logLevel", "info")
	v.SetDefault("log.appName", "fleetrent-admin")
	v.SetDefault("log.serviceName", "rbac")
	v.SetDefault("log.console.enabled", true)
	v.SetDefault("webserver.shutDownTime", 5)
	v.SetDefault("webserver.readTimeout", "10s")
	v.SetDefault("webserver.writeTimeout", "10s")
	v.SetDefault("cache.ttl", auth.DefaultCacheTTL.String())
	v.SetDefault("cache.maxEntries", auth.DefaultCacheSize)
	v.SetDefault("cache.sweepSchedule", "@every 5m")
}

// ReadConfig from config file.
func ReadConfig(path string) (Config, error) {
	var c Config

	if path == "" {
		path = DefaultPath
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(filepath.Join(path, "main.toml"))

	if err := v.ReadInConfig(); err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	// override it from env
	if configJSON := os.Getenv(EnvConfigJSON); configJSON != "" {
		v.SetConfigType("json")

		if err := v.MergeConfig(strings.NewReader(configJSON)); err != nil {
			return Config{}, errors.Wrap(err, "failed to merge config from "+EnvConfigJSON)
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return Config{}, errors.Wrap(err, "failed to decode config")
	}

	return c, validate(&c)
}

// DumpConfig config as TOML String.
func DumpConfig(c Config) (string, error) {
	var buffer bytes.Buffer

	if err := toml.NewEncoder(&buffer).Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// DumpConfigJSON config as JSON String.
func DumpConfigJSON(c Config) (string, error) {
	var buffer bytes.Buffer
	j := json.NewEncoder(&buffer)
	j.SetIndent("", "  ")

	if err := j.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// validate checks the settings the daemon can not start without and fills
// in defaults for optional ones.
func validate(c *Config) error {
	invalidErrMessage := "invalid config"

	if c.Webserver.Port == 0 {
		return errors.Wrap(ErrWebServerPortCanNotBeZero, invalidErrMessage)
	}

	if c.Webserver.URL == "" {
		return errors.Wrap(ErrEmptyURL, invalidErrMessage)
	}

	if c.Webserver.ShutDownTime == 0 {
		c.Webserver.ShutDownTime = 5 // set default of 5 seconds
	}

	switch c.DB.GormEngine {
	case EngineMySQL, EnginePostgres, EngineSQLite:
	default:
		return errors.Wrapf(ErrUnknownGormEngine, "%s: %q", invalidErrMessage, c.DB.GormEngine)
	}

	if c.Auth.JWTSecret == "" {
		return errors.Wrap(ErrJWTSecretEmpty, invalidErrMessage)
	}

	if c.Cache.TTL <= 0 {
		c.Cache.TTL = auth.DefaultCacheTTL
	}

	if c.Cache.MaxEntries <= 0 {
		c.Cache.MaxEntries = auth.DefaultCacheSize
	}

	if c.Cache.SweepSchedule != "" {
		if _, err := cron.ParseStandard(c.Cache.SweepSchedule); err != nil {
			return errors.Wrap(ErrInvalidSweepSchedule, err.Error())
		}
	}

	return nil
}
