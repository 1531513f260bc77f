package config

import "time"

// Supported gorm engines.
const (
	EngineMySQL    = "mysql"
	EnginePostgres = "postgres"
	EngineSQLite   = "sqlite"
)

// DB holds the database configuration settings.
type DB struct {
	GormEngine string `mapstructure:"gormEngine" toml:"gormEngine"` // mysql, postgres or sqlite
	Host       string `mapstructure:"host" toml:"host"`
	Port       int    `mapstructure:"port" toml:"port"`
	User       string `mapstructure:"user" toml:"user"`
	Password   string `mapstructure:"password" toml:"password" json:"-"`
	Name       string `mapstructure:"name" toml:"name"` // database name, file path for sqlite
	Extras     string `mapstructure:"extras" toml:"extras"`

	MaxIdleConns    int           `mapstructure:"maxIdleConns" toml:"maxIdleConns"`
	MaxOpenConns    int           `mapstructure:"maxOpenConns" toml:"maxOpenConns"`
	ConnMaxLifetime time.Duration `mapstructure:"connMaxLifetime" toml:"connMaxLifetime"`
}
