package config

import (
	"errors"
)

var (
	// ErrConfigNil error if no configuration was passed.
	ErrConfigNil = errors.New("config is nil")

	// ErrEmptyURL error if config webserver.url is empty.
	ErrEmptyURL = errors.New("config webserver.url can not be empty")

	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("config webserver.port listening port can not be 0")

	// ErrUnknownGormEngine error if config db.gormEngine is not supported.
	ErrUnknownGormEngine = errors.New("config db.gormEngine must be mysql, postgres or sqlite")

	// ErrJWTSecretEmpty error if config auth.jwtSecret is empty.
	ErrJWTSecretEmpty = errors.New("config auth.jwtSecret can not be empty")

	// ErrInvalidSweepSchedule error if config cache.sweepSchedule is not a cron expression.
	ErrInvalidSweepSchedule = errors.New("config cache.sweepSchedule is not a valid cron expression")
)
