package daemon

import (
	"fmt"

	"github.com/rs/zerolog/log"
)

// gormWriter routes the gorm logger into zerolog.
type gormWriter struct{}

// Printf implements gorm's logger.Writer.
func (gormWriter) Printf(format string, args ...any) {
	log.Info().Str("component", "gorm").Msg(fmt.Sprintf(format, args...))
}
