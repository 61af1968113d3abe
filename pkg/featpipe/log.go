package featpipe

import (
	"os"

	"github.com/rs/zerolog"
)

var (
	enableLog = false
	logger    = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			With().Timestamp().Logger().Level(zerolog.InfoLevel)
)

// SetLog enables or disables logging.
func SetLog(enable bool) {
	enableLog = enable
}

// Log logs the given message if logging is enabled.
func Log(f string, args ...interface{}) {
	if enableLog {
		logger.Info().Msgf(f, args...)
	}
}
