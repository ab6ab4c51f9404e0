package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger is an alias used by services for dependency injection.
type Logger = zerolog.Logger

// New returns a console logger tagged with the service name.
func New(service string) Logger {
	return NewWithWriter(service, zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
}

// NewWithWriter is New with an explicit sink, e.g. a JSON file or a buffer.
func NewWithWriter(service string, w io.Writer) Logger {
	zerolog.TimestampFunc = func() time.Time {
		return time.Now().UTC()
	}
	return zerolog.New(w).With().Timestamp().Str("service", service).Logger()
}

// SetLevel sets the global level from a name. Unknown names select info and
// report false.
func SetLevel(level string) bool {
	lvl, ok := ParseLevel(level)
	zerolog.SetGlobalLevel(lvl)
	return ok
}

// ParseLevel maps debug|info|warn|error|trace onto a zerolog level.
func ParseLevel(level string) (zerolog.Level, bool) {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "TRACE":
		return zerolog.TraceLevel, true
	case "DEBUG":
		return zerolog.DebugLevel, true
	case "INFO":
		return zerolog.InfoLevel, true
	case "WARN":
		return zerolog.WarnLevel, true
	case "ERROR":
		return zerolog.ErrorLevel, true
	default:
		return zerolog.InfoLevel, false
	}
}
