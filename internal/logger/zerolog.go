package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Adapter implements Logger on top of zerolog.
type Adapter struct {
	logger zerolog.Logger
}

// New returns a JSON logger writing to w.
func New(w io.Writer, level zerolog.Level) *Adapter {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.DurationFieldInteger = true

	l := zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Logger()

	return &Adapter{logger: l}
}

// NewConsole returns a human-readable logger writing to stderr, keeping
// stdout free for reports.
func NewConsole(level zerolog.Level) *Adapter {
	consoleWriter := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "15:04:05",
	}
	return New(consoleWriter, level)
}

// NewNop returns a logger that discards everything.
func NewNop() *Adapter {
	return &Adapter{logger: zerolog.Nop()}
}

// ParseLevel maps a level name to a zerolog level, defaulting to info for
// unknown or empty names.
func ParseLevel(name string) zerolog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func (a *Adapter) Debug(component, message string, fields Fields) {
	a.emit(a.logger.Debug(), component, message, fields)
}

func (a *Adapter) Info(component, message string, fields Fields) {
	a.emit(a.logger.Info(), component, message, fields)
}

func (a *Adapter) Warning(component, message string, fields Fields) {
	a.emit(a.logger.Warn(), component, message, fields)
}

func (a *Adapter) Error(component string, err error, fields Fields) {
	a.emit(a.logger.Error().Err(err), component, "operation failed", fields)
}

func (a *Adapter) emit(event *zerolog.Event, component, message string, fields Fields) {
	if !event.Enabled() {
		return
	}
	event = event.Str("component", component)
	for k, v := range fields {
		event = event.Interface(k, v)
	}
	event.Msg(message)
}
