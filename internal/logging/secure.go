// Package logging provides a logger wrapper that masks client addresses and
// secrets before they are written.
package logging

import (
	"github.com/rs/zerolog"

	sanitize "github.com/olegiv/scielo-log-validator-go/internal/errors"
	"github.com/olegiv/scielo-log-validator-go/pkg/logger"
)

// SecureLogger wraps a logger.Logger and sanitizes all string values.
// Access-log lines carry reader addresses and occasionally session tokens in
// request URLs; neither may reach the diagnostic log unmasked.
type SecureLogger struct {
	log *logger.Logger
}

// NewSecure creates a new SecureLogger wrapper around the provided logger.
func NewSecure(log *logger.Logger) *SecureLogger {
	return &SecureLogger{log: log}
}

// Nop returns a SecureLogger that discards everything.
func Nop() *SecureLogger {
	return &SecureLogger{log: logger.Nop()}
}

// SecureEvent is a zerolog event whose string values are sanitized.
type SecureEvent struct {
	event *zerolog.Event
}

// Debug starts a debug-level event. Masked invalid sample lines go here.
func (s *SecureLogger) Debug() *SecureEvent { return &SecureEvent{s.log.Debug()} }

// Info starts an info-level event.
func (s *SecureLogger) Info() *SecureEvent { return &SecureEvent{s.log.Info()} }

// Warn starts a warn-level event. Per-file failures are logged here.
func (s *SecureLogger) Warn() *SecureEvent { return &SecureEvent{s.log.Warn()} }

// Error starts an error-level event.
func (s *SecureLogger) Error() *SecureEvent { return &SecureEvent{s.log.Error()} }

// Close closes the underlying logger.
func (s *SecureLogger) Close() error {
	return s.log.Close()
}

// Str adds a sanitized string field to the log event.
func (e *SecureEvent) Str(key, val string) *SecureEvent {
	e.event.Str(key, sanitize.SanitizeString(val))
	return e
}

// Int adds an integer field to the log event.
func (e *SecureEvent) Int(key string, val int) *SecureEvent {
	e.event.Int(key, val)
	return e
}

// Float64 adds a float64 field to the log event.
func (e *SecureEvent) Float64(key string, val float64) *SecureEvent {
	e.event.Float64(key, val)
	return e
}

// Bool adds a boolean field to the log event.
func (e *SecureEvent) Bool(key string, val bool) *SecureEvent {
	e.event.Bool(key, val)
	return e
}

// Err adds a sanitized error field to the log event.
func (e *SecureEvent) Err(err error) *SecureEvent {
	if err != nil {
		e.event.Err(sanitize.SanitizeError(err))
	}
	return e
}

// Msg sends the log event with a sanitized message.
func (e *SecureEvent) Msg(msg string) {
	e.event.Msg(sanitize.SanitizeString(msg))
}
