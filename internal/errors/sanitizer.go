// Package errors provides utilities for sanitizing errors and log values so
// that client addresses and secrets copied out of access-log lines do not
// end up in diagnostics.
package errors

import (
	"fmt"
	"net/netip"
	"regexp"
	"strings"
)

const redactedPlaceholder = "[REDACTED]"

// addressPattern matches dotted-quad IPv4 addresses.
var addressPattern = regexp.MustCompile(`\b\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}\b`)

// Secret patterns to redact. Capture groups 1 and 2 are kept around the
// redacted secret.
var secretPatterns = []*regexp.Regexp{
	// user:password@ in URLs
	regexp.MustCompile(`(://)[^/\s:@]+:[^/\s@]+(@)`),
	// token/key/password query parameters
	regexp.MustCompile(`(?i)\b((?:api[_-]?key|access[_-]?token|token|key|password|passwd|pwd|secret|session(?:id)?|sid)=)[^\s&"']+`),
	// Bearer tokens in logged headers
	regexp.MustCompile(`(Bearer\s+)[a-zA-Z0-9_.~+/-]+=*`),
}

// SanitizeError wraps an error, redacting any addresses or secrets that may
// appear in the error message.
func SanitizeError(err error) error {
	if err == nil {
		return nil
	}

	sanitized := SanitizeString(err.Error())
	if sanitized == err.Error() {
		// No changes needed, return original error to preserve error chain
		return err
	}

	return &sanitizedError{
		original:  err,
		sanitized: sanitized,
	}
}

// SanitizeString redacts secrets and masks IPv4 addresses in a string.
func SanitizeString(s string) string {
	result := s
	for _, pattern := range secretPatterns {
		result = pattern.ReplaceAllString(result, "${1}"+redactedPlaceholder+"${2}")
	}
	return addressPattern.ReplaceAllStringFunc(result, MaskAddress)
}

// Wrapf wraps an error with a formatted message, sanitizing the underlying error.
// This is a replacement for fmt.Errorf("...: %w", err) when the error may
// carry raw log content.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}

	msg := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", msg, SanitizeError(err))
}

// sanitizedError wraps an error with a sanitized message.
type sanitizedError struct {
	original  error
	sanitized string
}

func (e *sanitizedError) Error() string {
	return e.sanitized
}

func (e *sanitizedError) Unwrap() error {
	return e.original
}

// MaskAddress keeps the network half of an IPv4 address and masks the host half.
// Example: "200.136.72.10" -> "200.136.x.x"
// Strings that do not parse as IPv4 are fully masked.
func MaskAddress(s string) string {
	addr, err := netip.ParseAddr(s)
	if err != nil || !addr.Is4() {
		return strings.Repeat("*", len(s))
	}
	b := addr.As4()
	return fmt.Sprintf("%d.%d.x.x", b[0], b[1])
}
