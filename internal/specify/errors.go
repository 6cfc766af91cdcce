package specify

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// AuthenticationError is returned when the ad server rejects the publisher key.
type AuthenticationError struct {
	StatusCode int
	Message    string
}

func (e *AuthenticationError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("authentication failed (status %d)", e.StatusCode)
	}
	return "authentication failed: " + e.Message
}

// ValidationError is returned when a request argument is malformed, either
// by local checks or by the ad server.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Message
	}
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Message)
}

// IsAuthentication reports whether err is, or wraps, an AuthenticationError.
func IsAuthentication(err error) bool {
	var target *AuthenticationError
	return errors.As(err, &target)
}

// IsValidation reports whether err is, or wraps, a ValidationError.
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}
