package services

import (
	"errors"
	"fmt"

	"github.com/go-authgate/authfront/internal/rules"
)

var (
	// ErrValidation marks a credential rule violation. Detected before
	// any backend call; surfaced as a client error, never retried.
	ErrValidation = errors.New("invalid input")

	// ErrBackendUnavailable marks a collaborator failure: the shaping
	// service is missing, a payload could not be built, or the backend
	// could not be reached. Surfaced as a request-timeout-class error.
	ErrBackendUnavailable = errors.New("identity backend unavailable")

	// ErrCommunication marks a failure while constructing the outgoing
	// response after the backend call itself completed. Surfaced as a
	// client-error-class error.
	ErrCommunication = errors.New("failed to construct response")

	// ErrRoleDefaultsNotConfigured is returned by AssignDefaultRole when
	// no default project or role is configured.
	ErrRoleDefaultsNotConfigured = errors.New("default project/role not configured")
)

// ValidationError carries the specific violated rule. Callers surface a
// generic invalid-input error; the rule itself is for diagnostics only.
type ValidationError struct {
	Violation rules.Violation
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%v: %s", ErrValidation, e.Violation)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// isSuccess reports whether status is in [200,299]. An explicit range
// check; integer-division tricks misbehave at the boundaries.
func isSuccess(status int) bool {
	return status >= 200 && status <= 299
}
