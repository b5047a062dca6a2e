// Package shaping translates between the caller-facing JSON shapes and
// the identity backend's wire schema. Services treat it as an injected
// collaborator; a missing implementation is surfaced as a dispatch
// failure, never a panic.
package shaping

import "errors"

// ErrMalformedBody is returned when a backend body cannot be decoded.
var ErrMalformedBody = errors.New("malformed backend response body")

// UserDetails is the caller-supplied input for user creation.
type UserDetails struct {
	Name        string `json:"name"`
	Password    string `json:"password"`
	Email       string `json:"email,omitempty"`
	Description string `json:"description,omitempty"`
}

// ModifyUser is the caller-supplied input for user modification. The
// password deliberately has no field here; password changes go through
// the dedicated flow.
type ModifyUser struct {
	Email       string `json:"email,omitempty"`
	Description string `json:"description,omitempty"`
	Enabled     *bool  `json:"enabled,omitempty"`
}

// ModifyPassword is the caller-supplied input for a password change.
type ModifyPassword struct {
	OriginalPassword string `json:"original_password"`
	Password         string `json:"password"`
}

// UserRecord is the caller-facing shape of one backend user.
type UserRecord struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email,omitempty"`
	Description string `json:"description,omitempty"`
	Enabled     bool   `json:"enabled"`
}

// Service builds backend payloads and reshapes backend bodies. Payload
// builders never log their inputs; credentials pass through here.
type Service interface {
	// Payload construction
	LoginPayload(username, password string) ([]byte, error)
	CreateUserPayload(user UserDetails) ([]byte, error)
	ModifyUserPayload(user ModifyUser) ([]byte, error)
	ModifyPasswordPayload(pwd ModifyPassword) ([]byte, error)

	// Response reshaping (2xx bodies only)
	ReshapeUser(body []byte) ([]byte, error)
	ReshapeUserList(body []byte) ([]byte, error)

	// ParseUser decodes a single-user backend body into a record. Used by
	// the modify-password pre-read to learn the current username.
	ParseUser(body []byte) (*UserRecord, error)
}
