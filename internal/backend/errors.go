package backend

import "errors"

var (
	// ErrConnection is returned when the identity backend could not be
	// reached at the transport level.
	ErrConnection = errors.New("failed to connect to identity backend")

	// ErrInvalidResp is returned when the backend response could not be
	// read.
	ErrInvalidResp = errors.New("invalid response from identity backend")
)
