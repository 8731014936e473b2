package domain

import (
	"github.com/allisson/vaultactions/internal/errors"
)

// Event log errors.
var (
	// ErrEventNotFound indicates an event with the specified ID was not found.
	ErrEventNotFound = errors.Wrap(errors.ErrNotFound, "event not found")

	// ErrInvalidSignature indicates an event payload does not match its signature.
	ErrInvalidSignature = errors.New("event signature mismatch")
)
