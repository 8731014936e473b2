package domain

import (
	"github.com/allisson/vaultactions/internal/errors"
)

// Authorization registry errors.
var (
	// ErrSenderNotAllowed indicates the sender holds no grant for the
	// attempted operation.
	ErrSenderNotAllowed = errors.WithCode(
		errors.Wrap(errors.ErrForbidden, "sender is not allowed"),
		"AUTH_SENDER_NOT_ALLOWED",
	)

	// ErrInvalidCapability indicates an unknown capability name.
	ErrInvalidCapability = errors.Wrap(errors.ErrInvalidInput, "invalid capability")
)
