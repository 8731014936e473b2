package domain

import (
	"github.com/allisson/vaultactions/internal/errors"
)

// Account errors.
var (
	// ErrAccountNotFound indicates an account with the specified ID was not found.
	ErrAccountNotFound = errors.Wrap(errors.ErrNotFound, "account not found")

	// ErrAccountInactive indicates the account exists but cannot authenticate.
	ErrAccountInactive = errors.Wrap(errors.ErrForbidden, "account is inactive")

	// ErrAddressTaken indicates another account already uses the address.
	ErrAddressTaken = errors.Wrap(errors.ErrConflict, "address already registered")
)
