package domain

import (
	"github.com/allisson/vaultactions/internal/errors"
)

// Vault errors.
var (
	// ErrVaultNotFound indicates a vault with the specified ID was not found.
	ErrVaultNotFound = errors.Wrap(errors.ErrNotFound, "vault not found")

	// ErrAmmNotFound indicates no AMM is registered at the given address.
	ErrAmmNotFound = errors.Wrap(errors.ErrNotFound, "amm not found")

	// ErrAmmAddressTaken indicates an AMM is already registered at the address.
	ErrAmmAddressTaken = errors.Wrap(errors.ErrConflict, "amm address already registered")

	// ErrInsufficientBalance indicates the vault holds less of a token than
	// the primitive tried to move.
	ErrInsufficientBalance = errors.Wrap(errors.ErrPolicyViolation, "insufficient vault balance")

	// ErrInvalidAmount indicates a zero or negative primitive amount.
	ErrInvalidAmount = errors.Wrap(errors.ErrInvalidInput, "amount must be positive")
)
