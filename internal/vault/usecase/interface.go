// Package usecase defines business logic interfaces for the vault collaborator.
package usecase

import (
	"context"
	"math/big"

	"github.com/google/uuid"

	vaultDomain "github.com/allisson/vaultactions/internal/vault/domain"
)

// VaultRepository defines persistence operations for vaults and balances.
// Implementations must support transaction-aware operations via context propagation.
type VaultRepository interface {
	// Create stores a new vault.
	Create(ctx context.Context, vault *vaultDomain.Vault) error

	// Get retrieves a vault by ID. Returns ErrVaultNotFound if not found.
	Get(ctx context.Context, vaultID uuid.UUID) (*vaultDomain.Vault, error)

	// List retrieves vaults with pagination, newest first.
	List(ctx context.Context, limit, offset int) ([]*vaultDomain.Vault, error)

	// GetBalance retrieves the vault's balance for a token (zero if never held).
	GetBalance(ctx context.Context, vaultID uuid.UUID, token string) (*big.Int, error)

	// AddBalance credits the vault's balance for a token.
	AddBalance(ctx context.Context, vaultID uuid.UUID, token string, amount *big.Int) error

	// DeductBalance debits the vault's balance for a token. Returns
	// ErrInsufficientBalance when the vault holds less than amount.
	DeductBalance(ctx context.Context, vaultID uuid.UUID, token string, amount *big.Int) error
}

// AmmRepository defines persistence operations for the AMM registry.
type AmmRepository interface {
	// Create registers a new AMM. Returns ErrAmmAddressTaken on duplicates.
	Create(ctx context.Context, amm *vaultDomain.Amm) error

	// GetByAddress retrieves an AMM by address. Returns ErrAmmNotFound if
	// no AMM is registered at the address.
	GetByAddress(ctx context.Context, address string) (*vaultDomain.Amm, error)

	// List retrieves AMMs with pagination, newest first.
	List(ctx context.Context, limit, offset int) ([]*vaultDomain.Amm, error)
}

// EventEmitter records an event in the same transaction as the state change
// that produced it.
type EventEmitter interface {
	Emit(ctx context.Context, name string, entityID uuid.UUID, payload any) error
}

// GrantBootstrapper seeds a newly created entity's owner with its initial
// capability grants.
type GrantBootstrapper interface {
	Bootstrap(ctx context.Context, entityID uuid.UUID, grantee string) error
}

// VaultUseCase defines business logic operations for vaults.
type VaultUseCase interface {
	// Create stores a new vault and seeds the owner's grants in the same
	// transaction.
	Create(ctx context.Context, input *vaultDomain.CreateVaultInput, owner string) (*vaultDomain.Vault, error)

	// Get retrieves a vault by ID.
	Get(ctx context.Context, vaultID uuid.UUID) (*vaultDomain.Vault, error)

	// List retrieves vaults with pagination, newest first.
	List(ctx context.Context, limit, offset int) ([]*vaultDomain.Vault, error)

	// Deposit credits the vault's balance for a token (the funding primitive).
	Deposit(ctx context.Context, vaultID uuid.UUID, token string, amount *big.Int) error

	// GetBalance retrieves the vault's balance for a token.
	GetBalance(ctx context.Context, vaultID uuid.UUID, token string) (*big.Int, error)

	// Withdraw debits the vault's balance and records a Withdraw event.
	// Joins the caller's transaction when one is in the context.
	Withdraw(ctx context.Context, input *vaultDomain.WithdrawInput) error

	// Bridge debits the vault's balance and records a Bridge event.
	// Joins the caller's transaction when one is in the context.
	Bridge(ctx context.Context, input *vaultDomain.BridgeInput) error
}

// AmmUseCase defines business logic operations for the AMM registry.
type AmmUseCase interface {
	// Create registers a new AMM.
	Create(ctx context.Context, input *vaultDomain.CreateAmmInput) (*vaultDomain.Amm, error)

	// GetByAddress retrieves an AMM by address.
	GetByAddress(ctx context.Context, address string) (*vaultDomain.Amm, error)

	// List retrieves AMMs with pagination, newest first.
	List(ctx context.Context, limit, offset int) ([]*vaultDomain.Amm, error)
}
