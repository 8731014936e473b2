// Package domain defines vault domain models.
//
// The vault is the custodial collaborator: it holds per-token balances and
// exposes the asset-movement primitives (withdraw, bridge, deposit) that
// guarded actions invoke. Assets themselves are held externally; the ledger
// here mirrors what the actions are allowed to move.
package domain

import (
	"math/big"
	"time"

	"github.com/google/uuid"
)

// Vault represents a custodial vault with a per-token balance ledger.
type Vault struct {
	ID           uuid.UUID
	Name         string
	FeeCollector string // address receiving fees and relayer reimbursements
	CreatedAt    time.Time
}

// Balance represents the vault's balance for a single token.
type Balance struct {
	ID        uuid.UUID
	VaultID   uuid.UUID
	Token     string
	Amount    *big.Int
	UpdatedAt time.Time
}

// Amm represents a registered AMM with its canonical token. Bridging actions
// validate their token→AMM mappings against this registry.
type Amm struct {
	ID             uuid.UUID
	Address        string
	CanonicalToken string
	CreatedAt      time.Time
}

// CreateVaultInput contains the parameters for creating a vault.
type CreateVaultInput struct {
	Name         string
	FeeCollector string
}

// CreateAmmInput contains the parameters for registering an AMM.
type CreateAmmInput struct {
	Address        string
	CanonicalToken string
}

// WithdrawInput contains the parameters for the withdraw primitive.
type WithdrawInput struct {
	VaultID   uuid.UUID
	Token     string
	Recipient string
	Amount    *big.Int
	Fee       *big.Int
}

// BridgeInput contains the parameters for the bridge primitive.
type BridgeInput struct {
	VaultID      uuid.UUID
	Source       string // bridge connector identifier, e.g. "hop"
	ChainID      uint64
	Token        string
	Amount       *big.Int
	MinAmountOut *big.Int
	Payload      string // opaque data forwarded to the bridge connector
}
