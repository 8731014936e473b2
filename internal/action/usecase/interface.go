// Package usecase defines business logic interfaces for guarded actions.
package usecase

import (
	"context"
	"math/big"

	"github.com/google/uuid"

	actionDomain "github.com/allisson/vaultactions/internal/action/domain"
	authzDomain "github.com/allisson/vaultactions/internal/authz/domain"
	vaultDomain "github.com/allisson/vaultactions/internal/vault/domain"
)

// ActionRepository defines persistence operations for actions and their
// configuration side tables. Implementations must support transaction-aware
// operations via context propagation.
type ActionRepository interface {
	// Create stores a new action with zero-valued configuration.
	Create(ctx context.Context, action *actionDomain.Action) error

	// Get retrieves an action by ID. Returns ErrActionNotFound if not found.
	Get(ctx context.Context, actionID uuid.UUID) (*actionDomain.Action, error)

	// Update persists the action's configuration entities. Returns
	// ErrActionNotFound if the action does not exist.
	Update(ctx context.Context, action *actionDomain.Action) error

	// ListByVault retrieves a vault's actions ordered by creation time.
	ListByVault(ctx context.Context, vaultID uuid.UUID, limit, offset int) ([]*actionDomain.Action, error)

	// AddRelayer whitelists a relayer for gas reimbursement. Idempotent.
	AddRelayer(ctx context.Context, actionID uuid.UUID, relayer string) error

	// RemoveRelayer removes a relayer from the whitelist. Removing an
	// absent relayer is a no-op.
	RemoveRelayer(ctx context.Context, actionID uuid.UUID, relayer string) error

	// IsRelayer reports whether an address is whitelisted as a relayer.
	IsRelayer(ctx context.Context, actionID uuid.UUID, relayer string) (bool, error)

	// AddAllowedChain whitelists a bridge destination chain. Idempotent.
	AddAllowedChain(ctx context.Context, actionID uuid.UUID, chainID uint64) error

	// RemoveAllowedChain removes a destination chain from the whitelist.
	RemoveAllowedChain(ctx context.Context, actionID uuid.UUID, chainID uint64) error

	// IsChainAllowed reports whether a destination chain is whitelisted.
	IsChainAllowed(ctx context.Context, actionID uuid.UUID, chainID uint64) (bool, error)

	// SetTokenAmm maps a token to an AMM address, replacing any previous
	// mapping.
	SetTokenAmm(ctx context.Context, actionID uuid.UUID, token, amm string) error

	// UnsetTokenAmm removes a token→AMM mapping.
	UnsetTokenAmm(ctx context.Context, actionID uuid.UUID, token string) error

	// GetTokenAmm retrieves the AMM mapped to a token, or the empty string
	// when no mapping exists.
	GetTokenAmm(ctx context.Context, actionID uuid.UUID, token string) (string, error)
}

// Registry is the capability registry surface the action pipeline needs.
// Implemented by the authz module.
type Registry interface {
	// Ensure returns ErrSenderNotAllowed unless the address holds the
	// capability on the entity.
	Ensure(ctx context.Context, entityID uuid.UUID, grantee string, capability authzDomain.Capability) error

	// Bootstrap grants every capability on the entity to the owner address.
	Bootstrap(ctx context.Context, entityID uuid.UUID, owner string) error

	// Authorize grants a capability to an address on an entity, checked
	// against the actor's authorize capability.
	Authorize(ctx context.Context, actor string, entityID uuid.UUID, grantee string, capability authzDomain.Capability) error
}

// VaultService is the vault surface the action pipeline needs: balance reads
// for the threshold gate and the two primitives an action may trigger.
// Implemented by the vault module.
type VaultService interface {
	Get(ctx context.Context, vaultID uuid.UUID) (*vaultDomain.Vault, error)
	GetBalance(ctx context.Context, vaultID uuid.UUID, token string) (*big.Int, error)
	Withdraw(ctx context.Context, input *vaultDomain.WithdrawInput) error
	Bridge(ctx context.Context, input *vaultDomain.BridgeInput) error
}

// AmmRegistry resolves AMM addresses for the token→AMM policy setter.
// Implemented by the vault module.
type AmmRegistry interface {
	GetByAddress(ctx context.Context, address string) (*vaultDomain.Amm, error)
}

// EventEmitter records a domain event inside the caller's transaction.
// Implemented by the events module.
type EventEmitter interface {
	Emit(ctx context.Context, name string, entityID uuid.UUID, payload any) error
}

// PriceOracle converts a native gas cost into an equivalent amount of the
// action's paying token. Implemented by the vault service layer.
type PriceOracle interface {
	Convert(nativeCost *big.Int, token string) (*big.Int, error)
}

// ExecutionResult reports what a successful call moved out of the vault.
type ExecutionResult struct {
	// Amount is the amount the triggered primitive moved.
	Amount *big.Int

	// MinAmountOut is the slippage-adjusted minimum for bridging calls,
	// nil for withdrawals.
	MinAmountOut *big.Int

	// RelayerCost is the gas reimbursement paid to the fee collector, zero
	// when the caller is not a whitelisted relayer.
	RelayerCost *big.Int
}

// ActionUseCase defines the guarded action operations. Every mutating
// operation takes the acting address and checks the matching capability
// before touching state; a failed check leaves no trace.
type ActionUseCase interface {
	// Create stores a new action, seeds the owner's grants and gives the
	// managers and relayers the call capability, all in one transaction.
	Create(ctx context.Context, input *actionDomain.CreateActionInput, owner string) (*actionDomain.Action, error)

	// Get retrieves an action by ID.
	Get(ctx context.Context, actionID uuid.UUID) (*actionDomain.Action, error)

	// ListByVault retrieves a vault's actions ordered by creation time.
	ListByVault(ctx context.Context, vaultID uuid.UUID, limit, offset int) ([]*actionDomain.Action, error)

	// SetThreshold configures the minimum vault balance gate. A zero amount
	// disables the gate.
	SetThreshold(ctx context.Context, actor string, actionID uuid.UUID, token string, amount *big.Int) error

	// SetRelayer adds or removes a relayer from the reimbursement whitelist.
	SetRelayer(ctx context.Context, actor string, actionID uuid.UUID, relayer string, allowed bool) error

	// SetLimits configures the gas price cap, the transaction cost cap and
	// the token reimbursements are paid in. Zero caps mean unbounded.
	SetLimits(ctx context.Context, actor string, actionID uuid.UUID, gasPriceLimit, txCostLimit *big.Int, token string) error

	// SetTimeLock configures the cooldown between executions, in seconds.
	// Zero disables the gate. The running window is not reset.
	SetTimeLock(ctx context.Context, actor string, actionID uuid.UUID, period int64) error

	// SetRecipient configures the withdrawer's fixed destination.
	SetRecipient(ctx context.Context, actor string, actionID uuid.UUID, recipient string) error

	// SetTokenAmm maps a bridgeable token to a registered AMM whose
	// canonical token matches, or unsets the mapping when amm is the zero
	// address.
	SetTokenAmm(ctx context.Context, actor string, actionID uuid.UUID, token, amm string) error

	// SetAllowedChain adds or removes a bridge destination chain.
	SetAllowedChain(ctx context.Context, actor string, actionID uuid.UUID, chainID uint64, allowed bool) error

	// SetMaxSlippage configures the bridge slippage cap, a 1e18-scaled
	// fraction in [0,1].
	SetMaxSlippage(ctx context.Context, actor string, actionID uuid.UUID, slippage *big.Int) error

	// SetMaxBonderFeePct configures the bonder fee cap, a 1e18-scaled
	// fraction in [0,1].
	SetMaxBonderFeePct(ctx context.Context, actor string, actionID uuid.UUID, pct *big.Int) error

	// SetMaxDeadline configures the bridge deadline horizon, in seconds.
	// Must be positive.
	SetMaxDeadline(ctx context.Context, actor string, actionID uuid.UUID, deadline int64) error

	// IsRelayer reports whether an address is whitelisted as a relayer.
	IsRelayer(ctx context.Context, actionID uuid.UUID, relayer string) (bool, error)

	// IsChainAllowed reports whether a destination chain is whitelisted.
	IsChainAllowed(ctx context.Context, actionID uuid.UUID, chainID uint64) (bool, error)

	// GetTokenAmm retrieves the AMM mapped to a token, or the empty string.
	GetTokenAmm(ctx context.Context, actionID uuid.UUID, token string) (string, error)

	// ExecuteBridge runs the full guard pipeline and triggers the vault's
	// bridge primitive. The whole call commits or rolls back atomically.
	ExecuteBridge(ctx context.Context, caller string, actionID uuid.UUID, input *actionDomain.BridgeCallInput, gas *actionDomain.GasReport) (*ExecutionResult, error)

	// ExecuteWithdraw runs the guard pipeline and drains the configured
	// token to the fixed recipient. The whole call commits or rolls back
	// atomically.
	ExecuteWithdraw(ctx context.Context, caller string, actionID uuid.UUID, gas *actionDomain.GasReport) (*ExecutionResult, error)

	// CanExecuteBridge re-derives the bridging guards without mutating
	// state. Returns false with a nil error when a guard would reject the
	// call.
	CanExecuteBridge(ctx context.Context, caller string, actionID uuid.UUID, input *actionDomain.BridgeCallInput) (bool, error)

	// CanExecuteWithdraw re-derives the withdrawal guards without mutating
	// state.
	CanExecuteWithdraw(ctx context.Context, caller string, actionID uuid.UUID) (bool, error)
}
