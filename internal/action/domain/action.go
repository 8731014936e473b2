// Package domain defines guarded action domain models.
//
// An action is a capability-gated component bound to one vault. It triggers
// exactly one vault primitive per call, after a guard pipeline of
// authorization, policy validation, threshold and time-lock checks. Two kinds
// exist: the bridger (moves funds to another chain through a configured AMM)
// and the time-locked withdrawer (drains the configured token to a fixed
// recipient once per cooldown window).
package domain

import (
	"math/big"
	"time"

	"github.com/google/uuid"
)

// Kind identifies the action specialization.
type Kind string

// Action kinds.
const (
	KindBridger    Kind = "bridger"
	KindWithdrawer Kind = "withdrawer"
)

// IsValid reports whether the kind is a known action kind.
func (k Kind) IsValid() bool {
	return k == KindBridger || k == KindWithdrawer
}

// ZeroAddress is the null address: an unset token, AMM or recipient.
const ZeroAddress = "0x0000000000000000000000000000000000000000"

// IsZeroAddress reports whether an address is unset.
func IsZeroAddress(address string) bool {
	return address == "" || address == ZeroAddress
}

// Action represents a guarded action and its configuration entities. The
// configuration starts at zero/empty defaults and is mutated only through
// capability-gated setters; it is never implicitly reset.
type Action struct {
	ID      uuid.UUID
	VaultID uuid.UUID
	Kind    Kind
	Name    string

	// Threshold configuration: a call fails unless the vault holds at least
	// ThresholdAmount of ThresholdToken. Zero amount disables the gate.
	ThresholdToken  string
	ThresholdAmount *big.Int

	// Relayer configuration: gas accounting caps for reimbursed calls.
	// Zero limits mean unbounded.
	GasPriceLimit  *big.Int
	TxCostLimit    *big.Int
	PayingGasToken string

	// Time lock: cooldown between executions, in seconds. Zero disables the
	// gate. TimeLockExpiresAt is written after each successful execution.
	TimeLockPeriod    int64
	TimeLockExpiresAt *time.Time

	// Withdrawer policy: fixed destination for withdrawals.
	Recipient string

	// Bridger policy scalars. MaxSlippage and MaxBonderFeePct are
	// 1e18-scaled fractions in [0,1]; MaxDeadline is seconds and must be
	// positive to be valid.
	MaxSlippage     *big.Int
	MaxBonderFeePct *big.Int
	MaxDeadline     int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TimeLockActive reports whether the cooldown gate is closed at the given time.
func (a *Action) TimeLockActive(now time.Time) bool {
	return a.TimeLockExpiresAt != nil && now.Before(*a.TimeLockExpiresAt)
}

// CreateActionInput contains the parameters for creating an action.
// Managers and relayers are seeded with the call capability; relayers are
// additionally whitelisted for gas reimbursement.
type CreateActionInput struct {
	VaultID  uuid.UUID
	Kind     Kind
	Name     string
	Managers []string
	Relayers []string
}

// BridgeCallInput contains the caller-supplied arguments of a bridging call.
// Slippage and BonderFee follow the fixed-point conventions of the policy:
// Slippage is a 1e18-scaled fraction, BonderFee an absolute token amount.
type BridgeCallInput struct {
	ChainID   uint64
	Token     string
	Amount    *big.Int
	Slippage  *big.Int
	BonderFee *big.Int
}

// GasReport carries the execution costs observed by the caller's environment.
// The pipeline applies the action's gas price and transaction cost caps to
// what was reported.
type GasReport struct {
	GasUsed  *big.Int
	GasPrice *big.Int
}
