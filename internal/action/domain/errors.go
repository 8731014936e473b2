package domain

import (
	"github.com/allisson/vaultactions/internal/errors"
)

// Action errors. Guard failures carry stable machine-checkable codes so
// callers and relayers can match on them without parsing messages.
var (
	// ErrActionNotFound indicates an action with the specified ID was not found.
	ErrActionNotFound = errors.Wrap(errors.ErrNotFound, "action not found")

	// ErrInvalidKind indicates an unknown action kind.
	ErrInvalidKind = errors.Wrap(errors.ErrInvalidInput, "invalid action kind")

	// ErrKindMismatch indicates an operation was invoked on the wrong action kind.
	ErrKindMismatch = errors.Wrap(errors.ErrInvalidInput, "operation does not apply to this action kind")

	// Configuration errors: invalid setter arguments.

	// ErrTokenZero indicates a token argument was the null address.
	ErrTokenZero = errors.WithCode(
		errors.Wrap(errors.ErrInvalidInput, "token is the zero address"),
		"BRIDGER_TOKEN_ZERO",
	)

	// ErrAmmTokenMismatch indicates the AMM's canonical token differs from
	// the token being mapped to it.
	ErrAmmTokenMismatch = errors.WithCode(
		errors.Wrap(errors.ErrInvalidInput, "amm canonical token does not match"),
		"BRIDGER_AMM_TOKEN_DOES_NOT_MATCH",
	)

	// ErrChainIDZero indicates a zero destination chain id.
	ErrChainIDZero = errors.WithCode(
		errors.Wrap(errors.ErrInvalidInput, "chain id is zero"),
		"BRIDGER_CHAIN_ID_ZERO",
	)

	// ErrSameChainID indicates the destination chain is the deployment chain.
	ErrSameChainID = errors.WithCode(
		errors.Wrap(errors.ErrInvalidInput, "cannot bridge to the same chain"),
		"BRIDGER_SAME_CHAIN_ID",
	)

	// ErrSlippageAboveOne indicates a slippage fraction greater than 1.0.
	ErrSlippageAboveOne = errors.WithCode(
		errors.Wrap(errors.ErrInvalidInput, "slippage above one"),
		"BRIDGER_SLIPPAGE_ABOVE_ONE",
	)

	// ErrBonderFeePctAboveOne indicates a bonder fee fraction greater than 1.0.
	ErrBonderFeePctAboveOne = errors.WithCode(
		errors.Wrap(errors.ErrInvalidInput, "bonder fee percentage above one"),
		"BRIDGER_BONDER_FEE_PCT_ABOVE_ONE",
	)

	// ErrMaxDeadlineZero indicates a zero max deadline.
	ErrMaxDeadlineZero = errors.WithCode(
		errors.Wrap(errors.ErrInvalidInput, "max deadline is zero"),
		"BRIDGER_MAX_DEADLINE_ZERO",
	)

	// ErrRecipientZero indicates the withdrawal recipient is the null address.
	ErrRecipientZero = errors.WithCode(
		errors.Wrap(errors.ErrInvalidInput, "recipient is the zero address"),
		"WITHDRAWER_RECIPIENT_ZERO",
	)

	// Policy errors: a call's arguments violate the configured bounds.

	// ErrSlippageAboveMax indicates the requested slippage exceeds the policy bound.
	ErrSlippageAboveMax = errors.WithCode(
		errors.Wrap(errors.ErrPolicyViolation, "slippage above max"),
		"BRIDGER_SLIPPAGE_ABOVE_MAX",
	)

	// ErrBonderFeeAboveMax indicates the bonder fee exceeds the policy bound.
	ErrBonderFeeAboveMax = errors.WithCode(
		errors.Wrap(errors.ErrPolicyViolation, "bonder fee above max"),
		"BRIDGER_BONDER_FEE_ABOVE_MAX",
	)

	// ErrChainNotAllowed indicates the destination chain is not whitelisted.
	ErrChainNotAllowed = errors.WithCode(
		errors.Wrap(errors.ErrPolicyViolation, "destination chain not allowed"),
		"BRIDGER_CHAIN_NOT_ALLOWED",
	)

	// ErrTokenAmmNotSet indicates no AMM is mapped for the token.
	ErrTokenAmmNotSet = errors.WithCode(
		errors.Wrap(errors.ErrPolicyViolation, "token amm not set"),
		"BRIDGER_TOKEN_AMM_NOT_SET",
	)

	// Liveness gates.

	// ErrThresholdNotMet indicates the vault balance is below the threshold.
	ErrThresholdNotMet = errors.WithCode(
		errors.Wrap(errors.ErrGateClosed, "min threshold not met"),
		"MIN_THRESHOLD_NOT_MET",
	)

	// ErrTimeLockNotExpired indicates the cooldown window is still open.
	ErrTimeLockNotExpired = errors.WithCode(
		errors.Wrap(errors.ErrGateClosed, "time lock not expired"),
		"TIME_LOCK_NOT_EXPIRED",
	)
)
