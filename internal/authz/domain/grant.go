// Package domain defines the authorization registry domain models.
//
// Access control is capability-based: a grant says that an address (the
// grantee) may perform one named operation (the capability) on one entity,
// usually an action. There are no roles and no hierarchy; an operation is
// allowed if and only if a matching grant exists.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Capability identifies a single permissioned operation on an entity.
type Capability string

const (
	// CapabilityCall allows executing the action.
	CapabilityCall Capability = "call"

	// CapabilityAuthorize allows granting capabilities on the entity.
	CapabilityAuthorize Capability = "authorize"

	// CapabilityUnauthorize allows revoking capabilities on the entity.
	CapabilityUnauthorize Capability = "unauthorize"

	// CapabilitySetThreshold allows configuring the minimum amount policy.
	CapabilitySetThreshold Capability = "set_threshold"

	// CapabilitySetRelayer allows managing the relayer allow list.
	CapabilitySetRelayer Capability = "set_relayer"

	// CapabilitySetLimits allows configuring gas reimbursement limits.
	CapabilitySetLimits Capability = "set_limits"

	// CapabilitySetTimeLock allows configuring the execution time lock.
	CapabilitySetTimeLock Capability = "set_time_lock"

	// CapabilitySetRecipient allows configuring the withdraw recipient.
	CapabilitySetRecipient Capability = "set_recipient"

	// CapabilitySetTokenAmm allows mapping bridge tokens to AMMs.
	CapabilitySetTokenAmm Capability = "set_token_amm"

	// CapabilitySetAllowedChain allows managing the destination chain allow list.
	CapabilitySetAllowedChain Capability = "set_allowed_chain"

	// CapabilitySetMaxSlippage allows configuring the bridge slippage cap.
	CapabilitySetMaxSlippage Capability = "set_max_slippage"

	// CapabilitySetMaxBonderFeePct allows configuring the bonder fee cap.
	CapabilitySetMaxBonderFeePct Capability = "set_max_bonder_fee_pct"

	// CapabilitySetMaxDeadline allows configuring the bridge deadline cap.
	CapabilitySetMaxDeadline Capability = "set_max_deadline"
)

// AllCapabilities returns every known capability. Used to seed owner grants
// when an entity is created.
func AllCapabilities() []Capability {
	return []Capability{
		CapabilityCall,
		CapabilityAuthorize,
		CapabilityUnauthorize,
		CapabilitySetThreshold,
		CapabilitySetRelayer,
		CapabilitySetLimits,
		CapabilitySetTimeLock,
		CapabilitySetRecipient,
		CapabilitySetTokenAmm,
		CapabilitySetAllowedChain,
		CapabilitySetMaxSlippage,
		CapabilitySetMaxBonderFeePct,
		CapabilitySetMaxDeadline,
	}
}

// IsValid reports whether the capability is a known one.
func (c Capability) IsValid() bool {
	for _, known := range AllCapabilities() {
		if c == known {
			return true
		}
	}
	return false
}

// Grant authorizes one address to perform one capability on one entity.
type Grant struct {
	ID         uuid.UUID
	EntityID   uuid.UUID // action or vault the grant applies to
	Grantee    string    // 0x-prefixed address of the actor
	Capability Capability
	CreatedAt  time.Time
}
