// Package domain defines the event log domain entities.
//
// Every state change performed by an action or the authorization registry
// is recorded as an event in the same transaction as the change itself,
// then delivered asynchronously by the dispatcher. Payloads are HMAC-signed
// at write time so downstream consumers can detect tampering.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventStatus represents the delivery status of an event.
type EventStatus string

const (
	EventStatusPending   EventStatus = "pending"
	EventStatusProcessed EventStatus = "processed"
	EventStatusFailed    EventStatus = "failed"
)

// Event names emitted by actions and vaults.
const (
	EventExecuted           = "Executed"
	EventWithdraw           = "Withdraw"
	EventBridge             = "Bridge"
	EventThresholdSet       = "ThresholdSet"
	EventRelayerSet         = "RelayerSet"
	EventLimitsSet          = "LimitsSet"
	EventTimeLockSet        = "TimeLockSet"
	EventRecipientSet       = "RecipientSet"
	EventTokenAmmSet        = "TokenAmmSet"
	EventAllowedChainSet    = "AllowedChainSet"
	EventMaxSlippageSet     = "MaxSlippageSet"
	EventMaxBonderFeePctSet = "MaxBonderFeePctSet"
	EventMaxDeadlineSet     = "MaxDeadlineSet"
)

// Event is a signed record of one state change on one entity.
type Event struct {
	ID          uuid.UUID
	Name        string
	EntityID    uuid.UUID // action, vault or registry entity the event belongs to
	Payload     string    // JSON document
	Signature   string    // hex-encoded HMAC-SHA256 of the payload, empty if signing is disabled
	Status      EventStatus
	Retries     int
	LastError   *string
	ProcessedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
