// Package usecase defines business logic interfaces for the authorization registry.
package usecase

import (
	"context"

	"github.com/google/uuid"

	authzDomain "github.com/allisson/vaultactions/internal/authz/domain"
)

// GrantRepository defines persistence operations for capability grants.
// Implementations must support transaction-aware operations via context propagation.
type GrantRepository interface {
	// Create stores a new grant. Creating an existing grant is a no-op.
	Create(ctx context.Context, grant *authzDomain.Grant) error

	// Delete removes a grant. Removing an absent grant is a no-op.
	Delete(ctx context.Context, entityID uuid.UUID, grantee string, capability authzDomain.Capability) error

	// Exists reports whether a grant exists.
	Exists(ctx context.Context, entityID uuid.UUID, grantee string, capability authzDomain.Capability) (bool, error)

	// ListByEntity retrieves grants for an entity ordered by creation time.
	ListByEntity(ctx context.Context, entityID uuid.UUID, limit, offset int) ([]*authzDomain.Grant, error)
}

// EventEmitter records a domain event inside the caller's transaction.
// Implemented by the events module.
type EventEmitter interface {
	Emit(ctx context.Context, name string, entityID uuid.UUID, payload any) error
}

// RegistryUseCase defines the authorization registry operations.
//
// Authorize and Unauthorize are themselves permissioned: the actor must hold
// the authorize (respectively unauthorize) capability on the entity. Bootstrap
// seeds the initial owner grants and is only called when an entity is created.
type RegistryUseCase interface {
	// Authorize grants a capability to an address on an entity.
	Authorize(ctx context.Context, actor string, entityID uuid.UUID, grantee string, capability authzDomain.Capability) error

	// Unauthorize revokes a capability from an address on an entity.
	// Revoking an absent grant is an idempotent no-op success.
	Unauthorize(ctx context.Context, actor string, entityID uuid.UUID, grantee string, capability authzDomain.Capability) error

	// IsAuthorized reports whether an address holds a capability on an entity.
	IsAuthorized(ctx context.Context, entityID uuid.UUID, grantee string, capability authzDomain.Capability) (bool, error)

	// Ensure returns ErrSenderNotAllowed unless the address holds the capability.
	Ensure(ctx context.Context, entityID uuid.UUID, grantee string, capability authzDomain.Capability) error

	// Bootstrap grants every capability on the entity to the owner address.
	Bootstrap(ctx context.Context, entityID uuid.UUID, owner string) error

	// List retrieves grants for an entity with pagination.
	List(ctx context.Context, entityID uuid.UUID, limit, offset int) ([]*authzDomain.Grant, error)
}
