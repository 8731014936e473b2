// Package usecase implements the authorization registry business logic.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	authzDomain "github.com/allisson/vaultactions/internal/authz/domain"
	"github.com/allisson/vaultactions/internal/database"
)

// Event names emitted by the authorization registry.
const (
	EventAuthorized   = "Authorized"
	EventUnauthorized = "Unauthorized"
)

// grantEventPayload is the payload for Authorized and Unauthorized events.
type grantEventPayload struct {
	Who  string `json:"who"`
	What string `json:"what"`
}

// registryUseCase implements RegistryUseCase.
type registryUseCase struct {
	txManager    database.TxManager
	grantRepo    GrantRepository
	eventEmitter EventEmitter
}

// NewRegistryUseCase creates a new authorization registry use case.
func NewRegistryUseCase(
	txManager database.TxManager,
	grantRepo GrantRepository,
	eventEmitter EventEmitter,
) RegistryUseCase {
	return &registryUseCase{
		txManager:    txManager,
		grantRepo:    grantRepo,
		eventEmitter: eventEmitter,
	}
}

// Authorize grants a capability to an address on an entity. The actor must
// hold the authorize capability on the entity. The grant and its event are
// written in one transaction.
func (r *registryUseCase) Authorize(
	ctx context.Context,
	actor string,
	entityID uuid.UUID,
	grantee string,
	capability authzDomain.Capability,
) error {
	if !capability.IsValid() {
		return authzDomain.ErrInvalidCapability
	}

	if err := r.Ensure(ctx, entityID, actor, authzDomain.CapabilityAuthorize); err != nil {
		return err
	}

	return r.txManager.WithTx(ctx, func(ctx context.Context) error {
		grant := &authzDomain.Grant{
			ID:         uuid.Must(uuid.NewV7()),
			EntityID:   entityID,
			Grantee:    grantee,
			Capability: capability,
			CreatedAt:  time.Now().UTC(),
		}

		if err := r.grantRepo.Create(ctx, grant); err != nil {
			return err
		}

		return r.eventEmitter.Emit(ctx, EventAuthorized, entityID, grantEventPayload{
			Who:  grantee,
			What: string(capability),
		})
	})
}

// Unauthorize revokes a capability from an address on an entity. The actor
// must hold the unauthorize capability on the entity. Revoking a grant that
// does not exist is a no-op success.
func (r *registryUseCase) Unauthorize(
	ctx context.Context,
	actor string,
	entityID uuid.UUID,
	grantee string,
	capability authzDomain.Capability,
) error {
	if !capability.IsValid() {
		return authzDomain.ErrInvalidCapability
	}

	if err := r.Ensure(ctx, entityID, actor, authzDomain.CapabilityUnauthorize); err != nil {
		return err
	}

	return r.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := r.grantRepo.Delete(ctx, entityID, grantee, capability); err != nil {
			return err
		}

		return r.eventEmitter.Emit(ctx, EventUnauthorized, entityID, grantEventPayload{
			Who:  grantee,
			What: string(capability),
		})
	})
}

// IsAuthorized reports whether an address holds a capability on an entity.
func (r *registryUseCase) IsAuthorized(
	ctx context.Context,
	entityID uuid.UUID,
	grantee string,
	capability authzDomain.Capability,
) (bool, error) {
	return r.grantRepo.Exists(ctx, entityID, grantee, capability)
}

// Ensure returns ErrSenderNotAllowed unless the address holds the capability.
func (r *registryUseCase) Ensure(
	ctx context.Context,
	entityID uuid.UUID,
	grantee string,
	capability authzDomain.Capability,
) error {
	allowed, err := r.grantRepo.Exists(ctx, entityID, grantee, capability)
	if err != nil {
		return err
	}
	if !allowed {
		return authzDomain.ErrSenderNotAllowed
	}
	return nil
}

// Bootstrap grants every capability on the entity to the owner address.
// Called when an entity is created, inside the creation transaction, so it
// performs no permission check and emits no events.
func (r *registryUseCase) Bootstrap(ctx context.Context, entityID uuid.UUID, owner string) error {
	for _, capability := range authzDomain.AllCapabilities() {
		grant := &authzDomain.Grant{
			ID:         uuid.Must(uuid.NewV7()),
			EntityID:   entityID,
			Grantee:    owner,
			Capability: capability,
			CreatedAt:  time.Now().UTC(),
		}

		if err := r.grantRepo.Create(ctx, grant); err != nil {
			return err
		}
	}

	return nil
}

// List retrieves grants for an entity with pagination.
func (r *registryUseCase) List(
	ctx context.Context,
	entityID uuid.UUID,
	limit, offset int,
) ([]*authzDomain.Grant, error) {
	return r.grantRepo.ListByEntity(ctx, entityID, limit, offset)
}
