package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/allisson/vaultactions/internal/errors"
	eventsDomain "github.com/allisson/vaultactions/internal/events/domain"
	eventsService "github.com/allisson/vaultactions/internal/events/service"
)

// emitterUseCase implements EmitterUseCase.
type emitterUseCase struct {
	eventRepo EventRepository
	signer    eventsService.Signer
}

// NewEmitterUseCase creates a new event emitter use case.
func NewEmitterUseCase(eventRepo EventRepository, signer eventsService.Signer) EmitterUseCase {
	return &emitterUseCase{
		eventRepo: eventRepo,
		signer:    signer,
	}
}

// Emit marshals the payload, signs it and stores a pending event.
// The repository picks up the transaction carried in ctx, so an event
// emitted inside a guard pipeline is rolled back with the pipeline.
func (e *emitterUseCase) Emit(ctx context.Context, name string, entityID uuid.UUID, payload any) error {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return apperrors.Wrapf(err, "failed to marshal payload for event %s", name)
	}

	signature, err := e.signer.Sign(name, entityID, payloadJSON)
	if err != nil {
		return err
	}

	event := &eventsDomain.Event{
		ID:        uuid.Must(uuid.NewV7()),
		Name:      name,
		EntityID:  entityID,
		Payload:   string(payloadJSON),
		Signature: signature,
		Status:    eventsDomain.EventStatusPending,
		CreatedAt: time.Now().UTC(),
	}

	return e.eventRepo.Create(ctx, event)
}

// List retrieves events for an entity with pagination.
func (e *emitterUseCase) List(
	ctx context.Context,
	entityID uuid.UUID,
	limit, offset int,
) ([]*eventsDomain.Event, error) {
	return e.eventRepo.ListByEntity(ctx, entityID, limit, offset)
}
