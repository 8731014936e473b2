// Package usecase implements event recording and delivery.
package usecase

import (
	"context"

	"github.com/google/uuid"

	eventsDomain "github.com/allisson/vaultactions/internal/events/domain"
)

// EventRepository defines persistence operations for events.
// Implementations must support transaction-aware operations via context propagation.
type EventRepository interface {
	// Create stores a new event.
	Create(ctx context.Context, event *eventsDomain.Event) error

	// GetPendingEvents retrieves pending events oldest first, locking them
	// against concurrent dispatchers.
	GetPendingEvents(ctx context.Context, limit int) ([]*eventsDomain.Event, error)

	// Update updates an event's delivery state.
	Update(ctx context.Context, event *eventsDomain.Event) error

	// ListByEntity retrieves events for an entity newest first.
	ListByEntity(ctx context.Context, entityID uuid.UUID, limit, offset int) ([]*eventsDomain.Event, error)
}

// EventProcessor delivers a single event to its destination.
type EventProcessor interface {
	Process(ctx context.Context, event *eventsDomain.Event) error
}

// EmitterUseCase records events inside the caller's transaction.
type EmitterUseCase interface {
	// Emit marshals the payload, signs it and stores a pending event. The
	// write joins the transaction carried in ctx, if any.
	Emit(ctx context.Context, name string, entityID uuid.UUID, payload any) error

	// List retrieves events for an entity with pagination.
	List(ctx context.Context, entityID uuid.UUID, limit, offset int) ([]*eventsDomain.Event, error)
}

// DispatcherUseCase drains pending events and delivers them.
type DispatcherUseCase interface {
	// Start runs the dispatch loop until ctx is cancelled.
	Start(ctx context.Context) error

	// ProcessEvents performs a single dispatch pass.
	ProcessEvents(ctx context.Context) error
}
