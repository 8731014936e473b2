package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	eventsDomain "github.com/allisson/vaultactions/internal/events/domain"
	"github.com/allisson/vaultactions/internal/testutil"
)

func newTestEvent(name string, entityID uuid.UUID) *eventsDomain.Event {
	return &eventsDomain.Event{
		ID:       uuid.Must(uuid.NewV7()),
		Name:     name,
		EntityID: entityID,
		Payload:  `{"amount":"100"}`,
		Status:   eventsDomain.EventStatusPending,
	}
}

func TestPostgreSQLEventRepository_CreateAndListByEntity(t *testing.T) {
	testutil.SkipIfNoPostgres(t)

	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLEventRepository(db)
	ctx := context.Background()

	entityID := uuid.Must(uuid.NewV7())
	otherEntityID := uuid.Must(uuid.NewV7())

	first := newTestEvent(eventsDomain.EventThresholdSet, entityID)
	require.NoError(t, repo.Create(ctx, first))

	// Keep created_at strictly ordered between inserts.
	time.Sleep(10 * time.Millisecond)

	second := newTestEvent(eventsDomain.EventExecuted, entityID)
	require.NoError(t, repo.Create(ctx, second))
	require.NoError(t, repo.Create(ctx, newTestEvent(eventsDomain.EventExecuted, otherEntityID)))

	events, err := repo.ListByEntity(ctx, entityID, 10, 0)
	require.NoError(t, err)
	require.Len(t, events, 2)

	// Newest first.
	assert.Equal(t, second.ID, events[0].ID)
	assert.Equal(t, first.ID, events[1].ID)
	assert.Equal(t, `{"amount":"100"}`, events[0].Payload)
	assert.Equal(t, eventsDomain.EventStatusPending, events[0].Status)

	paged, err := repo.ListByEntity(ctx, entityID, 1, 1)
	require.NoError(t, err)
	require.Len(t, paged, 1)
	assert.Equal(t, first.ID, paged[0].ID)
}

func TestPostgreSQLEventRepository_GetPendingEvents(t *testing.T) {
	testutil.SkipIfNoPostgres(t)

	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLEventRepository(db)
	ctx := context.Background()

	entityID := uuid.Must(uuid.NewV7())

	oldest := newTestEvent(eventsDomain.EventBridge, entityID)
	require.NoError(t, repo.Create(ctx, oldest))

	time.Sleep(10 * time.Millisecond)

	newest := newTestEvent(eventsDomain.EventWithdraw, entityID)
	require.NoError(t, repo.Create(ctx, newest))

	delivered := newTestEvent(eventsDomain.EventExecuted, entityID)
	delivered.Status = eventsDomain.EventStatusProcessed
	require.NoError(t, repo.Create(ctx, delivered))

	// Oldest first, processed events excluded.
	pending, err := repo.GetPendingEvents(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, oldest.ID, pending[0].ID)
	assert.Equal(t, newest.ID, pending[1].ID)

	limited, err := repo.GetPendingEvents(ctx, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, oldest.ID, limited[0].ID)
}

func TestPostgreSQLEventRepository_Update(t *testing.T) {
	testutil.SkipIfNoPostgres(t)

	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLEventRepository(db)
	ctx := context.Background()

	entityID := uuid.Must(uuid.NewV7())

	event := newTestEvent(eventsDomain.EventExecuted, entityID)
	require.NoError(t, repo.Create(ctx, event))

	lastError := "connection refused"
	event.Status = eventsDomain.EventStatusFailed
	event.Retries = 3
	event.LastError = &lastError
	require.NoError(t, repo.Update(ctx, event))

	events, err := repo.ListByEntity(ctx, entityID, 1, 0)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, eventsDomain.EventStatusFailed, events[0].Status)
	assert.Equal(t, 3, events[0].Retries)
	require.NotNil(t, events[0].LastError)
	assert.Equal(t, lastError, *events[0].LastError)
	assert.Nil(t, events[0].ProcessedAt)

	processedAt := time.Now().UTC()
	event.Status = eventsDomain.EventStatusProcessed
	event.LastError = nil
	event.ProcessedAt = &processedAt
	require.NoError(t, repo.Update(ctx, event))

	events, err = repo.ListByEntity(ctx, entityID, 1, 0)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, eventsDomain.EventStatusProcessed, events[0].Status)
	assert.Nil(t, events[0].LastError)
	require.NotNil(t, events[0].ProcessedAt)
}
