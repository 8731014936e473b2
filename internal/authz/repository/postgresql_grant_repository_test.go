package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authzDomain "github.com/allisson/vaultactions/internal/authz/domain"
	"github.com/allisson/vaultactions/internal/testutil"
)

func newTestGrant(entityID uuid.UUID, grantee string, capability authzDomain.Capability) *authzDomain.Grant {
	return &authzDomain.Grant{
		ID:         uuid.Must(uuid.NewV7()),
		EntityID:   entityID,
		Grantee:    grantee,
		Capability: capability,
		CreatedAt:  time.Now().UTC(),
	}
}

func TestPostgreSQLGrantRepository_Create(t *testing.T) {
	testutil.SkipIfNoPostgres(t)

	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLGrantRepository(db)
	ctx := context.Background()

	entityID := uuid.Must(uuid.NewV7())
	grantee := testutil.TestAddress(0x01)

	grant := newTestGrant(entityID, grantee, authzDomain.CapabilityCall)
	require.NoError(t, repo.Create(ctx, grant))

	exists, err := repo.Exists(ctx, entityID, grantee, authzDomain.CapabilityCall)
	require.NoError(t, err)
	assert.True(t, exists)

	// Creating the same grant again must be a no-op.
	duplicate := newTestGrant(entityID, grantee, authzDomain.CapabilityCall)
	require.NoError(t, repo.Create(ctx, duplicate))

	grants, err := repo.ListByEntity(ctx, entityID, 10, 0)
	require.NoError(t, err)
	assert.Len(t, grants, 1)
}

func TestPostgreSQLGrantRepository_Delete(t *testing.T) {
	testutil.SkipIfNoPostgres(t)

	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLGrantRepository(db)
	ctx := context.Background()

	entityID := uuid.Must(uuid.NewV7())
	grantee := testutil.TestAddress(0x02)

	require.NoError(t, repo.Create(ctx, newTestGrant(entityID, grantee, authzDomain.CapabilitySetThreshold)))

	err := repo.Delete(ctx, entityID, grantee, authzDomain.CapabilitySetThreshold)
	require.NoError(t, err)

	exists, err := repo.Exists(ctx, entityID, grantee, authzDomain.CapabilitySetThreshold)
	require.NoError(t, err)
	assert.False(t, exists)

	// Deleting a missing grant is a no-op.
	err = repo.Delete(ctx, entityID, grantee, authzDomain.CapabilitySetThreshold)
	assert.NoError(t, err)
}

func TestPostgreSQLGrantRepository_Exists_ScopedToEntity(t *testing.T) {
	testutil.SkipIfNoPostgres(t)

	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLGrantRepository(db)
	ctx := context.Background()

	entityA := uuid.Must(uuid.NewV7())
	entityB := uuid.Must(uuid.NewV7())
	grantee := testutil.TestAddress(0x03)

	require.NoError(t, repo.Create(ctx, newTestGrant(entityA, grantee, authzDomain.CapabilityCall)))

	exists, err := repo.Exists(ctx, entityB, grantee, authzDomain.CapabilityCall)
	require.NoError(t, err)
	assert.False(t, exists, "grant on entity A must not authorize entity B")
}

func TestPostgreSQLGrantRepository_ListByEntity_Pagination(t *testing.T) {
	testutil.SkipIfNoPostgres(t)

	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLGrantRepository(db)
	ctx := context.Background()

	entityID := uuid.Must(uuid.NewV7())
	grantee := testutil.TestAddress(0x04)

	capabilities := []authzDomain.Capability{
		authzDomain.CapabilityCall,
		authzDomain.CapabilitySetThreshold,
		authzDomain.CapabilitySetRelayer,
	}
	for _, capability := range capabilities {
		require.NoError(t, repo.Create(ctx, newTestGrant(entityID, grantee, capability)))
	}

	page1, err := repo.ListByEntity(ctx, entityID, 2, 0)
	require.NoError(t, err)
	assert.Len(t, page1, 2)

	page2, err := repo.ListByEntity(ctx, entityID, 2, 2)
	require.NoError(t, err)
	assert.Len(t, page2, 1)
}
