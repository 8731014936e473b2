package repository

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/vaultactions/internal/testutil"
	vaultDomain "github.com/allisson/vaultactions/internal/vault/domain"
)

func newTestVault(name string) *vaultDomain.Vault {
	return &vaultDomain.Vault{
		ID:           uuid.Must(uuid.NewV7()),
		Name:         name,
		FeeCollector: testutil.TestAddress(0xfc),
		CreatedAt:    time.Now().UTC(),
	}
}

func TestPostgreSQLVaultRepository_CreateAndGet(t *testing.T) {
	testutil.SkipIfNoPostgres(t)

	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLVaultRepository(db)
	ctx := context.Background()

	vault := newTestVault("treasury")
	require.NoError(t, repo.Create(ctx, vault))

	stored, err := repo.Get(ctx, vault.ID)
	require.NoError(t, err)
	assert.Equal(t, vault.ID, stored.ID)
	assert.Equal(t, "treasury", stored.Name)
	assert.Equal(t, vault.FeeCollector, stored.FeeCollector)

	_, err = repo.Get(ctx, uuid.Must(uuid.NewV7()))
	assert.ErrorIs(t, err, vaultDomain.ErrVaultNotFound)
}

func TestPostgreSQLVaultRepository_Balances(t *testing.T) {
	testutil.SkipIfNoPostgres(t)

	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLVaultRepository(db)
	ctx := context.Background()
	token := testutil.TestAddress(0x0a)

	vault := newTestVault("treasury")
	require.NoError(t, repo.Create(ctx, vault))

	// Unknown token reads as zero.
	balance, err := repo.GetBalance(ctx, vault.ID, token)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(0), balance)

	// First deposit creates the row, second accumulates.
	require.NoError(t, repo.AddBalance(ctx, vault.ID, token, big.NewInt(100)))
	require.NoError(t, repo.AddBalance(ctx, vault.ID, token, big.NewInt(50)))

	balance, err = repo.GetBalance(ctx, vault.ID, token)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(150), balance)

	// Deduction within balance succeeds.
	require.NoError(t, repo.DeductBalance(ctx, vault.ID, token, big.NewInt(150)))

	balance, err = repo.GetBalance(ctx, vault.ID, token)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(0), balance)

	// Deduction past the balance fails and leaves the ledger unchanged.
	err = repo.DeductBalance(ctx, vault.ID, token, big.NewInt(1))
	assert.ErrorIs(t, err, vaultDomain.ErrInsufficientBalance)
}

func TestPostgreSQLVaultRepository_LargeAmounts(t *testing.T) {
	testutil.SkipIfNoPostgres(t)

	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLVaultRepository(db)
	ctx := context.Background()
	token := testutil.TestAddress(0x0a)

	vault := newTestVault("treasury")
	require.NoError(t, repo.Create(ctx, vault))

	// 1e24: beyond int64, exercises the NUMERIC(78,0) round trip.
	large, ok := new(big.Int).SetString("1000000000000000000000000", 10)
	require.True(t, ok)

	require.NoError(t, repo.AddBalance(ctx, vault.ID, token, large))

	balance, err := repo.GetBalance(ctx, vault.ID, token)
	require.NoError(t, err)
	assert.Equal(t, large, balance)
}

func TestPostgreSQLAmmRepository(t *testing.T) {
	testutil.SkipIfNoPostgres(t)

	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLAmmRepository(db)
	ctx := context.Background()

	amm := &vaultDomain.Amm{
		ID:             uuid.Must(uuid.NewV7()),
		Address:        testutil.TestAddress(0xb1),
		CanonicalToken: testutil.TestAddress(0x0a),
		CreatedAt:      time.Now().UTC(),
	}
	require.NoError(t, repo.Create(ctx, amm))

	stored, err := repo.GetByAddress(ctx, amm.Address)
	require.NoError(t, err)
	assert.Equal(t, amm.CanonicalToken, stored.CanonicalToken)

	// Duplicate address is rejected.
	duplicate := &vaultDomain.Amm{
		ID:             uuid.Must(uuid.NewV7()),
		Address:        amm.Address,
		CanonicalToken: testutil.TestAddress(0x0b),
		CreatedAt:      time.Now().UTC(),
	}
	err = repo.Create(ctx, duplicate)
	assert.ErrorIs(t, err, vaultDomain.ErrAmmAddressTaken)

	_, err = repo.GetByAddress(ctx, testutil.TestAddress(0xff))
	assert.ErrorIs(t, err, vaultDomain.ErrAmmNotFound)

	amms, err := repo.List(ctx, 10, 0)
	require.NoError(t, err)
	assert.Len(t, amms, 1)
}
