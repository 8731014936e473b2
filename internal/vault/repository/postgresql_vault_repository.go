// Package repository implements vault, balance and AMM persistence.
//
// Provides PostgreSQL and MySQL implementations with transaction support via
// database.GetTx(). PostgreSQL uses native UUID types, MySQL uses BINARY(16).
// Token amounts are stored as NUMERIC(78,0)/DECIMAL(65,0) and travel through
// the driver as decimal strings.
package repository

import (
	"context"
	"database/sql"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/vaultactions/internal/database"
	apperrors "github.com/allisson/vaultactions/internal/errors"
	vaultDomain "github.com/allisson/vaultactions/internal/vault/domain"
)

// PostgreSQLVaultRepository implements Vault and Balance persistence for PostgreSQL.
type PostgreSQLVaultRepository struct {
	db *sql.DB
}

// NewPostgreSQLVaultRepository creates a new PostgreSQL Vault repository.
func NewPostgreSQLVaultRepository(db *sql.DB) *PostgreSQLVaultRepository {
	return &PostgreSQLVaultRepository{db: db}
}

// Create inserts a new Vault.
func (p *PostgreSQLVaultRepository) Create(ctx context.Context, vault *vaultDomain.Vault) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO vaults (id, name, fee_collector, created_at)
			  VALUES ($1, $2, $3, $4)`

	_, err := querier.ExecContext(ctx, query, vault.ID, vault.Name, vault.FeeCollector, vault.CreatedAt)
	if err != nil {
		return apperrors.Wrap(err, "failed to create vault")
	}
	return nil
}

// Get retrieves a Vault by ID. Returns ErrVaultNotFound if not found.
func (p *PostgreSQLVaultRepository) Get(ctx context.Context, vaultID uuid.UUID) (*vaultDomain.Vault, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, name, fee_collector, created_at FROM vaults WHERE id = $1`

	var vault vaultDomain.Vault
	err := querier.QueryRowContext(ctx, query, vaultID).Scan(
		&vault.ID,
		&vault.Name,
		&vault.FeeCollector,
		&vault.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, vaultDomain.ErrVaultNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get vault")
	}

	return &vault, nil
}

// List retrieves vaults with pagination, newest first.
func (p *PostgreSQLVaultRepository) List(ctx context.Context, limit, offset int) ([]*vaultDomain.Vault, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, name, fee_collector, created_at
			  FROM vaults
			  ORDER BY created_at DESC
			  LIMIT $1 OFFSET $2`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list vaults")
	}
	defer rows.Close() //nolint:errcheck

	var vaults []*vaultDomain.Vault
	for rows.Next() {
		var vault vaultDomain.Vault
		if err := rows.Scan(&vault.ID, &vault.Name, &vault.FeeCollector, &vault.CreatedAt); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan vault")
		}
		vaults = append(vaults, &vault)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate vaults")
	}

	return vaults, nil
}

// GetBalance retrieves the vault's balance for a token. A token the vault
// never held reads as zero.
func (p *PostgreSQLVaultRepository) GetBalance(
	ctx context.Context,
	vaultID uuid.UUID,
	token string,
) (*big.Int, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT amount FROM balances WHERE vault_id = $1 AND token = $2`

	var amountStr string
	err := querier.QueryRowContext(ctx, query, vaultID, token).Scan(&amountStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return big.NewInt(0), nil
		}
		return nil, apperrors.Wrap(err, "failed to get balance")
	}

	amount, ok := new(big.Int).SetString(amountStr, 10)
	if !ok {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidInput, "malformed balance amount %q", amountStr)
	}

	return amount, nil
}

// AddBalance credits the vault's balance for a token, creating the balance
// row on first deposit.
func (p *PostgreSQLVaultRepository) AddBalance(
	ctx context.Context,
	vaultID uuid.UUID,
	token string,
	amount *big.Int,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO balances (id, vault_id, token, amount, updated_at)
			  VALUES ($1, $2, $3, $4, $5)
			  ON CONFLICT (vault_id, token)
			  DO UPDATE SET amount = balances.amount + EXCLUDED.amount, updated_at = EXCLUDED.updated_at`

	_, err := querier.ExecContext(
		ctx,
		query,
		uuid.Must(uuid.NewV7()),
		vaultID,
		token,
		amount.String(),
		time.Now().UTC(),
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to add balance")
	}
	return nil
}

// DeductBalance debits the vault's balance for a token. The guard in the
// WHERE clause keeps the ledger from going negative; a miss means the vault
// holds less than the requested amount.
func (p *PostgreSQLVaultRepository) DeductBalance(
	ctx context.Context,
	vaultID uuid.UUID,
	token string,
	amount *big.Int,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE balances
			  SET amount = amount - $1, updated_at = $2
			  WHERE vault_id = $3 AND token = $4 AND amount >= $1`

	result, err := querier.ExecContext(ctx, query, amount.String(), time.Now().UTC(), vaultID, token)
	if err != nil {
		return apperrors.Wrap(err, "failed to deduct balance")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get affected rows for balance deduction")
	}
	if rows == 0 {
		return vaultDomain.ErrInsufficientBalance
	}

	return nil
}
