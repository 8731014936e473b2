package repository

import (
	"context"
	"database/sql"
	"errors"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/vaultactions/internal/database"
	apperrors "github.com/allisson/vaultactions/internal/errors"
	vaultDomain "github.com/allisson/vaultactions/internal/vault/domain"
)

// MySQLVaultRepository implements Vault and Balance persistence for MySQL.
// Uses BINARY(16) for UUID storage with transaction support via database.GetTx().
type MySQLVaultRepository struct {
	db *sql.DB
}

// NewMySQLVaultRepository creates a new MySQL Vault repository.
func NewMySQLVaultRepository(db *sql.DB) *MySQLVaultRepository {
	return &MySQLVaultRepository{db: db}
}

// Create inserts a new Vault.
func (m *MySQLVaultRepository) Create(ctx context.Context, vault *vaultDomain.Vault) error {
	querier := database.GetTx(ctx, m.db)

	id, err := vault.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal vault id")
	}

	query := `INSERT INTO vaults (id, name, fee_collector, created_at)
			  VALUES (?, ?, ?, ?)`

	_, err = querier.ExecContext(ctx, query, id, vault.Name, vault.FeeCollector, vault.CreatedAt)
	if err != nil {
		return apperrors.Wrap(err, "failed to create vault")
	}
	return nil
}

// Get retrieves a Vault by ID. Returns ErrVaultNotFound if not found.
func (m *MySQLVaultRepository) Get(ctx context.Context, vaultID uuid.UUID) (*vaultDomain.Vault, error) {
	querier := database.GetTx(ctx, m.db)

	idValue, err := vaultID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal vault id")
	}

	query := `SELECT id, name, fee_collector, created_at FROM vaults WHERE id = ?`

	var (
		vault   vaultDomain.Vault
		idBytes []byte
	)
	err = querier.QueryRowContext(ctx, query, idValue).Scan(
		&idBytes,
		&vault.Name,
		&vault.FeeCollector,
		&vault.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, vaultDomain.ErrVaultNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get vault")
	}

	if vault.ID, err = uuid.FromBytes(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal vault id")
	}

	return &vault, nil
}

// List retrieves vaults with pagination, newest first.
func (m *MySQLVaultRepository) List(ctx context.Context, limit, offset int) ([]*vaultDomain.Vault, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, name, fee_collector, created_at
			  FROM vaults
			  ORDER BY created_at DESC
			  LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list vaults")
	}
	defer rows.Close() //nolint:errcheck

	var vaults []*vaultDomain.Vault
	for rows.Next() {
		var (
			vault   vaultDomain.Vault
			idBytes []byte
		)
		if err := rows.Scan(&idBytes, &vault.Name, &vault.FeeCollector, &vault.CreatedAt); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan vault")
		}

		if vault.ID, err = uuid.FromBytes(idBytes); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal vault id")
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
func (m *MySQLVaultRepository) GetBalance(
	ctx context.Context,
	vaultID uuid.UUID,
	token string,
) (*big.Int, error) {
	querier := database.GetTx(ctx, m.db)

	idValue, err := vaultID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal vault id")
	}

	query := `SELECT amount FROM balances WHERE vault_id = ? AND token = ?`

	var amountStr string
	err = querier.QueryRowContext(ctx, query, idValue, token).Scan(&amountStr)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
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
func (m *MySQLVaultRepository) AddBalance(
	ctx context.Context,
	vaultID uuid.UUID,
	token string,
	amount *big.Int,
) error {
	querier := database.GetTx(ctx, m.db)

	id, err := uuid.Must(uuid.NewV7()).MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal balance id")
	}

	vaultIDValue, err := vaultID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal vault id")
	}

	query := `INSERT INTO balances (id, vault_id, token, amount, updated_at)
			  VALUES (?, ?, ?, ?, ?)
			  ON DUPLICATE KEY UPDATE amount = amount + VALUES(amount), updated_at = VALUES(updated_at)`

	_, err = querier.ExecContext(ctx, query, id, vaultIDValue, token, amount.String(), time.Now().UTC())
	if err != nil {
		return apperrors.Wrap(err, "failed to add balance")
	}
	return nil
}

// DeductBalance debits the vault's balance for a token. The guard in the
// WHERE clause keeps the ledger from going negative; a miss means the vault
// holds less than the requested amount.
func (m *MySQLVaultRepository) DeductBalance(
	ctx context.Context,
	vaultID uuid.UUID,
	token string,
	amount *big.Int,
) error {
	querier := database.GetTx(ctx, m.db)

	vaultIDValue, err := vaultID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal vault id")
	}

	query := `UPDATE balances
			  SET amount = amount - ?, updated_at = ?
			  WHERE vault_id = ? AND token = ? AND amount >= ?`

	result, err := querier.ExecContext(
		ctx,
		query,
		amount.String(),
		time.Now().UTC(),
		vaultIDValue,
		token,
		amount.String(),
	)
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
