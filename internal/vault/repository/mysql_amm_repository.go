package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	"github.com/allisson/vaultactions/internal/database"
	apperrors "github.com/allisson/vaultactions/internal/errors"
	vaultDomain "github.com/allisson/vaultactions/internal/vault/domain"
)

// mysqlDuplicateEntry is the MySQL error number for duplicate key violations.
const mysqlDuplicateEntry = 1062

// MySQLAmmRepository implements Amm persistence for MySQL.
type MySQLAmmRepository struct {
	db *sql.DB
}

// NewMySQLAmmRepository creates a new MySQL Amm repository.
func NewMySQLAmmRepository(db *sql.DB) *MySQLAmmRepository {
	return &MySQLAmmRepository{db: db}
}

// Create registers a new Amm. Returns ErrAmmAddressTaken when an AMM is
// already registered at the address.
func (m *MySQLAmmRepository) Create(ctx context.Context, amm *vaultDomain.Amm) error {
	querier := database.GetTx(ctx, m.db)

	id, err := amm.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal amm id")
	}

	query := `INSERT INTO amms (id, address, canonical_token, created_at)
			  VALUES (?, ?, ?, ?)`

	_, err = querier.ExecContext(ctx, query, id, amm.Address, amm.CanonicalToken, amm.CreatedAt)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
			return vaultDomain.ErrAmmAddressTaken
		}
		return apperrors.Wrap(err, "failed to create amm")
	}
	return nil
}

// GetByAddress retrieves an Amm by address. Returns ErrAmmNotFound if no AMM
// is registered at the address.
func (m *MySQLAmmRepository) GetByAddress(ctx context.Context, address string) (*vaultDomain.Amm, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, address, canonical_token, created_at FROM amms WHERE address = ?`

	var (
		amm     vaultDomain.Amm
		idBytes []byte
	)
	err := querier.QueryRowContext(ctx, query, address).Scan(
		&idBytes,
		&amm.Address,
		&amm.CanonicalToken,
		&amm.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, vaultDomain.ErrAmmNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get amm")
	}

	if amm.ID, err = uuid.FromBytes(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal amm id")
	}

	return &amm, nil
}

// List retrieves AMMs with pagination, newest first.
func (m *MySQLAmmRepository) List(ctx context.Context, limit, offset int) ([]*vaultDomain.Amm, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, address, canonical_token, created_at
			  FROM amms
			  ORDER BY created_at DESC
			  LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list amms")
	}
	defer rows.Close() //nolint:errcheck

	var amms []*vaultDomain.Amm
	for rows.Next() {
		var (
			amm     vaultDomain.Amm
			idBytes []byte
		)
		if err := rows.Scan(&idBytes, &amm.Address, &amm.CanonicalToken, &amm.CreatedAt); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan amm")
		}

		if amm.ID, err = uuid.FromBytes(idBytes); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal amm id")
		}

		amms = append(amms, &amm)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate amms")
	}

	return amms, nil
}
