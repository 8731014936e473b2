package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/allisson/vaultactions/internal/database"
	apperrors "github.com/allisson/vaultactions/internal/errors"
	vaultDomain "github.com/allisson/vaultactions/internal/vault/domain"
)

// PostgreSQLAmmRepository implements Amm persistence for PostgreSQL.
type PostgreSQLAmmRepository struct {
	db *sql.DB
}

// NewPostgreSQLAmmRepository creates a new PostgreSQL Amm repository.
func NewPostgreSQLAmmRepository(db *sql.DB) *PostgreSQLAmmRepository {
	return &PostgreSQLAmmRepository{db: db}
}

// Create registers a new Amm. Returns ErrAmmAddressTaken when an AMM is
// already registered at the address.
func (p *PostgreSQLAmmRepository) Create(ctx context.Context, amm *vaultDomain.Amm) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO amms (id, address, canonical_token, created_at)
			  VALUES ($1, $2, $3, $4)`

	_, err := querier.ExecContext(ctx, query, amm.ID, amm.Address, amm.CanonicalToken, amm.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return vaultDomain.ErrAmmAddressTaken
		}
		return apperrors.Wrap(err, "failed to create amm")
	}
	return nil
}

// GetByAddress retrieves an Amm by address. Returns ErrAmmNotFound if no AMM
// is registered at the address.
func (p *PostgreSQLAmmRepository) GetByAddress(ctx context.Context, address string) (*vaultDomain.Amm, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, address, canonical_token, created_at FROM amms WHERE address = $1`

	var amm vaultDomain.Amm
	err := querier.QueryRowContext(ctx, query, address).Scan(
		&amm.ID,
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

	return &amm, nil
}

// List retrieves AMMs with pagination, newest first.
func (p *PostgreSQLAmmRepository) List(ctx context.Context, limit, offset int) ([]*vaultDomain.Amm, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, address, canonical_token, created_at
			  FROM amms
			  ORDER BY created_at DESC
			  LIMIT $1 OFFSET $2`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list amms")
	}
	defer rows.Close() //nolint:errcheck

	var amms []*vaultDomain.Amm
	for rows.Next() {
		var amm vaultDomain.Amm
		if err := rows.Scan(&amm.ID, &amm.Address, &amm.CanonicalToken, &amm.CreatedAt); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan amm")
		}
		amms = append(amms, &amm)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate amms")
	}

	return amms, nil
}
