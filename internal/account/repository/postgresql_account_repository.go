// Package repository implements account persistence.
//
// Provides PostgreSQL and MySQL implementations with transaction support via
// database.GetTx(). PostgreSQL uses native UUID types, MySQL uses BINARY(16).
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"

	accountDomain "github.com/allisson/vaultactions/internal/account/domain"
	"github.com/allisson/vaultactions/internal/database"
	apperrors "github.com/allisson/vaultactions/internal/errors"
)

// PostgreSQLAccountRepository implements Account persistence for PostgreSQL.
type PostgreSQLAccountRepository struct {
	db *sql.DB
}

// NewPostgreSQLAccountRepository creates a new PostgreSQL Account repository.
func NewPostgreSQLAccountRepository(db *sql.DB) *PostgreSQLAccountRepository {
	return &PostgreSQLAccountRepository{db: db}
}

// Create inserts a new Account. Returns ErrAddressTaken when the address is
// already registered.
func (p *PostgreSQLAccountRepository) Create(ctx context.Context, account *accountDomain.Account) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO accounts (id, secret, name, address, is_active, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := querier.ExecContext(
		ctx,
		query,
		account.ID,
		account.Secret,
		account.Name,
		account.Address,
		account.IsActive,
		account.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return accountDomain.ErrAddressTaken
		}
		return apperrors.Wrap(err, "failed to create account")
	}
	return nil
}

// Update modifies an existing Account.
func (p *PostgreSQLAccountRepository) Update(ctx context.Context, account *accountDomain.Account) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE accounts
			  SET secret = $1,
				  name = $2,
				  address = $3,
				  is_active = $4
			  WHERE id = $5`

	_, err := querier.ExecContext(
		ctx,
		query,
		account.Secret,
		account.Name,
		account.Address,
		account.IsActive,
		account.ID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update account")
	}

	return nil
}

// Get retrieves an Account by ID.
func (p *PostgreSQLAccountRepository) Get(
	ctx context.Context,
	accountID uuid.UUID,
) (*accountDomain.Account, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, secret, name, address, is_active, created_at FROM accounts WHERE id = $1`

	var account accountDomain.Account

	err := querier.QueryRowContext(ctx, query, accountID).Scan(
		&account.ID,
		&account.Secret,
		&account.Name,
		&account.Address,
		&account.IsActive,
		&account.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, accountDomain.ErrAccountNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get account")
	}

	return &account, nil
}

// GetByAddress retrieves an Account by its address.
func (p *PostgreSQLAccountRepository) GetByAddress(
	ctx context.Context,
	address string,
) (*accountDomain.Account, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, secret, name, address, is_active, created_at FROM accounts WHERE address = $1`

	var account accountDomain.Account

	err := querier.QueryRowContext(ctx, query, address).Scan(
		&account.ID,
		&account.Secret,
		&account.Name,
		&account.Address,
		&account.IsActive,
		&account.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, accountDomain.ErrAccountNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get account by address")
	}

	return &account, nil
}

// List retrieves accounts ordered by creation time descending.
func (p *PostgreSQLAccountRepository) List(
	ctx context.Context,
	limit, offset int,
) ([]*accountDomain.Account, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, secret, name, address, is_active, created_at
			  FROM accounts
			  ORDER BY created_at DESC
			  LIMIT $1 OFFSET $2`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list accounts")
	}
	defer rows.Close() //nolint:errcheck

	var accounts []*accountDomain.Account
	for rows.Next() {
		var account accountDomain.Account

		err := rows.Scan(
			&account.ID,
			&account.Secret,
			&account.Name,
			&account.Address,
			&account.IsActive,
			&account.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan account")
		}

		accounts = append(accounts, &account)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate accounts")
	}

	return accounts, nil
}
