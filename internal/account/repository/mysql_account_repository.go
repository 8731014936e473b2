package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	accountDomain "github.com/allisson/vaultactions/internal/account/domain"
	"github.com/allisson/vaultactions/internal/database"
	apperrors "github.com/allisson/vaultactions/internal/errors"
)

// mysqlDuplicateEntry is the MySQL error number for unique constraint violations.
const mysqlDuplicateEntry = 1062

// MySQLAccountRepository implements Account persistence for MySQL.
// Uses BINARY(16) for UUID storage with transaction support via database.GetTx().
type MySQLAccountRepository struct {
	db *sql.DB
}

// NewMySQLAccountRepository creates a new MySQL Account repository.
func NewMySQLAccountRepository(db *sql.DB) *MySQLAccountRepository {
	return &MySQLAccountRepository{db: db}
}

// Create inserts a new Account. Returns ErrAddressTaken when the address is
// already registered.
func (m *MySQLAccountRepository) Create(ctx context.Context, account *accountDomain.Account) error {
	querier := database.GetTx(ctx, m.db)

	id, err := account.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal account id")
	}

	query := `INSERT INTO accounts (id, secret, name, address, is_active, created_at)
			  VALUES (?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		account.Secret,
		account.Name,
		account.Address,
		account.IsActive,
		account.CreatedAt,
	)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
			return accountDomain.ErrAddressTaken
		}
		return apperrors.Wrap(err, "failed to create account")
	}
	return nil
}

// Update modifies an existing Account.
func (m *MySQLAccountRepository) Update(ctx context.Context, account *accountDomain.Account) error {
	querier := database.GetTx(ctx, m.db)

	id, err := account.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal account id")
	}

	query := `UPDATE accounts
			  SET secret = ?,
				  name = ?,
				  address = ?,
				  is_active = ?
			  WHERE id = ?`

	_, err = querier.ExecContext(
		ctx,
		query,
		account.Secret,
		account.Name,
		account.Address,
		account.IsActive,
		id,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update account")
	}

	return nil
}

// Get retrieves an Account by ID.
func (m *MySQLAccountRepository) Get(
	ctx context.Context,
	accountID uuid.UUID,
) (*accountDomain.Account, error) {
	querier := database.GetTx(ctx, m.db)

	id, err := accountID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal account id")
	}

	query := `SELECT id, secret, name, address, is_active, created_at FROM accounts WHERE id = ?`

	return scanMySQLAccount(querier.QueryRowContext(ctx, query, id))
}

// GetByAddress retrieves an Account by its address.
func (m *MySQLAccountRepository) GetByAddress(
	ctx context.Context,
	address string,
) (*accountDomain.Account, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, secret, name, address, is_active, created_at FROM accounts WHERE address = ?`

	return scanMySQLAccount(querier.QueryRowContext(ctx, query, address))
}

// List retrieves accounts ordered by creation time descending.
func (m *MySQLAccountRepository) List(
	ctx context.Context,
	limit, offset int,
) ([]*accountDomain.Account, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, secret, name, address, is_active, created_at
			  FROM accounts
			  ORDER BY created_at DESC
			  LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list accounts")
	}
	defer rows.Close() //nolint:errcheck

	var accounts []*accountDomain.Account
	for rows.Next() {
		var (
			account accountDomain.Account
			idBytes []byte
		)

		err := rows.Scan(
			&idBytes,
			&account.Secret,
			&account.Name,
			&account.Address,
			&account.IsActive,
			&account.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan account")
		}

		if account.ID, err = uuid.FromBytes(idBytes); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal account id")
		}

		accounts = append(accounts, &account)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate accounts")
	}

	return accounts, nil
}

// scanMySQLAccount reads a single account row, decoding the BINARY(16) UUID.
func scanMySQLAccount(row *sql.Row) (*accountDomain.Account, error) {
	var (
		account accountDomain.Account
		idBytes []byte
	)

	err := row.Scan(
		&idBytes,
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

	if account.ID, err = uuid.FromBytes(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal account id")
	}

	return &account, nil
}
