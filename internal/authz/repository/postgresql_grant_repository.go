// Package repository implements grant persistence for the authorization registry.
//
// Provides PostgreSQL and MySQL implementations with transaction support via
// database.GetTx(). PostgreSQL uses native UUID types, MySQL uses BINARY(16).
package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	authzDomain "github.com/allisson/vaultactions/internal/authz/domain"
	"github.com/allisson/vaultactions/internal/database"
	apperrors "github.com/allisson/vaultactions/internal/errors"
)

// PostgreSQLGrantRepository implements Grant persistence for PostgreSQL.
type PostgreSQLGrantRepository struct {
	db *sql.DB
}

// NewPostgreSQLGrantRepository creates a new PostgreSQL Grant repository.
func NewPostgreSQLGrantRepository(db *sql.DB) *PostgreSQLGrantRepository {
	return &PostgreSQLGrantRepository{db: db}
}

// Create inserts a new Grant. Creating a grant that already exists is a
// no-op, so authorizing twice is safe.
func (p *PostgreSQLGrantRepository) Create(ctx context.Context, grant *authzDomain.Grant) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO grants (id, entity_id, grantee, capability, created_at)
			  VALUES ($1, $2, $3, $4, $5)
			  ON CONFLICT (entity_id, grantee, capability) DO NOTHING`

	_, err := querier.ExecContext(
		ctx,
		query,
		grant.ID,
		grant.EntityID,
		grant.Grantee,
		grant.Capability,
		grant.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create grant")
	}
	return nil
}

// Delete removes a Grant. Removing an absent grant is a no-op.
func (p *PostgreSQLGrantRepository) Delete(
	ctx context.Context,
	entityID uuid.UUID,
	grantee string,
	capability authzDomain.Capability,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM grants WHERE entity_id = $1 AND grantee = $2 AND capability = $3`

	_, err := querier.ExecContext(ctx, query, entityID, grantee, capability)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete grant")
	}

	return nil
}

// Exists reports whether a Grant exists for the entity, grantee and capability.
func (p *PostgreSQLGrantRepository) Exists(
	ctx context.Context,
	entityID uuid.UUID,
	grantee string,
	capability authzDomain.Capability,
) (bool, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT EXISTS (
				  SELECT 1 FROM grants WHERE entity_id = $1 AND grantee = $2 AND capability = $3
			  )`

	var exists bool
	err := querier.QueryRowContext(ctx, query, entityID, grantee, capability).Scan(&exists)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to check grant existence")
	}

	return exists, nil
}

// ListByEntity retrieves grants for an entity ordered by creation time.
func (p *PostgreSQLGrantRepository) ListByEntity(
	ctx context.Context,
	entityID uuid.UUID,
	limit, offset int,
) ([]*authzDomain.Grant, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, entity_id, grantee, capability, created_at
			  FROM grants
			  WHERE entity_id = $1
			  ORDER BY created_at ASC
			  LIMIT $2 OFFSET $3`

	rows, err := querier.QueryContext(ctx, query, entityID, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list grants")
	}
	defer rows.Close() //nolint:errcheck

	var grants []*authzDomain.Grant
	for rows.Next() {
		var grant authzDomain.Grant

		err := rows.Scan(
			&grant.ID,
			&grant.EntityID,
			&grant.Grantee,
			&grant.Capability,
			&grant.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan grant")
		}

		grants = append(grants, &grant)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate grants")
	}

	return grants, nil
}
